package client

import (
	"net/http"

	"oras.land/oras-go/v2/registry/remote/retry"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "bindle-go"

// Option is an interface for configuring the Client.
type Option interface {
	Apply(*Options)
}

// OptionFunc is a function type that implements the Option interface.
type OptionFunc func(*Options)

func (f OptionFunc) Apply(opts *Options) {
	f(opts)
}

// Options collects the settings a Client is built from.
type Options struct {
	// AllowInsecure disables TLS certificate verification.
	AllowInsecure bool
	// Authenticator is applied to every request. Defaults to NoAuth.
	Authenticator Authenticator
	// Transport is the base round tripper. Defaults to a clone of http.DefaultTransport.
	Transport http.RoundTripper
	// RetryPolicy decides about retries of failed requests. Defaults to retry.DefaultPolicy.
	RetryPolicy retry.Policy
	UserAgent   string
}

// WithInsecure disables TLS certificate verification of the server.
func WithInsecure(insecure bool) Option {
	return OptionFunc(func(opts *Options) {
		opts.AllowInsecure = insecure
	})
}

// WithAuthenticator sets the authentication applied to every request.
func WithAuthenticator(auth Authenticator) Option {
	return OptionFunc(func(opts *Options) {
		opts.Authenticator = auth
	})
}

// WithTransport sets the base transport. TLS settings derived from
// WithInsecure are only applied to *http.Transport values.
func WithTransport(transport http.RoundTripper) Option {
	return OptionFunc(func(opts *Options) {
		opts.Transport = transport
	})
}

// WithRetryPolicy overrides the retry behaviour of the client.
func WithRetryPolicy(policy retry.Policy) Option {
	return OptionFunc(func(opts *Options) {
		opts.RetryPolicy = policy
	})
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return OptionFunc(func(opts *Options) {
		opts.UserAgent = userAgent
	})
}
