package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/opencontainers/go-digest"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"
	"oras.land/oras-go/v2/registry/remote/retry"

	"ocm.software/open-component-model/bindle/bindings/go/invoice"
)

const (
	invoicePath = "_i"

	mediaTypeOctetStream = "application/octet-stream"

	// maxErrorBody limits how much of an error response is kept in a StatusError.
	maxErrorBody = 4 << 10
)

// Client is a bindle server client. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	auth      Authenticator
	userAgent string
}

// New creates a client for the server at baseURL, which is the root of the
// bindle API, e.g. https://bindle.example.com/v1.
func New(baseURL string, opts ...Option) (*Client, error) {
	options := &Options{}
	for _, opt := range opts {
		opt.Apply(options)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	if options.Authenticator == nil {
		options.Authenticator = NoAuth{}
	}
	if options.UserAgent == "" {
		options.UserAgent = DefaultUserAgent
	}

	base := options.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	if transport, ok := base.(*http.Transport); ok && options.AllowInsecure {
		transport = transport.Clone()
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{}
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // explicitly requested by the caller
		base = transport
	}
	retrying := retry.NewTransport(base)
	if options.RetryPolicy != nil {
		policy := options.RetryPolicy
		retrying.Policy = func() retry.Policy { return policy }
	}

	return &Client{
		baseURL:   u,
		http:      &http.Client{Transport: retrying},
		auth:      options.Authenticator,
		userAgent: options.UserAgent,
	}, nil
}

// BaseURL returns the root of the bindle API the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CreateInvoiceResponse is the answer of the server to a new invoice.
type CreateInvoiceResponse struct {
	Invoice invoice.Invoice `toml:"invoice"`
	// Missing lists the parcels the server does not have yet.
	Missing []invoice.Label `toml:"missing,omitempty"`
}

// GetInvoice fetches the invoice with the given id ("name/version").
func (c *Client) GetInvoice(ctx context.Context, id string) (_ *invoice.Invoice, err error) {
	logger := c.logger(ctx).With(slog.String("invoice", id))
	logger.DebugContext(ctx, "fetching invoice")

	resp, err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath(invoicePath, id), nil, "", invoice.MediaTypeTOML)
	if err != nil {
		return nil, fmt.Errorf("fetching invoice %q failed: %w", id, err)
	}
	defer func() {
		err = errors.Join(err, resp.Body.Close())
	}()

	inv, err := invoice.Decode(resp.Body, invoice.FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("fetching invoice %q failed: %w", id, err)
	}
	logger.DebugContext(ctx, "fetched invoice", slog.Int("parcels", len(inv.Parcels)))
	return inv, nil
}

// CreateInvoice pushes an invoice to the server.
func (c *Client) CreateInvoice(ctx context.Context, inv *invoice.Invoice) (_ *CreateInvoiceResponse, err error) {
	var body bytes.Buffer
	if err := invoice.Encode(&body, inv, invoice.FormatTOML); err != nil {
		return nil, err
	}

	c.logger(ctx).DebugContext(ctx, "creating invoice", slog.String("invoice", inv.ID()))
	resp, err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath(invoicePath), body.Bytes(), invoice.MediaTypeTOML, invoice.MediaTypeTOML)
	if err != nil {
		return nil, fmt.Errorf("creating invoice %q failed: %w", inv.ID(), err)
	}
	defer func() {
		err = errors.Join(err, resp.Body.Close())
	}()

	var created CreateInvoiceResponse
	if _, err := toml.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding response for invoice %q failed: %w", inv.ID(), err)
	}
	return &created, nil
}

// GetParcel fetches the content of a parcel of the given invoice and verifies
// it against the fingerprint.
func (c *Client) GetParcel(ctx context.Context, id, sha string) (_ []byte, err error) {
	expected, err := invoice.Fingerprint(sha)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, c.parcelURL(id, sha), nil, "", "")
	if err != nil {
		return nil, fmt.Errorf("fetching parcel %s of %q failed: %w", sha, id, err)
	}
	defer func() {
		err = errors.Join(err, resp.Body.Close())
	}()

	var buf bytes.Buffer
	verifier := expected.Verifier()
	if _, err := io.Copy(io.MultiWriter(&buf, verifier), resp.Body); err != nil {
		return nil, fmt.Errorf("reading parcel %s of %q failed: %w", sha, id, err)
	}
	if !verifier.Verified() {
		return nil, fmt.Errorf("%w: %s of %q", ErrDigestMismatch, expected, id)
	}
	return buf.Bytes(), nil
}

// CreateParcel uploads the content of a parcel listed in the given invoice.
// The content is verified against the fingerprint before it is sent.
func (c *Client) CreateParcel(ctx context.Context, id, sha string, data []byte) (err error) {
	expected, err := invoice.Fingerprint(sha)
	if err != nil {
		return err
	}
	if actual := digest.SHA256.FromBytes(data); actual != expected {
		return fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, expected, actual)
	}

	resp, err := c.do(ctx, http.MethodPost, c.parcelURL(id, sha), data, mediaTypeOctetStream, "")
	if err != nil {
		return fmt.Errorf("creating parcel %s of %q failed: %w", sha, id, err)
	}
	return resp.Body.Close()
}

// ParcelHandler receives the verified content of a fetched parcel. It may be
// called concurrently.
type ParcelHandler func(ctx context.Context, parcel invoice.Parcel, data []byte) error

// FetchParcels fetches the given parcels of an invoice with at most limit
// requests in flight (no limit if limit <= 0) and hands each one to handle.
// The first error cancels the remaining fetches and is returned.
func (c *Client) FetchParcels(ctx context.Context, id string, parcels []invoice.Parcel, limit int, handle ParcelHandler) error {
	logger := c.logger(ctx).With(slog.String("invoice", id))
	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for _, p := range parcels {
		eg.Go(func() error {
			data, err := c.GetParcel(egctx, id, p.Label.SHA256)
			if err != nil {
				return err
			}
			logger.DebugContext(egctx, "fetched parcel", slog.String("parcel", p.String()), slog.Int("size", len(data)))
			return handle(egctx, p, data)
		})
	}
	return eg.Wait()
}

func (c *Client) parcelURL(id, sha string) *url.URL {
	return c.baseURL.JoinPath(invoicePath, id+"@"+sha)
}

func (c *Client) logger(ctx context.Context) *slog.Logger {
	return slogcontext.FromCtx(ctx).With(slog.String("realm", "bindle"), slog.String("server", c.baseURL.Redacted()))
}

// do sends a request and turns any non 2xx answer into a *StatusError.
// On success the caller owns the response body.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body []byte, contentType, accept string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if err := c.auth.Apply(req); err != nil {
		return nil, fmt.Errorf("applying authentication failed: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &StatusError{
		Method:     method,
		URL:        u.Redacted(),
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
}
