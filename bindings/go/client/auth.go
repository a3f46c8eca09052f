package client

import "net/http"

// Authenticator attaches authorization to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth sends requests without any authorization.
type NoAuth struct{}

func (NoAuth) Apply(*http.Request) error {
	return nil
}

// BasicAuth sends requests with HTTP basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

func (b BasicAuth) Apply(req *http.Request) error {
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

// AuthenticatorFor selects the authentication for the given credentials.
// Basic authentication is only used if both username and password are
// non-empty, an empty password selects NoAuth.
func AuthenticatorFor(username, password string) Authenticator {
	if username != "" && password != "" {
		return BasicAuth{Username: username, Password: password}
	}
	return NoAuth{}
}
