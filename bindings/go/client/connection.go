package client

// ConnectionInfo describes how to reach a bindle server.
type ConnectionInfo struct {
	BaseURL       string
	AllowInsecure bool
	auth          Authenticator
}

// NewConnectionInfo creates connection info for the server at baseURL.
// If both username and password are non-empty, requests use basic
// authentication, otherwise they are sent without credentials. An empty
// password therefore means no authentication, even with a username.
func NewConnectionInfo(baseURL string, allowInsecure bool, username, password string) *ConnectionInfo {
	return &ConnectionInfo{
		BaseURL:       baseURL,
		AllowInsecure: allowInsecure,
		auth:          AuthenticatorFor(username, password),
	}
}

// Authenticator returns the authentication selected for this connection.
func (c *ConnectionInfo) Authenticator() Authenticator {
	if c.auth == nil {
		return NoAuth{}
	}
	return c.auth
}

// Client creates a client for the connection. Additional options are applied
// after the connection settings and may override them.
func (c *ConnectionInfo) Client(opts ...Option) (*Client, error) {
	base := []Option{
		WithInsecure(c.AllowInsecure),
		WithAuthenticator(c.Authenticator()),
	}
	return New(c.BaseURL, append(base, opts...)...)
}
