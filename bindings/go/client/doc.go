// Package client talks to a bindle server to fetch and push invoices and
// parcels.
//
// A client is obtained from a ConnectionInfo, which bundles the base URL of
// the server, whether TLS verification should be skipped and the
// authentication to use. The authentication strategy is chosen once when the
// ConnectionInfo is created: with both a username and a password requests
// carry HTTP basic authentication, otherwise they carry none.
//
//	info := client.NewConnectionInfo("https://bindle.example.com/v1", false, "user", "secret")
//	c, err := info.Client()
//	if err != nil {
//		return err
//	}
//	inv, err := c.GetInvoice(ctx, "example.com/weather/0.1.0")
//
// Failures reported by the server surface as *StatusError, which matches
// ErrNotFound and ErrUnauthorized with errors.Is. Parcel content is verified
// against its sha256 fingerprint and ErrDigestMismatch is returned when it
// does not match.
package client
