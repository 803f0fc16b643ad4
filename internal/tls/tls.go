// Package tls builds the TLS client configuration used for the STARTTLS
// upgrade of the SMTP session.
package tls

import "crypto/tls"

// ClientConfig returns a TLS configuration for connecting to serverName.
// Certificate verification is always on unless skipVerify is explicitly set,
// which is only meant for relays with self-signed certificates.
func ClientConfig(serverName string, skipVerify bool) *tls.Config {
	return &tls.Config{
		ServerName:         serverName,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: skipVerify,
	}
}
