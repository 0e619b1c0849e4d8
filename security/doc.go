// Package security builds client TLS settings for the HTTP adapter.
//
//	tlsCfg, err := (&security.TLSConfig{CAFile: "/etc/ssl/internal-ca.pem"}).Build()
//
// The tlstest subpackage generates throwaway certificates for tests.
package security
