package security

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/kbukum/rxhttp/errors"
	"github.com/kbukum/rxhttp/validation"
)

// TLSConfig configures TLS for outgoing connections. The zero value means
// the transport defaults.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is a PEM bundle used instead of the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile hold the client certificate for mutual TLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the name verified against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is "1.2" or "1.3". Defaults to 1.2.
	MinVersion string `yaml:"min_version" mapstructure:"min_version" validate:"omitempty,oneof=1.2 1.3"`
}

var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// IsEnabled reports whether any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.KeyFile != "" || c.ServerName != "" || c.MinVersion != ""
}

// Validate checks the settings without touching the filesystem.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New()
	if c.KeyFile == "" {
		v.Custom(c.CertFile == "", "key_file", "is required with cert_file")
	}
	if c.CertFile == "" {
		v.Custom(c.KeyFile == "", "cert_file", "is required with key_file")
	}
	return v.Err()
}

// Build returns the *tls.Config for these settings, or nil when none are
// set.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion := uint16(tls.VersionTLS12)
	if v, ok := tlsVersions[c.MinVersion]; ok {
		minVersion = v
	}
	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in via skip_verify
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, tlsError("failed to read ca_file", c.CAFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, tlsError("no certificates in ca_file", c.CAFile, nil)
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, tlsError("failed to load client certificate", c.CertFile, err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

func tlsError(msg, file string, cause error) *errors.AppError {
	err := errors.New(errors.ErrCodeInvalidInput, "tls: "+msg).WithDetail("file", file)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
