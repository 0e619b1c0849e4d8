package httpclient

import (
	"strings"
	"time"

	"github.com/kbukum/rxhttp/errors"
	"github.com/kbukum/rxhttp/security"
	"github.com/kbukum/rxhttp/validation"
)

const (
	defaultName    = "http"
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client. It embeds into service configs and
// loads through config.LoadConfig.
type Config struct {
	// Name identifies the client in logs, spans and metrics. Defaults to "http".
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds a whole request, including the upload body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// RateLimit throttles outgoing requests. Zero RPS disables it.
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`

	// H2C speaks cleartext HTTP/2 (prior knowledge) instead of HTTP/1.1.
	// Only valid for http:// endpoints.
	H2C bool `yaml:"h2c" mapstructure:"h2c"`

	// TLS configures certificate verification for https:// endpoints.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// RateLimitConfig is a token bucket: RPS requests per second with bursts of
// up to Burst requests.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" mapstructure:"rps" validate:"gte=0"`
	Burst int     `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// Enabled reports whether rate limiting is configured.
func (r RateLimitConfig) Enabled() bool {
	return r.RPS > 0
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 1
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.H2C && (strings.HasPrefix(c.BaseURL, "https://") || c.TLS.IsEnabled()) {
		return errors.Validation("h2c: requires an http:// base_url and no tls settings")
	}
	return c.TLS.Validate()
}
