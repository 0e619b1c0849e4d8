package httpclient

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/rxhttp/errors"
	"github.com/kbukum/rxhttp/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.Name != "http" {
		t.Errorf("expected default name http, got %q", cfg.Name)
	}
	if cfg.RateLimit.Enabled() {
		t.Error("expected rate limit disabled by default")
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Name: "files", Timeout: 5 * time.Second, RateLimit: RateLimitConfig{RPS: 10, Burst: 4}}
	cfg.ApplyDefaults()
	if cfg.Timeout != 5*time.Second || cfg.Name != "files" || cfg.RateLimit.Burst != 4 {
		t.Errorf("expected values preserved, got %+v", cfg)
	}
}

func TestConfig_ApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := Config{RateLimit: RateLimitConfig{RPS: 2}}
	cfg.ApplyDefaults()
	if cfg.RateLimit.Burst != 1 {
		t.Errorf("expected burst 1 when rps is set, got %d", cfg.RateLimit.Burst)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{BaseURL: "http://localhost:8080", Timeout: time.Second}, ""},
		{"empty base url", Config{Timeout: time.Second}, ""},
		{"zero timeout", Config{}, "timeout"},
		{"bad base url", Config{BaseURL: "::nope", Timeout: time.Second}, "base_url"},
		{"negative rps", Config{Timeout: time.Second, RateLimit: RateLimitConfig{RPS: -1}}, "rate_limit.rps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantErr)
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNew_RejectsH2CWithTLS(t *testing.T) {
	_, err := New(Config{BaseURL: "https://api.example.com", H2C: true})
	if err == nil {
		t.Fatal("expected error for h2c over https")
	}
}

func TestConfig_Validate_TLS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"tls over https", Config{BaseURL: "https://api.example.com", Timeout: time.Second, TLS: &security.TLSConfig{ServerName: "api"}}, false},
		{"h2c with tls", Config{BaseURL: "http://api", Timeout: time.Second, H2C: true, TLS: &security.TLSConfig{SkipVerify: true}}, true},
		{"cert without key", Config{Timeout: time.Second, TLS: &security.TLSConfig{CertFile: "c.pem"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
