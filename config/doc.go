// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are searched in the usual places (cmd/<service>/config.yml,
// config/config.yml, ./config.yml) unless given explicitly. Environment
// variables override file values: with WithEnvPrefix("RXHTTP") the variable
// RXHTTP_HTTP_RATE_LIMIT_RPS sets http.rate_limit.rps.
//
//	var cfg config.ServiceConfig
//	if err := config.LoadConfig("uploader", &cfg, config.WithEnvPrefix("UPLOADER")); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
