package config

import (
	"context"
	"fmt"

	"github.com/kbukum/rxhttp/httpclient"
	"github.com/kbukum/rxhttp/logger"
	"github.com/kbukum/rxhttp/observability"
	"github.com/kbukum/rxhttp/validation"
)

// ServiceConfig is the configuration of a process that talks to one HTTP
// backend through rx adapters. Applications with more settings embed it.
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Uploads UploadsConfig `yaml:"uploads" mapstructure:"uploads"`
//	}
type ServiceConfig struct {
	Name        string            `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string            `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug       bool              `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config     `yaml:"logging" mapstructure:"logging"`
	HTTP        httpclient.Config `yaml:"http" mapstructure:"http"`

	Telemetry observability.TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills unset fields. Embedding structs should call it first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
	if c.HTTP.Name == "" {
		c.HTTP.Name = c.Name
	}
	c.HTTP.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks the service, logging, http and telemetry sections.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// NewLogger builds the service logger from the logging section.
func (c *ServiceConfig) NewLogger() *logger.Logger {
	return logger.New(&c.Logging, c.Name)
}

// NewHTTPComponent builds the lifecycle component for the http section,
// logging through log.
func (c *ServiceConfig) NewHTTPComponent(log *logger.Logger, opts ...httpclient.Option) *httpclient.Component {
	opts = append([]httpclient.Option{httpclient.WithLogger(log)}, opts...)
	return httpclient.NewComponent(c.HTTP, opts...)
}

// StartTelemetry starts exporting traces and metrics when the telemetry
// section is enabled. Callers shut the result down on exit.
func (c *ServiceConfig) StartTelemetry(ctx context.Context) (*observability.Telemetry, error) {
	return observability.Start(ctx, c.Telemetry, c.Name, c.Environment)
}
