package httpclient

import (
	"context"

	"github.com/kbukum/rxhttp/component"
)

// Component wraps an Adapter with lifecycle management for services that
// start and stop their dependencies together.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a new HTTP adapter component.
// The adapter is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start builds the HTTP adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop closes the HTTP adapter and releases idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter != nil {
		return c.adapter.Close(ctx)
	}
	return nil
}

// Health reports healthy while the adapter is started and open.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case !c.adapter.IsAvailable(ctx):
		h.Status, h.Message = component.StatusUnhealthy, "closed"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	details := c.config.BaseURL
	if c.config.H2C {
		details += " (h2c)"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-adapter",
		Details: details,
	}
}

// Adapter returns the underlying HTTP adapter. Must be called after Start.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
