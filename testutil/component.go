package testutil

import (
	"context"

	"github.com/kbukum/rxhttp/component"
)

// TestComponent extends component.Component with a Reset hook so one
// instance can be shared by several test cases.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state.
	Reset(ctx context.Context) error
}
