package testutil

import (
	"context"

	"github.com/kbukum/asynchttp/component"
)

// TestComponent extends component.Component with state control between
// test cases.
type TestComponent interface {
	component.Component

	// Reset discards recorded state.
	Reset(ctx context.Context) error

	// Snapshot captures the recorded state.
	Snapshot(ctx context.Context) (any, error)

	// Restore returns to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot any) error
}
