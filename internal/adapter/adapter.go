// Package adapter defines the pluggable trend sources. Each adapter wraps
// one external origin and produces raw trend items; adding a source means
// adding an implementation, not branching on a type tag.
package adapter

import (
	"context"
	"time"

	"github.com/matheuskafuri/trendradar/internal/trend"
)

// Options tunes a single adapter fetch. Zero values mean the adapter's
// defaults. Cancellation travels on the context.
type Options struct {
	// Timeout is the per-attempt HTTP timeout passed down to the fetch
	// client.
	Timeout time.Duration

	// MaxItems caps how many entries an adapter considers; zero or
	// negative means the adapter default.
	MaxItems int
}

// Adapter is one source of raw trend items. Fetch errors are expected to be
// caught by the pipeline driver and degrade to an empty contribution.
type Adapter interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, opts Options) ([]trend.Item, error)
}
