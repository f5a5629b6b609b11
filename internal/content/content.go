// Package content defines the boundary between the application and wherever
// its content lives.
//
// A Fetcher returns one entry as a raw.Value, with links to other entries and
// assets already resolved to the requested depth. The service layer hands
// that value to the normalizer and never sees the source. Three sources
// implement Fetcher:
//
//   - contentful.Client talks to the Contentful delivery or preview API
//   - StoreFetcher reads records seeded into the local sqlite store
//   - markdown.Source builds entries from a directory of markdown files
//
// Fetchers are constructed explicitly and injected; nothing in this package
// reads configuration or holds global state.
package content

import (
	"context"

	"github.com/cobbinma/portfolio/internal/raw"
)

const (
	// DefaultInclude resolves projects → technologies and pictures, the
	// deepest chain the pages use.
	DefaultInclude = 2
	// MaxInclude is the deepest link resolution Contentful supports.
	MaxInclude = 10
)

// Options tune a single fetch.
type Options struct {
	// Include is how many levels of links to resolve. Zero means
	// DefaultInclude; values above MaxInclude are clamped.
	Include int
}

// Depth returns the effective link depth for o.
func (o Options) Depth() int {
	switch {
	case o.Include <= 0:
		return DefaultInclude
	case o.Include > MaxInclude:
		return MaxInclude
	default:
		return o.Include
	}
}

// Fetcher retrieves a single content entry by id.
//
// An entry that does not exist is not an error: FetchEntry returns
// raw.Absent() and a nil error. Errors are reserved for failures to reach or
// decode the source.
type Fetcher interface {
	FetchEntry(ctx context.Context, id string, opts Options) (raw.Value, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, id string, opts Options) (raw.Value, error)

// FetchEntry calls f.
func (f FetcherFunc) FetchEntry(ctx context.Context, id string, opts Options) (raw.Value, error) {
	return f(ctx, id, opts)
}
