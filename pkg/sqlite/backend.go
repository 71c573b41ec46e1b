// Package sqlite provides the public API for the SQLite saved-objects
// backend. It exposes the factories while keeping implementation details
// internal.
package sqlite

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/savedobjects/internal/sqlite"
	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

// Backend owns the SQLite database and its JSONL snapshot.
type Backend = sqlite.Backend

// Option configures a Backend.
type Option = sqlite.Option

// WithLogger sets the backend logger.
func WithLogger(l zerolog.Logger) Option {
	return sqlite.WithLogger(l)
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".savedobjects",
//	})
//	defer backend.Detach()
func NewBackend(opts ...Option) *Backend {
	return sqlite.NewBackend(opts...)
}

// NewRepository returns a saved-objects repository for attributes of type T
// stored in backend. Only types known to registry are accepted.
func NewRepository[T any](backend *Backend, registry *types.Registry) types.Repository[T] {
	return sqlite.NewRepository[T](backend, registry)
}
