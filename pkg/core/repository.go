package core

import "context"

// Source resolves the current catalog.
// Implementations must not cache: every call reflects storage as it is now.
type Source interface {
	Load(ctx context.Context) (Catalog, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) (Catalog, error)

// Load calls f(ctx).
func (f SourceFunc) Load(ctx context.Context) (Catalog, error) {
	return f(ctx)
}

// Store is a Source that can also persist a whole catalog.
type Store interface {
	Source
	// Save replaces the stored catalog with c.
	Save(ctx context.Context, c Catalog) error
}

// Locker provides a mutual-exclusion scope around a load-mutate-persist cycle.
type Locker interface {
	// Lock blocks until the scope is acquired or ctx is done.
	// The returned function releases it.
	Lock(ctx context.Context) (unlock func(), err error)
}
