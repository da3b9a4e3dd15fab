// Package loader resolves the current catalog from the configured sources.
//
// Resolution runs in two stages on every call, with no caching between calls:
//
//  1. Remote, if configured. Success ends the resolution.
//  2. Local artifact. Any failure here yields an empty catalog.
//
// Failures are logged and absorbed, so Load never fails: a service with no
// reachable catalog stays usable, read-only and empty.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/aretw0/arsiv/pkg/core"
)

// Chain implements core.Source over an optional remote and a local source.
type Chain struct {
	Remote core.Source
	Local  core.Source
	Logger *slog.Logger
}

// New creates a Chain. remote may be nil.
func New(remote, local core.Source, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{Remote: remote, Local: local, Logger: logger}
}

// Load returns the first catalog that resolves, or an empty one.
func (c *Chain) Load(ctx context.Context) (core.Catalog, error) {
	if c.Remote != nil {
		cat, err := c.Remote.Load(ctx)
		if err == nil {
			c.Logger.Debug("catalog loaded", "source", "remote", "entries", cat.Len())
			return cat, nil
		}
		c.Logger.Warn("error loading catalog from remote, falling back to local", "error", err)
	}

	if c.Local == nil {
		return core.Catalog{}, nil
	}

	cat, err := c.Local.Load(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Logger.Debug("no local catalog, serving empty", "error", err)
		} else {
			c.Logger.Warn("error loading local catalog, serving empty", "error", err)
		}
		return core.Catalog{}, nil
	}

	c.Logger.Debug("catalog loaded", "source", "local", "entries", cat.Len())
	return cat, nil
}

var _ core.Source = (*Chain)(nil)
