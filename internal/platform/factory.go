package platform

import (
	"log/slog"

	"github.com/aretw0/arsiv/internal/config"
	"github.com/aretw0/arsiv/pkg/adapters/fs"
	"github.com/aretw0/arsiv/pkg/adapters/remote"
	"github.com/aretw0/arsiv/pkg/compiler"
	"github.com/aretw0/arsiv/pkg/core"
	"github.com/aretw0/arsiv/pkg/loader"
)

// New wires a catalog service from cfg.
//
//	svc, err := platform.New(cfg, platform.WithLogger(logger))
//
// Reads resolve remote, then local, then empty; writes always go to the
// local artifact, under a file lock unless cfg.Lock is false.
func New(cfg config.Config, opts ...Option) (*core.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	store := fs.NewStore(cfg.CatalogPath())

	rem := o.remote
	if rem == nil && cfg.RemoteURL != "" {
		r := remote.NewSource(cfg.RemoteURL)
		r.Timeout = cfg.RemoteTimeout
		if o.httpClient != nil {
			r.Client = o.httpClient
		}
		rem = r
	}
	src := loader.New(rem, store, logger)

	svcOpts := []core.ServiceOption{core.WithLogger(logger)}
	if cfg.Lock {
		svcOpts = append(svcOpts, core.WithLocker(fs.NewFileLock(store.Path)))
	}
	if o.tracer != nil {
		svcOpts = append(svcOpts, core.WithTracer(o.tracer))
	}

	logger.Debug("service wired",
		"catalog", store.Path,
		"remote", cfg.RemoteURL != "" || o.remote != nil,
		"lock", cfg.Lock,
	)
	return core.NewService(src, store, svcOpts...), nil
}

// CompilerConfig derives the compiler settings from cfg.
// output, when set, overrides the configured artifact location.
func CompilerConfig(cfg config.Config, output string, logger *slog.Logger) compiler.Config {
	if output == "" {
		output = cfg.CatalogPath()
	}
	return compiler.Config{
		Root:     cfg.PromptsPath(),
		Output:   output,
		Patterns: cfg.Patterns,
		Logger:   logger,
	}
}
