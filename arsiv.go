package arsiv

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/arsiv/internal/config"
	"github.com/aretw0/arsiv/internal/platform"
	"github.com/aretw0/arsiv/pkg/adapters/mcpserver"
	"github.com/aretw0/arsiv/pkg/compiler"
	"github.com/aretw0/arsiv/pkg/core"
)

// --- Types ---

// Entry is a public alias for a catalog entry.
type Entry = core.Entry

// Service is a public alias for the catalog service.
type Service = core.Service

// Config is a public alias for the resolved settings.
type Config = config.Config

// Report is a public alias for the compiler's result.
type Report = compiler.Report

// --- Errors ---

var (
	ErrNotFound     = core.ErrNotFound
	ErrInvalidInput = core.ErrInvalidInput
	ErrConflict     = core.ErrConflict
)

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return config.Defaults()
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithTracer sets the tracer for service spans.
func WithTracer(t trace.Tracer) Option {
	return platform.WithTracer(t)
}

// WithHTTPClient sets the client used for the remote catalog.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithRemote injects a custom remote source.
func WithRemote(src core.Source) Option {
	return platform.WithRemote(src)
}

// --- Factory ---

// New creates a catalog service from cfg.
func New(cfg Config, opts ...Option) (*Service, error) {
	return platform.New(cfg, opts...)
}

// Open creates a catalog service rooted at root with default settings.
func Open(root string, opts ...Option) (*Service, error) {
	cfg := config.Defaults()
	cfg.Root = root
	return platform.New(cfg, opts...)
}

// Compile builds the artifact at output from the documents under root.
func Compile(ctx context.Context, root, output string, logger *slog.Logger) (Report, error) {
	return compiler.Compile(ctx, compiler.Config{
		Root:   root,
		Output: output,
		Logger: logger,
	})
}

// NewMCPServer exposes svc over the Model Context Protocol.
func NewMCPServer(svc *Service, logger *slog.Logger) *server.MCPServer {
	return mcpserver.New(svc, Version, logger)
}

// --- Utils ---

// FindRoot recursively looks upwards for an arsiv root indicator.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
