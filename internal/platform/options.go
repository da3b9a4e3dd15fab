package platform

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/aretw0/arsiv/pkg/core"
)

// options holds the wiring overrides for New.
type options struct {
	logger     *slog.Logger
	tracer     trace.Tracer
	httpClient *http.Client
	remote     core.Source
}

// Option defines a functional option for configuring the service wiring.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the service and its sources.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer for service spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithHTTPClient sets the client used to fetch the remote catalog.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithRemote replaces the remote source built from remote_url.
func WithRemote(src core.Source) Option {
	return func(o *options) {
		o.remote = src
	}
}
