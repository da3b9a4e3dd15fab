package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aretw0/arsiv/pkg/core"

// Service answers catalog requests.
//
// It holds no catalog between calls: every operation loads a fresh copy from
// its Source, computes the answer and, for mutations, writes the whole catalog
// back through its Store before returning.
type Service struct {
	src    Source
	store  Store
	locker Locker
	logger *slog.Logger
	tracer trace.Tracer

	mu    sync.RWMutex
	stats serviceStats
}

type serviceStats struct {
	loads  int
	writes int
	last   error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLocker wraps every mutation in the given mutual-exclusion scope.
// Without a locker the service assumes a single writer.
func WithLocker(l Locker) ServiceOption {
	return func(s *Service) {
		s.locker = l
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer overrides the tracer used for operation spans.
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewService creates a new Service reading through src and persisting through store.
func NewService(src Source, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		src:    src,
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) load(ctx context.Context) (Catalog, error) {
	c, err := s.src.Load(ctx)
	s.mu.Lock()
	s.stats.loads++
	s.stats.last = err
	s.mu.Unlock()
	if err != nil {
		return Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// List returns the listing view of every entry.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.list")
	defer span.End()

	c, err := s.load(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.entries", c.Len()))
	return c.Summaries(), nil
}

// ListFull returns every entry with all of its fields.
func (s *Service) ListFull(ctx context.Context) ([]Entry, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.list_full")
	defer span.End()

	c, err := s.load(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("catalog.entries", c.Len()))
	if c.Entries == nil {
		return []Entry{}, nil
	}
	return c.Entries, nil
}

// Read returns the entry whose ID matches exactly, or ErrNotFound.
func (s *Service) Read(ctx context.Context, id string) (Entry, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.read", trace.WithAttributes(attribute.String("entry.id", id)))
	defer span.End()

	c, err := s.load(ctx)
	if err != nil {
		return Entry{}, fail(span, err)
	}
	e, ok := c.Find(id)
	if !ok {
		return Entry{}, fail(span, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	return e, nil
}

// Add appends a new entry and persists the updated catalog.
//
// Workflow:
//  1. Validate required fields (ErrInvalidInput).
//  2. Acquire the locker, if any.
//  3. Load the current catalog and reject a taken ID (ErrConflict).
//  4. Append and save the whole catalog.
//
// Nothing is written unless every step before the save succeeded.
func (s *Service) Add(ctx context.Context, e Entry) (Entry, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.add", trace.WithAttributes(attribute.String("entry.id", e.ID)))
	defer span.End()

	if err := e.Validate(); err != nil {
		return Entry{}, fail(span, err)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx)
		if err != nil {
			return Entry{}, fail(span, fmt.Errorf("acquire catalog lock: %w", err))
		}
		defer unlock()
	}

	c, err := s.load(ctx)
	if err != nil {
		return Entry{}, fail(span, err)
	}
	if c.Contains(e.ID) {
		return Entry{}, fail(span, fmt.Errorf("%w: %s", ErrConflict, e.ID))
	}

	next := c.Append(e)
	if err := s.store.Save(ctx, next); err != nil {
		return Entry{}, fail(span, fmt.Errorf("save catalog: %w", err))
	}

	s.mu.Lock()
	s.stats.writes++
	s.mu.Unlock()

	s.logger.Info("entry added", "id", e.ID, "entries", next.Len())
	span.SetAttributes(attribute.Int("catalog.entries", next.Len()))
	return e, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
