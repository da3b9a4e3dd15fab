// Package remote loads the catalog from an HTTP(S) endpoint serving the same
// JSON document as the local artifact.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/arsiv/pkg/adapters/fs"
	"github.com/aretw0/arsiv/pkg/core"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

// maxBody caps the response size; catalogs are tens to hundreds of entries.
const maxBody = 32 << 20

// Source implements core.Source with a GET request per Load.
type Source struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewSource creates a remote source for url using a client with DefaultTimeout.
func NewSource(url string) *Source {
	return &Source{
		URL:     url,
		Client:  &http.Client{},
		Timeout: DefaultTimeout,
	}
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
}

// Load fetches and decodes the catalog.
func (s *Source) Load(ctx context.Context) (core.Catalog, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return core.Catalog{}, &StatusError{URL: s.URL, Status: resp.Status, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return core.Catalog{}, fmt.Errorf("read %s: %w", s.URL, err)
	}

	c, err := fs.Decode(data)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("%s: %w", s.URL, err)
	}
	return c, nil
}

var _ core.Source = (*Source)(nil)
