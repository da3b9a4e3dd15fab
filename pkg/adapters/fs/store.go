package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/aretw0/arsiv/pkg/core"
)

// DefaultCatalogFile is the artifact name relative to the install root.
const DefaultCatalogFile = "prompts.json"

// Store implements core.Store on a single JSON artifact on disk.
type Store struct {
	Path string
}

// NewStore creates a store for the artifact at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads and decodes the artifact.
// Comments and trailing commas are tolerated so hand-edited catalogs still load.
// A missing file is reported as an error wrapping os.ErrNotExist.
func (s *Store) Load(ctx context.Context) (core.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return core.Catalog{}, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return core.Catalog{}, fmt.Errorf("read catalog %s: %w", s.Path, err)
	}
	return Decode(data)
}

// Decode parses a catalog document.
func Decode(data []byte) (core.Catalog, error) {
	var c core.Catalog
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	if err := dec.Decode(&c); err != nil {
		return core.Catalog{}, fmt.Errorf("invalid catalog json: %w", err)
	}
	return c, nil
}

// Encode renders a catalog the way it is stored: two-space indentation and
// a trailing newline. A nil entry list is written as an empty array.
func Encode(c core.Catalog) ([]byte, error) {
	if c.Entries == nil {
		c.Entries = []core.Entry{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save replaces the artifact with c, creating parent directories as needed.
func (s *Store) Save(ctx context.Context, c core.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := replaceArtifact(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

var _ core.Store = (*Store)(nil)
