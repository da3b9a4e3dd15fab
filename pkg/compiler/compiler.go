// Package compiler turns a tree of Markdown documents with YAML front matter
// into the single JSON catalog artifact served at runtime.
package compiler

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/zeebo/blake3"

	"github.com/aretw0/arsiv/pkg/adapters/fs"
	"github.com/aretw0/arsiv/pkg/core"
)

// ErrRootNotFound is returned when the source root does not exist.
// It aborts the whole run; nothing is written.
var ErrRootNotFound = errors.New("prompts directory not found")

// DefaultPatterns selects Markdown documents at any depth.
var DefaultPatterns = []string{"**/*.md"}

// Config holds the inputs of a compile run.
type Config struct {
	Root     string   // source tree
	Output   string   // artifact path, overwritten on every run
	Patterns []string // doublestar patterns against slash-separated paths relative to Root
	Logger   *slog.Logger
}

// Report summarises a compile run.
type Report struct {
	Output     string
	Written    int
	Skipped    []string // documents missing id or title, or unparsable
	Duplicates []string // documents whose id was already taken
	Digest     string   // BLAKE3-256 of the written artifact, hex
}

func (c Config) withDefaults() Config {
	if len(c.Patterns) == 0 {
		c.Patterns = DefaultPatterns
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Validate checks the patterns before any file is touched.
func (c Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("%w: empty path", ErrRootNotFound)
	}
	if c.Output == "" {
		return errors.New("output path is required")
	}
	for _, p := range c.withDefaults().Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	return nil
}

// Compile walks cfg.Root, extracts one entry per accepted document and
// overwrites cfg.Output with the resulting catalog.
//
// Documents without id or title are skipped with a warning. So are documents
// whose body is empty after trimming: every entry must carry content, which
// takes precedence over "every document with id and title yields an entry".
// When two documents share an id the first one in walk order is kept and the
// later one is skipped with a warning. Entries keep the depth-first lexical
// order of the walk.
func Compile(ctx context.Context, cfg Config) (Report, error) {
	catalog, report, err := Build(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if err := fs.NewStore(report.Output).Save(ctx, catalog); err != nil {
		return Report{}, err
	}

	cfg.withDefaults().Logger.Info("catalog written",
		"count", report.Written,
		"output", report.Output,
		"skipped", len(report.Skipped),
		"duplicates", len(report.Duplicates),
		"digest", report.Digest[:12],
	)
	return report, nil
}

// Build runs a compile without writing anything. The report describes the
// artifact Compile would write, digest included.
func Build(ctx context.Context, cfg Config) (core.Catalog, Report, error) {
	if err := cfg.Validate(); err != nil {
		return core.Catalog{}, Report{}, err
	}
	cfg = cfg.withDefaults()
	log := cfg.Logger

	info, err := os.Stat(cfg.Root)
	if err != nil || !info.IsDir() {
		return core.Catalog{}, Report{}, fmt.Errorf("%w: %s", ErrRootNotFound, cfg.Root)
	}

	log.Info("building prompts", "root", cfg.Root)

	files, err := collect(cfg)
	if err != nil {
		return core.Catalog{}, Report{}, err
	}

	report := Report{Output: cfg.Output}
	var catalog core.Catalog
	origin := make(map[string]string)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return core.Catalog{}, Report{}, err
		}

		entry, err := extract(path)
		if err != nil {
			log.Warn("skipping document", "path", path, "reason", err)
			report.Skipped = append(report.Skipped, path)
			continue
		}

		if first, taken := origin[entry.ID]; taken {
			log.Warn("skipping document: duplicate id", "path", path, "id", entry.ID, "first", first)
			report.Duplicates = append(report.Duplicates, path)
			continue
		}
		origin[entry.ID] = path

		catalog.Entries = append(catalog.Entries, entry)
		log.Info("parsed entry", "id", entry.ID, "path", path)
	}

	data, err := fs.Encode(catalog)
	if err != nil {
		return core.Catalog{}, Report{}, fmt.Errorf("failed to encode catalog: %w", err)
	}
	sum := blake3.Sum256(data)
	report.Digest = hex.EncodeToString(sum[:])
	report.Written = catalog.Len()

	return catalog, report, nil
}

// collect returns the matching files in depth-first lexical order.
// Hidden directories are not descended into.
func collect(cfg Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != cfg.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			return err
		}
		if matches(cfg.Patterns, filepath.ToSlash(rel)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", cfg.Root, err)
	}
	return files, nil
}

func matches(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// extract parses one source document into an entry.
func extract(path string) (core.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Entry{}, err
	}
	defer f.Close()

	doc, err := fs.ParseFrontMatter(f)
	if err != nil {
		return core.Entry{}, err
	}

	id, hasID := doc.Metadata.String("id")
	title, hasTitle := doc.Metadata.String("title")
	if !hasID || !hasTitle {
		return core.Entry{}, errors.New("missing id or title in frontmatter")
	}
	description, _ := doc.Metadata.String("description")

	entry := core.NewEntry(id, title, description, doc.Body)
	if entry.Content == "" {
		return core.Entry{}, errors.New("empty body")
	}
	return entry, nil
}
