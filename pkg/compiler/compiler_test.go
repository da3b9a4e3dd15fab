package compiler_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arsiv/pkg/adapters/fs"
	"github.com/aretw0/arsiv/pkg/compiler"
	"github.com/aretw0/arsiv/pkg/core"
)

func writeDoc(t testing.TB, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func loadArtifact(t testing.TB, path string) core.Catalog {
	t.Helper()
	c, err := fs.NewStore(path).Load(context.Background())
	require.NoError(t, err)
	return c
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestCompile(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")

	writeDoc(t, root, "b.md", "---\nid: b\ntitle: B\n---\n\n  second body  \n")
	writeDoc(t, root, "a/one.md", "---\nid: one\ntitle: One\ndescription: first nested\n---\nnested\n")
	writeDoc(t, root, "a/notes.txt", "---\nid: txt\ntitle: ignored\n---\nnot markdown\n")
	writeDoc(t, root, "c.md", "---\ntitle: No ID\n---\nbody\n")
	writeDoc(t, root, "d.md", "---\nid: d\n---\nbody\n")
	writeDoc(t, root, ".hidden/h.md", "---\nid: h\ntitle: H\n---\nbody\n")

	var logs bytes.Buffer
	report, err := compiler.Compile(context.Background(), compiler.Config{
		Root:   root,
		Output: out,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Written)
	assert.Len(t, report.Skipped, 2)
	assert.Empty(t, report.Duplicates)
	assert.Len(t, report.Digest, 64)

	c := loadArtifact(t, out)
	assert.Equal(t, []core.Entry{
		{ID: "one", Title: "One", Description: "first nested", Content: "nested"},
		{ID: "b", Title: "B", Description: "", Content: "second body"},
	}, c.Entries)

	assert.Contains(t, logs.String(), "missing id or title")
	assert.Contains(t, logs.String(), "catalog written")
}

func TestCompile_RootMissing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prompts.json")

	_, err := compiler.Compile(context.Background(), compiler.Config{
		Root:   filepath.Join(t.TempDir(), "nope"),
		Output: out,
		Logger: quietLogger(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, compiler.ErrRootNotFound))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on a fatal run")
}

func TestCompile_DuplicateIDs(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "prompts.json")

	writeDoc(t, root, "a.md", "---\nid: same\ntitle: First\n---\nfirst\n")
	writeDoc(t, root, "z/b.md", "---\nid: same\ntitle: Second\n---\nsecond\n")

	report, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: out, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	require.Len(t, report.Duplicates, 1)
	assert.True(t, strings.HasSuffix(filepath.ToSlash(report.Duplicates[0]), "z/b.md"))

	c := loadArtifact(t, out)
	assert.Equal(t, "First", c.Entries[0].Title)
}

func TestCompile_EmptyBodySkipped(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	writeDoc(t, root, "empty.md", "---\nid: e\ntitle: E\n---\n   \n")

	report, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: out, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Written)
	assert.Len(t, report.Skipped, 1)
	assert.Equal(t, 0, loadArtifact(t, out).Len())
}

func TestCompile_ScalarMetadata(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	writeDoc(t, root, "n.md", "---\nid: 42\ntitle: true\n---\nbody\n")

	_, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: out, Logger: quietLogger()})
	require.NoError(t, err)

	c := loadArtifact(t, out)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "42", c.Entries[0].ID)
	assert.Equal(t, "true", c.Entries[0].Title)
}

func TestCompile_UnparsableSkipped(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	writeDoc(t, root, "bad.md", "---\nid: [x\n---\nbody\n")
	writeDoc(t, root, "good.md", "---\nid: g\ntitle: G\n---\nbody\n")

	report, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: out, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	assert.Len(t, report.Skipped, 1)
}

func TestCompile_Patterns(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	writeDoc(t, root, "keep/a.md", "---\nid: a\ntitle: A\n---\nbody\n")
	writeDoc(t, root, "drafts/b.md", "---\nid: b\ntitle: B\n---\nbody\n")
	writeDoc(t, root, "keep/c.markdown", "---\nid: c\ntitle: C\n---\nbody\n")

	report, err := compiler.Compile(context.Background(), compiler.Config{
		Root:     root,
		Output:   out,
		Patterns: []string{"keep/**/*.{md,markdown}"},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Written)

	c := loadArtifact(t, out)
	assert.Equal(t, "a", c.Entries[0].ID)
	assert.Equal(t, "c", c.Entries[1].ID)
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := compiler.Compile(context.Background(), compiler.Config{
		Root:     t.TempDir(),
		Output:   filepath.Join(t.TempDir(), "prompts.json"),
		Patterns: []string{"[unclosed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")
}

func TestCompile_Deterministic(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"z.md", "m/b.md", "m/a.md", "a.md"} {
		id := strings.TrimSuffix(strings.ReplaceAll(rel, "/", "-"), ".md")
		writeDoc(t, root, rel, "---\nid: "+id+"\ntitle: T\n---\nbody\n")
	}

	first, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: filepath.Join(t.TempDir(), "1.json"), Logger: quietLogger()})
	require.NoError(t, err)
	second, err := compiler.Compile(context.Background(), compiler.Config{Root: root, Output: filepath.Join(t.TempDir(), "2.json"), Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, first.Digest, second.Digest)

	c := loadArtifact(t, first.Output)
	var ids []string
	for _, e := range c.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"a", "m-a", "m-b", "z"}, ids)
}
