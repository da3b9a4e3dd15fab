package compiler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arsiv/pkg/compiler"
)

func TestBuild_WritesNothing(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	writeDoc(t, root, "a.md", "---\nid: a\ntitle: A\n---\nAlpha\n")

	catalog, report, err := compiler.Build(context.Background(), compiler.Config{Root: root, Output: out, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 1, catalog.Len())
	assert.Equal(t, 1, report.Written)
	assert.Len(t, report.Digest, 64)
	assert.NoFileExists(t, out)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "prompts.json")
	cfg := compiler.Config{Root: root, Output: out, Logger: quietLogger()}
	writeDoc(t, root, "a.md", "---\nid: a\ntitle: A\n---\nAlpha\n")

	t.Run("missing artifact is stale", func(t *testing.T) {
		res, err := compiler.Check(ctx, cfg)
		require.NoError(t, err)
		assert.False(t, res.UpToDate)
		assert.Contains(t, res.Diff, `+      "id": "a",`)
	})

	t.Run("fresh artifact is up to date", func(t *testing.T) {
		_, err := compiler.Compile(ctx, cfg)
		require.NoError(t, err)

		res, err := compiler.Check(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, res.UpToDate)
		assert.Empty(t, res.Diff)
	})

	t.Run("edited source is stale", func(t *testing.T) {
		writeDoc(t, root, "a.md", "---\nid: a\ntitle: A renamed\n---\nAlpha\n")

		res, err := compiler.Check(ctx, cfg)
		require.NoError(t, err)
		assert.False(t, res.UpToDate)
		assert.Contains(t, res.Diff, `-      "title": "A",`)
		assert.Contains(t, res.Diff, `+      "title": "A renamed",`)
		assert.NotContains(t, res.Diff, `"id": "a"`)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"title": "A",`)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := compiler.Check(ctx, compiler.Config{Root: filepath.Join(root, "nope"), Output: out})
		assert.ErrorIs(t, err, compiler.ErrRootNotFound)
	})
}
