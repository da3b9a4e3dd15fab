package mcpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arsiv/pkg/adapters/mcpserver"
	"github.com/aretw0/arsiv/pkg/core"
)

type memStore struct {
	mu      sync.Mutex
	catalog core.Catalog
}

func (m *memStore) Load(ctx context.Context) (core.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return core.Catalog{Entries: append([]core.Entry(nil), m.catalog.Entries...)}, nil
}

func (m *memStore) Save(ctx context.Context, c core.Catalog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = c
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(entries ...core.Entry) (*mcpserver.Handler, *memStore) {
	store := &memStore{catalog: core.Catalog{Entries: entries}}
	svc := core.NewService(store, store, core.WithLogger(quietLogger()))
	return mcpserver.NewHandler(svc, quietLogger()), store
}

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

var review = core.Entry{ID: "review", Title: "Code review", Description: "Review a diff", Content: "Review this."}

func TestParseEntryURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "simple", uri: "prompt://arsiv/review", want: "review"},
		{name: "escaped", uri: "prompt://arsiv/a%20b", want: "a b"},
		{name: "empty id", uri: "prompt://arsiv/", want: ""},
		{name: "wrong scheme", uri: "file:///review", wantErr: true},
		{name: "garbage", uri: "%zz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mcpserver.ParseEntryURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var awkwardIDs = []string{"review", "50%off", "a?b", "c#d", "a b", "a%20b", "x/y", "ünï"}

func TestEntryURI_RoundTrip(t *testing.T) {
	for _, want := range awkwardIDs {
		t.Run(want, func(t *testing.T) {
			uri := mcpserver.EntryURI(want)
			assert.True(t, strings.HasPrefix(uri, "prompt://arsiv/"), uri)

			got, err := mcpserver.ParseEntryURI(uri)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
	assert.Equal(t, "prompt://arsiv/50%25off", mcpserver.EntryURI("50%off"))
}

func TestHandler_ListResources(t *testing.T) {
	h, _ := newHandler(review)

	resources, err := h.ListResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "prompt://arsiv/review", resources[0].URI)
	assert.Equal(t, "Code review", resources[0].Name)
	assert.Equal(t, "Review a diff", resources[0].Description)
	assert.Equal(t, "text/plain", resources[0].MIMEType)
}

func TestHandler_ReadResource(t *testing.T) {
	h, _ := newHandler(review)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		var req mcp.ReadResourceRequest
		req.Params.URI = "prompt://arsiv/review"

		contents, err := h.ReadResource(ctx, req)
		require.NoError(t, err)
		require.Len(t, contents, 1)
		text, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok, "unexpected contents type %T", contents[0])
		assert.Equal(t, "prompt://arsiv/review", text.URI)
		assert.Equal(t, "text/plain", text.MIMEType)
		assert.Equal(t, "Review this.", text.Text)
	})

	t.Run("not found", func(t *testing.T) {
		var req mcp.ReadResourceRequest
		req.Params.URI = "prompt://arsiv/missing"

		_, err := h.ReadResource(ctx, req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNotFound))
		assert.Contains(t, err.Error(), "Prompt not found: missing")
	})
}

func TestHandler_AddEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		h, store := newHandler()
		res, err := h.AddEntry(ctx, toolRequest(mcpserver.ToolAddEntry, map[string]any{
			"id":      "p2",
			"title":   "Y",
			"content": "Body",
		}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "Prompt 'Y' with ID 'p2' added successfully.", resultText(t, res))
		require.Len(t, store.catalog.Entries, 1)
		assert.Equal(t, "", store.catalog.Entries[0].Description)
	})

	t.Run("missing argument", func(t *testing.T) {
		h, store := newHandler()
		res, err := h.AddEntry(ctx, toolRequest(mcpserver.ToolAddEntry, map[string]any{
			"id":    "p2",
			"title": "Y",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "content")
		assert.Empty(t, store.catalog.Entries)
	})

	t.Run("non-string argument", func(t *testing.T) {
		h, _ := newHandler()
		res, err := h.AddEntry(ctx, toolRequest(mcpserver.ToolAddEntry, map[string]any{
			"id":      42,
			"title":   "Y",
			"content": "Body",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("conflict", func(t *testing.T) {
		h, store := newHandler(review)
		res, err := h.AddEntry(ctx, toolRequest(mcpserver.ToolAddEntry, map[string]any{
			"id":      "review",
			"title":   "Other",
			"content": "Other body",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "already exists")
		require.Len(t, store.catalog.Entries, 1)
		assert.Equal(t, "Code review", store.catalog.Entries[0].Title)
	})
}

func TestHandler_ListEntriesFull(t *testing.T) {
	ctx := context.Background()

	t.Run("entries", func(t *testing.T) {
		h, _ := newHandler(review)
		res, err := h.ListEntriesFull(ctx, toolRequest(mcpserver.ToolListEntriesFull, nil))
		require.NoError(t, err)

		var got []core.Entry
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
		assert.Equal(t, []core.Entry{review}, got)
	})

	t.Run("empty", func(t *testing.T) {
		h, _ := newHandler()
		res, err := h.ListEntriesFull(ctx, toolRequest(mcpserver.ToolListEntriesFull, nil))
		require.NoError(t, err)
		assert.Equal(t, "[]", resultText(t, res))
	})
}

func TestOperations(t *testing.T) {
	ops := mcpserver.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, mcpserver.ToolAddEntry, ops[0].Name)
	assert.ElementsMatch(t, []string{"id", "title", "content"}, ops[0].InputSchema.Required)
	assert.Contains(t, ops[0].InputSchema.Properties, "description")
	assert.Equal(t, mcpserver.ToolListEntriesFull, ops[1].Name)
}
