package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/aretw0/arsiv/pkg/core"
)

// Tool names.
const (
	ToolAddEntry        = "add_entry"
	ToolListEntriesFull = "list_entries_full"
)

// Handler translates MCP requests into catalog service calls.
type Handler struct {
	svc    *core.Service
	logger *slog.Logger
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *core.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Operations describes the tools the server offers.
func Operations() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolAddEntry,
			mcp.WithDescription("Adds a new prompt to the archive"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Unique ID for the prompt")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Prompt title")),
			mcp.WithString("description", mcp.Description("Prompt description")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Prompt content")),
		),
		mcp.NewTool(ToolListEntriesFull,
			mcp.WithDescription("Lists every prompt as JSON, including content (more detailed than the resource list)"),
		),
	}
}

// ResourceTemplate describes the URI space of entries.
func ResourceTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(URITemplate, "Prompt",
		mcp.WithTemplateDescription("A prompt from the archive, by ID"),
		mcp.WithTemplateMIMEType(MIMEType),
	)
}

// ListResources returns one resource per entry of a freshly loaded catalog.
func (h *Handler) ListResources(ctx context.Context) ([]mcp.Resource, error) {
	summaries, err := h.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	resources := make([]mcp.Resource, 0, len(summaries))
	for _, s := range summaries {
		resources = append(resources, mcp.NewResource(EntryURI(s.ID), s.Title,
			mcp.WithResourceDescription(s.Description),
			mcp.WithMIMEType(MIMEType),
		))
	}
	return resources, nil
}

// ReadResource returns the content of the entry named by the request URI.
func (h *Handler) ReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id, err := ParseEntryURI(uri)
	if err != nil {
		return nil, err
	}

	entry, err := h.svc.Read(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("Prompt not found: %s: %w", id, core.ErrNotFound)
		}
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: MIMEType,
			Text:     entry.Content,
		},
	}, nil
}

// AddEntry handles the add_entry tool.
// Invalid input and conflicts are reported as tool errors, not protocol failures.
func (h *Handler) AddEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	in := core.Entry{
		ID:          stringArg(args, "id"),
		Title:       stringArg(args, "title"),
		Description: stringArg(args, "description"),
		Content:     stringArg(args, "content"),
	}

	added, err := h.svc.Add(ctx, in)
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		return mcp.NewToolResultError(fmt.Sprintf("Missing required arguments: %v", err)), nil
	case errors.Is(err, core.ErrConflict):
		return mcp.NewToolResultError(fmt.Sprintf("Prompt with ID %s already exists", in.ID)), nil
	case err != nil:
		h.logger.Error("add entry failed", "id", in.ID, "error", err)
		return nil, err
	}

	return mcp.NewToolResultText(fmt.Sprintf("Prompt '%s' with ID '%s' added successfully.", added.Title, added.ID)), nil
}

// ListEntriesFull handles the list_entries_full tool.
func (h *Handler) ListEntriesFull(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.svc.ListFull(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	if s, ok := args[key].(string); ok {
		return s
	}
	return ""
}
