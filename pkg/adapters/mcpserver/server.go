package mcpserver

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/arsiv/pkg/core"
)

// ServerName identifies this server to MCP clients.
const ServerName = "prompt-arsivi-server"

// New creates the MCP server with every resource and tool registered.
func New(svc *core.Service, version string, logger *slog.Logger) *server.MCPServer {
	h := NewHandler(svc, logger)

	// resources/list only knows statically registered resources; the
	// catalog changes under us, so the listing is rebuilt per request.
	hooks := &server.Hooks{}
	hooks.AddAfterListResources(func(ctx context.Context, id any, message *mcp.ListResourcesRequest, result *mcp.ListResourcesResult) {
		if result == nil {
			return
		}
		resources, err := h.ListResources(ctx)
		if err != nil {
			h.logger.Error("list resources failed", "error", err)
			return
		}
		result.Resources = resources
	})

	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)

	s.AddResourceTemplate(ResourceTemplate(), h.ReadResource)

	ops := Operations()
	s.AddTool(ops[0], h.AddEntry)
	s.AddTool(ops[1], h.ListEntriesFull)

	return s
}

// Serve runs s over the given streams until ctx is done or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("prompt archive MCP server running on stdio", "name", ServerName)
	return stdio.Listen(ctx, in, out)
}
