package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/arsiv"
	"github.com/aretw0/arsiv/pkg/adapters/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over MCP on stdio",
	Long: `Start an MCP server on stdin/stdout. Entries are exposed as resources
under prompt://arsiv/<id>; add_entry and list_entries_full are exposed as tools.
The catalog is reloaded on every request.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		svc := newService()
		s := mcpserver.New(svc, arsiv.Version, logger)

		err := mcpserver.Serve(ctx, s, os.Stdin, os.Stdout, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			fatal("Error serving MCP", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
