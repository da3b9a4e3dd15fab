package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	readJSON   bool
	readRender bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read an entry",
	Long: `Read an entry by its ID. Outputs raw content by default, the whole entry
as JSON with --json, or content rendered for the terminal with --render.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := newService()

		entry, err := svc.Read(cmd.Context(), args[0])
		if err != nil {
			fatal("Error reading entry", err)
		}

		switch {
		case readJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(entry); err != nil {
				fatal("Error encoding JSON", err)
			}
		case readRender:
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				fatal("Error creating renderer", err)
			}
			out, err := r.Render(entry.Content)
			if err != nil {
				fatal("Error rendering entry", err)
			}
			fmt.Print(out)
		default:
			fmt.Println(entry.Content)
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
	readCmd.Flags().BoolVar(&readRender, "render", false, "Render Markdown for the terminal")
	readCmd.MarkFlagsMutuallyExclusive("json", "render")
}
