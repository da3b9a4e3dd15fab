package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// descWidth is the column at which descriptions wrap.
const descWidth = 76

var (
	listJSON bool

	idStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).PaddingLeft(2)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entries in the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := newService()

		summaries, err := svc.List(cmd.Context())
		if err != nil {
			fatal("Error listing entries", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(summaries); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		width := 0
		for _, s := range summaries {
			width = max(width, runewidth.StringWidth(s.ID))
		}
		for _, s := range summaries {
			fmt.Printf("%s  %s\n", idStyle.Render(runewidth.FillRight(s.ID, width)), titleStyle.Render(s.Title))
			if s.Description != "" {
				fmt.Println(descStyle.Render(wordwrap.String(s.Description, descWidth)))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
