package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arsiv/pkg/core"
)

var (
	addID          string
	addTitle       string
	addDescription string
	addContent     string
	addFile        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry to the catalog",
	Long: `Append a new entry to the local catalog artifact. Content comes from
--content, or from --file ("-" reads stdin). IDs must be unique.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := addContent
		if addFile != "" {
			data, err := readInput(addFile)
			if err != nil {
				fatal("Error reading content", err)
			}
			content = string(data)
		}
		if content == "" {
			fatal("Error adding entry", errors.New("one of --content or --file is required"))
		}

		svc := newService()
		entry, err := svc.Add(cmd.Context(), core.Entry{
			ID:          addID,
			Title:       addTitle,
			Description: addDescription,
			Content:     content,
		})
		if err != nil {
			fatal("Error adding entry", err)
		}

		fmt.Printf("Prompt '%s' with ID '%s' added successfully.\n", entry.Title, entry.ID)
	},
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addID, "id", "", "Unique ID of the entry")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Title of the entry")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Optional description")
	addCmd.Flags().StringVar(&addContent, "content", "", "Entry content")
	addCmd.Flags().StringVar(&addFile, "file", "", "Read content from a file, or - for stdin")
	addCmd.MarkFlagsMutuallyExclusive("content", "file")
	_ = addCmd.MarkFlagRequired("id")
	_ = addCmd.MarkFlagRequired("title")
}
