package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arsiv"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of arsiv",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arsiv version %s\n", arsiv.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
