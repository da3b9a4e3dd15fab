package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/arsiv/internal/platform"
	"github.com/aretw0/arsiv/pkg/compiler"
)

var (
	buildWatch    bool
	buildCheck    bool
	buildPrompts  string
	buildOutput   string
	buildDebounce time.Duration
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the prompt tree into the catalog artifact",
	Long: `Walk the prompts directory, parse every Markdown document's front matter
and write the catalog artifact. Documents without id or title are skipped.
With --watch, rebuild whenever the tree changes. With --check, write
nothing and exit 1 if the artifact differs from a fresh build.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cc := platform.CompilerConfig(cfg, buildOutput, slog.Default())
		if buildPrompts != "" {
			cc.Root = buildPrompts
		}

		if buildCheck {
			res, err := compiler.Check(cmd.Context(), cc)
			if err != nil {
				fatal("Error checking catalog", err)
			}
			if !res.UpToDate {
				fmt.Print(res.Diff)
				fatal("Catalog is stale", fmt.Errorf("%s differs from %s", res.Report.Output, cc.Root))
			}
			fmt.Printf("%s is up to date (%d prompts)\n", res.Report.Output, res.Report.Written)
			return
		}

		if !buildWatch {
			report, err := compiler.Compile(cmd.Context(), cc)
			if err != nil {
				fatal("Error building catalog", err)
			}
			fmt.Printf("Successfully built %d prompts to %s\n", report.Written, report.Output)
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := compiler.Watch(ctx, cc, buildDebounce, func(report compiler.Report, err error) {
			if err != nil {
				// already logged by the watcher
				return
			}
			fmt.Printf("Successfully built %d prompts to %s\n", report.Written, report.Output)
		})
		if err != nil {
			fatal("Error watching prompts", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "Rebuild on changes until interrupted")
	buildCmd.Flags().BoolVar(&buildCheck, "check", false, "Compare the artifact with a fresh build without writing")
	buildCmd.MarkFlagsMutuallyExclusive("watch", "check")
	buildCmd.Flags().StringVar(&buildPrompts, "prompts", "", "Source directory (default: prompts_dir under the root)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Artifact path (default: catalog under the root)")
	buildCmd.Flags().DurationVar(&buildDebounce, "debounce", compiler.DefaultDebounce, "Quiet period before a rebuild")
}
