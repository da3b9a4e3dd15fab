package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/arsiv/internal/config"
	"github.com/aretw0/arsiv/internal/platform"
	"github.com/aretw0/arsiv/pkg/core"
)

var (
	verbose  bool
	cfgFile  string
	rootFlag string

	cfg     config.Config
	tracing *platform.Tracing
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arsiv",
	Short: "A prompt catalog compiled from Markdown and served over MCP",
	Long: `arsiv compiles a tree of Markdown prompts with YAML front matter into a
single prompts.json catalog, and serves that catalog to MCP clients.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		// stdout carries MCP traffic under `serve`, so logs stay on stderr.
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		return initConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tracing == nil {
			return
		}
		if err := tracing.Shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	},
}

// initConfig resolves the root, loads settings and starts tracing.
// Flags are read through cmd so rootCmd does not refer to itself.
func initConfig(cmd *cobra.Command) error {
	if rootFlag == "" {
		rootFlag = os.Getenv(config.EnvPrefix + "_ROOT")
	}
	root, err := platform.ResolveRoot(rootFlag)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	v := viper.New()
	v.Set("root", root)
	if err := bindFlags(v, cmd.Root().PersistentFlags(), flagKeys); err != nil {
		return err
	}
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	slog.Debug("configuration loaded", "root", cfg.Root, "catalog", cfg.CatalogPath(), "config_file", v.ConfigFileUsed())

	tracing, err = platform.NewTracing(cfg.Tracing, os.Stderr)
	return err
}

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"remote-url": "remote_url",
	"catalog":    "catalog",
	"lock":       "lock",
}

// bindFlags lets explicitly set flags take precedence over file and env.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newService wires the catalog service from the loaded configuration.
func newService() *core.Service {
	svc, err := platform.New(cfg,
		platform.WithLogger(slog.Default()),
		platform.WithTracer(tracing.Tracer()),
	)
	if err != nil {
		fatal("Error initializing catalog", err)
	}
	return svc
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: arsiv.yaml in the root)")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "arsiv root (default: discovered upwards from the working directory)")
	rootCmd.PersistentFlags().String("remote-url", "", "Remote catalog URL, tried before the local artifact")
	rootCmd.PersistentFlags().String("catalog", "prompts.json", "Catalog artifact path, relative to the root")
	rootCmd.PersistentFlags().Bool("lock", true, "Serialize writes with a lock file")
}
