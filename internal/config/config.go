// Package config loads arsiv settings from defaults, an optional YAML file,
// the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the base name of the optional config file looked up in the root.
const FileName = "arsiv"

// EnvPrefix prefixes every environment variable arsiv reads.
const EnvPrefix = "ARSIV"

// LegacyRemoteEnv is also accepted for remote_url.
const LegacyRemoteEnv = "GITHUB_PROMPTS_URL"

// Config holds all arsiv settings.
type Config struct {
	Root          string        `mapstructure:"root"`
	Catalog       string        `mapstructure:"catalog"`
	PromptsDir    string        `mapstructure:"prompts_dir"`
	Patterns      []string      `mapstructure:"patterns"`
	RemoteURL     string        `mapstructure:"remote_url"`
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
	Lock          bool          `mapstructure:"lock"`
	Tracing       TracingConfig `mapstructure:"tracing"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Exporter     string `mapstructure:"exporter"` // "none", "stdout" or "otlp"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Catalog:       "prompts.json",
		PromptsDir:    "prompts",
		Patterns:      []string{"**/*.md"},
		RemoteTimeout: 10 * time.Second,
		Lock:          true,
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			ServiceName:  "arsiv",
		},
	}
}

// SetDefaults registers every key with v so env overrides reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("root", d.Root)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("prompts_dir", d.PromptsDir)
	v.SetDefault("patterns", d.Patterns)
	v.SetDefault("remote_url", d.RemoteURL)
	v.SetDefault("remote_timeout", d.RemoteTimeout)
	v.SetDefault("lock", d.Lock)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load resolves the configuration held by v.
// cfgFile, when set, must exist; otherwise arsiv.yaml is looked up in the
// configured root and then the working directory, and its absence is fine.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("remote_url", EnvPrefix+"_REMOTE_URL", LegacyRemoteEnv); err != nil {
		return Config{}, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if root := v.GetString("root"); root != "" {
			v.AddConfigPath(root)
		}
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	if c.Catalog == "" {
		return errors.New("catalog path must not be empty")
	}
	if c.RemoteTimeout < 0 {
		return fmt.Errorf("remote_timeout must not be negative: %s", c.RemoteTimeout)
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported tracing exporter: %s", c.Tracing.Exporter)
	}
	return nil
}

// CatalogPath is the artifact location, resolved against Root when relative.
func (c Config) CatalogPath() string {
	return c.resolve(c.Catalog)
}

// PromptsPath is the source document root, resolved against Root when relative.
func (c Config) PromptsPath() string {
	return c.resolve(c.PromptsDir)
}

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
