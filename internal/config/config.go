// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package config provides centralized configuration management for escmd.
// It supports deterministic precedence (flags > env > profile > defaults)
// using Viper, and fail-fast validation to prevent silent misconfiguration.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	ES      ESConfig     `mapstructure:"es"`
	Output  OutputConfig `mapstructure:"output"`
	Log     LogConfig    `mapstructure:"log"`
	OTLP    OTLPConfig   `mapstructure:"otlp"`
	Ingest  IngestConfig `mapstructure:"ingest"`
	Profile string       `mapstructure:"-"` // Name of the applied profile, if any
}

// ESConfig holds Elasticsearch connection settings.
type ESConfig struct {
	URL         string        `mapstructure:"url"`
	APIKey      string        `mapstructure:"api_key"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Timeout     time.Duration `mapstructure:"timeout"`      // Per-request timeout
	PingTimeout time.Duration `mapstructure:"ping_timeout"` // Single ping timeout
	Wait        time.Duration `mapstructure:"wait"`         // Readiness wait budget, 0 disables
	Mode        string        `mapstructure:"mode"`         // dev or prod
}

// OutputConfig controls how responses are written.
type OutputConfig struct {
	Pretty string `mapstructure:"pretty"` // auto, true or false
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// OTLPConfig holds OpenTelemetry Protocol settings for the command audit log.
type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"` // Empty disables export
	Insecure bool   `mapstructure:"insecure"`
}

// IngestConfig tunes the follow-mode bulk indexer.
type IngestConfig struct {
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	Workers       int           `mapstructure:"workers"`
}

// Cluster modes.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

// Pretty output settings.
const (
	PrettyAuto  = "auto"
	PrettyTrue  = "true"
	PrettyFalse = "false"
)

// Default configuration values.
const (
	DefaultESURL         = "http://localhost:9200"
	DefaultTimeout       = 30 * time.Second
	DefaultPingTimeout   = 5 * time.Second
	DefaultWait          = 0
	DefaultMode          = ModeDev
	DefaultPretty        = PrettyAuto
	DefaultFlushInterval = time.Second
	DefaultWorkers       = 1
)

// ContextKey is used to store config in context.
type ContextKey struct{}

// FromContext retrieves Config from context.
func FromContext(ctx context.Context) (Config, bool) {
	cfg, ok := ctx.Value(ContextKey{}).(Config)
	return cfg, ok
}

// WithContext stores Config in context.
func WithContext(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ContextKey{}, cfg)
}

// Load builds a Config using Viper with precedence: flags > env > profile > defaults.
// It binds flags from the command (and its parents) and fails fast on invalid values.
// profileName overrides the current-profile stored in the profile file.
func Load(cmd *cobra.Command, profileName string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ESCMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	applied, err := applyProfile(v, profileName)
	if err != nil {
		return Config{}, err
	}

	if err := bindFlagsRecursive(v, cmd); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Profile = applied

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers default values with Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("es.url", DefaultESURL)
	v.SetDefault("es.api_key", "")
	v.SetDefault("es.username", "")
	v.SetDefault("es.password", "")
	v.SetDefault("es.timeout", DefaultTimeout)
	v.SetDefault("es.ping_timeout", DefaultPingTimeout)
	v.SetDefault("es.wait", time.Duration(DefaultWait))
	v.SetDefault("es.mode", DefaultMode)

	v.SetDefault("output.pretty", DefaultPretty)
	v.SetDefault("log.verbose", false)

	v.SetDefault("otlp.endpoint", "")
	v.SetDefault("otlp.insecure", true)

	v.SetDefault("ingest.flush_interval", DefaultFlushInterval)
	v.SetDefault("ingest.workers", DefaultWorkers)
}

// applyProfile layers the active profile over the defaults. Env and flags
// still win because they are resolved by Viper before defaults.
func applyProfile(v *viper.Viper, profileName string) (string, error) {
	profiles, err := LoadProfiles()
	if err != nil {
		return "", fmt.Errorf("load profiles: %w", err)
	}
	if profileName != "" {
		if _, err := profiles.GetProfile(profileName); err != nil {
			return "", err
		}
	}

	p, name := profiles.GetActiveProfile(profileName)
	if p == nil {
		return "", nil
	}
	resolved, err := p.Resolve()
	if err != nil {
		return "", fmt.Errorf("profile %q: %w", name, err)
	}

	es := resolved.Elasticsearch
	if es.URL != "" {
		v.SetDefault("es.url", es.URL)
	}
	if es.APIKey != "" {
		v.SetDefault("es.api_key", es.APIKey)
	}
	if es.Username != "" {
		v.SetDefault("es.username", es.Username)
	}
	if es.Password != "" {
		v.SetDefault("es.password", es.Password)
	}
	if es.Mode != "" {
		v.SetDefault("es.mode", es.Mode)
	}
	if resolved.OTLP.Endpoint != "" {
		v.SetDefault("otlp.endpoint", resolved.OTLP.Endpoint)
	}
	if resolved.OTLP.Insecure != nil {
		v.SetDefault("otlp.insecure", *resolved.OTLP.Insecure)
	}
	return name, nil
}

// bindFlagsRecursive binds flags from cmd and all parents so Viper sees them.
func bindFlagsRecursive(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	if err := bindFlagSet(v, cmd.Flags()); err != nil {
		return err
	}
	if err := bindFlagSet(v, cmd.PersistentFlags()); err != nil {
		return err
	}
	return bindFlagsRecursive(v, cmd.Parent())
}

// flagToKey maps global flag names to nested Viper keys. Command-local
// flags (index, data, query...) are not configuration and stay unbound.
var flagToKey = map[string]string{
	"es-url":         "es.url",
	"api-key":        "es.api_key",
	"username":       "es.username",
	"password":       "es.password",
	"timeout":        "es.timeout",
	"ping-timeout":   "es.ping_timeout",
	"wait":           "es.wait",
	"mode":           "es.mode",
	"pretty":         "output.pretty",
	"verbose":        "log.verbose",
	"otlp":           "otlp.endpoint",
	"otlp-insecure":  "otlp.insecure",
	"flush-interval": "ingest.flush_interval",
	"workers":        "ingest.workers",
}

// bindFlagSet binds known flags to Viper keys.
func bindFlagSet(v *viper.Viper, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagToKey[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Validate enforces correctness and fails fast on invalid configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ES.URL) == "" {
		return fmt.Errorf("es.url is required")
	}
	if c.ES.Timeout <= 0 {
		return fmt.Errorf("es.timeout must be > 0")
	}
	if c.ES.PingTimeout <= 0 {
		return fmt.Errorf("es.ping_timeout must be > 0")
	}
	if c.ES.Wait < 0 {
		return fmt.Errorf("es.wait must be >= 0")
	}
	switch c.ES.Mode {
	case ModeDev, ModeProd:
	default:
		return fmt.Errorf("es.mode must be %q or %q, got %q", ModeDev, ModeProd, c.ES.Mode)
	}
	if c.ES.APIKey != "" && (c.ES.Username != "" || c.ES.Password != "") {
		return fmt.Errorf("es.api_key and es.username/es.password are mutually exclusive")
	}
	switch c.Output.Pretty {
	case PrettyAuto, PrettyTrue, PrettyFalse:
	default:
		return fmt.Errorf("output.pretty must be auto, true or false, got %q", c.Output.Pretty)
	}
	if c.Ingest.FlushInterval <= 0 {
		return fmt.Errorf("ingest.flush_interval must be > 0")
	}
	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be > 0")
	}
	return nil
}

// IsDev reports whether dev-mode conveniences (replica relaxation) apply.
func (c Config) IsDev() bool {
	return c.ES.Mode == ModeDev
}
