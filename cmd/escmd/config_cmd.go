// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elastic/escmd/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage escmd configuration and profiles",
		Long: `Manage escmd configuration profiles.

Profiles allow you to define multiple Elasticsearch/OTLP configurations
and switch between them easily (similar to kubectl contexts).

Configuration is stored in ~/.config/escmd/config.yaml`,
		// Profiles stay editable even when the active one no longer resolves.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(
		newUseProfileCmd(),
		newSetProfileCmd(),
		newGetProfilesCmd(),
		newCurrentProfileCmd(),
		newDeleteProfileCmd(),
		newViewConfigCmd(),
		newConfigPathCmd(),
	)
	return cmd
}

func newUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Set the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := config.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			// Verify profile exists
			if _, err := cfg.GetProfile(name); err != nil {
				return fmt.Errorf("profile %q does not exist", name)
			}

			cfg.CurrentProfile = name
			if err := config.SaveProfiles(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %q\n", name)
			return nil
		},
	}
}

type setProfileOptions struct {
	esURL        string
	esAPIKey     string
	esUsername   string
	esPassword   string
	mode         string
	otlp         string
	otlpInsecure bool
}

func newSetProfileCmd() *cobra.Command {
	var opts setProfileOptions

	cmd := &cobra.Command{
		Use:   "set-profile <name>",
		Short: "Create or update a profile",
		Long: `Create or update a named profile with connection settings.

Examples:
  # Create a local development profile
  escmd config set-profile local --es-url http://localhost:9200

  # Create a staging profile with API key (using env var reference)
  escmd config set-profile staging \
    --es-url https://staging.es.example.com:9243 \
    --es-api-key '${STAGING_ES_API_KEY}' \
    --mode prod

  # Create a profile with basic auth
  escmd config set-profile dev \
    --es-url https://dev.es.example.com:9243 \
    --es-username elastic \
    --es-password changeme

Credentials can be stored as:
  - Environment variable references: ${MY_SECRET} (recommended)
  - Plain text values (warning will be shown)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetProfile(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.esURL, "es-url", "", "Elasticsearch URL")
	cmd.Flags().StringVar(&opts.esAPIKey, "es-api-key", "", "Elasticsearch API key (supports ${ENV_VAR} syntax)")
	cmd.Flags().StringVar(&opts.esUsername, "es-username", "", "Elasticsearch username")
	cmd.Flags().StringVar(&opts.esPassword, "es-password", "", "Elasticsearch password (supports ${ENV_VAR} syntax)")
	cmd.Flags().StringVar(&opts.mode, "cluster-mode", "", "Cluster mode for this profile: dev or prod")
	cmd.Flags().StringVar(&opts.otlp, "otlp-endpoint", "", "OTLP endpoint for the command audit log")
	cmd.Flags().BoolVar(&opts.otlpInsecure, "otlp-plaintext", true, "Use insecure OTLP connection")
	return cmd
}

func runSetProfile(cmd *cobra.Command, name string, opts setProfileOptions) error {
	switch opts.mode {
	case "", config.ModeDev, config.ModeProd:
	default:
		return fmt.Errorf("--cluster-mode must be %q or %q, got %q", config.ModeDev, config.ModeProd, opts.mode)
	}

	cfg, err := config.LoadProfiles()
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}

	// Get existing profile or create new one
	profile, _ := cfg.GetProfile(name)

	// Update with provided flags
	if opts.esURL != "" {
		profile.Elasticsearch.URL = opts.esURL
	}
	if opts.esAPIKey != "" {
		profile.Elasticsearch.APIKey = opts.esAPIKey
	}
	if opts.esUsername != "" {
		profile.Elasticsearch.Username = opts.esUsername
	}
	if opts.esPassword != "" {
		profile.Elasticsearch.Password = opts.esPassword
	}
	if opts.mode != "" {
		profile.Elasticsearch.Mode = opts.mode
	}
	if opts.otlp != "" {
		profile.OTLP.Endpoint = opts.otlp
	}
	if cmd.Flags().Changed("otlp-plaintext") {
		insecure := opts.otlpInsecure
		profile.OTLP.Insecure = &insecure
	}

	cfg.SetProfile(name, profile)

	if err := config.SaveProfiles(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	// Warn if plain text credentials were stored
	if profile.HasPlainTextCredentials() {
		fmt.Fprintln(cmd.ErrOrStderr(), config.PlainTextCredentialWarning())
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved\n", name)
	return nil
}

func newGetProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get-profiles",
		Aliases: []string{"list-profiles", "profiles"},
		Short:   "List all profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			names := cfg.ListProfiles()
			if len(names) == 0 {
				fmt.Fprintln(out, "No profiles configured.")
				fmt.Fprintln(out, "Create one with: escmd config set-profile <name> --es-url <url>")
				return nil
			}

			fmt.Fprintln(out, "PROFILES:")
			for _, name := range names {
				marker := "  "
				if name == cfg.CurrentProfile {
					marker = "* "
				}
				profile, _ := cfg.GetProfile(name)
				fmt.Fprintf(out, "%s%-20s  %s\n", marker, name, formatProfileSummary(profile))
			}

			if cfg.CurrentProfile != "" {
				fmt.Fprintf(out, "\n* = current profile\n")
			}

			return nil
		},
	}
}

func newCurrentProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current-profile",
		Short: "Show the current profile name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			if cfg.CurrentProfile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile selected (using defaults)")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cfg.CurrentProfile)
			return nil
		},
	}
}

func newDeleteProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-profile <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := config.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			if err := cfg.DeleteProfile(name); err != nil {
				return err
			}

			if err := config.SaveProfiles(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Profile %q deleted\n", name)
			return nil
		},
	}
}

func newViewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the full configuration (credentials masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.LoadProfiles()
			if err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}

			if len(cfg.Profiles) == 0 && cfg.CurrentProfile == "" {
				fmt.Fprintln(out, "No configuration found.")
				fmt.Fprintln(out, "Create a profile with: escmd config set-profile <name> --es-url <url>")
				return nil
			}

			// Print the masked config
			fmt.Fprintln(out, cfg.String())
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("get config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// formatProfileSummary returns a brief summary of a profile's settings.
func formatProfileSummary(p config.Profile) string {
	var parts []string
	if p.Elasticsearch.URL != "" {
		parts = append(parts, fmt.Sprintf("es=%s", p.Elasticsearch.URL))
	}
	if p.Elasticsearch.Mode != "" {
		parts = append(parts, fmt.Sprintf("mode=%s", p.Elasticsearch.Mode))
	}
	if p.OTLP.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("otlp=%s", p.OTLP.Endpoint))
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, ", ")
}
