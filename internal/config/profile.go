// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfileConfig is the on-disk profile file, stored at ~/.config/escmd/config.yaml.
type ProfileConfig struct {
	CurrentProfile string             `yaml:"current-profile,omitempty"`
	Profiles       map[string]Profile `yaml:"profiles,omitempty"`
}

// Profile is a named set of cluster connection settings.
type Profile struct {
	Elasticsearch ESProfile   `yaml:"elasticsearch,omitempty"`
	OTLP          OTLPProfile `yaml:"otlp,omitempty"`
}

// ESProfile holds Elasticsearch connection settings for a profile.
type ESProfile struct {
	URL      string `yaml:"url,omitempty"`
	APIKey   string `yaml:"api-key,omitempty"` // Supports ${ENV_VAR} syntax
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"` // Supports ${ENV_VAR} syntax
	Mode     string `yaml:"mode,omitempty"`
}

// OTLPProfile holds the audit export endpoint for a profile.
type OTLPProfile struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure *bool  `yaml:"insecure,omitempty"` // Pointer to distinguish unset from false
}

const (
	ConfigDirName  = "escmd"
	ConfigFileName = "config.yaml"
)

// GetConfigDir returns the escmd config directory, honouring XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName), nil
}

// GetConfigPath returns the full path to the profile file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LoadProfiles reads the profile file. A missing file yields an empty config.
func LoadProfiles() (*ProfileConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ProfileConfig{Profiles: make(map[string]Profile)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	checkFilePermissions(path)

	var cfg ProfileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return &cfg, nil
}

// SaveProfiles writes the profile file with 0600 permissions.
func SaveProfiles(cfg *ProfileConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// GetProfile returns the named profile, or an error if it doesn't exist.
func (c *ProfileConfig) GetProfile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// SetProfile creates or updates a named profile.
func (c *ProfileConfig) SetProfile(name string, profile Profile) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = profile
}

// DeleteProfile removes a named profile and clears it as current.
func (c *ProfileConfig) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return nil
}

// ListProfiles returns all profile names, sorted.
func (c *ProfileConfig) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetActiveProfile returns the profile selected by profileFlag, falling back
// to current-profile. Returns nil and "" when none is active.
func (c *ProfileConfig) GetActiveProfile(profileFlag string) (*Profile, string) {
	name := profileFlag
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return nil, ""
	}
	p, err := c.GetProfile(name)
	if err != nil {
		return nil, ""
	}
	return &p, name
}

var envVarPattern = regexp.MustCompile(`^\$\{([^}]+)\}$`)

// IsEnvRef returns true if the string is an environment variable reference.
func IsEnvRef(s string) bool {
	return envVarPattern.MatchString(s)
}

// expandEnvVar expands a single ${VAR} reference. Non-references are returned as-is.
func expandEnvVar(s string) (string, bool) {
	matches := envVarPattern.FindStringSubmatch(s)
	if len(matches) != 2 {
		return s, true
	}
	return os.LookupEnv(matches[1])
}

// Resolve returns a copy of the profile with all ${ENV_VAR} references expanded.
func (p Profile) Resolve() (Profile, error) {
	resolved := p
	fields := []struct {
		name string
		dst  *string
	}{
		{"api-key", &resolved.Elasticsearch.APIKey},
		{"username", &resolved.Elasticsearch.Username},
		{"password", &resolved.Elasticsearch.Password},
	}
	for _, f := range fields {
		if !IsEnvRef(*f.dst) {
			continue
		}
		val, ok := expandEnvVar(*f.dst)
		if !ok {
			return Profile{}, fmt.Errorf("undefined environment variable in %s: %s", f.name, *f.dst)
		}
		*f.dst = val
	}
	return resolved, nil
}

// HasPlainTextCredentials reports credentials stored without ${ENV} indirection.
func (p Profile) HasPlainTextCredentials() bool {
	for _, v := range []string{p.Elasticsearch.APIKey, p.Elasticsearch.Username, p.Elasticsearch.Password} {
		if v != "" && !IsEnvRef(v) {
			return true
		}
	}
	return false
}

func checkFilePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	mode := info.Mode().Perm()
	if mode&0077 != 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s has permissions %04o, should be 0600 for security\n", path, mode)
	}
}

func maskSecret(s string) string {
	if s == "" || IsEnvRef(s) {
		return s
	}
	return "****"
}

// MaskCredentials returns a copy with plain text credentials replaced by "****".
func (p Profile) MaskCredentials() Profile {
	masked := p
	masked.Elasticsearch.APIKey = maskSecret(p.Elasticsearch.APIKey)
	masked.Elasticsearch.Username = maskSecret(p.Elasticsearch.Username)
	masked.Elasticsearch.Password = maskSecret(p.Elasticsearch.Password)
	return masked
}

// String returns the YAML form of the config with credentials masked.
func (c ProfileConfig) String() string {
	masked := ProfileConfig{
		CurrentProfile: c.CurrentProfile,
		Profiles:       make(map[string]Profile, len(c.Profiles)),
	}
	for name, profile := range c.Profiles {
		masked.Profiles[name] = profile.MaskCredentials()
	}
	data, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return strings.TrimSpace(string(data))
}

// PlainTextCredentialWarning is printed after saving plain text credentials.
func PlainTextCredentialWarning() string {
	return "Warning: Storing credentials in plain text. Consider using environment\n" +
		"variable references (e.g., api-key: ${MY_API_KEY}) for better security."
}
