// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestProfileConfig_GetSetProfile(t *testing.T) {
	cfg := &ProfileConfig{}

	cfg.SetProfile("new", Profile{
		Elasticsearch: ESProfile{URL: "http://new:9200", Mode: ModeProd},
		OTLP:          OTLPProfile{Endpoint: "new:4318"},
	})

	p, err := cfg.GetProfile("new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Elasticsearch.URL != "http://new:9200" {
		t.Errorf("ES URL = %q, want %q", p.Elasticsearch.URL, "http://new:9200")
	}
	if p.Elasticsearch.Mode != ModeProd {
		t.Errorf("Mode = %q, want prod", p.Elasticsearch.Mode)
	}
	if p.OTLP.Endpoint != "new:4318" {
		t.Errorf("OTLP Endpoint = %q, want %q", p.OTLP.Endpoint, "new:4318")
	}

	if _, err := cfg.GetProfile("nonexistent"); err == nil {
		t.Error("expected error for non-existent profile")
	}
}

func TestProfileConfig_DeleteProfile(t *testing.T) {
	cfg := &ProfileConfig{
		CurrentProfile: "test",
		Profiles: map[string]Profile{
			"test":  {Elasticsearch: ESProfile{URL: "http://test:9200"}},
			"other": {Elasticsearch: ESProfile{URL: "http://other:9200"}},
		},
	}

	if err := cfg.DeleteProfile("test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cfg.GetProfile("test"); err == nil {
		t.Error("expected error after delete")
	}
	if cfg.CurrentProfile != "" {
		t.Errorf("CurrentProfile = %q, want empty", cfg.CurrentProfile)
	}
	if err := cfg.DeleteProfile("nonexistent"); err == nil {
		t.Error("expected error for non-existent profile")
	}
}

func TestProfileConfig_ListProfilesSorted(t *testing.T) {
	cfg := &ProfileConfig{Profiles: map[string]Profile{"c": {}, "a": {}, "b": {}}}

	got := cfg.ListProfiles()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListProfiles() = %v, want %v", got, want)
	}
}

func TestProfileConfig_GetActiveProfile(t *testing.T) {
	cfg := &ProfileConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default":  {Elasticsearch: ESProfile{URL: "http://default:9200"}},
			"override": {Elasticsearch: ESProfile{URL: "http://override:9200"}},
		},
	}

	p, name := cfg.GetActiveProfile("override")
	if name != "override" || p == nil || p.Elasticsearch.URL != "http://override:9200" {
		t.Errorf("flag override: got %q %+v", name, p)
	}

	p, name = cfg.GetActiveProfile("")
	if name != "default" || p == nil || p.Elasticsearch.URL != "http://default:9200" {
		t.Errorf("current profile: got %q %+v", name, p)
	}

	cfg.CurrentProfile = ""
	p, name = cfg.GetActiveProfile("")
	if name != "" || p != nil {
		t.Errorf("no profile: got %q %+v", name, p)
	}
}

func TestIsEnvRef(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"${MY_VAR}", true},
		{"${API_KEY}", true},
		{"${}", false},
		{"$MY_VAR", false},
		{"MY_VAR", false},
		{"${MY_VAR", false},
		{"plain text", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsEnvRef(tt.input); got != tt.want {
				t.Errorf("IsEnvRef(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProfile_Resolve(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret-key")
	t.Setenv("TEST_PASS", "testpass")

	profile := Profile{
		Elasticsearch: ESProfile{
			URL:      "http://test:9200",
			APIKey:   "${TEST_API_KEY}",
			Username: "elastic",
			Password: "${TEST_PASS}",
		},
	}

	resolved, err := profile.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Elasticsearch.APIKey != "secret-key" {
		t.Errorf("APIKey = %q, want %q", resolved.Elasticsearch.APIKey, "secret-key")
	}
	if resolved.Elasticsearch.Username != "elastic" {
		t.Errorf("Username = %q, want literal value", resolved.Elasticsearch.Username)
	}
	if resolved.Elasticsearch.Password != "testpass" {
		t.Errorf("Password = %q, want %q", resolved.Elasticsearch.Password, "testpass")
	}
	// The original must not be modified.
	if profile.Elasticsearch.APIKey != "${TEST_API_KEY}" {
		t.Errorf("original APIKey modified: %q", profile.Elasticsearch.APIKey)
	}

	profile.Elasticsearch.APIKey = "${ESCMD_UNDEFINED_VAR}"
	if _, err := profile.Resolve(); err == nil {
		t.Error("expected error for undefined env var")
	}
}

func TestProfile_MaskCredentials(t *testing.T) {
	p := Profile{Elasticsearch: ESProfile{
		URL:      "http://x:9200",
		APIKey:   "plain",
		Username: "${USER_REF}",
	}}

	masked := p.MaskCredentials()
	if masked.Elasticsearch.APIKey != "****" {
		t.Errorf("APIKey = %q, want ****", masked.Elasticsearch.APIKey)
	}
	if masked.Elasticsearch.Username != "${USER_REF}" {
		t.Errorf("Username = %q, env refs stay visible", masked.Elasticsearch.Username)
	}
	if masked.Elasticsearch.Password != "" {
		t.Errorf("Password = %q, want empty", masked.Elasticsearch.Password)
	}
	if !p.HasPlainTextCredentials() {
		t.Error("expected plain text credentials to be detected")
	}
	if (Profile{Elasticsearch: ESProfile{APIKey: "${K}"}}).HasPlainTextCredentials() {
		t.Error("env refs are not plain text")
	}

	s := ProfileConfig{Profiles: map[string]Profile{"p": p}}.String()
	if strings.Contains(s, "plain") {
		t.Errorf("String() leaked a credential:\n%s", s)
	}
}

func TestSaveAndLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	empty, err := LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles on missing file: %v", err)
	}
	if len(empty.Profiles) != 0 {
		t.Errorf("expected no profiles, got %d", len(empty.Profiles))
	}

	insecure := false
	cfg := &ProfileConfig{CurrentProfile: "local"}
	cfg.SetProfile("local", Profile{
		Elasticsearch: ESProfile{URL: "http://localhost:9200", APIKey: "${TEST_KEY}"},
		OTLP:          OTLPProfile{Endpoint: "localhost:4318", Insecure: &insecure},
	})
	if err := SaveProfiles(cfg); err != nil {
		t.Fatalf("SaveProfiles: %v", err)
	}

	path := filepath.Join(dir, ConfigDirName, ConfigFileName)
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %04o, want 0600", perm)
	}

	loaded, err := LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if loaded.CurrentProfile != "local" {
		t.Errorf("CurrentProfile = %q, want local", loaded.CurrentProfile)
	}
	p, err := loaded.GetProfile("local")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Elasticsearch.APIKey != "${TEST_KEY}" {
		t.Errorf("APIKey = %q, env refs are stored unexpanded", p.Elasticsearch.APIKey)
	}
	if p.OTLP.Insecure == nil || *p.OTLP.Insecure {
		t.Errorf("OTLP.Insecure = %v, want explicit false", p.OTLP.Insecure)
	}
}

func TestLoadProfiles_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, ConfigDirName, ConfigFileName)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("profiles: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfiles(); err == nil {
		t.Fatal("expected parse error")
	}
}
