package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvProjectsPath, EnvHostSuffix, EnvInstallRecipe, EnvInstallVersion,
		EnvPreferSource, EnvGitHubToken, EnvPHPVersions, EnvDatabase,
		EnvDatabaseVersion, EnvHostsFile,
	} {
		if v, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { os.Setenv(name, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(name) })
		}
		os.Unsetenv(name)
	}
}

func TestNewPaths(t *testing.T) {
	paths := NewPaths("/opt/dev-tools")

	if paths.StateFile != "/opt/dev-tools/projectsConfig.json" {
		t.Errorf("StateFile = %q", paths.StateFile)
	}
	if paths.SettingsFile != "/opt/dev-tools/dev-tools.toml" {
		t.Errorf("SettingsFile = %q", paths.SettingsFile)
	}
	if paths.DotEnvFile != "/opt/dev-tools/.env" {
		t.Errorf("DotEnvFile = %q", paths.DotEnvFile)
	}
	if paths.EventsDir != "/opt/dev-tools/events" {
		t.Errorf("EventsDir = %q", paths.EventsDir)
	}
}

func TestInstallDir(t *testing.T) {
	t.Run("DT_HOME wins", func(t *testing.T) {
		t.Setenv(HomeEnv, "/srv/dt")
		t.Setenv("SUDO_USER", "alice")
		if got := InstallDir(); got != "/srv/dt" {
			t.Errorf("InstallDir() = %q, want /srv/dt", got)
		}
	})

	t.Run("sudo user home", func(t *testing.T) {
		t.Setenv(HomeEnv, "")
		t.Setenv("SUDO_USER", "alice")
		if got := InstallDir(); got != "/home/alice/.dev-tools" {
			t.Errorf("InstallDir() = %q, want /home/alice/.dev-tools", got)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv(HomeEnv, "")
		t.Setenv("SUDO_USER", "")
		t.Setenv("HOME", "/home/bob")
		if got := InstallDir(); got != "/home/bob/.dev-tools" {
			t.Errorf("InstallDir() = %q, want /home/bob/.dev-tools", got)
		}
	})
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearSettingsEnv(t)
	paths := NewPaths(t.TempDir())

	s, err := LoadSettings(paths)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	defaults := DefaultSettings()
	if s.HostSuffix != defaults.HostSuffix {
		t.Errorf("HostSuffix = %q, want %q", s.HostSuffix, defaults.HostSuffix)
	}
	if s.Database != DatabaseMySQL {
		t.Errorf("Database = %q, want %q", s.Database, DatabaseMySQL)
	}
	if s.DatabaseVersion != "latest" {
		t.Errorf("DatabaseVersion = %q, want latest", s.DatabaseVersion)
	}
	if s.HostsFile != "/etc/hosts" {
		t.Errorf("HostsFile = %q, want /etc/hosts", s.HostsFile)
	}
}

func TestLoadSettings_Layers(t *testing.T) {
	clearSettingsEnv(t)
	dir := t.TempDir()
	paths := NewPaths(dir)

	toml := `
projects_path = "/work/envs"
host_suffix = "test"
install_recipe = "silverstripe/recipe-cms"
database = "mariadb"
php_versions = ["8.1", "8.3"]
`
	if err := os.WriteFile(paths.SettingsFile, []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	dotenv := "DT_DEFAULT_HOST_SUFFIX=dotenv\nDT_PREFER_SOURCE=true\nDT_GITHUB_TOKEN=ghp_dotenv\n"
	if err := os.WriteFile(paths.DotEnvFile, []byte(dotenv), 0644); err != nil {
		t.Fatal(err)
	}
	// Process environment beats .env.
	os.Setenv(EnvGitHubToken, "ghp_process")

	s, err := LoadSettings(paths)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}

	if s.ProjectsPath != "/work/envs" {
		t.Errorf("ProjectsPath = %q, want /work/envs", s.ProjectsPath)
	}
	if s.InstallRecipe != "silverstripe/recipe-cms" {
		t.Errorf("InstallRecipe = %q", s.InstallRecipe)
	}
	if s.HostSuffix != "dotenv" {
		t.Errorf("HostSuffix = %q, want dotenv (.env overrides toml)", s.HostSuffix)
	}
	if !s.PreferSource {
		t.Error("PreferSource should be true from .env")
	}
	if s.GitHubToken != "ghp_process" {
		t.Errorf("GitHubToken = %q, want ghp_process", s.GitHubToken)
	}
	if s.Database != DatabaseMariaDB {
		t.Errorf("Database = %q, want mariadb", s.Database)
	}
	if s.DefaultPHPVersion() != "8.1" {
		t.Errorf("DefaultPHPVersion() = %q, want 8.1", s.DefaultPHPVersion())
	}
}

func TestLoadSettings_EnvPHPVersions(t *testing.T) {
	clearSettingsEnv(t)
	os.Setenv(EnvPHPVersions, "8.3, 8.10,8.2")

	s, err := LoadSettings(NewPaths(t.TempDir()))
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if len(s.PHPVersions) != 3 {
		t.Fatalf("PHPVersions = %v, want 3 entries", s.PHPVersions)
	}
	if s.DefaultPHPVersion() != "8.2" {
		t.Errorf("DefaultPHPVersion() = %q, want 8.2", s.DefaultPHPVersion())
	}
	if !s.SupportsPHP("8.10") || s.SupportsPHP("7.4") {
		t.Error("SupportsPHP mismatch")
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown database",
			toml:    `database = "oracle"`,
			wantErr: "Database",
		},
		{
			name:    "bad host suffix",
			toml:    `host_suffix = "not a host"`,
			wantErr: "HostSuffix",
		},
		{
			name:    "malformed toml",
			toml:    `database = `,
			wantErr: "dev-tools.toml",
		},
		{
			name:    "bad prefer source",
			env:     map[string]string{EnvPreferSource: "sometimes"},
			wantErr: EnvPreferSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSettingsEnv(t)
			paths := NewPaths(t.TempDir())
			if tt.toml != "" {
				if err := os.WriteFile(paths.SettingsFile, []byte(tt.toml), 0644); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				os.Setenv(k, v)
			}

			_, err := LoadSettings(paths)
			if err == nil {
				t.Fatal("LoadSettings() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	clearSettingsEnv(t)
	paths := NewPaths(filepath.Join(t.TempDir(), "nested"))

	s := DefaultSettings()
	s.HostSuffix = "dev"
	s.Database = DatabasePostgres
	if err := s.Save(paths.SettingsFile); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadSettings(paths)
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if loaded.HostSuffix != "dev" || loaded.Database != DatabasePostgres {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"8.1", "8.2", -1},
		{"8.10", "8.9", 1},
		{"8.1", "8.1", 0},
		{"8", "8.0", 0},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
