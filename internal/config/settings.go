package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadSettings.
const (
	EnvProjectsPath    = "DT_DEFAULT_PROJECTS_PATH"
	EnvHostSuffix      = "DT_DEFAULT_HOST_SUFFIX"
	EnvInstallRecipe   = "DT_DEFAULT_INSTALL_RECIPE"
	EnvInstallVersion  = "DT_DEFAULT_INSTALL_VERSION"
	EnvPreferSource    = "DT_PREFER_SOURCE"
	EnvGitHubToken     = "DT_GITHUB_TOKEN"
	EnvPHPVersions     = "DT_PHP_VERSIONS"
	EnvDatabase        = "DT_DEFAULT_DATABASE"
	EnvDatabaseVersion = "DT_DEFAULT_DATABASE_VERSION"
	EnvHostsFile       = "DT_HOSTS_FILE"
)

// Supported database services.
const (
	DatabaseMySQL    = "mysql"
	DatabaseMariaDB  = "mariadb"
	DatabasePostgres = "postgres"
)

// Settings are the developer's preferences.
type Settings struct {
	ProjectsPath    string   `toml:"projects_path" validate:"required"`
	HostSuffix      string   `toml:"host_suffix" validate:"required,hostname_rfc1123"`
	InstallRecipe   string   `toml:"install_recipe" validate:"required"`
	InstallVersion  string   `toml:"install_version" validate:"required"`
	PreferSource    bool     `toml:"prefer_source"`
	GitHubToken     string   `toml:"github_token"`
	PHPVersions     []string `toml:"php_versions" validate:"required,min=1,dive,required"`
	Database        string   `toml:"database" validate:"oneof=mysql mariadb postgres"`
	DatabaseVersion string   `toml:"database_version" validate:"required"`
	HostsFile       string   `toml:"hosts_file" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	projects := "projects"
	if home, err := os.UserHomeDir(); err == nil {
		projects = filepath.Join(home, "projects")
	}
	return &Settings{
		ProjectsPath:    projects,
		HostSuffix:      "localhost",
		InstallRecipe:   "silverstripe/installer",
		InstallVersion:  "5.x-dev",
		PHPVersions:     []string{"8.1", "8.2", "8.3"},
		Database:        DatabaseMySQL,
		DatabaseVersion: "latest",
		HostsFile:       "/etc/hosts",
	}
}

// LoadSettings layers the settings file and DT_* variables over the
// defaults and validates the result.
func LoadSettings(paths *Paths) (*Settings, error) {
	s := DefaultSettings()

	if _, err := toml.DecodeFile(paths.SettingsFile, s); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", paths.SettingsFile, err)
	}

	if err := godotenv.Load(paths.DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", paths.DotEnvFile, err)
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	stringVars := map[string]*string{
		EnvProjectsPath:    &s.ProjectsPath,
		EnvHostSuffix:      &s.HostSuffix,
		EnvInstallRecipe:   &s.InstallRecipe,
		EnvInstallVersion:  &s.InstallVersion,
		EnvGitHubToken:     &s.GitHubToken,
		EnvDatabase:        &s.Database,
		EnvDatabaseVersion: &s.DatabaseVersion,
		EnvHostsFile:       &s.HostsFile,
	}
	for name, field := range stringVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}

	if v := os.Getenv(EnvPreferSource); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPreferSource, v, err)
		}
		s.PreferSource = b
	}

	if v := os.Getenv(EnvPHPVersions); v != "" {
		var versions []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				versions = append(versions, p)
			}
		}
		s.PHPVersions = versions
	}
	return nil
}

// Validate checks the settings against their constraints.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// DefaultPHPVersion is the lowest configured PHP version.
func (s *Settings) DefaultPHPVersion() string {
	if len(s.PHPVersions) == 0 {
		return ""
	}
	versions := append([]string(nil), s.PHPVersions...)
	sort.Slice(versions, func(i, j int) bool {
		return compareVersions(versions[i], versions[j]) < 0
	})
	return versions[0]
}

// SupportsPHP reports whether version is in the configured list.
func (s *Settings) SupportsPHP(version string) bool {
	for _, v := range s.PHPVersions {
		if v == version {
			return true
		}
	}
	return false
}

// compareVersions compares dotted numeric versions, "8.10" > "8.9".
func compareVersions(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x, _ = strconv.Atoi(pa[i])
		}
		if i < len(pb) {
			y, _ = strconv.Atoi(pb[i])
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Save writes the settings as TOML.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
