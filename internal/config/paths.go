package config

import (
	"os"
	"path/filepath"
)

const (
	// HomeEnv overrides the install directory.
	HomeEnv = "DT_HOME"

	StateFileName    = "projectsConfig.json"
	SettingsFileName = "dev-tools.toml"
	DotEnvFileName   = ".env"
	EventsDirName    = "events"
)

// Paths holds the configured paths
type Paths struct {
	InstallDir   string
	StateFile    string
	SettingsFile string
	DotEnvFile   string
	EventsDir    string
}

// DefaultPaths returns the path configuration for the current user.
func DefaultPaths() *Paths {
	return NewPaths(InstallDir())
}

// NewPaths derives every path from installDir.
func NewPaths(installDir string) *Paths {
	return &Paths{
		InstallDir:   installDir,
		StateFile:    filepath.Join(installDir, StateFileName),
		SettingsFile: filepath.Join(installDir, SettingsFileName),
		DotEnvFile:   filepath.Join(installDir, DotEnvFileName),
		EventsDir:    filepath.Join(installDir, EventsDirName),
	}
}

// InstallDir resolves the install directory. Under sudo the invoking
// user's home is used so state is not split between root and the user.
func InstallDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser, ".dev-tools")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dev-tools"
	}
	return filepath.Join(home, ".dev-tools")
}
