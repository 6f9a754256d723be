package cmd

import (
	"os"
	"path/filepath"

	"github.com/firefly-engineering/dev-tools/internal/app"
	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/lifecycle"
	"github.com/firefly-engineering/dev-tools/internal/suffix"
)

// getwd is replaced in tests.
var getwd = os.Getwd

// paths returns the default paths configuration.
func paths() *config.Paths {
	return app.Default.Paths
}

// settings returns the loaded settings.
func settings() *config.Settings {
	return app.Default.Settings
}

// events returns the lifecycle event log.
func events() *audit.Logger {
	return app.Default.Events
}

// newManager builds a lifecycle manager over the application dependencies.
func newManager() *lifecycle.Manager {
	a := app.Default
	return lifecycle.New(lifecycle.Deps{
		FS:        a.FS,
		Executor:  a.Executor,
		Allocator: a.Allocator,
		Locator:   a.Locator,
		Settings:  a.Settings,
		Events:    a.Events,
	})
}

// pathArg returns the optional path argument made absolute against the
// working directory, or the working directory itself.
func pathArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return absPath(args[0])
	}
	wd, err := getwd()
	if err != nil {
		return "", errors.Wrap(errors.ExitGeneralError, "couldn't determine the working directory", err)
	}
	return wd, nil
}

// absPath resolves path against the working directory.
func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := getwd()
	if err != nil {
		return "", errors.Wrap(errors.ExitGeneralError, "couldn't determine the working directory", err)
	}
	return filepath.Join(wd, path), nil
}

// resolveEnv locates the environment containing path or returns
// EnvironmentNotFound.
func resolveEnv(path string) (*environment.Environment, error) {
	env, err := app.Default.Locator.Resolve(path)
	if err != nil {
		return nil, errors.EnvironmentNotFound(path, err)
	}
	return env, nil
}

// resolveEnvArg resolves the optional path argument.
func resolveEnvArg(args []string) (*environment.Environment, error) {
	path, err := pathArg(args)
	if err != nil {
		return nil, err
	}
	return resolveEnv(path)
}

// stateError classifies a failure to read or write the state file.
func stateError(err error) error {
	if errors.Is(err, suffix.ErrCorruptState) {
		return errors.StateCorrupt(err)
	}
	return errors.Wrap(errors.ExitGeneralError, "couldn't access "+paths().StateFile, err)
}
