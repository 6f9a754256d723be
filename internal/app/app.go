// Package app provides the application context for dev-tools.
// It allows dependency injection for testing.
package app

import (
	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/logging"
	"github.com/firefly-engineering/dev-tools/internal/suffix"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// Settings are the developer's preferences
	Settings *config.Settings

	FS       system.FileSystem
	Executor system.CommandExecutor

	// Allocator hands out environment suffixes from the state file
	Allocator *suffix.Allocator

	// Locator resolves paths to environments
	Locator *environment.Locator

	// Events records lifecycle transitions
	Events *audit.Logger

	settingsLoaded bool
	customLocator  bool
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithSettings sets custom settings; LoadSettings becomes a no-op.
func WithSettings(s *config.Settings) Option {
	return func(a *App) {
		a.Settings = s
		a.settingsLoaded = true
	}
}

// WithFS sets a custom filesystem
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithAllocator sets a custom suffix allocator
func WithAllocator(alloc *suffix.Allocator) Option {
	return func(a *App) {
		a.Allocator = alloc
	}
}

// WithLocator sets a custom environment locator
func WithLocator(l *environment.Locator) Option {
	return func(a *App) {
		a.Locator = l
		a.customLocator = true
	}
}

// New creates a new App with the given options. Anything not provided is
// built from the paths and the default settings.
func New(opts ...Option) *App {
	app := &App{
		Paths: config.DefaultPaths(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Settings == nil {
		app.Settings = config.DefaultSettings()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.Allocator == nil {
		app.Allocator = suffix.NewAllocator(suffix.NewFileStore(app.FS, app.Paths.StateFile))
	}
	if app.Locator == nil {
		app.Locator = environment.NewLocator(app.FS, app.Settings.HostSuffix)
	}
	if app.Events == nil {
		app.Events = audit.NewLogger(app.Paths.EventsDir)
	}

	return app
}

// LoadSettings reads the settings file and DT_* variables. Settings given
// with WithSettings are kept as they are.
func (a *App) LoadSettings() error {
	if a.settingsLoaded {
		return nil
	}
	s, err := config.LoadSettings(a.Paths)
	if err != nil {
		return err
	}
	logging.Debug("settings loaded", "install_dir", a.Paths.InstallDir, "host_suffix", s.HostSuffix)

	a.Settings = s
	a.settingsLoaded = true
	if !a.customLocator {
		a.Locator = environment.NewLocator(a.FS, s.HostSuffix)
	}
	return nil
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
