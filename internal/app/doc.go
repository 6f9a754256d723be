// Package app provides the application context for dev-tools.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Paths     *config.Paths          // Install directory layout
//	    Settings  *config.Settings       // Developer preferences
//	    FS        system.FileSystem      // Filesystem access
//	    Executor  system.CommandExecutor // docker, composer, sudo
//	    Allocator *suffix.Allocator      // Suffix pool
//	    Locator   *environment.Locator   // Path to environment resolution
//	    Events    *audit.Logger          // Lifecycle history
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//	if err := a.LoadSettings(); err != nil {
//	    return err
//	}
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithSettings(testSettings),
//	    app.WithFS(system.NewMockFS()),
//	    app.WithExecutor(system.NewMockExecutor()),
//	)
//
// # Available Options
//
//	WithPaths(paths)         // Custom install directory
//	WithSettings(settings)   // Skip loading the settings file
//	WithFS(fs)               // Custom filesystem
//	WithExecutor(exec)       // Custom command executor
//	WithAllocator(alloc)     // Custom suffix allocator
//	WithLocator(locator)     // Custom environment locator
package app
