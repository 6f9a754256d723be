// Package lifecycle provisions and tears down development environments.
//
// A Manager ties together the suffix allocator, the environment locator,
// the file generator, the docker compose driver, composer and the hosts
// file:
//
//	m := lifecycle.New(lifecycle.Deps{
//	    FS:        system.DefaultFS,
//	    Executor:  system.DefaultExecutor,
//	    Allocator: allocator,
//	    Locator:   locator,
//	    Settings:  settings,
//	})
//
//	res, err := m.Up(ctx, lifecycle.UpOptions{Recipe: "sink"})
//
// # Up
//
// Up creates a freestanding environment under the projects path:
//  1. Derives the name from the recipe and constraint unless one is given
//  2. Takes the next free suffix
//  3. Creates logs/apache2 and www
//  4. Renders the docker directory and starts the containers
//  5. Installs the recipe with composer create-project
//  6. Renders web root files, adds the hosts entry and builds the database
//
// Failures before the containers run release the suffix; a docker failure
// also removes the environment directory. Hosts and database build failures
// are reported as warnings on the Result.
//
// # Attach
//
// Attach grafts an environment onto an existing project directory by
// writing the marker file. Failures release the suffix and remove the
// marker and docker directory again.
//
// # Detach and Down
//
// Detach undoes Attach and leaves the project in place. Down removes a
// freestanding environment completely.
package lifecycle
