package lifecycle

import (
	"github.com/firefly-engineering/dev-tools/internal/composer"
	"github.com/firefly-engineering/dev-tools/internal/environment"
)

// UpOptions holds all options for creating a freestanding environment.
type UpOptions struct {
	// Name is the environment name without suffix. Derived from the
	// recipe and constraint when empty.
	Name string

	// ProjectsPath is the parent directory of the environment.
	// Defaults to the configured projects path.
	ProjectsPath string

	// Recipe is a composer package or one of composer.RecipeShortcuts.
	Recipe string

	// Constraint is the composer version constraint for Recipe.
	Constraint string

	// PHPVersion selects the container image. Unsupported versions fall
	// back to the configured default with a warning.
	PHPVersion string

	Database  string
	DBVersion string

	// Composer controls the composer arguments.
	Composer composer.Options
}

// AttachOptions holds all options for attaching to an existing project.
type AttachOptions struct {
	// ProjectPath is the existing project directory (required).
	ProjectPath string

	// Name overrides the sanitised directory basename.
	Name string

	PHPVersion string
	Database   string
	DBVersion  string
}

// Result holds the outcome of a successful transition.
type Result struct {
	Env *environment.Environment

	// Warnings lists steps that failed without failing the transition.
	Warnings []string

	// HostsEntry is set when the hosts file could not be updated and the
	// line has to be added or removed by hand.
	HostsEntry string
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
