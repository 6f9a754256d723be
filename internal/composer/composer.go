// Package composer builds the composer command lines dev-tools runs inside
// the web server container. Commands are returned as single shell-quoted
// strings because they are passed to `bash -c`.
package composer

import (
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
)

// RecipeShortcuts maps short names accepted by --recipe to packages.
var RecipeShortcuts = map[string]string{
	"sink":      "silverstripe/recipe-kitchen-sink",
	"installer": "silverstripe/installer",
}

// PostgresModule adds PostgreSQL support to the framework.
const PostgresModule = "silverstripe/postgresql"

// Command types that affect argument assembly.
const (
	CreateProject = "create-project"
	Install       = "install"
	Require       = "require"
)

// NormaliseRecipe expands a recipe shortcut.
func NormaliseRecipe(recipe string) string {
	if full, ok := RecipeShortcuts[recipe]; ok {
		return full
	}
	return recipe
}

// Options controls argument assembly.
type Options struct {
	// ExtraArgs is the user's --composer-args value, split with shell rules.
	ExtraArgs    string
	PreferSource bool
}

// Args assembles the flags for a composer command of the given type.
// Duplicates are dropped, keeping the first occurrence.
func Args(commandType string, opts Options) ([]string, error) {
	extra, err := shellquote.Split(opts.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid composer arguments %q: %w", opts.ExtraArgs, err)
	}

	args := append([]string{"--no-interaction"}, extra...)
	if opts.PreferSource {
		args = append(args, "--prefer-source")
	}
	// composer install does not accept --no-audit
	if commandType != Install {
		args = append(args, "--no-audit")
	}
	return dedupe(args), nil
}

func dedupe(args []string) []string {
	seen := make(map[string]bool, len(args))
	out := args[:0]
	for _, a := range args {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// SkipsInstall reports whether the user asked composer not to install
// dependencies, in which case nothing can be run against the project.
func SkipsInstall(opts Options) bool {
	extra, err := shellquote.Split(opts.ExtraArgs)
	if err != nil {
		return false
	}
	for _, a := range extra {
		if a == "--no-install" {
			return true
		}
	}
	return false
}

// CreateProjectCommand installs recipe at constraint into the current directory.
func CreateProjectCommand(recipe, constraint string, opts Options) (string, error) {
	args, err := Args(CreateProject, opts)
	if err != nil {
		return "", err
	}
	words := append([]string{"composer", CreateProject}, args...)
	words = append(words, recipe+":"+constraint, "./")
	return shellquote.Join(words...), nil
}

// RequireCommand adds a package to the project.
func RequireCommand(pkg string, opts Options) (string, error) {
	args, err := Args(Require, opts)
	if err != nil {
		return "", err
	}
	words := append([]string{"composer", Require, pkg}, args...)
	return shellquote.Join(words...), nil
}

// GitHubTokenCommand configures composer's global GitHub OAuth token.
func GitHubTokenCommand(token string) string {
	return shellquote.Join("composer", "config", "-g", "github-oauth.github.com", token)
}
