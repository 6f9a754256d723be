package environment

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// InvalidNameChars may not appear in an environment name.
const InvalidNameChars = ` !@#$%^&*()"',.<>/?:;\`

// ErrInvalidName is returned for names containing InvalidNameChars.
var ErrInvalidName = errors.New("invalid environment name")

var (
	invalidNameRe    = regexp.MustCompile(`[` + regexp.QuoteMeta(InvalidNameChars) + `]`)
	stabilityFlagsRe = regexp.MustCompile(`^dev-|^v([0-9])|-dev|[#@].*$`)
)

// ValidateName rejects empty names and names with invalid characters.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if invalidNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q must not contain any of %s", ErrInvalidName, name, InvalidNameChars)
	}
	return nil
}

// Sanitize replaces invalid characters with hyphens.
func Sanitize(s string) string {
	return invalidNameRe.ReplaceAllString(s, "-")
}

// NameFromRecipe derives a name from a composer recipe and version
// constraint: "silverstripe/recipe-kitchen-sink" at "^5.x-dev" gives
// "sink_5.x" before sanitising, "sink_5-x" after.
func NameFromRecipe(recipe, constraint string) string {
	parts := strings.Split(Sanitize(recipe), "-")
	short := parts[len(parts)-1]

	c := stabilityFlagsRe.ReplaceAllString(constraint, "$1")
	c = Sanitize(strings.Trim(c, "~^"))
	return short + "_" + c
}

// NameFromDir derives a name from a project directory's basename.
func NameFromDir(dir string) string {
	return Sanitize(filepath.Base(filepath.Clean(dir)))
}
