package environment

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/firefly-engineering/dev-tools/internal/suffix"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

var (
	// ErrNotADirectory is returned when the starting path is missing or not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotAnEnvironment is returned by Resolve when no enclosing environment exists.
	ErrNotAnEnvironment = errors.New("not inside an environment")
)

// DefaultStopDirs are never inspected and end the upward walk.
var DefaultStopDirs = []string{"/", "/home", "/Users"}

var envDirPattern = regexp.MustCompile(`^.*_([0-9]{2})$`)

// Locator finds environments on disk.
type Locator struct {
	fs         system.FileSystem
	hostSuffix string
	stopDirs   map[string]bool
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithStopDirs replaces the directories that end the walk.
func WithStopDirs(dirs ...string) LocatorOption {
	return func(l *Locator) {
		l.stopDirs = make(map[string]bool, len(dirs))
		for _, d := range dirs {
			l.stopDirs[filepath.Clean(d)] = true
		}
	}
}

// NewLocator creates a locator. hostSuffix is used for derived hostnames.
func NewLocator(fs system.FileSystem, hostSuffix string, opts ...LocatorOption) *Locator {
	l := &Locator{fs: fs, hostSuffix: hostSuffix}
	WithStopDirs(DefaultStopDirs...)(l)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is the outcome of Find.
type Result struct {
	env    *Environment
	Reason string
}

// Found reports whether an environment was located.
func (r Result) Found() bool {
	return r.env != nil
}

// Environment returns the located environment, or nil.
func (r Result) Environment() *Environment {
	return r.env
}

// Find walks from path up to the first stop directory and returns the first
// directory that carries the marker file or the www/logs/docker-XX
// fingerprint. Relative paths are taken from the working directory. Not
// finding one is not an error.
func (l *Locator) Find(path string) (Result, error) {
	start, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	if !l.fs.IsDir(start) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	for dir := start; !l.stopDirs[dir]; {
		env, err := l.inspect(dir)
		if err != nil {
			return Result{}, err
		}
		if env != nil {
			return Result{env: env}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Result{Reason: fmt.Sprintf("no %s marker or www/logs/docker-XX directories above %s", MarkerFile, path)}, nil
}

// Resolve is Find with not-found reported as ErrNotAnEnvironment.
func (l *Locator) Resolve(path string) (*Environment, error) {
	r, err := l.Find(path)
	if err != nil {
		return nil, err
	}
	if !r.Found() {
		return nil, fmt.Errorf("%w: %s", ErrNotAnEnvironment, path)
	}
	return r.env, nil
}

func (l *Locator) inspect(dir string) (*Environment, error) {
	marker := filepath.Join(dir, MarkerFile)
	if l.fs.Exists(marker) {
		data, err := l.fs.ReadFile(marker)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", marker, err)
		}
		return newEnvironment(dir, strings.TrimSpace(string(data)), true, l.hostSuffix)
	}

	m := envDirPattern.FindStringSubmatch(filepath.Base(dir))
	if m == nil {
		return nil, nil
	}
	if !l.hasFingerprint(dir, m[1]) {
		return nil, nil
	}
	return newEnvironment(dir, filepath.Base(dir), false, l.hostSuffix)
}

func (l *Locator) hasFingerprint(dir, s string) bool {
	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		return false
	}
	want := map[string]bool{webRootDir: true, logsDir: true, dockerDirPrefix + s: true}
	found := 0
	for _, e := range entries {
		if want[e.Name()] && l.fs.IsDir(filepath.Join(dir, e.Name())) {
			found++
		}
	}
	return found == len(want)
}

// New describes a freestanding environment that does not exist yet. The
// directory name must end in "_" and a suffix.
func (l *Locator) New(baseDir string) (*Environment, error) {
	name := filepath.Base(baseDir)
	if !envDirPattern.MatchString(name) {
		return nil, fmt.Errorf("environment directory %q must end in _NN: %w", name, suffix.ErrInvalidSuffix)
	}
	return newEnvironment(filepath.Clean(baseDir), name, false, l.hostSuffix)
}

// NewAttached describes an environment attached to an existing project.
func (l *Locator) NewAttached(baseDir, name string) (*Environment, error) {
	return newEnvironment(filepath.Clean(baseDir), name, true, l.hostSuffix)
}
