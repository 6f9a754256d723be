// Package testutil provides test utilities for command and lifecycle tests
package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/dev-tools/internal/app"
	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// Fixed locations inside the mock filesystem.
const (
	ProjectsPath = "/projects"
	HostsFile    = "/etc/hosts"
)

// RunningContainers is compose ps output with both services running.
const RunningContainers = `[{"Service":"webserver","State":"running"},{"Service":"database","State":"running"}]`

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Paths    *config.Paths
	Settings *config.Settings
	FS       *system.MockFS
	Exec     *system.MockExecutor
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a test environment backed by a mock filesystem and
// executor. Containers report as running. The event log lives in a real
// temp directory.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	paths := config.NewPaths(filepath.Join(tmpDir, "dev-tools"))

	settings := config.DefaultSettings()
	settings.ProjectsPath = ProjectsPath
	settings.HostsFile = HostsFile

	mfs := system.NewMockFS()
	mfs.AddDir(ProjectsPath)
	mfs.AddFile(HostsFile, []byte("127.0.0.1    localhost\n"), 0644)

	exec := system.NewMockExecutor()
	exec.AddResponse("docker compose ps", []byte(RunningContainers), nil)

	testApp := app.New(
		app.WithPaths(paths),
		app.WithSettings(settings),
		app.WithFS(mfs),
		app.WithExecutor(exec),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	return &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Paths:    paths,
		Settings: settings,
		FS:       mfs,
		Exec:     exec,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// Events returns the lifecycle events recorded for an environment.
func (e *TestEnv) Events(name string) []audit.Event {
	e.T.Helper()

	events, err := e.App.Events.Events(name)
	if err != nil {
		e.T.Fatalf("Failed to read events: %v", err)
	}
	return events
}

// AddFreestanding lays out a freestanding environment under the projects
// path and takes its suffix.
func (e *TestEnv) AddFreestanding(name string) *environment.Environment {
	e.T.Helper()

	env, err := e.App.Locator.New(filepath.Join(ProjectsPath, name))
	if err != nil {
		e.T.Fatalf("Invalid environment name %q: %v", name, err)
	}
	e.FS.AddDir(env.WebRoot())
	e.FS.AddDir(env.LogsDir())
	e.FS.AddFile(env.ComposeFile(), []byte("services: {}\n"), 0644)
	e.TakeSuffix(env.Suffix)
	return env
}

// AddAttached creates a project directory carrying the marker file and
// takes its suffix.
func (e *TestEnv) AddAttached(dir, name string) *environment.Environment {
	e.T.Helper()

	env, err := e.App.Locator.NewAttached(dir, name)
	if err != nil {
		e.T.Fatalf("Invalid environment name %q: %v", name, err)
	}
	e.FS.AddFile(env.MarkerPath(), []byte(name+"\n"), 0644)
	e.FS.AddFile(env.ComposeFile(), []byte("services: {}\n"), 0644)
	e.TakeSuffix(env.Suffix)
	return env
}

// AddProject creates an empty project directory.
func (e *TestEnv) AddProject(dir string) string {
	e.FS.AddDir(dir)
	return dir
}

// TakeSuffix marks a suffix as taken in the state file.
func (e *TestEnv) TakeSuffix(s string) {
	e.T.Helper()

	if err := e.App.Allocator.Take(s); err != nil {
		e.T.Fatalf("Failed to take suffix %s: %v", s, err)
	}
}

// IsTaken reports whether a suffix is taken in the state file.
func (e *TestEnv) IsTaken(s string) bool {
	e.T.Helper()

	taken, err := e.App.Allocator.IsTaken(s)
	if err != nil {
		e.T.Fatalf("Failed to read suffix %s: %v", s, err)
	}
	return taken
}

// Hosts returns the content of the mock hosts file.
func (e *TestEnv) Hosts() string {
	data, _ := e.FS.GetFile(HostsFile)
	return string(data)
}

// HasHostsEntry reports whether a hosts line maps ip to hostname.
func (e *TestEnv) HasHostsEntry(ip, hostname string) bool {
	for _, line := range strings.Split(e.Hosts(), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == ip && fields[1] == hostname {
			return true
		}
	}
	return false
}
