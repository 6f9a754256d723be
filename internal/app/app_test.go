package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

func TestNew(t *testing.T) {
	app := New()

	if app == nil {
		t.Fatal("New() returned nil")
	}
	if app.Paths == nil {
		t.Error("Paths should not be nil")
	}
	if app.Settings == nil {
		t.Error("Settings should default to DefaultSettings")
	}
	if app.FS == nil || app.Executor == nil {
		t.Error("FS and Executor should default to the OS implementations")
	}
	if app.Allocator == nil || app.Locator == nil || app.Events == nil {
		t.Error("Allocator, Locator and Events should be built")
	}
}

func TestNew_WithPaths(t *testing.T) {
	customPaths := config.NewPaths("/custom/dev-tools")

	app := New(WithPaths(customPaths))

	if app.Paths != customPaths {
		t.Error("WithPaths did not set custom paths")
	}
	if app.Events.Dir() != customPaths.EventsDir {
		t.Errorf("Events dir = %q, want %q", app.Events.Dir(), customPaths.EventsDir)
	}
}

func TestNew_WithFSAndExecutor(t *testing.T) {
	mfs := system.NewMockFS()
	exec := system.NewMockExecutor()

	app := New(WithFS(mfs), WithExecutor(exec))

	if app.FS != mfs {
		t.Error("WithFS did not set filesystem")
	}
	if app.Executor != exec {
		t.Error("WithExecutor did not set executor")
	}

	// The default allocator must go through the injected filesystem.
	if err := app.Allocator.Initialize(); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	if _, ok := mfs.GetFile(app.Paths.StateFile); !ok {
		t.Error("state file was not written through the mock filesystem")
	}
}

func TestNew_WithSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.HostSuffix = "test"

	app := New(WithSettings(settings))

	if app.Settings != settings {
		t.Error("WithSettings did not set settings")
	}
	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if app.Settings != settings {
		t.Error("LoadSettings must keep injected settings")
	}
}

func TestLoadSettings_RebuildsLocator(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvHostSuffix, "")
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFileName), []byte("host_suffix = \"dev.test\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	app := New(WithPaths(config.NewPaths(dir)))
	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if app.Settings.HostSuffix != "dev.test" {
		t.Fatalf("HostSuffix = %q, want %q", app.Settings.HostSuffix, "dev.test")
	}

	env, err := app.Locator.New("/srv/shop_04")
	if err != nil {
		t.Fatalf("Locator.New() error: %v", err)
	}
	if env.Hostname() != "shop_04.dev.test" {
		t.Errorf("Hostname() = %q, want %q", env.Hostname(), "shop_04.dev.test")
	}
}

func TestLoadSettings_KeepsCustomLocator(t *testing.T) {
	locator := environment.NewLocator(system.NewMockFS(), "custom")

	app := New(WithPaths(config.NewPaths(t.TempDir())), WithLocator(locator))
	if err := app.LoadSettings(); err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if app.Locator != locator {
		t.Error("LoadSettings replaced an injected locator")
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithSettings(config.DefaultSettings()))
	SetDefault(customApp)

	if Default != customApp {
		t.Error("SetDefault did not update Default")
	}
}

func TestResetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithSettings(config.DefaultSettings()))
	SetDefault(customApp)

	ResetDefault()

	if Default == customApp {
		t.Error("ResetDefault did not create new Default")
	}
	if Default.Paths == nil {
		t.Error("ResetDefault should create app with default paths")
	}
}
