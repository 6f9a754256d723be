package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/composer"
	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/generator"
	"github.com/firefly-engineering/dev-tools/internal/hosts"
	"github.com/firefly-engineering/dev-tools/internal/logging"
	"github.com/firefly-engineering/dev-tools/internal/suffix"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// Defaults for waiting on containers before the database build.
const (
	DefaultStartTimeout = 2 * time.Minute
	DefaultPollInterval = 2 * time.Second
)

// SakeBinary is the framework's command line runner inside the web root.
const SakeBinary = "vendor/bin/sake"

// Deps are the collaborators of a Manager.
type Deps struct {
	FS        system.FileSystem
	Executor  system.CommandExecutor
	Allocator *suffix.Allocator
	Locator   *environment.Locator
	Settings  *config.Settings

	// Events is optional; transitions are not recorded when nil.
	Events *audit.Logger
}

// Manager runs environment transitions.
type Manager struct {
	fs        system.FileSystem
	exec      system.CommandExecutor
	allocator *suffix.Allocator
	locator   *environment.Locator
	settings  *config.Settings
	events    *audit.Logger
	generator *generator.Generator
	hosts     *hosts.File

	// StartTimeout bounds the wait for running containers before the
	// database build.
	StartTimeout time.Duration
	PollInterval time.Duration
}

// New creates a Manager.
func New(d Deps) *Manager {
	return &Manager{
		fs:           d.FS,
		exec:         d.Executor,
		allocator:    d.Allocator,
		locator:      d.Locator,
		settings:     d.Settings,
		events:       d.Events,
		generator:    generator.New(d.FS),
		hosts:        hosts.New(d.Settings.HostsFile, d.FS, d.Executor),
		StartTimeout: DefaultStartTimeout,
		PollInterval: DefaultPollInterval,
	}
}

// Compose returns the docker compose driver for env.
func (m *Manager) Compose(env *environment.Environment) *docker.Compose {
	return docker.NewCompose(m.exec, env)
}

// templateData resolves the database and PHP choices against the settings.
func (m *Manager) templateData(env *environment.Environment, php, db, dbVersion string, res *Result) (*generator.TemplateData, error) {
	if db == "" {
		db = m.settings.Database
	}
	switch db {
	case config.DatabaseMySQL, config.DatabaseMariaDB, config.DatabasePostgres:
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unsupported database %q: must be one of mysql, mariadb, postgres", db))
	}
	if dbVersion == "" {
		dbVersion = m.settings.DatabaseVersion
	}

	if php == "" {
		php = m.settings.DefaultPHPVersion()
	} else if !m.settings.SupportsPHP(php) {
		def := m.settings.DefaultPHPVersion()
		res.warn(fmt.Sprintf("PHP %s is not available, using %s", php, def))
		php = def
	}

	return generator.NewTemplateData(env, generator.Options{
		Database:   db,
		DBVersion:  dbVersion,
		PHPVersion: php,
	}), nil
}

// startDocker renders the docker directory and brings the containers up.
func (m *Manager) startDocker(ctx context.Context, env *environment.Environment, data *generator.TemplateData) error {
	logging.UserStep("Preparing docker directory")
	written, err := m.generator.RenderDockerDir(env.DockerDir(), data)
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "couldn't set up docker files", err)
	}
	logging.Debug("docker directory rendered", "env", env.Name, "files", len(written))

	logging.UserStep("Spinning up docker")
	if err := m.Compose(env).Up(ctx, true); err != nil {
		return errors.DockerFailed("compose up", err)
	}
	return nil
}

// runInWebserver runs a shell command in the web server as the web user.
func (m *Manager) runInWebserver(ctx context.Context, env *environment.Environment, command string) error {
	out, err := m.Compose(env).Exec(ctx, docker.ExecOptions{Command: command})
	if out != "" {
		logging.Debug("container output", "env", env.Name, "output", strings.TrimSpace(out))
	}
	return err
}

// configureGitHubToken stores the configured token in the container's
// global composer config.
func (m *Manager) configureGitHubToken(ctx context.Context, env *environment.Environment) error {
	if m.settings.GitHubToken == "" {
		return nil
	}
	logging.UserStep("Adding github token to composer")
	if err := m.runInWebserver(ctx, env, composer.GitHubTokenCommand(m.settings.GitHubToken)); err != nil {
		return errors.ComposerFailed("config github-oauth", err)
	}
	return nil
}

// Sake runs a sake task in the web server container. Interactive runs are
// attached to the terminal.
func (m *Manager) Sake(ctx context.Context, env *environment.Environment, task []string, interactive bool) (string, error) {
	if len(task) == 0 {
		return "", errors.ValidationError("sake task must not be empty")
	}
	command := shellquote.Join(append([]string{SakeBinary}, task...)...)
	out, err := m.Compose(env).Exec(ctx, docker.ExecOptions{Command: command, Interactive: interactive})
	if err != nil {
		return out, errors.DockerFailed("exec "+SakeBinary, err)
	}
	m.record(audit.EventExec, env, command)
	return out, nil
}

// buildDatabase waits for the containers and runs dev/build. Failure is a
// warning pointing at the manual alternatives.
func (m *Manager) buildDatabase(ctx context.Context, env *environment.Environment, res *Result) {
	logging.UserStep("Building database")

	waitCtx, cancel := context.WithTimeout(ctx, m.StartTimeout)
	defer cancel()
	err := m.Compose(env).WaitRunning(waitCtx, m.PollInterval)
	if err == nil {
		_, err = m.Sake(ctx, env, []string{"dev/build"}, false)
	}
	if err != nil {
		logging.Debug("database build failed", "env", env.Name, "error", err)
		res.warn(fmt.Sprintf("Unable to build the db. Go to %s/dev/build or run: dev-tools sake dev/build --env-path %s",
			env.BaseURL(), env.BaseDir))
	}
}

// addHostsEntry maps the hostname to the web server address.
func (m *Manager) addHostsEntry(ctx context.Context, env *environment.Environment, res *Result) {
	logging.UserStep("Updating hosts file")
	if _, err := m.hosts.Add(ctx, env.IPAddress(), env.Hostname()); err != nil {
		logging.Debug("hosts update failed", "error", err)
		res.HostsEntry = hosts.Entry(env.IPAddress(), env.Hostname())
		res.warn(fmt.Sprintf("Couldn't add hosts entry. Please manually add the following line to %s", m.hosts.Path))
	}
}

// EnsureHostsEntry adds the environment's hosts line if it is missing. It
// reports whether the file changed.
func (m *Manager) EnsureHostsEntry(ctx context.Context, env *environment.Environment) (bool, error) {
	added, err := m.hosts.Add(ctx, env.IPAddress(), env.Hostname())
	if err != nil {
		return false, errors.HostsError("couldn't update "+m.hosts.Path, err)
	}
	return added, nil
}

// removeHostsEntry drops the hostname mapping.
func (m *Manager) removeHostsEntry(ctx context.Context, env *environment.Environment, res *Result) {
	logging.UserStep("Updating hosts file")
	if _, err := m.hosts.Remove(ctx, env.IPAddress(), env.Name); err != nil {
		logging.Debug("hosts update failed", "error", err)
		res.HostsEntry = hosts.Entry(env.IPAddress(), env.Hostname())
		res.warn(fmt.Sprintf("Couldn't remove hosts entry. Please manually remove the relevant line in %s", m.hosts.Path))
	}
}

// release frees the suffix of a failed or removed environment.
func (m *Manager) release(env *environment.Environment) {
	if err := m.allocator.Release(env.Suffix); err != nil {
		logging.Warn("failed to release suffix", "suffix", env.Suffix, "error", err)
	}
}

func (m *Manager) record(t audit.EventType, env *environment.Environment, details string) {
	if m.events == nil {
		return
	}
	if err := m.events.LogEvent(t, env.Name, details); err != nil {
		logging.Debug("failed to record event", "type", t, "env", env.Name, "error", err)
	}
}

func (m *Manager) nextSuffix() (string, error) {
	s, err := m.allocator.NextAvailable()
	if err != nil {
		return "", suffixError(err)
	}
	return s, nil
}

// take claims s. Losing the race to another process between lookup and
// take surfaces as suffix.ErrAlreadyTaken.
func (m *Manager) take(s string) error {
	if err := m.allocator.Take(s); err != nil {
		return suffixError(err)
	}
	return nil
}

func suffixError(err error) error {
	if errors.Is(err, suffix.ErrCorruptState) {
		return errors.StateCorrupt(err)
	}
	return errors.SuffixAllocationFailed(err)
}
