package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

// Attach provisions an environment around an existing project directory.
func (m *Manager) Attach(ctx context.Context, opts AttachOptions) (*Result, error) {
	projectPath, err := filepath.Abs(opts.ProjectPath)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid project path: %v", err))
	}
	if !m.fs.IsDir(projectPath) {
		return nil, errors.ValidationError("project path doesn't exist or isn't a directory: " + projectPath)
	}
	if m.fs.Exists(filepath.Join(projectPath, environment.MarkerFile)) {
		return nil, errors.ValidationError("project has already been attached: " + projectPath)
	}

	base := opts.Name
	if base != "" {
		if err := environment.ValidateName(base); err != nil {
			return nil, errors.ValidationError(err.Error())
		}
	} else {
		base = environment.NameFromDir(projectPath)
	}

	s, err := m.nextSuffix()
	if err != nil {
		return nil, err
	}

	env, err := m.locator.NewAttached(projectPath, base+"_"+s)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	logging.Debug("attaching environment", "name", env.Name, "path", projectPath)

	res := &Result{Env: env}
	data, err := m.templateData(env, opts.PHPVersion, opts.Database, opts.DBVersion, res)
	if err != nil {
		return nil, err
	}

	if err := m.fs.MkdirAll(filepath.Join(env.LogsDir(), "apache2"), 0755); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't create logs directory", err)
	}
	if err := m.fs.WriteFile(env.MarkerPath(), []byte(env.Name), 0644); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't write "+environment.MarkerFile, err)
	}

	if err := m.take(s); err != nil {
		m.removeMarker(env)
		return nil, err
	}

	if err := m.startDocker(ctx, env, data); err != nil {
		m.rollbackAttach(env)
		return nil, err
	}

	if err := m.configureGitHubToken(ctx, env); err != nil {
		m.stopDocker(ctx, env)
		m.rollbackAttach(env)
		return nil, err
	}

	logging.UserStep("Preparing extra webroot files")
	if _, err := m.generator.RenderWebRoot(env.WebRoot(), data); err != nil {
		m.stopDocker(ctx, env)
		m.rollbackAttach(env)
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't set up webroot files", err)
	}

	m.addHostsEntry(ctx, env, res)
	m.buildDatabase(ctx, env, res)

	m.record(audit.EventAttach, env, fmt.Sprintf("dir=%s php=%s db=%s", projectPath, data.PHPVersion, data.Database))
	return res, nil
}

// rollbackAttach undoes the on-disk and allocator side of a failed attach.
func (m *Manager) rollbackAttach(env *environment.Environment) {
	logging.Debug("rolling back attach", "env", env.Name)
	m.release(env)
	m.removeMarker(env)
	if err := m.fs.RemoveAll(env.DockerDir()); err != nil {
		logging.Warn("failed to remove docker directory", "path", env.DockerDir(), "error", err)
	}
}

func (m *Manager) removeMarker(env *environment.Environment) {
	if err := m.fs.Remove(env.MarkerPath()); err != nil {
		logging.Warn("failed to remove marker", "path", env.MarkerPath(), "error", err)
	}
}

// stopDocker takes the containers down while rolling back. Errors are only
// logged.
func (m *Manager) stopDocker(ctx context.Context, env *environment.Environment) {
	if err := m.Compose(env).Down(ctx); err != nil {
		logging.Warn("failed to stop containers", "env", env.Name, "error", err)
	}
}
