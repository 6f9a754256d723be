package lifecycle

import (
	"context"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

// Detach removes the tooling from an attached environment and leaves the
// project itself in place.
func (m *Manager) Detach(ctx context.Context, env *environment.Environment) (*Result, error) {
	if !env.Attached {
		return nil, errors.ValidationError("cannot detach from fully constructed environments, run down instead")
	}
	res := &Result{Env: env}

	logging.UserStep("Taking down docker")
	if err := m.Compose(env).Down(ctx); err != nil {
		return nil, errors.DockerFailed("compose down", err)
	}

	logging.UserStep("Removing docker directory")
	if err := m.fs.RemoveAll(env.DockerDir()); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't delete docker directory", err)
	}
	if err := m.fs.Remove(env.MarkerPath()); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't delete "+environment.MarkerFile, err)
	}

	// Released before the hosts edit so a hosts failure never strands the slot.
	if err := m.allocator.Release(env.Suffix); err != nil {
		return nil, suffixError(err)
	}

	m.removeHostsEntry(ctx, env, res)
	m.record(audit.EventDetach, env, env.BaseDir)
	return res, nil
}

// Down removes a freestanding environment and everything in it.
func (m *Manager) Down(ctx context.Context, env *environment.Environment) (*Result, error) {
	if env.Attached {
		return nil, errors.ValidationError("cannot tear down attached environments, run detach instead")
	}
	res := &Result{Env: env}

	logging.UserStep("Taking down docker")
	if err := m.Compose(env).Down(ctx); err != nil {
		return nil, errors.DockerFailed("compose down", err)
	}

	logging.UserStep("Removing environment directory")
	if err := m.fs.RemoveAll(env.BaseDir); err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't delete environment directory", err)
	}

	if err := m.allocator.Release(env.Suffix); err != nil {
		return nil, suffixError(err)
	}

	m.removeHostsEntry(ctx, env, res)
	m.record(audit.EventDown, env, env.BaseDir)
	return res, nil
}

// Restart restarts one service, or all of them when service is empty.
func (m *Manager) Restart(ctx context.Context, env *environment.Environment, service string) error {
	logging.UserStep("Restarting containers")
	if err := m.Compose(env).Restart(ctx, docker.Service(service), -1); err != nil {
		return errors.DockerFailed("compose restart", err)
	}
	m.record(audit.EventRestart, env, service)
	return nil
}
