package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/composer"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/generator"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

// Up creates a new freestanding environment and installs the recipe into it.
func (m *Manager) Up(ctx context.Context, opts UpOptions) (*Result, error) {
	opts = m.upDefaults(opts)
	logging.Debug("starting environment creation", "name", opts.Name, "recipe", opts.Recipe, "constraint", opts.Constraint)

	name := opts.Name
	if name != "" {
		if err := environment.ValidateName(name); err != nil {
			return nil, errors.ValidationError(err.Error())
		}
	} else {
		name = environment.NameFromRecipe(opts.Recipe, opts.Constraint)
	}
	if _, err := composer.Args(composer.CreateProject, opts.Composer); err != nil {
		return nil, errors.ValidationError(err.Error())
	}

	s, err := m.nextSuffix()
	if err != nil {
		return nil, err
	}

	baseDir, err := filepath.Abs(filepath.Join(opts.ProjectsPath, name+"_"+s))
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid projects path: %v", err))
	}
	if m.fs.Exists(baseDir) {
		return nil, errors.ValidationError("environment path already exists: " + baseDir)
	}

	env, err := m.locator.New(baseDir)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}

	res := &Result{Env: env}
	data, err := m.templateData(env, opts.PHPVersion, opts.Database, opts.DBVersion, res)
	if err != nil {
		return nil, err
	}

	// Taken before anything touches disk so a crash part way through never
	// hands the same suffix to the next environment.
	if err := m.take(s); err != nil {
		return nil, err
	}
	logging.Debug("suffix taken", "suffix", s, "env", env.Name)

	logging.UserStep("Making directory %s", baseDir)
	for _, dir := range []string{filepath.Join(env.LogsDir(), "apache2"), env.WebRoot()} {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			m.release(env)
			return nil, errors.Wrap(errors.ExitGeneralError, "couldn't create environment directory", err)
		}
	}

	if err := m.startDocker(ctx, env, data); err != nil {
		m.release(env)
		if rmErr := m.fs.RemoveAll(baseDir); rmErr != nil {
			logging.Warn("failed to remove environment directory", "path", baseDir, "error", rmErr)
		}
		return nil, err
	}

	// From here on the environment exists and is removed with Down.
	if err := m.prepareWebRoot(ctx, env, data, opts); err != nil {
		m.record(audit.EventError, env, err.Error())
		return nil, err
	}

	m.addHostsEntry(ctx, env, res)

	if composer.SkipsInstall(opts.Composer) {
		res.warn(fmt.Sprintf("Composer --no-install was set, so the db was not built. Go to %s/dev/build once dependencies are installed", env.BaseURL()))
	} else {
		m.buildDatabase(ctx, env, res)
	}

	m.record(audit.EventUp, env, fmt.Sprintf("recipe=%s:%s php=%s db=%s", opts.Recipe, opts.Constraint, data.PHPVersion, data.Database))
	return res, nil
}

func (m *Manager) upDefaults(opts UpOptions) UpOptions {
	if opts.ProjectsPath == "" {
		opts.ProjectsPath = m.settings.ProjectsPath
	}
	if opts.Recipe == "" {
		opts.Recipe = m.settings.InstallRecipe
	}
	opts.Recipe = composer.NormaliseRecipe(opts.Recipe)
	if opts.Constraint == "" {
		opts.Constraint = m.settings.InstallVersion
	}
	if m.settings.PreferSource {
		opts.Composer.PreferSource = true
	}
	return opts
}

// prepareWebRoot installs the recipe and writes the framework's files.
func (m *Manager) prepareWebRoot(ctx context.Context, env *environment.Environment, data *generator.TemplateData, opts UpOptions) error {
	if err := m.configureGitHubToken(ctx, env); err != nil {
		return err
	}

	logging.UserStep("Building composer project")
	cmd, err := composer.CreateProjectCommand(opts.Recipe, opts.Constraint, opts.Composer)
	if err != nil {
		return errors.ValidationError(err.Error())
	}
	if err := m.runInWebserver(ctx, env, cmd); err != nil {
		return errors.ComposerFailed("create-project", err)
	}

	if data.IsPostgres() {
		cmd, err := composer.RequireCommand(composer.PostgresModule, opts.Composer)
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		if err := m.runInWebserver(ctx, env, cmd); err != nil {
			return errors.ComposerFailed("require "+composer.PostgresModule, err)
		}
	}

	logging.UserStep("Preparing extra webroot files")
	if _, err := m.generator.RenderWebRoot(env.WebRoot(), data); err != nil {
		return errors.Wrap(errors.ExitGeneralError, "couldn't set up webroot files", err)
	}
	return nil
}
