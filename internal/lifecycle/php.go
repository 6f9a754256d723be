package lifecycle

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

// XdebugIni is the ini file that loads xdebug in the web server image.
const XdebugIni = "/usr/local/etc/php/conf.d/docker-php-ext-xdebug.ini"

// SwapPHP rebuilds the web server with another PHP version. It reports
// false when the environment already runs that version.
func (m *Manager) SwapPHP(ctx context.Context, env *environment.Environment, version string) (bool, error) {
	if !m.settings.SupportsPHP(version) {
		return false, errors.ValidationError(fmt.Sprintf("PHP %s is not available, use one of %s",
			version, strings.Join(m.settings.PHPVersions, ", ")))
	}

	c, err := m.readCompose(env)
	if err != nil {
		return false, err
	}
	current := c.PHPVersion()
	if current == version {
		logging.UserInfo("Already using PHP %s", version)
		return false, nil
	}

	data, err := m.templateData(env, version, c.Database(), c.DatabaseVersion(), &Result{Env: env})
	if err != nil {
		return false, err
	}
	logging.UserStep("Swapping PHP from %s to %s", current, version)
	if err := m.startDocker(ctx, env, data); err != nil {
		return false, err
	}

	m.record(audit.EventPHP, env, fmt.Sprintf("php=%s->%s", current, version))
	return true, nil
}

// ToggleDebug turns xdebug on when it is off and off when it is on, then
// restarts the web server. It returns the new state.
func (m *Manager) ToggleDebug(ctx context.Context, env *environment.Environment) (bool, error) {
	compose := m.Compose(env)
	ini := shellquote.Join(XdebugIni)

	out, err := compose.Exec(ctx, docker.ExecOptions{
		Command: "if [ -f " + ini + " ]; then echo on; else echo off; fi",
		Root:    true,
	})
	if err != nil {
		return false, errors.DockerFailed("read xdebug state", err)
	}
	enabled := strings.TrimSpace(out) == "on"

	toggle := shellquote.Join("echo", "zend_extension=xdebug") + " > " + ini
	state := "on"
	if enabled {
		toggle = shellquote.Join("rm", "-f", XdebugIni)
		state = "off"
	}

	logging.UserStep("Turning xdebug %s", state)
	if _, err := compose.Exec(ctx, docker.ExecOptions{Command: toggle, Root: true}); err != nil {
		return enabled, errors.DockerFailed("toggle xdebug", err)
	}
	if err := compose.Restart(ctx, docker.Webserver, -1); err != nil {
		return !enabled, errors.DockerFailed("compose restart", err)
	}

	m.record(audit.EventPHP, env, "xdebug="+state)
	return !enabled, nil
}

// PHPInfo returns the web server's phpinfo output.
func (m *Manager) PHPInfo(ctx context.Context, env *environment.Environment) (string, error) {
	out, err := m.Compose(env).Exec(ctx, docker.ExecOptions{Command: "php -i"})
	if err != nil {
		return "", errors.DockerFailed("php -i", err)
	}
	return out, nil
}
