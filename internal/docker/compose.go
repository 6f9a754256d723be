package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/logging"
	"github.com/firefly-engineering/dev-tools/internal/system"
)

// Service identifies a container of the environment.
type Service string

const (
	Webserver Service = "webserver"
	Database  Service = "database"
)

// Container states reported by Status.
const (
	StateRunning = "running"
	StateMissing = "missing"
)

// WebRoot is the project directory inside the web server container.
const WebRoot = "/var/www"

// ErrEmptyCommand is returned by Exec when no command is given.
var ErrEmptyCommand = errors.New("command cannot be empty")

// Compose runs docker commands for one environment.
type Compose struct {
	exec system.CommandExecutor
	env  *environment.Environment
}

// NewCompose creates a driver for env.
func NewCompose(exec system.CommandExecutor, env *environment.Environment) *Compose {
	return &Compose{exec: exec, env: env}
}

// ContainerName returns the docker container name of service.
func (c *Compose) ContainerName(service Service) string {
	return c.env.Name + "_" + string(service)
}

func (c *Compose) compose(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"compose", "-f", c.env.ComposeFile()}, args...)
	logging.Debug("running docker compose", "env", c.env.Name, "args", args)
	return system.Run(ctx, c.exec, "docker", full...)
}

// Up builds (optionally) and starts the containers in the background.
func (c *Compose) Up(ctx context.Context, build bool) error {
	args := []string{"up"}
	if build {
		args = append(args, "--build")
	}
	args = append(args, "-d")
	_, err := c.compose(ctx, args...)
	return err
}

// Down removes the containers, networks and volumes.
func (c *Compose) Down(ctx context.Context) error {
	_, err := c.compose(ctx, "down", "-v")
	return err
}

// Restart restarts one service, or all of them when service is empty.
// A negative timeout leaves docker's default in place.
func (c *Compose) Restart(ctx context.Context, service Service, timeout time.Duration) error {
	args := []string{"restart"}
	if timeout >= 0 {
		args = append(args, fmt.Sprintf("-t%d", int(timeout.Seconds())))
	}
	if service != "" {
		args = append(args, string(service))
	}
	_, err := c.compose(ctx, args...)
	return err
}

// Logs streams container output to the terminal. Lines limits the backlog,
// zero shows all of it.
func (c *Compose) Logs(ctx context.Context, service Service, follow bool, lines int) error {
	args := []string{"compose", "-f", c.env.ComposeFile(), "logs"}
	if follow {
		args = append(args, "-f")
	}
	if lines > 0 {
		args = append(args, "--tail", strconv.Itoa(lines))
	}
	if service != "" {
		args = append(args, string(service))
	}
	return c.exec.ExecuteInteractive(ctx, "docker", args...)
}

type psEntry struct {
	Name    string `json:"Name"`
	Service string `json:"Service"`
	State   string `json:"State"`
}

// Status returns the state of every container keyed by service name. The
// web server and database are always present, as "missing" when compose
// does not know them.
func (c *Compose) Status(ctx context.Context) (map[string]string, error) {
	out, err := c.compose(ctx, "ps", "--all", "--format=json")
	if err != nil {
		return nil, err
	}

	entries, err := parsePS([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("parsing docker compose ps output: %w", err)
	}

	status := map[string]string{
		string(Webserver): StateMissing,
		string(Database):  StateMissing,
	}
	prefix := c.env.Name + "_"
	for _, e := range entries {
		name := strings.TrimPrefix(e.Name, prefix)
		if name == e.Name && e.Service != "" {
			name = e.Service
		}
		status[name] = e.State
	}
	return status, nil
}

// parsePS accepts both the JSON array printed by older compose releases
// and the one-object-per-line output of newer ones.
func parsePS(out []byte) ([]psEntry, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return nil, nil
	}

	if out[0] == '[' {
		var entries []psEntry
		if err := json.Unmarshal(out, &entries); err != nil {
			return nil, err
		}
		return entries, nil
	}

	var entries []psEntry
	dec := json.NewDecoder(bytes.NewReader(out))
	for dec.More() {
		var e psEntry
		if err := dec.Decode(&e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SortedServices returns the keys of a Status result in a stable order.
func SortedServices(status map[string]string) []string {
	names := make([]string, 0, len(status))
	for n := range status {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WaitRunning polls Status until the web server and database both run.
func (c *Compose) WaitRunning(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.Status(ctx)
		if err == nil && status[string(Webserver)] == StateRunning && status[string(Database)] == StateRunning {
			return nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("containers did not start: %w", err)
			}
			return fmt.Errorf("containers did not start: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// ExecOptions configures Exec.
type ExecOptions struct {
	// Command is passed to bash -c.
	Command string

	// Service defaults to the web server.
	Service Service

	// Root runs the command as root instead of uid 1000.
	Root bool

	// Interactive attaches the terminal.
	Interactive bool
}

// ExecArgs builds the docker exec argument list.
func (c *Compose) ExecArgs(opts ExecOptions) []string {
	service := opts.Service
	if service == "" {
		service = Webserver
	}

	args := []string{"exec", "-t"}
	if opts.Interactive {
		args = append(args, "-i")
	}
	if service == Webserver {
		args = append(args, "--workdir", WebRoot)
	}
	if !opts.Root {
		args = append(args, "-u", "1000")
	}
	return append(args, c.ContainerName(service), "env", "TERM=xterm-256color", "bash", "-c", opts.Command)
}

// Exec runs a shell command inside a container. Interactive commands are
// attached to the terminal and return no output.
func (c *Compose) Exec(ctx context.Context, opts ExecOptions) (string, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return "", ErrEmptyCommand
	}
	args := c.ExecArgs(opts)
	logging.Debug("running docker exec", "env", c.env.Name, "command", opts.Command, "root", opts.Root)

	if opts.Interactive {
		if err := c.exec.ExecuteInteractive(ctx, "docker", args...); err != nil {
			return "", fmt.Errorf("docker exec %q: %w", opts.Command, err)
		}
		return "", nil
	}
	return system.Run(ctx, c.exec, "docker", args...)
}

// Copy copies a file out of a container to the host.
func (c *Compose) Copy(ctx context.Context, service Service, from, to string) error {
	_, err := system.Run(ctx, c.exec, "docker", "cp", c.ContainerName(service)+":"+from, to)
	return err
}

// CopyIn copies a file from the host into a container.
func (c *Compose) CopyIn(ctx context.Context, service Service, from, to string) error {
	_, err := system.Run(ctx, c.exec, "docker", "cp", from, c.ContainerName(service)+":"+to)
	return err
}
