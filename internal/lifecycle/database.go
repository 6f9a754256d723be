package lifecycle

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/config"
	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/generator"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

// dumpTmpDir is where dumps are staged inside the database container.
const dumpTmpDir = "/tmp"

// Exec runs a command in one of the environment's containers.
func (m *Manager) Exec(ctx context.Context, env *environment.Environment, opts docker.ExecOptions) (string, error) {
	out, err := m.Compose(env).Exec(ctx, opts)
	if err != nil {
		if errors.Is(err, docker.ErrEmptyCommand) {
			return "", errors.ValidationError(err.Error())
		}
		return out, errors.DockerFailed("exec", err)
	}
	m.record(audit.EventExec, env, opts.Command)
	return out, nil
}

// DumpDatabase writes a gzipped dump of the project schema to dumpDir and
// returns the host path of the dump. The file is named after the
// environment and the current time unless filename is set.
func (m *Manager) DumpDatabase(ctx context.Context, env *environment.Environment, dumpDir, filename string) (string, error) {
	dumpDir, err := filepath.Abs(dumpDir)
	if err != nil {
		return "", errors.ValidationError(fmt.Sprintf("invalid dump directory: %v", err))
	}
	if !m.fs.IsDir(dumpDir) {
		return "", errors.ValidationError("dump directory does not exist: " + dumpDir)
	}
	if filename == "" {
		filename = env.Name + "." + time.Now().Format("2006-01-02T150405")
	}
	filename += ".sql.gz"

	db, err := m.databaseKind(env)
	if err != nil {
		return "", err
	}

	tmp := path.Join(dumpTmpDir, filename)
	schema := generator.SchemaName(env.Name)
	var dump string
	if db == config.DatabasePostgres {
		dump = shellquote.Join("pg_dump", "-U", "postgres", schema)
	} else {
		dump = shellquote.Join("mysqldump", "-u", "root", "--password="+generator.DatabasePassword, schema)
	}

	compose := m.Compose(env)
	logging.UserStep("Dumping database")
	if _, err := compose.Exec(ctx, docker.ExecOptions{
		Command: dump + " | gzip > " + shellquote.Join(tmp),
		Service: docker.Database,
		Root:    true,
	}); err != nil {
		return "", errors.DockerFailed("dump database", err)
	}

	logging.UserStep("Copying database to host")
	dest := filepath.Join(dumpDir, filename)
	copyErr := compose.Copy(ctx, docker.Database, tmp, dest)

	if _, err := compose.Exec(ctx, docker.ExecOptions{
		Command: shellquote.Join("rm", "-f", tmp),
		Service: docker.Database,
		Root:    true,
	}); err != nil {
		logging.Warn("failed to remove dump from container", "path", tmp, "error", err)
	}
	if copyErr != nil {
		return "", errors.DockerFailed("copy database dump", copyErr)
	}

	m.record(audit.EventDump, env, dest)
	return dest, nil
}

// restoreReaders maps each accepted dump extension to the command that
// writes the plain SQL to stdout. Longer extensions come first.
var restoreReaders = []struct {
	ext  string
	read []string
}{
	{".sql.tar.gz", []string{"tar", "-O", "-xzf"}},
	{".sql.tgz", []string{"tar", "-O", "-xzf"}},
	{".sql.tar", []string{"tar", "-O", "-xf"}},
	{".sql.zip", []string{"unzip", "-p"}},
	{".sql.gz", []string{"zcat"}},
	{".sql.bz2", []string{"bunzip2", "-c"}},
	{".sql", []string{"cat"}},
}

// RestoreFileTypes lists the dump extensions RestoreDatabase accepts.
func RestoreFileTypes() []string {
	types := make([]string, len(restoreReaders))
	for i, r := range restoreReaders {
		types[i] = r.ext
	}
	return types
}

// restoreReadCommand returns the command that decompresses file to stdout.
func restoreReadCommand(file string) (string, bool) {
	for _, r := range restoreReaders {
		if strings.HasSuffix(file, r.ext) {
			return shellquote.Join(append(r.read, file)...), true
		}
	}
	return "", false
}

// RestoreDatabase loads a dump from the host into the project schema. The
// file is staged in the database container and removed afterwards.
func (m *Manager) RestoreDatabase(ctx context.Context, env *environment.Environment, source string) error {
	source, err := filepath.Abs(source)
	if err != nil {
		return errors.ValidationError(fmt.Sprintf("invalid source file: %v", err))
	}
	if !m.fs.Exists(source) {
		return errors.ValidationError("source file does not exist: " + source)
	}
	if m.fs.IsDir(source) {
		return errors.ValidationError("source file must be a file: " + source)
	}
	// docker cp would read the colon as a container separator.
	if strings.Contains(source, ":") {
		return errors.ValidationError("source file cannot contain a colon: " + source)
	}

	tmp := path.Join(dumpTmpDir, filepath.Base(source))
	read, ok := restoreReadCommand(tmp)
	if !ok {
		return errors.ValidationError("source file type must be one of " + strings.Join(RestoreFileTypes(), ", "))
	}

	db, err := m.databaseKind(env)
	if err != nil {
		return err
	}
	schema := generator.SchemaName(env.Name)
	var load string
	if db == config.DatabasePostgres {
		load = shellquote.Join("psql", "-U", "postgres", "-q", schema)
	} else {
		load = shellquote.Join("mysql", "-u", "root", "--password="+generator.DatabasePassword, schema)
	}

	compose := m.Compose(env)
	logging.UserStep("Copying database to container")
	if err := compose.CopyIn(ctx, docker.Database, source, tmp); err != nil {
		return errors.DockerFailed("copy database dump", err)
	}

	logging.UserStep("Restoring database from file")
	_, restoreErr := compose.Exec(ctx, docker.ExecOptions{
		Command: read + " | " + load,
		Service: docker.Database,
		Root:    true,
	})

	if _, err := compose.Exec(ctx, docker.ExecOptions{
		Command: shellquote.Join("rm", "-f", tmp),
		Service: docker.Database,
		Root:    true,
	}); err != nil {
		logging.Warn("failed to remove dump from container", "path", tmp, "error", err)
	}
	if restoreErr != nil {
		return errors.DockerFailed("restore database", restoreErr)
	}

	m.record(audit.EventRestore, env, source)
	return nil
}

// databaseKind reads the database type back from the compose file.
func (m *Manager) databaseKind(env *environment.Environment) (string, error) {
	c, err := m.readCompose(env)
	if err != nil {
		return "", err
	}
	if db := c.Database(); db != "" {
		return db, nil
	}
	return "", errors.ValidationError("environment has no database service: " + env.Name)
}

// readCompose parses the environment's rendered compose file.
func (m *Manager) readCompose(env *environment.Environment) (*generator.ComposeFile, error) {
	data, err := m.fs.ReadFile(env.ComposeFile())
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't read "+env.ComposeFile(), err)
	}
	c, err := generator.ParseCompose(data)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "couldn't read "+env.ComposeFile(), err)
	}
	return c, nil
}
