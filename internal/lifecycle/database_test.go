package lifecycle

import (
	"context"
	"fmt"
	"testing"

	"github.com/firefly-engineering/dev-tools/internal/audit"
	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/environment"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/generator"
	"github.com/firefly-engineering/dev-tools/internal/testutil"
)

// writeCompose replaces the placeholder compose file with a rendered one.
func writeCompose(t *testing.T, env *testutil.TestEnv, e *environment.Environment, db string) {
	t.Helper()
	out, err := generator.RenderCompose(generator.NewTemplateData(e, generator.Options{Database: db, DBVersion: "latest", PHPVersion: "8.1"}))
	if err != nil {
		t.Fatalf("RenderCompose() error: %v", err)
	}
	env.FS.AddFile(e.ComposeFile(), out, 0644)
}

func TestManager_DumpDatabase(t *testing.T) {
	tests := []struct {
		db   string
		dump string
	}{
		{"mysql", "mysqldump -u root --password=root SS_shop_03 | gzip > /tmp/nightly.sql.gz"},
		{"mariadb", "mysqldump -u root --password=root SS_shop_03 | gzip > /tmp/nightly.sql.gz"},
		{"postgres", "pg_dump -U postgres SS_shop_03 | gzip > /tmp/nightly.sql.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.db, func(t *testing.T) {
			env := testutil.NewTestEnv(t)
			defer env.Cleanup()
			m := newTestManager(env)
			e := env.AddFreestanding("shop_03")
			writeCompose(t, env, e, tt.db)
			env.FS.AddDir("/backups")

			dest, err := m.DumpDatabase(context.Background(), e, "/backups", "nightly")
			if err != nil {
				t.Fatalf("DumpDatabase() failed: %v", err)
			}
			if dest != "/backups/nightly.sql.gz" {
				t.Errorf("dest = %q", dest)
			}

			cmds := containerCommands(env.Exec)
			if len(cmds) != 2 {
				t.Fatalf("container commands = %v, want dump and cleanup", cmds)
			}
			if cmds[0] != tt.dump {
				t.Errorf("dump command = %q, want %q", cmds[0], tt.dump)
			}
			if cmds[1] != "rm -f /tmp/nightly.sql.gz" {
				t.Errorf("cleanup command = %q", cmds[1])
			}
			if !env.Exec.Called("docker exec shop_03_database") {
				t.Error("dump should run in the database container")
			}
			if !env.Exec.Called("docker cp shop_03_database:/tmp/nightly.sql.gz /backups/nightly.sql.gz") {
				t.Error("dump was not copied to the host")
			}

			events := env.Events("shop_03")
			if len(events) != 1 || events[0].Type != audit.EventDump {
				t.Errorf("events = %v, want one dump event", events)
			}
		})
	}
}

func TestManager_DumpDatabase_MissingDir(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")
	writeCompose(t, env, e, "mysql")

	if _, err := m.DumpDatabase(context.Background(), e, "/nowhere", ""); err == nil {
		t.Fatal("DumpDatabase() should fail for a missing directory")
	}
	if env.Exec.Called("docker exec") {
		t.Error("nothing should run in the container")
	}
}

func TestManager_DumpDatabase_NoDatabaseService(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")
	env.FS.AddDir("/backups")

	if _, err := m.DumpDatabase(context.Background(), e, "/backups", ""); err == nil {
		t.Fatal("DumpDatabase() should fail without a database service")
	}
}

func TestManager_DumpDatabase_CopyFailureCleansUp(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")
	writeCompose(t, env, e, "mysql")
	env.FS.AddDir("/backups")
	env.Exec.AddResponse("docker cp", nil, fmt.Errorf("no such file"))

	_, err := m.DumpDatabase(context.Background(), e, "/backups", "nightly")
	if code := errors.GetExitCode(err); code != errors.ExitDockerFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitDockerFailed)
	}
	if !hasCommand(containerCommands(env.Exec), "rm -f /tmp/nightly.sql.gz") {
		t.Error("staged dump should be removed from the container")
	}
	if len(env.Events("shop_03")) != 0 {
		t.Error("failed dump should not be recorded")
	}
}

func TestManager_Exec(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")

	if _, err := m.Exec(context.Background(), e, docker.ExecOptions{Command: "  "}); err == nil {
		t.Error("Exec() should reject an empty command")
	}

	if _, err := m.Exec(context.Background(), e, docker.ExecOptions{Command: "ls -la", Root: true}); err != nil {
		t.Fatalf("Exec() failed: %v", err)
	}
	cmd, _ := env.Exec.LastCommand()
	for _, a := range cmd.Args {
		if a == "-u" {
			t.Errorf("root exec should not set a user: %v", cmd.Args)
		}
	}

	events := env.Events("shop_03")
	if len(events) != 1 || events[0].Type != audit.EventExec || events[0].Details != "ls -la" {
		t.Errorf("events = %v", events)
	}

	env.Exec.AddResponse("docker exec", nil, fmt.Errorf("exit status 2"))
	_, err := m.Exec(context.Background(), e, docker.ExecOptions{Command: "false"})
	if code := errors.GetExitCode(err); code != errors.ExitDockerFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitDockerFailed)
	}
}

func TestManager_RestoreDatabase(t *testing.T) {
	tests := []struct {
		file    string
		restore string
	}{
		{"shop.sql", "cat /tmp/shop.sql | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.gz", "zcat /tmp/shop.sql.gz | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.bz2", "bunzip2 -c /tmp/shop.sql.bz2 | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.zip", "unzip -p /tmp/shop.sql.zip | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.tar", "tar -O -xf /tmp/shop.sql.tar | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.tar.gz", "tar -O -xzf /tmp/shop.sql.tar.gz | mysql -u root --password=root SS_shop_03"},
		{"shop.sql.tgz", "tar -O -xzf /tmp/shop.sql.tgz | mysql -u root --password=root SS_shop_03"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			env := testutil.NewTestEnv(t)
			defer env.Cleanup()
			m := newTestManager(env)
			e := env.AddFreestanding("shop_03")
			writeCompose(t, env, e, "mysql")
			env.FS.AddFile("/backups/"+tt.file, []byte("dump"), 0644)

			if err := m.RestoreDatabase(context.Background(), e, "/backups/"+tt.file); err != nil {
				t.Fatalf("RestoreDatabase() failed: %v", err)
			}

			if !env.Exec.Called("docker cp /backups/" + tt.file + " shop_03_database:/tmp/" + tt.file) {
				t.Error("dump was not copied into the container")
			}
			cmds := containerCommands(env.Exec)
			if len(cmds) != 2 {
				t.Fatalf("container commands = %v, want restore and cleanup", cmds)
			}
			if cmds[0] != tt.restore {
				t.Errorf("restore command = %q, want %q", cmds[0], tt.restore)
			}
			if cmds[1] != "rm -f /tmp/"+tt.file {
				t.Errorf("cleanup command = %q", cmds[1])
			}

			events := env.Events("shop_03")
			if len(events) != 1 || events[0].Type != audit.EventRestore {
				t.Errorf("events = %v, want one restore event", events)
			}
		})
	}
}

func TestManager_RestoreDatabase_Postgres(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")
	writeCompose(t, env, e, "postgres")
	env.FS.AddFile("/backups/shop.sql.gz", []byte("dump"), 0644)

	if err := m.RestoreDatabase(context.Background(), e, "/backups/shop.sql.gz"); err != nil {
		t.Fatalf("RestoreDatabase() failed: %v", err)
	}
	want := "zcat /tmp/shop.sql.gz | psql -U postgres -q SS_shop_03"
	if cmds := containerCommands(env.Exec); len(cmds) == 0 || cmds[0] != want {
		t.Errorf("container commands = %v, want %q first", cmds, want)
	}
}

func TestManager_RestoreDatabase_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"missing file", "/backups/missing.sql"},
		{"directory", "/backups"},
		{"colon in path", "/backups/shop:03.sql"},
		{"unknown type", "/backups/shop.dump"},
		{"sql in the middle", "/backups/shop.sql.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnv(t)
			defer env.Cleanup()
			m := newTestManager(env)
			e := env.AddFreestanding("shop_03")
			writeCompose(t, env, e, "mysql")
			env.FS.AddDir("/backups")
			env.FS.AddFile("/backups/shop:03.sql", []byte("dump"), 0644)
			env.FS.AddFile("/backups/shop.dump", []byte("dump"), 0644)
			env.FS.AddFile("/backups/shop.sql.txt", []byte("dump"), 0644)

			err := m.RestoreDatabase(context.Background(), e, tt.source)
			if code := errors.GetExitCode(err); code != errors.ExitGeneralError {
				t.Errorf("exit code = %d, want %d (err: %v)", code, errors.ExitGeneralError, err)
			}
			if env.Exec.Called("docker") {
				t.Error("nothing should reach docker")
			}
		})
	}
}

func TestManager_RestoreDatabase_FailureCleansUp(t *testing.T) {
	env := testutil.NewTestEnv(t)
	defer env.Cleanup()
	m := newTestManager(env)
	e := env.AddFreestanding("shop_03")
	writeCompose(t, env, e, "mysql")
	env.FS.AddFile("/backups/shop.sql.gz", []byte("dump"), 0644)
	env.Exec.AddResponse("docker exec shop_03_database", nil, fmt.Errorf("exit status 1"))

	err := m.RestoreDatabase(context.Background(), e, "/backups/shop.sql.gz")
	if code := errors.GetExitCode(err); code != errors.ExitDockerFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitDockerFailed)
	}
	if !hasCommand(containerCommands(env.Exec), "rm -f /tmp/shop.sql.gz") {
		t.Error("staged dump should be removed from the container")
	}
	if len(env.Events("shop_03")) != 0 {
		t.Error("a failed restore should not be recorded as a restore")
	}
}
