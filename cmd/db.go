package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/lifecycle"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Work with the environment database",
}

var dbDumpCmd = &cobra.Command{
	Use:   "dump <dump-dir> [filename]",
	Short: "Dump the database to a gzipped file",
	Long: `Dump the project database to <dump-dir>/<filename>.sql.gz.

The filename defaults to the environment name and the current time.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDBDump,
}

var dbRestoreCmd = &cobra.Command{
	Use:     "restore <source-file>",
	Aliases: []string{"load"},
	Short:   "Restore the database from a dump file",
	Long: `Restore the project database from a dump file on the host.

Accepted file types: ` + strings.Join(lifecycle.RestoreFileTypes(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runDBRestore,
}

var dbEnvPath string

func init() {
	dbCmd.PersistentFlags().StringVarP(&dbEnvPath, "env-path", "p", "", "Path inside the environment (default: working directory)")
	dbCmd.AddCommand(dbDumpCmd, dbRestoreCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBDump(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg([]string{dbEnvPath})
	if err != nil {
		return err
	}

	var filename string
	if len(args) > 1 {
		filename = args[1]
	}

	dumpDir, err := absPath(args[0])
	if err != nil {
		return err
	}

	dest, err := newManager().DumpDatabase(context.Background(), env, dumpDir, filename)
	if err != nil {
		return err
	}

	logSuccess("Database dumped to %s", dest)
	return nil
}

func runDBRestore(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg([]string{dbEnvPath})
	if err != nil {
		return err
	}
	source, err := absPath(args[0])
	if err != nil {
		return err
	}

	if err := newManager().RestoreDatabase(context.Background(), env, source); err != nil {
		return err
	}

	logSuccess("Database restored from %s", source)
	return nil
}
