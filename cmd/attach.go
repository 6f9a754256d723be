package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/lifecycle"
)

var attachCmd = &cobra.Command{
	Use:   "attach [project-path]",
	Short: "Attach an environment to an existing project",
	Long: `Attach an environment to an existing project directory.

The project directory is left where it is. Docker files go in docker-<suffix>
inside it and a .dev-tools-env file marks it as attached. Run "detach" to
remove the environment again without touching the project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAttach,
}

var (
	attachName       string
	attachPHPVersion string
	attachDB         string
	attachDBVersion  string
)

func init() {
	attachCmd.Flags().StringVarP(&attachName, "name", "n", "", "Environment name (default: project directory name)")
	attachCmd.Flags().StringVarP(&attachPHPVersion, "php-version", "P", "", "PHP version (default: lowest configured version)")
	attachCmd.Flags().StringVar(&attachDB, "db", "", `Database: "mysql", "mariadb" or "postgres"`)
	attachCmd.Flags().StringVar(&attachDBVersion, "db-version", "", "Database image version")
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	path, err := pathArg(args)
	if err != nil {
		return err
	}

	result, err := newManager().Attach(context.Background(), lifecycle.AttachOptions{
		ProjectPath: path,
		Name:        attachName,
		PHPVersion:  attachPHPVersion,
		Database:    attachDB,
		DBVersion:   attachDBVersion,
	})
	if err != nil {
		return err
	}

	displayResult(result)
	logSuccess("Attached environment %s", result.Env.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  URL: %s/\n", result.Env.BaseURL())
	return nil
}
