package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/composer"
	"github.com/firefly-engineering/dev-tools/internal/lifecycle"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

var upCmd = &cobra.Command{
	Use:   "up [env-name]",
	Short: "Create a new environment and install a recipe into it",
	Long: `Create a new freestanding environment under the projects path.

The environment directory is <env-name>_<suffix>. Without a name one is
derived from the recipe and constraint, e.g. "sink_5-x" for
--recipe sink --constraint ^5.x-dev.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUp,
}

var (
	upProjectPath  string
	upRecipe       string
	upConstraint   string
	upPHPVersion   string
	upDB           string
	upDBVersion    string
	upComposerArgs string
	upPreferSource bool
)

func init() {
	upCmd.Flags().StringVarP(&upProjectPath, "project-path", "p", "", "Parent directory of the environment (default: configured projects path)")
	upCmd.Flags().StringVarP(&upRecipe, "recipe", "r", "", "Recipe to install: sink, installer or a composer package")
	upCmd.Flags().StringVarP(&upConstraint, "constraint", "c", "", "Version constraint for the recipe")
	upCmd.Flags().StringVarP(&upPHPVersion, "php-version", "P", "", "PHP version (default: lowest configured version)")
	upCmd.Flags().StringVar(&upDB, "db", "", `Database: "mysql", "mariadb" or "postgres"`)
	upCmd.Flags().StringVar(&upDBVersion, "db-version", "", "Database image version")
	upCmd.Flags().StringVarP(&upComposerArgs, "composer-args", "a", "", "Extra arguments for composer create-project")
	upCmd.Flags().BoolVar(&upPreferSource, "prefer-source", false, "Pass --prefer-source to composer")
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	opts := lifecycle.UpOptions{
		ProjectsPath: upProjectPath,
		Recipe:       upRecipe,
		Constraint:   upConstraint,
		PHPVersion:   upPHPVersion,
		Database:     upDB,
		DBVersion:    upDBVersion,
		Composer: composer.Options{
			ExtraArgs:    upComposerArgs,
			PreferSource: upPreferSource,
		},
	}
	if len(args) > 0 {
		opts.Name = args[0]
	}
	if opts.ProjectsPath != "" {
		path, err := absPath(opts.ProjectsPath)
		if err != nil {
			return err
		}
		opts.ProjectsPath = path
	}

	logging.Debug("creating environment", "name", opts.Name, "recipe", opts.Recipe)

	result, err := newManager().Up(ctx, opts)
	if err != nil {
		return err
	}

	displayResult(result)
	env := result.Env
	logSuccess("Created environment %s", env.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  Directory: %s\n", env.BaseDir)
	fmt.Fprintf(cmd.OutOrStdout(), "  URL:       %s/\n", env.BaseURL())
	return nil
}
