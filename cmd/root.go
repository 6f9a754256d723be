package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/app"
	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/lifecycle"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "dev-tools",
	Short: "Docker development environments for Silverstripe projects",
	Long: `dev-tools creates and manages docker development environments.

Each environment gets:
  - A two-digit suffix from a shared pool of 100
  - Its own subnet (10.0.<suffix>.0/24) and database port (33<suffix>)
  - A web server, database and mailhog container
  - A hosts file entry for <name>.<host suffix>

Freestanding environments are created with "up" and live under the projects
path. Existing projects get an environment with "attach".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)
		logging.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err := app.Default.LoadSettings(); err != nil {
			return errors.ConfigError("failed to load settings", err)
		}
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logError("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)

// displayResult shows what a transition could not finish on its own.
func displayResult(r *lifecycle.Result) {
	if r == nil {
		return
	}
	for _, w := range r.Warnings {
		logWarning("%s", w)
	}
	if r.HostsEntry != "" {
		logWarning("  %s", r.HostsEntry)
	}
}
