package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/logging"
)

var detachCmd = &cobra.Command{
	Use:   "detach [env-path]",
	Short: "Remove an attached environment, keeping the project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetach,
}

func init() {
	rootCmd.AddCommand(detachCmd)
}

func runDetach(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg(args)
	if err != nil {
		return err
	}

	logging.Debug("detaching environment", "name", env.Name, "path", env.BaseDir)
	logInfo("Detaching environment %s...", env.Name)

	result, err := newManager().Detach(context.Background(), env)
	if err != nil {
		return err
	}

	displayResult(result)
	logSuccess("Detached environment %s", env.Name)
	return nil
}
