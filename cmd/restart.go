package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:       "restart [service]",
	Short:     "Restart the containers of an environment",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"webserver", "database", "mailhog"},
	RunE:      runRestart,
}

var restartEnvPath string

func init() {
	restartCmd.Flags().StringVarP(&restartEnvPath, "env-path", "p", "", "Path inside the environment (default: working directory)")
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg([]string{restartEnvPath})
	if err != nil {
		return err
	}

	var service string
	if len(args) > 0 {
		service = args[0]
	}
	if err := newManager().Restart(context.Background(), env, service); err != nil {
		return err
	}

	logSuccess("Restarted %s", env.Name)
	return nil
}
