package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sakeCmd = &cobra.Command{
	Use:   "sake <task...>",
	Short: "Run a sake task in the web server container",
	Example: `  dev-tools sake dev/build flush=1
  dev-tools sake dev/tasks/MigrateFileTask --env-path ~/projects/shop_03`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSake,
}

var (
	sakeEnvPath     string
	sakeInteractive bool
)

func init() {
	sakeCmd.Flags().StringVarP(&sakeEnvPath, "env-path", "p", "", "Path inside the environment (default: working directory)")
	sakeCmd.Flags().BoolVarP(&sakeInteractive, "interactive", "i", false, "Attach the terminal to the task")
	rootCmd.AddCommand(sakeCmd)
}

func runSake(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg([]string{sakeEnvPath})
	if err != nil {
		return err
	}

	out, err := newManager().Sake(context.Background(), env, args, sakeInteractive)
	if out != "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return err
}
