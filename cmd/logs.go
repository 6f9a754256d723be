package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var logsCmd = &cobra.Command{
	Use:       "logs [service]",
	Short:     "View container logs",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"webserver", "database", "mailhog"},
	RunE:      runLogs,
}

var (
	logsEnvPath string
	logsFollow  bool
	logsLines   int
)

func init() {
	logsCmd.Flags().StringVarP(&logsEnvPath, "env-path", "p", "", "Path inside the environment (default: working directory)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show (0 for all)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg([]string{logsEnvPath})
	if err != nil {
		return err
	}

	var service docker.Service
	if len(args) > 0 {
		service = docker.Service(args[0])
	}
	if err := newManager().Compose(env).Logs(context.Background(), service, logsFollow, logsLines); err != nil {
		return errors.DockerFailed("compose logs", err)
	}
	return nil
}
