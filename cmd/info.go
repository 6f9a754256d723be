package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/gitinfo"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

var infoCmd = &cobra.Command{
	Use:   "info [env-path]",
	Short: "Show information about an environment",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

var infoHistory int

// phpVersionCommand prints major.minor of the container's PHP.
const phpVersionCommand = `php -r 'echo PHP_MAJOR_VERSION.".".PHP_MINOR_VERSION;'`

func init() {
	infoCmd.Flags().IntVar(&infoHistory, "history", 0, "Also show the last N lifecycle events")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg(args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	compose := newManager().Compose(env)

	kind := "freestanding"
	if env.Attached {
		kind = "attached"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Environment:\t%s (%s)\n", env.Name, kind)
	fmt.Fprintf(w, "Directory:\t%s\n", env.BaseDir)
	fmt.Fprintf(w, "URL:\t%s/\n", env.BaseURL())
	fmt.Fprintf(w, "Mailhog:\t%s:8025\n", env.BaseURL())
	fmt.Fprintf(w, "DB Port:\t%d\n", env.DatabasePort())
	fmt.Fprintf(w, "Web IP:\t%s\n", env.IPAddress())

	status, err := compose.Status(ctx)
	if err != nil {
		logging.Debug("container status unavailable", "env", env.Name, "error", err)
	}

	php := "unknown"
	if status[string(docker.Webserver)] == docker.StateRunning {
		if out, err := compose.Exec(ctx, docker.ExecOptions{Command: phpVersionCommand}); err == nil {
			php = strings.TrimSpace(out)
		}
	}
	fmt.Fprintf(w, "PHP Version:\t%s\n", php)
	fmt.Fprintf(w, "Available PHP Versions:\t%s\n", strings.Join(settings().PHPVersions, ", "))

	if info, err := gitinfo.Get(env.WebRoot()); err == nil {
		fmt.Fprintf(w, "Git:\t%s\n", info)
	} else {
		logging.Debug("no git information", "path", env.WebRoot(), "error", err)
	}

	if status == nil {
		fmt.Fprintf(w, "Containers:\tunknown\n")
	} else {
		for _, name := range docker.SortedServices(status) {
			fmt.Fprintf(w, "%s:\t%s\n", name, formatState(status[name]))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if infoHistory > 0 {
		recent, err := events().Last(env.Name, infoHistory)
		if err != nil {
			return fmt.Errorf("failed to read event log: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "History:")
		if len(recent) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "  (none)")
		}
		for _, e := range recent {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", e)
		}
	}
	return nil
}

func formatState(state string) string {
	switch state {
	case docker.StateRunning:
		return "✓ running"
	case docker.StateMissing:
		return "✗ missing"
	default:
		return "● " + state
	}
}
