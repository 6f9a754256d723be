package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var phpCmd = &cobra.Command{
	Use:   "php [env-path]",
	Short: "Change the PHP setup of an environment",
	Long: `Change the PHP setup of an environment.

--php-version rebuilds the web server with another configured PHP version.
--toggle-debug turns xdebug on or off and restarts the web server.
--info prints phpinfo from the web server.

Options are applied in that order; at least one is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPHP,
}

var (
	phpVersion     string
	phpToggleDebug bool
	phpInfo        bool
)

func init() {
	phpCmd.Flags().StringVarP(&phpVersion, "php-version", "P", "", "Swap to a specific PHP version")
	phpCmd.Flags().BoolVarP(&phpToggleDebug, "toggle-debug", "d", false, "Toggle xdebug on/off")
	phpCmd.Flags().BoolVarP(&phpInfo, "info", "i", false, "Print phpinfo of the web server")
	rootCmd.AddCommand(phpCmd)
}

func runPHP(cmd *cobra.Command, args []string) error {
	if phpVersion == "" && !phpToggleDebug && !phpInfo {
		return errors.ValidationError("at least one of --php-version, --toggle-debug or --info is required")
	}

	env, err := resolveEnvArg(args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	m := newManager()

	if phpVersion != "" {
		changed, err := m.SwapPHP(ctx, env, phpVersion)
		if err != nil {
			return err
		}
		if changed {
			logSuccess("Now using PHP %s", phpVersion)
		}
	}

	if phpToggleDebug {
		enabled, err := m.ToggleDebug(ctx, env)
		if err != nil {
			return err
		}
		state := "off"
		if enabled {
			state = "on"
		}
		logSuccess("xdebug is %s", state)
	}

	if phpInfo {
		out, err := m.PHPInfo(ctx, env)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return nil
}
