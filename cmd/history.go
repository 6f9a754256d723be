package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var historyCmd = &cobra.Command{
	Use:   "history [env-path]",
	Short: "Display the lifecycle events of an environment",
	Long: `Display the lifecycle events of an environment.

Events are kept after an environment is torn down; use --name to read them
once the directory is gone, and --list to see every environment with history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyName      string
	historyList      bool
	historyClear     bool
	historyJSONLines bool
)

func init() {
	historyCmd.Flags().StringVar(&historyName, "name", "", "Environment name instead of a path")
	historyCmd.Flags().BoolVar(&historyList, "list", false, "List environments that have history")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the history of the environment")
	historyCmd.Flags().BoolVar(&historyJSONLines, "json-lines", false, "Output events as JSON lines")
	historyCmd.MarkFlagsMutuallyExclusive("list", "name")
	historyCmd.MarkFlagsMutuallyExclusive("list", "clear")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	log := events()

	if historyList {
		names, err := log.Environments()
		if err != nil {
			return fmt.Errorf("failed to list event logs: %w", err)
		}
		if len(names) == 0 {
			logInfo("No environment history found")
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	name := historyName
	if name == "" {
		env, err := resolveEnvArg(args)
		if err != nil {
			return err
		}
		name = env.Name
	} else if len(args) > 0 {
		return errors.ValidationError("pass either an environment path or --name, not both")
	}

	if historyClear {
		if err := log.Remove(name); err != nil {
			return fmt.Errorf("failed to remove event log: %w", err)
		}
		logSuccess("Cleared history of %s", name)
		return nil
	}

	recorded, err := log.Events(name)
	if err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}

	if len(recorded) == 0 {
		logInfo("No events found for environment %s", name)
		return nil
	}

	for _, e := range recorded {
		if historyJSONLines {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, e)
		}
	}

	return nil
}
