package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/app"
	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write values stored alongside the suffix pool",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored value as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Long: `Store a value. Values that parse as JSON (numbers, booleans, quoted
strings, arrays, objects) are stored as such, anything else as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	v, ok, err := app.Default.Allocator.GetConfig(args[0])
	if err != nil {
		return stateError(err)
	}
	if !ok {
		return errors.New(errors.ExitGeneralError, "no value stored for "+args[0])
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", args[0], err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	var value any
	if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
		value = args[1]
	}
	if err := app.Default.Allocator.SetConfig(key, value); err != nil {
		return stateError(err)
	}
	logSuccess("Set %s", key)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	values, err := app.Default.Allocator.Config()
	if err != nil {
		return stateError(err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data, err := json.Marshal(values[k])
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", k, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, data)
	}
	return nil
}
