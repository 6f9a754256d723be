package cmd

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Long: `Show the effective settings as TOML.

Settings are layered: built-in defaults, then dev-tools.toml and .env in the
install directory, then DT_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to dev-tools.toml",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

var settingsInitForce bool

func init() {
	settingsInitCmd.Flags().BoolVarP(&settingsInitForce, "force", "f", false, "Overwrite an existing settings file")
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	s := *settings()
	if s.GitHubToken != "" {
		s.GitHubToken = "********"
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(s)
}

func runSettingsInit(cmd *cobra.Command, args []string) error {
	path := paths().SettingsFile
	if _, err := os.Stat(path); err == nil && !settingsInitForce {
		return errors.ValidationError(path + " already exists, use --force to overwrite it")
	}
	if err := settings().Save(path); err != nil {
		return errors.ConfigError("failed to write settings", err)
	}
	logSuccess("Wrote %s", path)
	return nil
}
