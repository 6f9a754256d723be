package cmd

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/errors"
	"github.com/firefly-engineering/dev-tools/internal/logging"
)

var downCmd = &cobra.Command{
	Use:   "down [env-path]",
	Short: "Tear down an environment created with up",
	Long: `Tear down an environment created with "up".

Stops the containers and removes their volumes, deletes the environment
directory, frees its suffix and removes the hosts entry. Without a path the
environment containing the working directory is torn down after confirmation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDown,
}

var downYes bool

var confirmPattern = regexp.MustCompile(`(?i)^y(es)?$`)

func init() {
	downCmd.Flags().BoolVarP(&downYes, "yes", "y", false, "Don't ask for confirmation")
	rootCmd.AddCommand(downCmd)
}

func runDown(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg(args)
	if err != nil {
		return err
	}

	if len(args) == 0 && !downYes {
		fmt.Fprintf(cmd.OutOrStdout(), "You passed no arguments and are tearing down %s - do you wish to continue? [y/N] ", env.Name)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if !confirmPattern.MatchString(strings.TrimSpace(answer)) {
			return errors.New(errors.ExitGeneralError, "opting not to tear down this environment")
		}
	}

	logging.Debug("removing environment", "name", env.Name, "path", env.BaseDir)
	logInfo("Removing environment %s...", env.Name)

	result, err := newManager().Down(context.Background(), env)
	if err != nil {
		return err
	}

	displayResult(result)
	logSuccess("Removed environment %s", env.Name)
	return nil
}
