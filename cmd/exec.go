package cmd

import (
	"context"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/docker"
	"github.com/firefly-engineering/dev-tools/internal/errors"
)

var execCmd = &cobra.Command{
	Use:   "exec [flags] -- <command>",
	Short: "Execute a command in an environment container",
	Long: `Execute a command in the web server (default) or database container.

The command runs through bash -c in /var/www as uid 1000 unless --root is
given.`,
	RunE: runExec,
}

var (
	execEnvPath     string
	execRoot        bool
	execInteractive bool
	execContainer   string
)

func init() {
	execCmd.Flags().StringVarP(&execEnvPath, "env-path", "p", "", "Path inside the environment (default: working directory)")
	execCmd.Flags().BoolVarP(&execRoot, "root", "r", false, "Run the command as root")
	execCmd.Flags().BoolVarP(&execInteractive, "interactive", "i", false, "Attach the terminal to the command")
	execCmd.Flags().StringVarP(&execContainer, "container", "c", string(docker.Webserver), `Container: "webserver" or "database"`)
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.ValidationError("usage: dev-tools exec [flags] -- <command>")
	}

	service := docker.Service(execContainer)
	if service != docker.Webserver && service != docker.Database {
		return errors.ValidationError(fmt.Sprintf("unknown container %q: must be %q or %q", execContainer, docker.Webserver, docker.Database))
	}

	env, err := resolveEnvArg([]string{execEnvPath})
	if err != nil {
		return err
	}

	// A single argument is taken as a shell command line as-is.
	command := args[0]
	if len(args) > 1 {
		command = shellquote.Join(args...)
	}

	out, err := newManager().Exec(context.Background(), env, docker.ExecOptions{
		Command:     command,
		Service:     service,
		Root:        execRoot,
		Interactive: execInteractive,
	})
	if out != "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
	}
	return err
}
