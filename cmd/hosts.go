package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/hosts"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts [env-path]",
	Short: "Add the environment's hosts file entry if it is missing",
	Long: `Add the line mapping the environment's IP address to its hostname.

up and attach do this already, but only warn when the hosts file cannot be
written. Run this once the permissions are sorted out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHosts,
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}

func runHosts(cmd *cobra.Command, args []string) error {
	env, err := resolveEnvArg(args)
	if err != nil {
		return err
	}

	added, err := newManager().EnsureHostsEntry(context.Background(), env)
	if err != nil {
		logWarning("Please manually add the following line to %s", settings().HostsFile)
		logWarning("  %s", hosts.Entry(env.IPAddress(), env.Hostname()))
		return err
	}
	if !added {
		logInfo("Hosts entry for %s already present", env.Hostname())
		return nil
	}
	logSuccess("Added %s", hosts.Entry(env.IPAddress(), env.Hostname()))
	return nil
}
