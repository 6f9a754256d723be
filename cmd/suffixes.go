package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/dev-tools/internal/app"
	"github.com/firefly-engineering/dev-tools/internal/suffix"
)

var suffixesCmd = &cobra.Command{
	Use:   "suffixes",
	Short: "List the suffix pool",
	Args:  cobra.NoArgs,
	RunE:  runSuffixes,
}

var suffixesAll bool

func init() {
	suffixesCmd.Flags().BoolVarP(&suffixesAll, "all", "a", false, "Also list free suffixes")
	rootCmd.AddCommand(suffixesCmd)
}

func runSuffixes(cmd *cobra.Command, args []string) error {
	slots, err := app.Default.Allocator.Slots()
	if err != nil {
		return stateError(err)
	}

	taken := 0
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUFFIX\tSTATUS\tIP\tDB PORT")
	fmt.Fprintln(w, "------\t------\t--\t-------")
	for _, s := range slots {
		if s.Taken {
			taken++
		} else if !suffixesAll {
			continue
		}
		status := "free"
		if s.Taken {
			status = "taken"
		}
		n, _ := suffix.Number(s.Suffix)
		fmt.Fprintf(w, "%s\t%s\t10.0.%d.50\t33%s\n", s.Suffix, status, n, s.Suffix)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d suffixes taken\n", taken, len(slots))
	return nil
}

