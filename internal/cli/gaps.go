package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGapsCommand creates the gaps command.
func NewGapsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "List the most severe unresolved gaps",
		Long: `List controls answered "no" with critical or high risk,
most severe first, capped to the five worst.

Example:
  veriflow gaps --org acme`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGaps(rootOpts, cmd)
		},
	}
	return cmd
}

func runGaps(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	gaps := st.CriticalGaps()
	if out.JSON() {
		return out.Success(gaps)
	}
	if len(gaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no critical gaps")
		return nil
	}
	for _, g := range gaps {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-8s %s\n", g.Control.Risk, g.Control.ID, g.Control.Title)
		if g.Response.RemediationPlan != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "         plan: %s\n", g.Response.RemediationPlan)
		}
	}
	return nil
}
