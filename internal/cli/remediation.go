package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRemediationCommand creates the remediation command.
func NewRemediationCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remediation <control-id> <text>",
		Short: "Set the remediation plan on an answered control",
		Long: `Set the remediation plan on a control that has already been
answered. A control with no prior answer is left untouched.

Example:
  veriflow remediation AC-2 "Quarterly review scheduled for Q4"`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemediation(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runRemediation(opts *RootOptions, controlID, text string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	if err := st.UpdateRemediation(cmd.Context(), controlID, text); err != nil {
		return WrapExitError(ExitCommandError, "updating remediation", err)
	}

	r, answered := st.GetResponse(controlID)
	if out.JSON() {
		if !answered {
			return out.Success(map[string]any{"updated": false})
		}
		return out.Success(r)
	}
	if !answered {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no answer yet; remediation not recorded\n", controlID)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "remediation updated for %s\n", controlID)
	return nil
}
