package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPullCommand creates the pull command.
func NewPullCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Fetch the remote snapshot and reconcile it into local state",
		Long: `Fetch the remote compliance snapshot and merge it into local
state: newer remote responses win, local-only work is kept, and
evidence-provenance invariants are repaired if the remote data would
violate them. Without --remote-url this is a no-op.

Example:
  veriflow pull --org acme --remote-url https://sync.example.com`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(rootOpts, cmd)
		},
	}
	return cmd
}

func runPull(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	if err := st.Pull(cmd.Context()); err != nil {
		return WrapExitError(ExitCommandError, "pulling remote snapshot", err)
	}

	snap := st.Snapshot()
	summary := map[string]any{
		"responses":       len(snap.Responses),
		"evidence":        len(snap.Evidence),
		"custom_controls": len(snap.CustomControls),
		"last_synced":     snap.LastSynced,
	}
	if out.JSON() {
		return out.Success(summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reconciled: %d responses, %d evidence records, %d custom controls\n",
		len(snap.Responses), len(snap.Evidence), len(snap.CustomControls))
	return nil
}
