package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veriflowhq/veriflow/internal/namespace"
)

// NewOrgsCommand creates the orgs command.
func NewOrgsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "List organizations with data in the local store",
		Long: `List every organization id that has scoped data in the local
store. The active organization (--org) is marked with an asterisk.

Example:
  veriflow orgs --db ./veriflow.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrgs(rootOpts, cmd)
		},
	}
	return cmd
}

func runOrgs(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	store, err := openKV(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer store.Close()

	orgs, err := namespace.Organizations(cmd.Context(), store)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing organizations", err)
	}
	if out.JSON() {
		return out.Success(orgs)
	}
	if len(orgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no organizations")
		return nil
	}
	for _, org := range orgs {
		marker := " "
		if org == opts.Org {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, org)
	}
	return nil
}
