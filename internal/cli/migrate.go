package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veriflowhq/veriflow/internal/namespace"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy unscoped data into the organization namespace",
		Long: `Copy legacy (pre-multi-tenant) data into the active
organization's scoped keys. Idempotent and non-destructive: already
populated scoped keys are skipped and legacy keys are never deleted,
so the command is safe to re-run.

Example:
  veriflow migrate --org acme --db ./acme.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd)
		},
	}
	return cmd
}

func runMigrate(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	store, err := openKV(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer store.Close()

	mgr := namespace.NewManager(store, nil)
	if !mgr.NeedsMigration(cmd.Context(), opts.Org) {
		if out.JSON() {
			return out.Success(namespace.MigrationResult{})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to migrate")
		return nil
	}

	result, err := mgr.Migrate(cmd.Context(), opts.Org)
	if err != nil {
		return WrapExitError(ExitCommandError, "migrating", err)
	}
	if out.JSON() {
		return out.Success(result)
	}
	for _, key := range result.MigratedKeys {
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", key)
	}
	return nil
}
