package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/veriflowhq/veriflow/internal/model"
	"github.com/veriflowhq/veriflow/internal/state"
)

// customControlFile mirrors the YAML layout of a custom control
// definition. The id, stamps, and active flag are assigned by the
// store, never taken from the file.
type customControlFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Domain      string `yaml:"domain"`
	Risk        string `yaml:"risk"`
	Mappings    []struct {
		FrameworkID string `yaml:"framework_id"`
		ClauseID    string `yaml:"clause_id"`
		ClauseTitle string `yaml:"clause_title"`
	} `yaml:"mappings"`
}

// NewCustomCommand creates the custom command group.
func NewCustomCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage organization-authored controls",
	}
	cmd.AddCommand(newCustomAddCommand(rootOpts))
	cmd.AddCommand(newCustomRemoveCommand(rootOpts))
	return cmd
}

func newCustomAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <definition.yaml>",
		Short: "Add a custom control from a YAML definition",
		Long: `Add a custom control. The definition's framework mappings are
back-filled with the generated control id.

Example:
  veriflow custom add vendor-review.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomAdd(rootOpts, args[0], cmd)
		},
	}
}

func newCustomRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <control-id>",
		Short: "Soft-delete a custom control",
		Long: `Soft-delete a custom control. The control disappears from
active views; its evidence records are retained for audit.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCustomRemove(rootOpts, args[0], cmd)
		},
	}
}

func runCustomAdd(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading definition", err)
	}
	var file customControlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return WrapExitError(ExitCommandError, "parsing definition", err)
	}

	def := model.CustomControl{
		Title:       file.Title,
		Description: file.Description,
		Domain:      file.Domain,
		Risk:        model.RiskLevel(file.Risk),
	}
	for _, m := range file.Mappings {
		def.Mappings = append(def.Mappings, model.FrameworkMapping{
			FrameworkID: m.FrameworkID,
			ClauseID:    m.ClauseID,
			ClauseTitle: m.ClauseTitle,
		})
	}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	created, err := st.AddCustomControl(cmd.Context(), def)
	if err != nil {
		var se *state.StateError
		if errors.As(err, &se) {
			_ = out.Error(string(se.Code), se.Message)
			return WrapExitError(ExitFailure, "definition rejected", err)
		}
		return WrapExitError(ExitCommandError, "adding custom control", err)
	}

	if out.JSON() {
		return out.Success(created)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created custom control %s (%d mappings)\n", created.ID, len(created.Mappings))
	return nil
}

func runCustomRemove(opts *RootOptions, id string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	if err := st.DeleteCustomControl(cmd.Context(), id); err != nil {
		var se *state.StateError
		if errors.As(err, &se) {
			_ = out.Error(string(se.Code), se.Message)
			return WrapExitError(ExitFailure, "delete rejected", err)
		}
		return WrapExitError(ExitCommandError, "deleting custom control", err)
	}

	if out.JSON() {
		return out.Success(map[string]any{"deleted": id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "soft-deleted %s\n", id)
	return nil
}
