package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ControlsOptions holds flags for the controls command.
type ControlsOptions struct {
	*RootOptions
	Domain string
}

// NewControlsCommand creates the controls command.
func NewControlsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ControlsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "controls",
		Short: "List controls and their current answers",
		Long: `List built-in plus active custom controls with each one's
current answer.

Examples:
  veriflow controls
  veriflow controls --domain "Access Control"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runControls(opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Domain, "domain", "", "filter to one domain")
	return cmd
}

func runControls(opts *ControlsOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	controls := st.AllControls()
	if opts.Domain != "" {
		controls = st.GetControlsByDomain(opts.Domain)
	}

	type row struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Domain string `json:"domain"`
		Risk   string `json:"risk"`
		Answer string `json:"answer"`
		Custom bool   `json:"custom,omitempty"`
	}
	rows := make([]row, 0, len(controls))
	for _, ctrl := range controls {
		answer := "-"
		if r, ok := st.GetResponse(ctrl.ID); ok {
			answer = string(r.Answer)
		}
		rows = append(rows, row{
			ID:     ctrl.ID,
			Title:  ctrl.Title,
			Domain: ctrl.Domain,
			Risk:   string(ctrl.Risk),
			Answer: answer,
			Custom: ctrl.Custom,
		})
	}

	if out.JSON() {
		return out.Success(rows)
	}
	for _, r := range rows {
		marker := " "
		if r.Custom {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %-8s %-20s %-8s %s\n",
			marker, r.ID, r.Answer, r.Domain, r.Risk, r.Title)
	}
	return nil
}
