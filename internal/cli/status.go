package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/veriflowhq/veriflow/internal/progress"
	"github.com/veriflowhq/veriflow/internal/state"
)

// StatusReport is the full status payload, also used for JSON output.
type StatusReport struct {
	Org        string                       `json:"org"`
	Stats      progress.Stats               `json:"stats"`
	Frameworks []progress.FrameworkProgress `json:"frameworks"`
	Domains    []progress.DomainProgress    `json:"domains"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-framework and per-domain compliance progress",
		Long: `Show overall statistics plus a per-framework and per-domain
progress breakdown for the active organization.

Examples:
  veriflow status
  veriflow status --org acme --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, cmd)
		},
	}
	return cmd
}

func runStatus(opts *RootOptions, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	report := BuildStatusReport(st)
	if out.JSON() {
		return out.Success(report)
	}
	RenderStatusReport(cmd.OutOrStdout(), report)
	return nil
}

// BuildStatusReport assembles the status payload from a state store.
func BuildStatusReport(st *state.Store) StatusReport {
	return StatusReport{
		Org:        st.OrgID(),
		Stats:      st.Stats(),
		Frameworks: st.AllFrameworkProgress(),
		Domains:    st.AllDomainProgress(),
	}
}

// RenderStatusReport writes the text rendering of a status report.
// Deterministic for a given report: golden tests compare this output
// byte for byte.
func RenderStatusReport(w io.Writer, r StatusReport) {
	fmt.Fprintf(w, "Organization: %s\n", r.Org)
	fmt.Fprintf(w, "Controls: %d total, %d answered, %d compliant (%d%%), %d gaps, %d partial\n",
		r.Stats.TotalControls, r.Stats.Answered, r.Stats.Compliant,
		r.Stats.Percent, r.Stats.Gaps, r.Stats.Partial)

	fmt.Fprintf(w, "\nFrameworks:\n")
	for _, f := range r.Frameworks {
		fmt.Fprintf(w, "  %-10s %3d%%  (%d/%d compliant, %d gaps, %d partial)\n",
			f.FrameworkID, f.Percent, f.Compliant, f.Total, f.Gaps, f.Partial)
	}

	fmt.Fprintf(w, "\nDomains:\n")
	for _, d := range r.Domains {
		fmt.Fprintf(w, "  %-20s %3d%% answered  (%d/%d, %d compliant, %d gaps)\n",
			d.Domain, d.Percent, d.Answered, d.Total, d.Compliant, d.Gaps)
	}
}
