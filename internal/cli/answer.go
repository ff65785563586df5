package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veriflowhq/veriflow/internal/model"
	"github.com/veriflowhq/veriflow/internal/state"
)

// NewAnswerCommand creates the answer command.
func NewAnswerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer <control-id> <yes|no|partial|na|unset>",
		Short: "Record a compliance answer for a control",
		Long: `Record an answer to a compliance control.

Answering "yes" creates a draft evidence record and emits one
notification per framework mapping on the control. Answering anything
else removes any prior evidence record.

Examples:
  veriflow answer AC-1 yes
  veriflow answer DP-2 no --org acme --db ./acme.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswer(rootOpts, args[0], model.Answer(args[1]), cmd)
		},
	}
	return cmd
}

func runAnswer(opts *RootOptions, controlID string, answer model.Answer, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	st, closer, err := openStore(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer closer()

	if err := st.AnswerControl(cmd.Context(), controlID, answer); err != nil {
		var se *state.StateError
		if errors.As(err, &se) {
			_ = out.Error(string(se.Code), se.Message)
			return WrapExitError(ExitFailure, "answer rejected", err)
		}
		return WrapExitError(ExitCommandError, "answering control", err)
	}

	r, _ := st.GetResponse(controlID)
	if out.JSON() {
		return out.Success(r)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", controlID, answer)
	if ev, ok := st.GetEvidenceByControlID(controlID); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "evidence %s created (%s)\n", ev.ID, ev.Status)
	}
	return nil
}
