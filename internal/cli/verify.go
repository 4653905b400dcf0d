package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/staticroute/internal/emitter"
	"github.com/roach88/staticroute/internal/ledger"
)

// VerifyResult is the verify command's output payload.
type VerifyResult struct {
	RunID   string          `json:"run_id"`
	Source  string          `json:"source"`
	Checked int             `json:"checked"`
	Drift   []emitter.Drift `json:"drift,omitempty"`
}

// String renders the text output.
func (r VerifyResult) String() string {
	return fmt.Sprintf("✓ %d route document(s) match %s", r.Checked, r.Source)
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check emitted route documents against the entry document",
		Long: `Check that every route document recorded by the latest emit run still
exists and is byte-identical to the current entry document.

Exit codes:
  0 - All route documents match
  1 - One or more route documents are missing or modified
  2 - Command error (no ledger, no runs, unreadable entry document)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd)
		},
	}

	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(formatter)
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr(), cfg.LogLevel)

	if _, err := os.Stat(cfg.Ledger); errors.Is(err, os.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("emission ledger not found: %s", cfg.Ledger), nil, nil)
	}

	st, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, "failed to open emission ledger", err, nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	run, err := st.LatestRun(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, "no emission to verify", err, nil)
	}
	formatter.VerboseLog("Verifying run %s (seq %d, %d file(s))", run.ID, run.Seq, len(run.Files))

	source := cfg.EntryPath()
	drift, err := emitter.Verify(source, run.Files)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeReadFailed, "verify failed", err, nil)
	}

	result := VerifyResult{RunID: run.ID, Source: source, Checked: len(run.Files), Drift: drift}
	if len(drift) == 0 {
		logger.Debug("route documents verified", "run", run.ID, "checked", result.Checked)
		return formatter.Success(result)
	}

	for _, d := range drift {
		logger.Warn("route document drifted", "kind", d.Kind, "route", d.Route, "path", d.Path)
	}
	return formatter.Fail(ExitFailure, ErrCodeDrift, driftSummary(drift), nil, result)
}

func driftSummary(drift []emitter.Drift) string {
	routes := make([]string, len(drift))
	for i, d := range drift {
		routes[i] = fmt.Sprintf("%s (%s)", d.Route, d.Kind)
	}
	return fmt.Sprintf("%d route document(s) drifted: %s", len(drift), strings.Join(routes, ", "))
}
