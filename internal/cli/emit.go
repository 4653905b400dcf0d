package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/staticroute/internal/config"
	"github.com/roach88/staticroute/internal/emitter"
	"github.com/roach88/staticroute/internal/ledger"
	"github.com/roach88/staticroute/internal/router"
	"github.com/roach88/staticroute/internal/routes"
)

// EmitOptions holds options for the emit command.
type EmitOptions struct {
	*RootOptions

	// RunIDs allows overriding the ledger run ID generator (for testing).
	// If nil, defaults to router.UUIDv7Generator.
	RunIDs router.KeyGenerator
}

// EmitResult is the emit command's output payload.
type EmitResult struct {
	RunID    string         `json:"run_id"`
	Source   string         `json:"source"`
	Emitted  int            `json:"emitted"`
	Files    []emitter.File `json:"files"`
	Fallback string         `json:"fallback"`
	Stale    []emitter.File `json:"stale,omitempty"`
}

// String renders the text output.
func (r EmitResult) String() string {
	return fmt.Sprintf("Emitted %d route document(s)", r.Emitted)
}

// NewEmitCommand creates the emit command.
func NewEmitCommand(rootOpts *RootOptions) *cobra.Command {
	return newEmitCommand(&EmitOptions{RootOptions: rootOpts})
}

func newEmitCommand(opts *EmitOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Copy the entry document to every route",
		Long: `Copy the compiled entry document to <output>/<route>/<entry> for every
route in the manifest, write the not-found fallback document, and record
the run in the emission ledger.

Configuration:
  STATICROUTE_OUTPUT_DIR         bundler output directory (default dist)
  STATICROUTE_ENTRY_DOCUMENT     entry document name (default index.html)
  STATICROUTE_ROUTES_FILE        route manifest, .cue or .yaml (default routes.cue)
  STATICROUTE_FALLBACK_DOCUMENT  not-found document name (default 404.html)
  STATICROUTE_LEDGER             emission ledger database (default .staticroute.db)

Exit codes:
  0 - All route documents written
  2 - Configuration, manifest, read or write failure`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmit(opts, cmd)
		},
	}

	return cmd
}

func runEmit(opts *EmitOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	cfg, err := loadConfig(formatter)
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr(), cfg.LogLevel)

	manifest, err := loadManifest(formatter, cfg)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d route(s) from %s", len(manifest.Routes), cfg.RoutesFile)

	res, err := emitter.Emit(ctx, emitter.Options{
		OutputRoot:    cfg.OutputDir,
		EntryDocument: cfg.EntryDocument,
		Routes:        manifest.Paths(),
		Logger:        logger,
	})
	if err != nil {
		return emitFailure(formatter, err)
	}

	fallback, err := emitter.WriteFallbackDocument(cfg.OutputDir, cfg.FallbackDocument, fallbackData(manifest))
	if err != nil {
		return emitFailure(formatter, err)
	}

	ids := opts.RunIDs
	if ids == nil {
		ids = router.UUIDv7Generator{}
	}
	run := ledger.NewRun(ids.Generate(), res)
	stale, err := recordRun(cmd, cfg, &run)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, "failed to record emission", err, nil)
	}
	for _, f := range stale {
		logger.Warn("route document left by a removed route", "route", f.Route, "path", f.Path)
	}

	return formatter.Success(EmitResult{
		RunID:    run.ID,
		Source:   res.Source,
		Emitted:  res.Emitted,
		Files:    res.Files,
		Fallback: fallback,
		Stale:    stale,
	})
}

// recordRun appends run to the ledger and returns the files of the
// previous run whose routes are gone.
func recordRun(cmd *cobra.Command, cfg config.Config, run *ledger.Run) ([]emitter.File, error) {
	ctx := commandContext(cmd)

	st, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing ledger", "error", closeErr)
		}
	}()

	if err := st.RecordRun(ctx, run); err != nil {
		return nil, err
	}

	prev, err := st.PreviousRun(ctx, run.Seq)
	if errors.Is(err, ledger.ErrNoRuns) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ledger.Stale(prev, run.Routes()), nil
}

func emitFailure(f *OutputFormatter, err error) error {
	var ioErr *emitter.IOError
	if errors.As(err, &ioErr) {
		code := ErrCodeWriteFailed
		if ioErr.Op == "read" {
			code = ErrCodeReadFailed
		}
		details := map[string]any{"path": ioErr.Path, "emitted": ioErr.Emitted}
		return f.Fail(ExitCommandError, code, "emit failed", err, details)
	}
	return f.Fail(ExitCommandError, ErrCodeGeneric, "emit failed", err, nil)
}

// loadManifest reads the route manifest named by cfg.
func loadManifest(f *OutputFormatter, cfg config.Config) (*routes.Manifest, error) {
	m, err := routes.LoadManifest(cfg.RoutesFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("route manifest not found: %s", cfg.RoutesFile), nil, nil)
	}
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeManifest, "invalid route manifest", err, nil)
	}
	return m, nil
}

// fallbackData titles the not-found document after the root route.
func fallbackData(m *routes.Manifest) emitter.FallbackData {
	for _, r := range m.Routes {
		if r.Path == "/" && r.Title != "" {
			return emitter.FallbackData{Title: r.Title}
		}
	}
	return emitter.FallbackData{Title: "Redirecting"}
}
