package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wanjiru/soma/internal/app"
	"github.com/wanjiru/soma/internal/progress"
	"github.com/wanjiru/soma/internal/questionbank"
	"github.com/wanjiru/soma/internal/store"
	"github.com/wanjiru/soma/internal/timeledger"
)

// runApp opens the store, wires the services, and launches the TUI.
// A non-empty startQuiz or startNotes drops the learner straight into
// that screen.
func runApp(cmd *cobra.Command, startQuiz, startNotes questionbank.Subject) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	log := buildLogger(cmd, dbPath)
	defer log.Sync()

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	prog := progress.New(st, progress.WithLogger(log))
	outbox := progress.NewOutbox(prog, progress.WithOutboxLogger(log))
	ledger := timeledger.New(outbox, timeledger.WithLogger(log))
	bank := questionbank.New(log)

	runErr := app.Run(app.Options{
		Progress:   prog,
		Outbox:     outbox,
		Ledger:     ledger,
		Bank:       bank,
		Logger:     log,
		StartQuiz:  startQuiz,
		StartNotes: startNotes,
	})

	// Flush time sessions still running at exit (ctrl+c mid-quiz),
	// then drain the outbox before the store closes.
	for _, info := range ledger.Sessions() {
		ledger.End(info.ID)
	}
	outbox.Close()

	return runErr
}

// buildLogger returns a no-op logger unless --verbose is set, in which
// case debug logs go to a file next to the database. Logging to the
// terminal would fight the TUI for the screen.
func buildLogger(cmd *cobra.Command, dbPath string) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(filepath.Dir(dbPath), "soma.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
