package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/config"
	"github.com/roach88/journalized/internal/journal"
	"github.com/roach88/journalized/internal/store"
)

// DBOptions selects the database a command works on.
type DBOptions struct {
	Database string // SQLite path or Postgres connection string
	Driver   string // store.DriverSQLite | store.DriverPostgres
}

func addDBFlags(cmd *cobra.Command, opts *DBOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite path or Postgres DSN (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Driver, "driver", store.DriverSQLite, "database driver (sqlite3|postgres)")
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a text logger on the command's stderr.
// --verbose lowers the level to Debug.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func openStore(ctx context.Context, opts *DBOptions, f *OutputFormatter) (*store.Store, error) {
	st, err := store.OpenDSN(ctx, opts.Driver, opts.Database)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	return st, nil
}

func loadRegistry(dir string, f *OutputFormatter) (*journal.Registry, error) {
	reg, err := config.Load(dir)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	return reg, nil
}

// failDomain maps recorder and store sentinels to error codes.
func failDomain(f *OutputFormatter, message string, err error) error {
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		return f.Fail(ExitFailure, ErrCodeEntityNotFound, message, err)
	case errors.Is(err, store.ErrEntityExists):
		return f.Fail(ExitFailure, ErrCodeEntityExists, message, err)
	case errors.Is(err, journal.ErrNotJournaled):
		return f.Fail(ExitFailure, ErrCodeNotJournaled, message, err)
	case errors.Is(err, store.ErrVersionConflict):
		return f.Fail(ExitFailure, ErrCodeVersionConflict, message, err)
	case errors.Is(err, store.ErrJournalNotFound):
		return f.Fail(ExitFailure, ErrCodeJournalNotFound, message, err)
	default:
		return f.Fail(ExitFailure, ErrCodeGeneric, message, err)
	}
}
