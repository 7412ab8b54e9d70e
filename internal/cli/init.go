package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	DBOptions
}

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the journal schema",
		Long: `Create the entities and journals tables, or upgrade an existing
database to the current schema version. Safe to run repeatedly.

Examples:
  journalized init --db ./journal.db
  journalized init --driver postgres --db "postgres://localhost/journal?sslmode=disable"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), opts, cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	return cmd
}

func runInit(ctx context.Context, opts *InitOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	logger.Debug("opening database", "driver", opts.Driver, "db", opts.Database)
	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	return f.Success(
		fmt.Sprintf("✓ Initialized %s database %s", st.Driver(), opts.Database),
		InitResult{Database: opts.Database, Driver: st.Driver()},
	)
}
