package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/ir"
)

// CountOptions holds flags for the count command.
type CountOptions struct {
	*RootOptions
	DBOptions
}

// CountResult is the JSON payload of the count command.
type CountResult struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "count <type> <id>",
		Short: "Count the journals of an entity",
		Long: `Print how many journals have been recorded for an entity.

Example:
  journalized count User u1 --db ./journal.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd.Context(), opts, ir.EntityRef{Type: args[0], ID: args[1]}, cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	return cmd
}

func runCount(ctx context.Context, opts *CountOptions, ref ir.EntityRef, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.CountFor(ctx, ref)
	if err != nil {
		return failDomain(f, "failed to count journals", err)
	}
	return f.Success(fmt.Sprintf("%s: %d journal(s)", ref, n), CountResult{Entity: ref.String(), Count: n})
}
