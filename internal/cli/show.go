package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/ir"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBOptions
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <journal-id>",
		Short: "Show one journal by its content id",
		Long: `Print a single journal looked up by the content-addressed id reported
by create, update and journals --format json.

Example:
  journalized show 3f9a... --db ./journal.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, args[0], cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	j, err := st.ReadJournal(ctx, id)
	if err != nil {
		return failDomain(f, "failed to read journal", err)
	}

	text := journalsText(j.Ref(), []ir.Journal{j})
	return f.Success(fmt.Sprintf("%s\n  id %s", text, j.ID), j)
}
