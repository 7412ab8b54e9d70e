package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/ir"
	"github.com/roach88/journalized/internal/journal"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	DBOptions
	Config  string
	Attrs   string
	Replace bool
	Author  string
	Notes   string
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <type> <id>",
		Short: "Save attribute changes to an entity",
		Long: `Merge --attrs over the stored attributes of an entity and journal the
tracked attributes that changed. With --replace, --attrs becomes the complete
attribute set.

Saving without changes writes nothing. Changes limited to timestamps or
filtered attributes update the entity without a journal.

Examples:
  journalized update User u1 --db ./journal.db --config ./config --attrs '{"last_name":"Jobs"}'
  journalized update User u1 --db ./journal.db --config ./config --attrs '{"first_name":"Steve"}' --replace --author admin`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), opts, ir.EntityRef{Type: args[0], ID: args[1]}, cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	cmd.Flags().StringVar(&opts.Config, "config", "", "directory of CUE config files (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&opts.Attrs, "attrs", "{}", "attributes as a JSON object")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "replace all attributes instead of merging")
	cmd.Flags().StringVar(&opts.Author, "author", "", "journal author")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "journal notes")

	return cmd
}

func runUpdate(ctx context.Context, opts *UpdateOptions, ref ir.EntityRef, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd)

	attrs, err := ir.ParseObject(opts.Attrs)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid --attrs JSON", err)
	}

	reg, err := loadRegistry(opts.Config, f)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := journal.NewRecorder(st, reg, journal.WithLogger(logger))
	meta := ir.JournalMeta{Author: opts.Author, Notes: opts.Notes}

	var res journal.SaveResult
	if opts.Replace {
		res, err = rec.Replace(ctx, ref, attrs, meta)
	} else {
		res, err = rec.Save(ctx, ref, attrs, meta)
	}
	if err != nil {
		return failDomain(f, "update failed", err)
	}

	out := newWriteResult(res)
	return f.Success(out.text(), out)
}
