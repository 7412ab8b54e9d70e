package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/journalized/internal/ir"
)

// JournalsOptions holds flags for the journals command.
type JournalsOptions struct {
	*RootOptions
	DBOptions
	After int64
	Limit int
}

// JournalsResult is the JSON payload of the journals command.
type JournalsResult struct {
	Entity   string       `json:"entity"`
	Journals []ir.Journal `json:"journals"`
}

// NewJournalsCommand creates the journals command.
func NewJournalsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journals <type> <id>",
		Short: "List the journals of an entity",
		Long: `List the journals of an entity in version order.

Pass the last version seen as --after to page through long histories.

Examples:
  journalized journals User u1 --db ./journal.db
  journalized journals User u1 --db ./journal.db --after 10 --limit 10 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournals(cmd.Context(), opts, ir.EntityRef{Type: args[0], ID: args[1]}, cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	cmd.Flags().Int64Var(&opts.After, "after", 0, "only list versions greater than this")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of journals (0 = all)")

	return cmd
}

func runJournals(ctx context.Context, opts *JournalsOptions, ref ir.EntityRef, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	if opts.After < 0 || opts.Limit < 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidInput, "invalid paging flags",
			fmt.Errorf("--after and --limit must be non-negative"))
	}

	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	journals, err := st.ListForAfter(ctx, ref, opts.After, opts.Limit)
	if err != nil {
		return failDomain(f, "failed to list journals", err)
	}

	return f.Success(journalsText(ref, journals), JournalsResult{Entity: ref.String(), Journals: journals})
}

func journalsText(ref ir.EntityRef, journals []ir.Journal) string {
	if len(journals) == 0 {
		return fmt.Sprintf("No journals for %s", ref)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Journals for %s:\n", ref)
	for _, j := range journals {
		details, err := ir.MarshalCanonical(j.Details)
		if err != nil {
			details = []byte("<" + err.Error() + ">")
		}
		fmt.Fprintf(&b, "  v%d %s", j.Version, details)
		if j.Author != "" {
			fmt.Fprintf(&b, " by %s", j.Author)
		}
		if j.Notes != "" {
			fmt.Fprintf(&b, " (%s)", j.Notes)
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
