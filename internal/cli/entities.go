package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// EntitiesOptions holds flags for the entities command.
type EntitiesOptions struct {
	*RootOptions
	DBOptions
}

// EntitiesResult is the JSON payload of the entities command.
type EntitiesResult struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EntitiesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "entities <type>",
		Short: "List stored entities of a type",
		Long: `List the ids of every stored entity of one type, sorted.

Example:
  journalized entities User --db ./journal.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(cmd.Context(), opts, args[0], cmd)
		},
	}

	addDBFlags(cmd, &opts.DBOptions)
	return cmd
}

func runEntities(ctx context.Context, opts *EntitiesOptions, entityType string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(ctx, &opts.DBOptions, f)
	if err != nil {
		return err
	}
	defer st.Close()

	ids, err := st.ListEntities(ctx, entityType)
	if err != nil {
		return failDomain(f, "failed to list entities", err)
	}

	text := fmt.Sprintf("No %s entities", entityType)
	if len(ids) > 0 {
		text = fmt.Sprintf("%s (%d):\n  %s", entityType, len(ids), strings.Join(ids, "\n  "))
	}
	return f.Success(text, EntitiesResult{Type: entityType, IDs: ids})
}
