package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taskflow/domain"
)

// newCategoriesCommand creates the categories command group
func newCategoriesCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with the number of active tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tCOLOR\tTASKS")
			for _, c := range b.Snapshot().Categories {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Name, c.Color, c.TaskCount)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sync-counts",
		Short: "Store the number of active tasks on each category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := b.SyncCategoryCounts(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d categor%s\n", n, plural(n, "y", "ies"))
			return nil
		},
	})
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func asValidation(err error) (*domain.ValidationError, bool) {
	var v *domain.ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
