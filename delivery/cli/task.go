package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskflow/board"
)

// newListCommand creates the list command
func newListCommand(s *session) *cobra.Command {
	var opts struct {
		Archived bool
		Category string
		Priority string
		Status   string
		Search   string
		JSON     bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Long: `List the tasks of the active view, or of the archived view with --archived.

Examples:
  taskctl list
  taskctl list --category Work --status pending
  taskctl list --search report --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := board.Filters{
				Category: opts.Category,
				Priority: opts.Priority,
				Status:   board.Status(opts.Status),
				Search:   opts.Search,
			}
			if err := filters.Validate(); err != nil {
				return err
			}

			b, closeFn, err := s.board(cmd, opts.Archived)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := b.SetFilters(filters); err != nil {
				return err
			}
			snap := b.Snapshot()

			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap.Tasks)
			}
			printTasks(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Archived, "archived", false, "Show archived tasks")
	cmd.Flags().StringVar(&opts.Category, "category", board.All, "Only tasks in this category")
	cmd.Flags().StringVar(&opts.Priority, "priority", board.All, "Only tasks with this priority")
	cmd.Flags().StringVar(&opts.Status, "status", string(board.StatusAll), "all, pending or completed")
	cmd.Flags().StringVar(&opts.Search, "search", "", "Case-insensitive text in title or description")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	return cmd
}

func printTasks(w io.Writer, snap board.Snapshot) {
	if len(snap.Tasks) == 0 {
		if snap.HasFilters {
			_, _ = fmt.Fprintln(w, "No tasks match the current filters.")
		} else {
			_, _ = fmt.Fprintln(w, "No tasks yet.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRIORITY\tDUE\tSTATUS")
	for _, t := range snap.Tasks {
		status := "pending"
		switch {
		case t.Completed:
			status = "done"
		case t.Overdue:
			status = "overdue"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Category, t.Priority, t.DueLabel, status)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "\n%d of %d task(s)\n", len(snap.Tasks), snap.Loaded)
}

type taskFlags struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Due         string
}

func (f *taskFlags) register(cmd *cobra.Command, defaults board.Form) {
	cmd.Flags().StringVar(&f.Title, "title", defaults.Title, "Task title")
	cmd.Flags().StringVar(&f.Description, "description", defaults.Description, "Task description")
	cmd.Flags().StringVar(&f.Category, "category", defaults.Category, "Category name")
	cmd.Flags().StringVar(&f.Priority, "priority", defaults.Priority, "High, Medium or Low")
	cmd.Flags().StringVar(&f.Due, "due", defaults.DueDate, "Due date (YYYY-MM-DD)")
}

// apply overrides the form with the flags the user set
func (f *taskFlags) apply(cmd *cobra.Command, form board.Form) board.Form {
	if cmd.Flags().Changed("title") {
		form.Title = f.Title
	}
	if cmd.Flags().Changed("description") {
		form.Description = f.Description
	}
	if cmd.Flags().Changed("category") {
		form.Category = f.Category
	}
	if cmd.Flags().Changed("priority") {
		form.Priority = f.Priority
	}
	if cmd.Flags().Changed("due") {
		form.DueDate = f.Due
	}
	return form
}

// newAddCommand creates the add command
func newAddCommand(s *session) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Long: `Create a task. Category defaults to Work, priority to Medium and the
due date to today.

Examples:
  taskctl add --title "Buy milk" --category Personal --priority Low --due 2025-06-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			form := flags.apply(cmd, board.NewForm(time.Now()))
			created, err := b.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d\n", created.ID)
			return nil
		},
	}

	flags.register(cmd, board.Form{Category: "Work", Priority: "Medium"})
	return cmd
}

// newEditCommand creates the edit command
func newEditCommand(s *session) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit an active task",
		Long: `Edit an active task. Only the flags given are changed.

Examples:
  taskctl edit 3 --priority High --due 2025-06-10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := b.OpenEdit(id); err != nil {
				return err
			}
			form := flags.apply(cmd, board.FormFromTask(*b.Snapshot().Editing))
			updated, err := b.Update(cmd.Context(), form)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", updated.ID)
			return nil
		},
	}

	flags.register(cmd, board.Form{})
	return cmd
}

// newToggleCommand creates complete and reopen
func newToggleCommand(s *session, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := b.ToggleComplete(cmd.Context(), id, completed)
			if err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "completed"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task #%d is %s\n", t.ID, state)
			return nil
		},
	}
}

// newArchiveCommand creates the archive command
func newArchiveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			if _, err := b.Archive(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Archived task #%d\n", id)
			return nil
		},
	}
}

// newDeleteCommand creates the delete command
func newDeleteCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, closeFn, err := s.board(cmd, false)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := b.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

// FormatError renders err for the terminal. Validation failures list one field per line.
func FormatError(err error) string {
	msg := err.Error()
	if v, ok := asValidation(err); ok {
		var sb strings.Builder
		sb.WriteString("invalid task:")
		for _, field := range []string{"title", "category", "priority", "due_date"} {
			if m, ok := v.Fields[field]; ok {
				sb.WriteString("\n  " + field + ": " + m)
			}
		}
		return sb.String()
	}
	return msg
}
