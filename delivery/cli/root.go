// Package cli provides the taskctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"taskflow/board"
	"taskflow/domain"
)

// Opener builds a board controller for one command run. The returned
// function releases whatever the controller holds.
type Opener func(ctx context.Context, configPath string, notifier board.Notifier) (*board.Controller, func(), error)

type rootOptions struct {
	configPath string
	quiet      bool
}

// NewRootCommand creates the root command for taskctl
func NewRootCommand(open Opener, version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage tasks on a taskflow board",
		Long: `taskctl drives the same board as the taskflow server: it loads the
configured record gateway, applies the operation and prints the result.
Notifications are printed to stderr.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.yaml")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print notifications")

	s := &session{open: open, opts: opts}
	root.AddCommand(
		newListCommand(s),
		newAddCommand(s),
		newEditCommand(s),
		newToggleCommand(s, "complete", "Mark a task as completed", true),
		newToggleCommand(s, "reopen", "Mark a task as not completed", false),
		newArchiveCommand(s),
		newDeleteCommand(s),
		newCategoriesCommand(s),
	)
	return root
}

// session opens and loads a board for one command
type session struct {
	open Opener
	opts *rootOptions
}

func (s *session) board(cmd *cobra.Command, archived bool) (*board.Controller, func(), error) {
	var notifier board.Notifier = board.NotifierFunc(func(board.Notification) {})
	if !s.opts.quiet {
		notifier = printNotifier(cmd.ErrOrStderr())
	}

	b, closeFn, err := s.open(cmd.Context(), s.opts.configPath, notifier)
	if err != nil {
		return nil, nil, err
	}

	if archived {
		err = b.SetShowArchived(cmd.Context(), true)
	} else {
		err = b.Load(cmd.Context())
	}
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return b, closeFn, nil
}

func printNotifier(w io.Writer) board.Notifier {
	return board.NotifierFunc(func(n board.Notification) {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	})
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q: %w", arg, domain.ErrBadParamInput)
	}
	return id, nil
}
