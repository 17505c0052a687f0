package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/session"
	"github.com/sortfin/sortfin/internal/statement"
	"github.com/sortfin/sortfin/internal/workspace"
)

func newCheckoutCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <date>",
		Short: "Work on the main statement at or before date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			date, err := parseDate(e.ws.Config.Display.DateFormat, args[0])
			if err != nil {
				return err
			}
			return e.mutate("checkout", func(h *workspace.Handle) (actions.Outcome, error) {
				out, next, err := actions.Checkout(h.Session, h.Cursor, date)
				h.Cursor = next
				return out, err
			})
		},
	}
}

func newAddDateCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-date <date>",
		Short: "Add a main statement copied from its nearest neighbour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			date, err := parseDate(e.ws.Config.Display.DateFormat, args[0])
			if err != nil {
				return err
			}
			return e.mutate("add-date", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.AddDate(h.Session, date)
			})
		},
	}
}

func newDeleteDateCommand(g *globalOptions) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "delete-date <date>",
		Short: "Delete the statement at date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			date, err := parseDate(e.ws.Config.Display.DateFormat, args[0])
			if err != nil {
				return err
			}
			return e.mutate("delete-date", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.DeleteDate(h.Session, h.Cursor, branch, date)
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", session.MainBranch, "branch to delete from")

	return cmd
}

func newCommitCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Copy the working statement onto main",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("commit", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.Commit(h.Session, h.Cursor)
			})
		},
	}
}

func newDiscardCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discard",
		Short: "Reset the working statement to main",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("discard", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.Discard(h.Session, h.Cursor)
			})
		},
	}
}

type diffOptions struct {
	fromBranch string
	toBranch   string
}

func newDiffCommand(g *globalOptions) *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff [date1 [date2]]",
		Short: "Show differences between two statements",
		Long: "Without arguments, compares main with working at the current date. " +
			"With one date, compares that date with the current date. With two dates, " +
			"compares them on the branches given by --from and --to.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return runDiff(e, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.fromBranch, "from", session.MainBranch, "branch of the first statement")
	cmd.Flags().StringVar(&opts.toBranch, "to", "", "branch of the second statement (defaults to the current branch)")

	return cmd
}

func runDiff(e *env, args []string, opts diffOptions) error {
	h, err := e.ws.OpenSession()
	if err != nil {
		return err
	}
	layout := e.ws.Config.Display.DateFormat

	from, to := h.Cursor.Date, h.Cursor.Date
	if len(args) > 0 {
		if from, err = parseDate(layout, args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if to, err = parseDate(layout, args[1]); err != nil {
			return err
		}
	}
	if opts.toBranch == "" {
		opts.toBranch = h.Cursor.Branch
	}

	d, err := h.Session.Diff(from, opts.fromBranch, to, opts.toBranch)
	if err != nil {
		return err
	}
	if d == "" {
		d = statement.NoDifferences + "\n"
	}
	fmt.Fprint(e.out, d)
	return nil
}
