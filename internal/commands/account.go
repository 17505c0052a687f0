package commands

import (
	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/workspace"
)

type addAccountOptions struct {
	folder bool
	unit   string
	value  string
}

func newAddAccountCommand(g *globalOptions) *cobra.Command {
	var opts addAccountOptions

	cmd := &cobra.Command{
		Use:   "add-account <parent> <name>",
		Short: "Add a terminal or folder account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, err := accounts.ParsePath(args[0])
			if err != nil {
				return err
			}
			p := actions.AccountParams{
				Parent: parent,
				Name:   args[1],
				Folder: opts.folder,
				Unit:   opts.unit,
			}
			if opts.value != "" {
				if p.Value, err = parseAmount(opts.value); err != nil {
					return err
				}
			}

			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("add-account", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.AddAccount(h.Session, h.Cursor, p)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.folder, "folder", false, "create a folder instead of a terminal account")
	cmd.Flags().StringVar(&opts.unit, "unit", "", "unit of the account (defaults to the parent unit)")
	cmd.Flags().StringVar(&opts.value, "value", "", "initial balance of a terminal account")

	return cmd
}

func newDeleteAccountCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-account <path>",
		Short: "Delete a terminal account or an empty folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := accounts.ParsePath(args[0])
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("delete-account", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.DeleteAccount(h.Session, h.Cursor, p)
			})
		},
	}
}

func newSetValueCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-value <path> <value>",
		Short: "Change the balance of a terminal account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := accounts.ParsePath(args[0])
			if err != nil {
				return err
			}
			v, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("set-value", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.ChangeAccountValue(h.Session, h.Cursor, p, v)
			})
		},
	}
}

func newSetUnitCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-unit <path> <unit>",
		Short: "Change the unit of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := accounts.ParsePath(args[0])
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("set-unit", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.ChangeAccountUnit(h.Session, h.Cursor, p, args[1])
			})
		},
	}
}
