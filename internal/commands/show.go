package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/accounts"
)

func newShowCommand(g *globalOptions) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print parts of the current session",
	}
	showCmd.AddCommand(
		newShowStructureCommand(g),
		newShowSummaryCommand(g),
		newShowDatesCommand(g),
		newShowBranchesCommand(g),
		newShowAssetsCommand(g),
		newShowQuotesCommand(g),
	)
	return showCmd
}

func newShowStructureCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "structure",
		Short: "Print the account tree and market at the cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			h, st, err := e.read()
			if err != nil {
				return err
			}
			out, err := st.Structure(h.Session.Assets)
			if err != nil {
				return err
			}
			fmt.Fprint(e.out, out)
			return nil
		},
	}
}

func newShowSummaryCommand(g *globalOptions) *cobra.Command {
	var unit string

	cmd := &cobra.Command{
		Use:   "summary [path]",
		Short: "Print the balances of a folder, converted to one unit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			var p accounts.Path
			if len(args) > 0 {
				if p, err = accounts.ParsePath(args[0]); err != nil {
					return err
				}
			}
			h, st, err := e.read()
			if err != nil {
				return err
			}
			out, err := st.Summary(h.Session.Assets, p, unit)
			if err != nil {
				return err
			}
			fmt.Fprint(e.out, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "", "unit to convert into (defaults to the folder unit)")

	return cmd
}

func newShowDatesCommand(g *globalOptions) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List statement dates, marking the cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			h, err := e.ws.OpenSession()
			if err != nil {
				return err
			}
			layout := e.ws.Config.Display.DateFormat
			for _, k := range h.Session.Keys() {
				if branch != "" && k.Branch != branch {
					continue
				}
				marker := " "
				if k.Branch == h.Cursor.Branch && k.Date.Equal(h.Cursor.Date) {
					marker = "*"
				}
				fmt.Fprintf(e.out, "%s %s %s\n", marker, displayDate(layout, k.Date), k.Branch)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "only list this branch")

	return cmd
}

func newShowBranchesCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			h, err := e.ws.OpenSession()
			if err != nil {
				return err
			}
			for _, b := range h.Session.Branches() {
				fmt.Fprintf(e.out, "%s (%d dates)\n", b, len(h.Session.Dates(b)))
			}
			return nil
		},
	}
}

func newShowAssetsCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List the asset database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			h, err := e.ws.OpenSession()
			if err != nil {
				return err
			}
			fmt.Fprint(e.out, h.Session.Assets.String())
			return nil
		},
	}
}

func newShowQuotesCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quotes",
		Short: "List the direct quotes at the cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			_, st, err := e.read()
			if err != nil {
				return err
			}
			fmt.Fprint(e.out, st.Market.String())
			return nil
		},
	}
}
