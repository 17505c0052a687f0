package commands

import (
	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/workspace"
)

func newAddAssetCommand(g *globalOptions) *cobra.Command {
	var symbol string
	var decimals int

	cmd := &cobra.Command{
		Use:   "add-asset <name> <pair> <rate>",
		Short: "Register an asset and quote it from the cursor onwards",
		Example: "  sortfin add-asset CHF CHF/EUR 1.04\n" +
			"  sortfin add-asset BTC EUR/BTC 0.00002 --symbol ₿ --decimals 8",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			p := actions.AssetParams{
				Name:     args[0],
				Symbol:   symbol,
				Decimals: decimals,
				Pair:     args[1],
				Rate:     rate,
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("add-asset", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.AddAsset(h.Session, h.Cursor, p)
			})
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "display symbol (defaults to the currency symbol)")
	cmd.Flags().IntVar(&decimals, "decimals", -1, "displayed decimals (defaults to the currency's)")

	return cmd
}

func newAddQuoteCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-quote <pair> <rate>",
		Short: "Add a direct quote to the market at the cursor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, quote, err := parsePair(args[0])
			if err != nil {
				return err
			}
			rate, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("add-quote", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.AddQuote(h.Session, h.Cursor, base, quote, rate)
			})
		},
	}
}

func newSetQuoteCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quote <pair> <rate>",
		Short: "Change a direct quote in the market at the cursor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, quote, err := parsePair(args[0])
			if err != nil {
				return err
			}
			rate, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("set-quote", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.ChangeQuote(h.Session, h.Cursor, base, quote, rate)
			})
		},
	}
}
