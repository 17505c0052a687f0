package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/assets"
	"github.com/sortfin/sortfin/internal/session"
	"github.com/sortfin/sortfin/internal/store"
)

type createOptions struct {
	asset  string
	symbol string
	date   string
	chart  string
	format string
}

func newCreateCommand(g *globalOptions) *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a session and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return runCreate(e, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.asset, "asset", "", "default asset (defaults to defaults.asset)")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "symbol of the default asset")
	cmd.Flags().StringVar(&opts.date, "date", "today", "date of the first statement")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "chart of accounts (defaults to defaults.chart)")
	cmd.Flags().StringVar(&opts.format, "format", "", "session file format (defaults to defaults.format)")

	return cmd
}

func runCreate(e *env, name string, opts createOptions) error {
	cfg := e.ws.Config
	if opts.asset == "" {
		opts.asset = cfg.Defaults.Asset
		if opts.symbol == "" {
			opts.symbol = cfg.Defaults.Symbol
		}
	}
	if opts.chart == "" {
		opts.chart = cfg.Defaults.Chart
	}
	if opts.format == "" {
		opts.format = cfg.Defaults.Format
	}

	format, err := store.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	date, err := parseDate(cfg.Display.DateFormat, opts.date)
	if err != nil {
		return err
	}

	asset := assets.FromCurrency(opts.asset)
	if opts.symbol != "" {
		asset.Symbol = opts.symbol
	}
	s, err := session.Initialize(asset, date, opts.chart)
	if err != nil {
		return err
	}

	h, err := e.ws.Create(name, s, format)
	if err != nil {
		return err
	}

	out := actions.Outcome{
		OK:      true,
		Message: fmt.Sprintf("Created session %s with asset %s at %s.", name, asset.Name, h.Cursor),
	}
	fmt.Fprintln(e.out, out.Message)
	return e.record("create", h.Name, h.Cursor, out)
}

func newUseCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "use [name]",
		Short: "Switch the current session, or list sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return runListSessions(e)
			}
			return runUse(e, args[0])
		},
	}
}

func runListSessions(e *env) error {
	names, err := e.ws.Sessions()
	if err != nil {
		return err
	}
	current := ""
	if cur, err := e.ws.Current(); err == nil {
		current = cur.Session
	}
	for _, n := range names {
		marker := " "
		if n == current {
			marker = "*"
		}
		fmt.Fprintf(e.out, "%s %s\n", marker, n)
	}
	return nil
}

func runUse(e *env, name string) error {
	h, err := e.ws.Use(name)
	if err != nil {
		return err
	}
	out := actions.Outcome{OK: true, Message: fmt.Sprintf("Using session %s at %s.", h.Name, h.Cursor)}
	fmt.Fprintln(e.out, out.Message)
	return e.record("use", h.Name, h.Cursor, out)
}
