package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/config"
	"github.com/sortfin/sortfin/internal/gitops"
	"github.com/sortfin/sortfin/internal/store"
	"github.com/sortfin/sortfin/internal/workspace"
)

type initOptions struct {
	asset  string
	symbol string
	format string
	chart  string
	git    bool
}

func newInitCommand(g *globalOptions) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new sortfin workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.asset, "asset", "USD", "default asset of new sessions")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "", "symbol of the default asset (defaults to the currency symbol)")
	cmd.Flags().StringVar(&opts.format, "format", string(store.YAML), "session file format (yaml or msgpack)")
	cmd.Flags().StringVar(&opts.chart, "chart", accounts.ChartEmpty, "chart of accounts of new sessions (empty or personal)")
	cmd.Flags().BoolVar(&opts.git, "git", false, "version the workspace with git and commit after every change")

	return cmd
}

func runInit(out io.Writer, dir string, opts initOptions) error {
	format, err := store.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.chart != accounts.ChartEmpty && opts.chart != accounts.ChartPersonal {
		return fmt.Errorf("unknown chart %q (choose %s or %s)", opts.chart, accounts.ChartEmpty, accounts.ChartPersonal)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default(opts.asset)
	cfg.Defaults.Symbol = opts.symbol
	cfg.Defaults.Format = string(format)
	cfg.Defaults.Chart = opts.chart
	cfg.Git.AutoCommit = opts.git

	ws, err := workspace.Init(dir, cfg)
	if err != nil {
		return err
	}

	if !opts.git {
		fmt.Fprintf(out, "Initialized sortfin workspace at %s\n", ws.Path())
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, gitops.Message("init", "Initialize sortfin workspace"), author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized sortfin workspace at %s (%s)\n", ws.Path(), hash)
	return nil
}
