package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/accounts"
	"github.com/sortfin/sortfin/internal/actionlog"
	"github.com/sortfin/sortfin/internal/actions"
	"github.com/sortfin/sortfin/internal/workspace"
)

func newExportCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the balances at the cursor as CSV",
		Long:  "Writes path,unit,value rows for every terminal account. Without a file, or with -, writes to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			_, st, err := e.read()
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				return accounts.WriteLeaves(e.out, st.Root)
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating export: %w", err)
			}
			if err := accounts.WriteLeaves(f, st.Root); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			e.log.Info().Str("file", args[0]).Msg("exported balances")
			return nil
		},
	}
}

func newImportCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Apply balances from a CSV export to the statement at the cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import: %w", err)
				}
				defer f.Close()
				r = f
			}
			leaves, err := accounts.ReadLeaves(r)
			if err != nil {
				return err
			}
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			return e.mutate("import", func(h *workspace.Handle) (actions.Outcome, error) {
				return actions.ImportValues(h.Session, h.Cursor, leaves)
			})
		},
	}
}

func newLogCommand(g *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the most recent actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.open(cmd)
			if err != nil {
				return err
			}
			entries, err := actionlog.Read(e.ws.LogPath())
			if err != nil {
				return err
			}
			layout := e.ws.Config.Display.DateFormat
			for _, en := range actionlog.Tail(entries, limit) {
				status := "ok"
				if !en.OK {
					status = "refused"
				}
				date := ""
				if !en.Date.IsZero() {
					date = displayDate(layout, en.Date)
				}
				fmt.Fprintf(e.out, "%s %-14s %-8s %s@%s %s\n",
					en.Timestamp.Local().Format("2006-01-02 15:04:05"),
					en.Command, status, en.Branch, date, firstLine(en.Message))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries (0 for all)")

	return cmd
}
