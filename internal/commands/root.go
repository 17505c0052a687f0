package commands

import (
	"github.com/spf13/cobra"

	"github.com/sortfin/sortfin/internal/buildinfo"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "sortfin",
		Short:   "Personal ledger of dated account statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "workspace directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides sortfin.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newCreateCommand(opts),
		newUseCommand(opts),
		newCheckoutCommand(opts),
		newAddDateCommand(opts),
		newDeleteDateCommand(opts),
		newCommitCommand(opts),
		newDiscardCommand(opts),
		newDiffCommand(opts),
		newShowCommand(opts),
		newAddAccountCommand(opts),
		newDeleteAccountCommand(opts),
		newSetValueCommand(opts),
		newSetUnitCommand(opts),
		newAddAssetCommand(opts),
		newAddQuoteCommand(opts),
		newSetQuoteCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
