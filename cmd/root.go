package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Used for flags.
	cfgFile         string
	journalOverride string

	rootCmd = &cobra.Command{
		Use:   "matomo-contract",
		Short: "Typed Matomo tracker contract with a journaling test double",
		Long: `matomo-contract exposes the Matomo JavaScript tracker API as a typed
contract. The commands here list that contract, invoke any of its operations
against a recording tracker, and inspect the journal of recorded calls.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.matomo-contract/matomo-contract.toml or ./matomo-contract.toml)")
	rootCmd.PersistentFlags().StringVar(&journalOverride, "journal", "", "Override the journal_type setting in the config file (memory, file or sql).")
}
