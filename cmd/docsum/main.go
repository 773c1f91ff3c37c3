package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docsum",
		Short: "Summarize documents into a few sentences",
		Long: `docsum condenses text into a short list of sentences.

Short input is summarized in one pass. Long input is split into chunks,
each chunk is summarized, and the partial summaries are summarized again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "YAML config file (overrides $DOCSUM_CONFIG)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSummarizeCmd(),
		newChunksCmd(),
	)
	return rootCmd
}
