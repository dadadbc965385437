package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cardmatch",
	Short: "Credit card recommendation engine",
	Long: `cardmatch scores a catalog of credit cards against a user's income,
spending habits, preferred benefits and fee tolerance, and returns a ranked
shortlist with a justification per card.

Run without a subcommand to start the HTTP API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, rankCmd, cardsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
