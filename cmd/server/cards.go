package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards in the configured catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		snap, err := a.catalog.Snapshot()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d cards (version %d, %s)\n", len(snap.Cards), snap.Version, snap.Source)
		for i, card := range snap.Cards {
			fmt.Fprintf(out, "%3d. %s - %s\n", i+1, card.Name, card.Issuer)
		}
		return nil
	},
}
