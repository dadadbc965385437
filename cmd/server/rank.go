package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/usecase"
	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/validation"
	"github.com/spf13/cobra"
)

var (
	profilePath string
	rankTopN    int
	rankJSON    bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the catalog for a profile file and print the result",
	Example: `  cardmatch rank --profile profile.json
  cardmatch rank --profile profile.json --top-n 3 --json`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to a recommendation request JSON file")
	rankCmd.Flags().IntVarP(&rankTopN, "top-n", "n", 0, "number of cards to return (default from config)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the ranked response as JSON")
	_ = rankCmd.MarkFlagRequired("profile")
}

func runRank(cmd *cobra.Command, args []string) error {
	body, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	validator, err := validation.NewRequestValidator()
	if err != nil {
		return err
	}
	profile, err := validator.DecodeProfile(body)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.recommendation.Recommend(cmd.Context(), profile, rankTopN)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rankJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	_, err = fmt.Fprintln(out, usecase.Present(resp, profile).Message)
	return err
}
