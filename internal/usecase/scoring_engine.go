package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Points awarded by each scoring rule
const (
	eligibilityPoints   = 2
	categoryMatchPoints = 3
	benefitMatchPoints  = 3
	noFeePoints         = 2
	lowFeePoints        = 1
	lowFeeCeiling       = 1000 // inclusive
)

// DefaultTopN is the ranked list length when the caller does not ask for one
const DefaultTopN = 5

// categorySynonyms expands a spending category into substrings searched for in reward_rate text
var categorySynonyms = map[string][]string{
	"fuel":      {"fuel", "petrol", "gas"},
	"groceries": {"grocery", "supermarket", "food"},
	"dining":    {"dining", "restaurant", "food"},
	"online":    {"online", "e-commerce"},
	"offline":   {"offline", "retail"},
	"travel":    {"travel", "flight", "hotel"},
}

// benefitSynonyms expands a benefit into substrings searched for in reward_type and perks
var benefitSynonyms = map[string][]string{
	"cashback": {"cashback", "cash back"},
	"rewards":  {"reward", "points"},
	"lounge":   {"lounge"},
	"travel":   {"travel", "insurance"},
	"fuel":     {"fuel", "surcharge"},
}

// ScoringEngine scores normalized cards against a user profile.
// It holds no mutable state and is safe for concurrent use.
type ScoringEngine struct {
	workers int
}

// NewScoringEngine creates an engine that ranks with up to workers goroutines
func NewScoringEngine(workers int) *ScoringEngine {
	if workers <= 0 {
		workers = 1
	}
	return &ScoringEngine{workers: workers}
}

// RankResult is a ranked, truncated list plus the number of cards scored
type RankResult struct {
	Results        []domain.MatchResult
	TotalEvaluated int
}

// Score computes the additive match score of one card for one user.
// It is a pure function of its inputs; the total is never negative and is not capped.
func (e *ScoringEngine) Score(card domain.NormalizedCard, user *domain.UserProfile) domain.MatchResult {
	if user == nil {
		user = &domain.UserProfile{}
	}

	result := domain.MatchResult{
		Card:              card,
		MatchedCategories: make([]string, 0),
		MatchedBenefits:   make([]string, 0),
	}

	if user.MonthlyIncome >= card.MinMonthlyIncome {
		result.EligibilityMet = true
		result.Score += eligibilityPoints
	}

	for _, category := range user.SpendingHabits {
		if containsAny(card.RewardRateText, expand(categorySynonyms, category)) {
			result.Score += categoryMatchPoints
			result.MatchedCategories = append(result.MatchedCategories, category)
		}
	}

	perksText := strings.Join(card.Perks, " ")
	for _, benefit := range user.PreferredBenefits {
		synonyms := expand(benefitSynonyms, benefit)
		if containsAny(card.RewardTypeText, synonyms) || containsAny(perksText, synonyms) {
			result.Score += benefitMatchPoints
			result.MatchedBenefits = append(result.MatchedBenefits, benefit)
		}
	}

	result.Score += feePoints(user.AnnualFeePreference, card.AnnualFee)
	result.Justification = buildJustification(&result)

	return result
}

// Rank scores every card, orders by descending score with catalog order
// breaking ties, and keeps the first topN (DefaultTopN when topN <= 0).
func (e *ScoringEngine) Rank(
	ctx context.Context,
	cards []domain.NormalizedCard,
	user *domain.UserProfile,
	topN int,
) (*RankResult, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	results := make([]domain.MatchResult, len(cards))

	g, ctx := errgroup.WithContext(ctx)
	for _, span := range partition(len(cards), e.workers) {
		span := span
		g.Go(func() error {
			for i := span[0]; i < span[1]; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = e.Score(cards[i], user)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}

	return &RankResult{
		Results:        results,
		TotalEvaluated: len(cards),
	}, nil
}

// partition splits [0,n) into at most parts contiguous [start,end) spans
func partition(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}

	size := (n + parts - 1) / parts
	spans := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, [2]int{start, end})
	}
	return spans
}

func feePoints(pref domain.FeePreference, annualFee int) int {
	switch {
	case pref == domain.FeePreferenceNoFee && annualFee == 0:
		return noFeePoints
	case pref == domain.FeePreferenceLowFee && annualFee <= lowFeeCeiling:
		return lowFeePoints
	}
	return 0
}

// expand returns the synonyms of token, or the token itself when unmapped
func expand(table map[string][]string, token string) []string {
	if synonyms, ok := table[token]; ok {
		return synonyms
	}
	return []string{token}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

// buildJustification renders the fixed justification template.
// The "/10" wording is kept although matches can push the score past 10.
func buildJustification(r *domain.MatchResult) string {
	parts := []string{fmt.Sprintf("Score: %d/10.", r.Score)}

	if r.EligibilityMet {
		parts = append(parts, "Income requirement met.")
	} else {
		parts = append(parts, "Income requirement not met.")
	}

	if len(r.MatchedCategories) > 0 {
		parts = append(parts, fmt.Sprintf("Matches spending: %s.", strings.Join(r.MatchedCategories, ", ")))
	}
	if len(r.MatchedBenefits) > 0 {
		parts = append(parts, fmt.Sprintf("Matches benefits: %s.", strings.Join(r.MatchedBenefits, ", ")))
	}

	return strings.Join(parts, " ")
}
