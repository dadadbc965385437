package domain

import "strings"

// FeePreference expresses how much annual fee a user tolerates
type FeePreference string

const (
	FeePreferenceNone   FeePreference = ""
	FeePreferenceNoFee  FeePreference = "no fee"
	FeePreferenceLowFee FeePreference = "low fee"
	FeePreferenceAny    FeePreference = "any"
)

// RecommendationRequest is the wire form of a recommendation request
type RecommendationRequest struct {
	MonthlyIncome       int      `json:"monthly_income"`
	SpendingHabits      []string `json:"spending_habits"`
	PreferredBenefits   []string `json:"preferred_benefits"`
	AnnualFeePreference *string  `json:"annual_fee_preference,omitempty"`
}

// UserProfile is the normalized profile consumed by the scoring engine.
// Category and benefit tokens are lowercased and de-duplicated in input order.
type UserProfile struct {
	MonthlyIncome       int           `json:"monthly_income"`
	SpendingHabits      []string      `json:"spending_habits"`
	PreferredBenefits   []string      `json:"preferred_benefits"`
	AnnualFeePreference FeePreference `json:"annual_fee_preference,omitempty"`
}

// ToProfile normalizes the request into a UserProfile.
// Returns ErrInvalidRequest for negative income or an unknown fee preference.
func (r *RecommendationRequest) ToProfile() (*UserProfile, error) {
	if r == nil || r.MonthlyIncome < 0 {
		return nil, ErrInvalidRequest
	}

	profile := &UserProfile{
		MonthlyIncome:     r.MonthlyIncome,
		SpendingHabits:    normalizeTokens(r.SpendingHabits),
		PreferredBenefits: normalizeTokens(r.PreferredBenefits),
	}

	if r.AnnualFeePreference != nil {
		pref, ok := ParseFeePreference(*r.AnnualFeePreference)
		if !ok {
			return nil, ErrInvalidRequest
		}
		profile.AnnualFeePreference = pref
	}

	return profile, nil
}

// ParseFeePreference maps free-form input onto a FeePreference, case-insensitively
func ParseFeePreference(s string) (FeePreference, bool) {
	switch FeePreference(strings.ToLower(strings.TrimSpace(s))) {
	case FeePreferenceNoFee:
		return FeePreferenceNoFee, true
	case FeePreferenceLowFee:
		return FeePreferenceLowFee, true
	case FeePreferenceAny:
		return FeePreferenceAny, true
	case FeePreferenceNone:
		return FeePreferenceNone, true
	}
	return FeePreferenceNone, false
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
