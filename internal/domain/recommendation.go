package domain

// MatchResult is the outcome of scoring one card against one profile
type MatchResult struct {
	Card              NormalizedCard `json:"card"`
	Score             int            `json:"score"`
	MatchedCategories []string       `json:"matchedCategories"`
	MatchedBenefits   []string       `json:"matchedBenefits"`
	EligibilityMet    bool           `json:"eligibilityMet"`
	Justification     string         `json:"justification"`
}

// Recommendation is a ranked result as returned to API callers
type Recommendation struct {
	CardName          string   `json:"card_name" mapstructure:"card_name"`
	Bank              string   `json:"bank" mapstructure:"bank"`
	MatchScore        int      `json:"match_score" mapstructure:"match_score"`
	EligibilityMet    bool     `json:"eligibility_met" mapstructure:"eligibility_met"`
	MatchedCategories []string `json:"matched_categories" mapstructure:"matched_categories"`
	MatchedBenefits   []string `json:"matched_benefits" mapstructure:"matched_benefits"`
	AnnualFee         string   `json:"annual_fee" mapstructure:"annual_fee"`
	AnnualFeeAmount   int      `json:"annual_fee_amount" mapstructure:"annual_fee_amount"`
	KeyFeatures       []string `json:"key_features" mapstructure:"key_features"`
	Justification     string   `json:"justification" mapstructure:"justification"`
}

// RecommendationResponse is the ranked, truncated list plus evaluation totals
type RecommendationResponse struct {
	Recommendations     []Recommendation `json:"recommendations" mapstructure:"recommendations"`
	TotalCardsEvaluated int              `json:"total_cards_evaluated" mapstructure:"total_cards_evaluated"`
	CatalogVersion      uint64           `json:"catalog_version" mapstructure:"catalog_version"`
	Source              string           `json:"source,omitempty" mapstructure:"source"` // "engine" or "cache"
}

// DisplayCard is one rendered entry of a Presentation
type DisplayCard struct {
	Rank              int      `json:"rank"`
	CardName          string   `json:"card_name"`
	Bank              string   `json:"bank"`
	MatchScore        int      `json:"match_score"`
	EligibilityMet    bool     `json:"eligibility_met"`
	NoAnnualFee       bool     `json:"no_annual_fee"`
	FeeMatchesPref    bool     `json:"fee_matches_preference"`
	LoungeIncluded    bool     `json:"lounge_included"`
	Highlights        []string `json:"highlights"`
	KeyFeatures       []string `json:"key_features"`
	MatchedCategories []string `json:"matched_categories"`
	AnnualFee         string   `json:"annual_fee"`
}

// Presentation is the user-facing rendering of a ranked list
type Presentation struct {
	TopPick    *DisplayCard  `json:"top_pick,omitempty"`
	Alternates []DisplayCard `json:"alternates"`
	Message    string        `json:"message"`
}
