package domain

import "time"

// Default names applied when a catalog record omits them
const (
	DefaultCardName   = "Unknown Card"
	DefaultIssuerName = "Unknown Bank"
)

// RawCardRecord is a single catalog entry as it appears in the source file.
// Every field is optional and may carry the wrong JSON type.
type RawCardRecord struct {
	Name        string      `mapstructure:"name"`
	Issuer      string      `mapstructure:"issuer"`
	Eligibility string      `mapstructure:"eligibility"`
	RewardRate  string      `mapstructure:"reward_rate"`
	RewardType  string      `mapstructure:"reward_type"`
	Perks       []string    `mapstructure:"perks"`
	AnnualFee   interface{} `mapstructure:"annual_fee"`
}

// NormalizedCard is the strict, read-only form of a catalog entry used by the scoring engine
type NormalizedCard struct {
	Name             string   `json:"name"`
	Issuer           string   `json:"issuer"`
	MinMonthlyIncome int      `json:"minMonthlyIncome"`
	RewardRateText   string   `json:"rewardRateText"` // lowercased
	RewardTypeText   string   `json:"rewardTypeText"` // lowercased
	Perks            []string `json:"perks"`          // lowercased, for matching
	Features         []string `json:"features"`       // trimmed original text, for display
	AnnualFee        int      `json:"annualFee"`
}

// Catalog is an immutable snapshot of the normalized card set.
// A new snapshot is published on every successful load.
type Catalog struct {
	Cards    []NormalizedCard
	Version  uint64
	Source   string
	LoadedAt time.Time
}

// Names returns the card names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Cards))
	for i, card := range c.Cards {
		names[i] = card.Name
	}
	return names
}
