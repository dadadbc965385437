package catalog

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// collectionKey is the wrapping key of the object-shaped catalog
const collectionKey = "cards"

// Eligibility phrases, checked in this order
const (
	monthlyIncomePhrase = "monthly income"
	annualIncomePhrase  = "annual income"
)

// numberRunRegex matches the first maximal run of digits and commas that holds at least one digit
var numberRunRegex = regexp.MustCompile(`[\d,]*\d[\d,]*`)

// nonDigitRegex strips everything but digits from fee strings
var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// freeFeeWords are fee strings that mean no annual fee
var freeFeeWords = map[string]bool{
	"free": true, "nil": true, "na": true, "none": true,
}

// Normalizer converts a raw catalog payload into normalized cards.
// All leniency towards malformed input lives here.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer; a nil logger disables logging
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger.Named("normalizer")}
}

// Normalize parses payload and returns the cards in source order.
// It fails with *domain.CatalogFormatError when the top-level shape is unrecognized;
// malformed individual records degrade to defaults instead.
func (n *Normalizer) Normalize(source string, payload []byte) ([]domain.NormalizedCard, error) {
	records, err := extractRecords(source, payload)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.NormalizedCard, 0, len(records))
	for i, record := range records {
		raw, err := decodeRecord(record)
		if err != nil {
			n.logger.Warn("degraded catalog record",
				zap.String("source", source),
				zap.Int("index", i),
				zap.Error(err),
			)
		}
		cards = append(cards, NormalizeRecord(raw))
	}

	n.logger.Debug("catalog normalized",
		zap.String("source", source),
		zap.Int("cards", len(cards)),
	)

	return cards, nil
}

// extractRecords resolves the two accepted top-level shapes
func extractRecords(source string, payload []byte) ([]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var top interface{}
	if err := decoder.Decode(&top); err != nil {
		return nil, &domain.CatalogFormatError{Source: source, Reason: "invalid JSON: " + err.Error()}
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, &domain.CatalogFormatError{Source: source, Reason: "trailing data after JSON value"}
	}

	switch v := top.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		wrapped, ok := v[collectionKey]
		if !ok {
			return nil, &domain.CatalogFormatError{Source: source, Reason: `object without "cards" key`}
		}
		list, ok := wrapped.([]interface{})
		if !ok {
			return nil, &domain.CatalogFormatError{Source: source, Reason: `"cards" is not an array`}
		}
		return list, nil
	default:
		return nil, &domain.CatalogFormatError{Source: source, Reason: "top-level value is neither an object nor an array"}
	}
}

// decodeRecord maps one loosely-typed record onto RawCardRecord.
// On error the partially decoded record is still returned.
func decodeRecord(record interface{}) (domain.RawCardRecord, error) {
	var raw domain.RawCardRecord

	fields, ok := record.(map[string]interface{})
	if !ok {
		return raw, &mapstructure.Error{Errors: []string{"record is not an object"}}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return raw, err
	}

	return raw, decoder.Decode(fields)
}

// NormalizeRecord applies field defaults and derives the eligibility threshold
func NormalizeRecord(raw domain.RawCardRecord) domain.NormalizedCard {
	card := domain.NormalizedCard{
		Name:             strings.TrimSpace(raw.Name),
		Issuer:           strings.TrimSpace(raw.Issuer),
		MinMonthlyIncome: ExtractMinMonthlyIncome(raw.Eligibility),
		RewardRateText:   strings.ToLower(raw.RewardRate),
		RewardTypeText:   strings.ToLower(raw.RewardType),
		Perks:            make([]string, 0, len(raw.Perks)),
		Features:         make([]string, 0, len(raw.Perks)),
		AnnualFee:        ParseAnnualFee(raw.AnnualFee),
	}

	if card.Name == "" {
		card.Name = domain.DefaultCardName
	}
	if card.Issuer == "" {
		card.Issuer = domain.DefaultIssuerName
	}

	for _, perk := range raw.Perks {
		card.Perks = append(card.Perks, strings.ToLower(perk))
		if trimmed := strings.TrimSpace(perk); trimmed != "" {
			card.Features = append(card.Features, trimmed)
		}
	}

	return card
}

// ExtractMinMonthlyIncome derives the monthly income threshold from free text.
// "monthly income" wins over "annual income"; annual amounts are floor-divided by 12.
// Returns 0 when no phrase or no number is present.
func ExtractMinMonthlyIncome(eligibility string) int {
	text := strings.ToLower(eligibility)

	divisor := 0
	switch {
	case strings.Contains(text, monthlyIncomePhrase):
		divisor = 1
	case strings.Contains(text, annualIncomePhrase):
		divisor = 12
	default:
		return 0
	}

	run := numberRunRegex.FindString(text)
	if run == "" {
		return 0
	}

	amount, err := strconv.Atoi(strings.ReplaceAll(run, ",", ""))
	if err != nil || amount < 0 {
		return 0
	}

	return amount / divisor
}

// ParseAnnualFee converts a loosely-typed fee into a non-negative integer
func ParseAnnualFee(value interface{}) int {
	var fee int

	switch v := value.(type) {
	case nil:
		return 0
	case json.Number:
		if i, err := v.Int64(); err == nil {
			fee = clampInt(float64(i))
		} else if f, err := v.Float64(); err == nil {
			fee = clampInt(f)
		}
	case float64:
		fee = clampInt(v)
	case int:
		fee = v
	case int64:
		fee = clampInt(float64(v))
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if freeFeeWords[s] || strings.HasPrefix(s, "-") {
			return 0
		}
		digits := nonDigitRegex.ReplaceAllString(s, "")
		if digits == "" {
			return 0
		}
		parsed, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		fee = parsed
	}

	if fee < 0 {
		return 0
	}
	return fee
}

func clampInt(f float64) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
