package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// recommendationRequestSchema describes the body of a recommendation request
const recommendationRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["monthly_income", "spending_habits", "preferred_benefits"],
	"properties": {
		"monthly_income": {"type": "integer", "minimum": 0},
		"spending_habits": {"type": "array", "items": {"type": "string"}},
		"preferred_benefits": {"type": "array", "items": {"type": "string"}},
		"annual_fee_preference": {
			"type": ["string", "null"],
			"pattern": "^(?i)\\s*(no fee|low fee|any)?\\s*$"
		}
	}
}`

// RequestValidator checks raw request bodies against the recommendation schema
type RequestValidator struct {
	schema *gojsonschema.Schema
}

// NewRequestValidator compiles the request schema
func NewRequestValidator() (*RequestValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recommendationRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	return &RequestValidator{schema: schema}, nil
}

// Validate reports every schema violation in body as one error wrapping domain.ErrInvalidRequest
func (v *RequestValidator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", domain.ErrInvalidRequest, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, strings.Join(errs, "; "))
	}

	return nil
}

// DecodeProfile validates body and converts it into a normalized profile
func (v *RequestValidator) DecodeProfile(body []byte) (*domain.UserProfile, error) {
	if err := v.Validate(body); err != nil {
		return nil, err
	}

	var wire struct {
		MonthlyIncome       json.Number `json:"monthly_income"`
		SpendingHabits      []string    `json:"spending_habits"`
		PreferredBenefits   []string    `json:"preferred_benefits"`
		AnnualFeePreference *string     `json:"annual_fee_preference"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	income, err := integerIncome(wire.MonthlyIncome)
	if err != nil {
		return nil, err
	}

	req := domain.RecommendationRequest{
		MonthlyIncome:       income,
		SpendingHabits:      wire.SpendingHabits,
		PreferredBenefits:   wire.PreferredBenefits,
		AnnualFeePreference: wire.AnnualFeePreference,
	}
	return req.ToProfile()
}

// integerIncome accepts any JSON number with an integral value, so 30000.0 is 30000
func integerIncome(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil && i >= 0 && i <= math.MaxInt32 {
		return int(i), nil
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: monthly_income must be a non-negative integer, got %s", domain.ErrInvalidRequest, n.String())
	}
	return int(f), nil
}
