package usecase

import (
	"fmt"
	"strings"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display limits
const (
	displayCardCount    = 3
	topPickFeatureLimit = 5
	lowFeeDisplayLimit  = 5000 // exclusive
)

const (
	presentationHeader = "Perfect Matches for You!"
	presentationFooter = "Want to explore more options? Tell me if you'd like to adjust any preferences or need cards for specific use cases!"
	noMatchesMessage   = "No suitable cards found based on your preferences."
	sectionSeparator   = "──────────────────────────────────────────────────"
)

// Present renders a ranked response as a top pick plus alternates.
// Every flag is derived from fields already computed by the scoring engine.
func Present(resp *domain.RecommendationResponse, profile *domain.UserProfile) *domain.Presentation {
	if profile == nil {
		profile = &domain.UserProfile{}
	}

	presentation := &domain.Presentation{Alternates: make([]domain.DisplayCard, 0)}
	if resp == nil || len(resp.Recommendations) == 0 {
		presentation.Message = noMatchesMessage
		return presentation
	}

	recs := resp.Recommendations
	if len(recs) > displayCardCount {
		recs = recs[:displayCardCount]
	}

	for i, rec := range recs {
		card := buildDisplayCard(i, rec, profile)
		if i == 0 {
			presentation.TopPick = &card
			continue
		}
		presentation.Alternates = append(presentation.Alternates, card)
	}

	presentation.Message = renderPresentation(presentation)
	return presentation
}

func buildDisplayCard(index int, rec domain.Recommendation, profile *domain.UserProfile) domain.DisplayCard {
	card := domain.DisplayCard{
		Rank:              index + 1,
		CardName:          rec.CardName,
		Bank:              rec.Bank,
		MatchScore:        rec.MatchScore,
		EligibilityMet:    rec.EligibilityMet,
		NoAnnualFee:       rec.AnnualFeeAmount == 0,
		LoungeIncluded:    containsToken(rec.MatchedBenefits, "lounge"),
		Highlights:        make([]string, 0),
		KeyFeatures:       rec.KeyFeatures,
		MatchedCategories: rec.MatchedCategories,
		AnnualFee:         displayFee(rec.AnnualFeeAmount),
	}

	if len(card.KeyFeatures) > topPickFeatureLimit {
		card.KeyFeatures = card.KeyFeatures[:topPickFeatureLimit]
	}

	switch profile.AnnualFeePreference {
	case domain.FeePreferenceNoFee:
		card.FeeMatchesPref = card.NoAnnualFee
	case domain.FeePreferenceLowFee:
		card.FeeMatchesPref = rec.AnnualFeeAmount < lowFeeDisplayLimit
	}

	if profile.MonthlyIncome > 0 {
		card.Highlights = append(card.Highlights,
			fmt.Sprintf("Matches your income level (~Rs.%s)", FormatAmount(profile.MonthlyIncome)))
	}
	if len(rec.MatchedCategories) > 0 {
		card.Highlights = append(card.Highlights,
			fmt.Sprintf("Accelerated rewards on %s (your spending focus: %s)",
				titleJoin(rec.MatchedCategories), titleJoin(profile.SpendingHabits)))
	}
	if card.LoungeIncluded {
		card.Highlights = append(card.Highlights, "Premium lounge access included")
	}
	if card.FeeMatchesPref {
		if profile.AnnualFeePreference == domain.FeePreferenceNoFee {
			card.Highlights = append(card.Highlights, "No annual fee (as requested)")
		} else {
			card.Highlights = append(card.Highlights,
				fmt.Sprintf("Reasonable annual fee: Rs.%s", FormatAmount(rec.AnnualFeeAmount)))
		}
	}

	return card
}

func renderPresentation(p *domain.Presentation) string {
	var b strings.Builder
	b.WriteString(presentationHeader + "\n\n")

	if top := p.TopPick; top != nil {
		fmt.Fprintf(&b, "TOP RECOMMENDATION: %s\n%s\n\n", top.CardName, top.Bank)

		b.WriteString("Why this card?\n")
		for _, h := range top.Highlights {
			b.WriteString(h + "\n")
		}
		fmt.Fprintf(&b, "Match Score: %d\n", top.MatchScore)
		fmt.Fprintf(&b, "Eligibility: %s\n\n", eligibilityLabel(top.EligibilityMet))

		fmt.Fprintf(&b, "Annual Fee: %s\n", top.AnnualFee)
		if len(top.KeyFeatures) > 0 {
			b.WriteString("Key Benefits:\n")
			for _, f := range top.KeyFeatures {
				fmt.Fprintf(&b, "• %s\n", f)
			}
		}
		b.WriteString("\n" + sectionSeparator + "\n\n")
	}

	for _, alt := range p.Alternates {
		fmt.Fprintf(&b, "Alternative #%d: %s - %s\n", alt.Rank-1, alt.CardName, alt.Bank)
		switch {
		case len(alt.KeyFeatures) > 0:
			fmt.Fprintf(&b, "• %s\n", alt.KeyFeatures[0])
		case len(alt.MatchedCategories) > 0:
			fmt.Fprintf(&b, "• Great for %s\n", strings.Join(alt.MatchedCategories, ", "))
		}
		fmt.Fprintf(&b, "• Annual Fee: %s\n", alt.AnnualFee)
		fmt.Fprintf(&b, "• Match Score: %d\n\n", alt.MatchScore)
	}

	b.WriteString(presentationFooter)
	return b.String()
}

func displayFee(amount int) string {
	if amount == 0 {
		return "FREE"
	}
	return "Rs." + FormatAmount(amount)
}

func eligibilityLabel(met bool) string {
	if met {
		return "You qualify!"
	}
	return "May need verification"
}

func titleJoin(tokens []string) string {
	caser := cases.Title(language.English)
	titled := make([]string, len(tokens))
	for i, t := range tokens {
		titled[i] = caser.String(t)
	}
	return strings.Join(titled, ", ")
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
