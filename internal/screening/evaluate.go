package screening

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// Evaluate runs the four pillar evaluators and the aggregate scorer
// over validated facts. Pure and side-effect free: identical facts and
// methodology always produce the identical outcome (modulo the
// LastUpdated stamp supplied by the caller).
func Evaluate(facts *model.CryptocurrencyFacts, m config.Methodology, now time.Time) (*model.ScreeningOutcome, error) {
	if err := ValidateMethodology(m); err != nil {
		return nil, err
	}
	if err := facts.Validate(); err != nil {
		return nil, eris.Wrap(ErrInvalidFacts, err.Error())
	}
	facts.ApplyDefaultThresholds()

	pillars := model.PillarResults{
		Nature:     evaluateNature(facts.Nature, m),
		Token:      evaluateToken(facts.Token, m),
		Ratios:     evaluateRatios(facts.Ratios, m),
		Governance: evaluateGovernance(facts.Governance, m),
	}

	score, rating, conf := aggregate(pillars, facts.HasUnknownRatio(), m)
	n := assembleNarrative(facts, pillars, m)

	return &model.ScreeningOutcome{
		OverallScore:    score,
		OverallRating:   rating,
		Confidence:      conf,
		Pillars:         pillars,
		Strengths:       n.strengths,
		Concerns:        n.concerns,
		Recommendations: n.recommendations,
		Disclaimer:      model.DefaultDisclaimer,
		LastUpdated:     now.UTC(),
	}, nil
}
