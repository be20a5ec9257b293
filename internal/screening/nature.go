package screening

import (
	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// Baseline scores per activity classification. Forbidden activities
// start below the non-compliant band so they cannot recover through
// utility adjustments alone.
var activityBaseline = map[model.ActivityClass]float64{
	model.ActivityPayments:       85,
	model.ActivityUtilityToken:   85,
	model.ActivityInfrastructure: 85,
	model.ActivityStablecoin:     80,
	model.ActivityDeFi:           70,
	model.ActivityExchangeToken:  65,
	model.ActivityUnknown:        50,
	model.ActivityMeme:           40,
	model.ActivityLending:        25,
	model.ActivityGambling:       5,
}

// Adjustments applied on top of the activity baseline for the
// real-world-utility rating.
var utilityAdjustment = map[model.QualityRating]float64{
	model.QualityExcellent: 10,
	model.QualityGood:      5,
	model.QualityPoor:      -10,
	model.QualityNone:      -20,
}

// evaluateNature scores the Nature & Purpose pillar. Each active
// prohibited-activity flag applies a cumulative fixed penalty, and any
// single one forces non-compliant status regardless of the numeric
// score.
func evaluateNature(facts model.NatureFacts, m config.Methodology) model.PillarResult {
	base := activityBaseline[facts.Activity]
	adj := utilityAdjustment[facts.Utility]
	penalty := float64(facts.DisqualifierCount()) * m.DisqualifierPenalty

	score := clamp(base + adj - penalty)

	status := model.StatusQuestionable
	switch {
	case facts.DisqualifierCount() > 0 || score < m.NonCompliantThreshold:
		status = model.StatusNonCompliant
	case score >= m.CompliantThreshold:
		status = model.StatusCompliant
	}

	return model.PillarResult{
		Score:  clampInt(score),
		Status: status,
		Factors: map[string]float64{
			"activity_baseline":    base,
			"utility_adjustment":   adj,
			"disqualifier_penalty": penalty,
		},
	}
}
