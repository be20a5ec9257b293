package screening

import (
	"math"

	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// evaluateRatios scores the Financial Ratios pillar. The score starts
// at 100 and loses a penalty proportional to how far each failing
// ratio exceeds its threshold, floored at zero. A ratio the data
// source marked unknown is treated as passing with a fixed penalty and
// leaves the pillar questionable rather than failed.
func evaluateRatios(facts model.RatioFacts, m config.Methodology) model.PillarResult {
	ratios := []struct {
		name string
		fact model.RatioFact
	}{
		{"debt", facts.Debt},
		{"cash_deposits", facts.CashDeposits},
		{"non_compliant_income", facts.NonCompliantIncome},
	}

	score := 100.0
	factors := make(map[string]float64, len(ratios))
	anyFail := false
	anyUnknown := false

	for _, r := range ratios {
		var penalty float64
		switch r.fact.Resolve() {
		case model.RatioFail:
			anyFail = true
			penalty = overshootPenalty(r.fact, m.FailedRatioPenalty)
		case model.RatioUnknown:
			anyUnknown = true
			penalty = m.UnknownRatioPenalty
		}
		score -= penalty
		factors[r.name+"_penalty"] = penalty
	}
	score = clamp(score)

	status := model.StatusCompliant
	switch {
	case anyFail:
		status = model.StatusNonCompliant
	case anyUnknown:
		status = model.StatusQuestionable
	}

	return model.PillarResult{
		Score:   clampInt(score),
		Status:  status,
		Factors: factors,
	}
}

// overshootPenalty scales the per-ratio penalty by how far the ratio
// exceeds its threshold, capped at maxPenalty for a 100% overshoot.
func overshootPenalty(fact model.RatioFact, maxPenalty float64) float64 {
	if fact.Threshold <= 0 {
		return maxPenalty
	}
	overshoot := (fact.Ratio - fact.Threshold) / fact.Threshold
	return math.Min(1, math.Max(0, overshoot)) * maxPenalty
}
