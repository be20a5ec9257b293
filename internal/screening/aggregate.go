package screening

import (
	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// aggregate combines the four pillar results into an overall score,
// rating, and confidence level.
//
// A non-compliant Nature & Purpose pillar forces the rating to
// non-halal regardless of the weighted average: a single disqualifying
// activity cannot be averaged away.
func aggregate(pillars model.PillarResults, unknownInputs bool, m config.Methodology) (int, model.Rating, model.Confidence) {
	weighted := float64(pillars.Nature.Score)*m.NatureWeight +
		float64(pillars.Token.Score)*m.TokenWeight +
		float64(pillars.Ratios.Score)*m.RatiosWeight +
		float64(pillars.Governance.Score)*m.GovernanceWeight

	if sum := PillarWeightSum(m); sum > 0 {
		weighted /= sum
	}
	score := clampInt(weighted)

	nonCompliant := 0
	for _, p := range []model.PillarResult{pillars.Nature, pillars.Token, pillars.Ratios, pillars.Governance} {
		if p.Status == model.StatusNonCompliant {
			nonCompliant++
		}
	}

	rating := model.RatingQuestionable
	switch {
	case pillars.Nature.Status == model.StatusNonCompliant:
		rating = model.RatingNonHalal
	case float64(score) < m.NonHalalThreshold || nonCompliant >= 2:
		rating = model.RatingNonHalal
	case float64(score) >= m.HalalThreshold && nonCompliant == 0:
		rating = model.RatingHalal
	}

	return score, rating, confidence(pillars, unknownInputs, m)
}

// confidence derives the confidence level from input completeness and
// pillar agreement.
func confidence(pillars model.PillarResults, unknownInputs bool, m config.Methodology) model.Confidence {
	spread := pillarSpread(pillars)

	switch {
	case unknownInputs || spread > m.LowConfidenceSpread:
		return model.ConfidenceLow
	case spread <= m.HighConfidenceSpread:
		return model.ConfidenceHigh
	default:
		return model.ConfidenceMedium
	}
}

// pillarSpread returns max minus min pillar score.
func pillarSpread(pillars model.PillarResults) float64 {
	scores := []int{pillars.Nature.Score, pillars.Token.Score, pillars.Ratios.Score, pillars.Governance.Score}
	min, max := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return float64(max - min)
}
