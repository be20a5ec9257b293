package screening

import (
	"strings"

	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// Factor score bands for the token structure pillar.
const (
	ribaClean         = 90 // no fixed returns, no suspect staking terms
	ribaSuspectStake  = 50 // staking described in guaranteed-yield terms
	ribaFixedReturns  = 10 // hard flag: fixed-return instruments
	speculationLow    = 90
	speculationMixed  = 60
	speculationMeme   = 50 // meme coin that still carries utility
	speculationPure   = 20
	backingVerifiable = 10 // bonus for verifiable asset backing
)

var riskLevelScore = map[model.RiskLevel]float64{
	model.RiskLow:    90,
	model.RiskMedium: 60,
	model.RiskHigh:   25,
}

var backingScore = map[model.QualityRating]float64{
	model.QualityExcellent: 90,
	model.QualityGood:      80,
	model.QualityPoor:      40,
	model.QualityNone:      20,
}

// suspect staking phrasing that suggests a guaranteed yield.
var suspectStakingTerms = []string{"fixed", "guaranteed", "apy", "apr", "interest"}

// evaluateToken scores the Token Structure pillar as a weighted
// combination of four independent factor scores. A fixed-returns flag
// forces the riba factor to its lowest band regardless of other
// inputs.
func evaluateToken(facts model.TokenFacts, m config.Methodology) model.PillarResult {
	riba := scoreRibaAvoidance(facts)
	gharar := (riskLevelScore[facts.ContractClarity] + riskLevelScore[facts.RugPullRisk]) / 2
	speculation := scoreSpeculation(facts)
	backing := scoreAssetBacking(facts)

	score := clamp(riba*m.RibaAvoidanceWeight +
		gharar*m.GhararWeight +
		speculation*m.SpeculationWeight +
		backing*m.AssetBackingWeight)

	status := model.StatusQuestionable
	switch {
	case score < m.NonCompliantThreshold:
		status = model.StatusNonCompliant
	case score >= m.CompliantThreshold:
		status = model.StatusCompliant
	}

	return model.PillarResult{
		Score:  clampInt(score),
		Status: status,
		Factors: map[string]float64{
			"riba_avoidance": riba,
			"gharar":         gharar,
			"speculation":    speculation,
			"asset_backing":  backing,
		},
	}
}

func scoreRibaAvoidance(facts model.TokenFacts) float64 {
	if facts.HasFixedReturns {
		return ribaFixedReturns
	}
	staking := strings.ToLower(facts.StakingMechanism)
	for _, term := range suspectStakingTerms {
		if strings.Contains(staking, term) {
			return ribaSuspectStake
		}
	}
	return ribaClean
}

func scoreSpeculation(facts model.TokenFacts) float64 {
	switch {
	case facts.IsMemeCoin && !facts.HasUtility:
		return speculationPure
	case facts.IsMemeCoin:
		return speculationMeme
	case facts.HasUtility:
		return speculationLow
	default:
		return speculationMixed
	}
}

func scoreAssetBacking(facts model.TokenFacts) float64 {
	score := backingScore[facts.AssetBacking]
	if facts.BackingVerifiable {
		score += backingVerifiable
	}
	return clamp(score)
}
