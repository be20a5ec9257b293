package screening

import (
	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// Fixed bands for the decentralization rating. The enum reads as a
// level of decentralization, so "high" is the good end.
var decentralizationPoints = map[model.RiskLevel]float64{
	model.RiskHigh:   25,
	model.RiskMedium: 15,
	model.RiskLow:    5,
}

// Tokenomics clarity reads as disclosure risk: low risk means clear
// documentation.
var tokenomicsClarityPoints = map[model.RiskLevel]float64{
	model.RiskLow:    5,
	model.RiskMedium: 2,
	model.RiskHigh:   0,
}

// evaluateGovernance scores the Governance & Transparency pillar.
// Purely additive: each positive signal contributes fixed points and
// no input can subtract, so adding a signal never lowers the score.
// This pillar has no hard disqualifiers.
func evaluateGovernance(facts model.GovernanceFacts, m config.Methodology) model.PillarResult {
	governance := 0.0
	if facts.HasShariahBoard {
		governance += m.ShariahBoardPoints
	}
	if facts.HasIslamicAdvisors {
		governance += m.AdvisorPoints
	}
	if facts.HasCertification {
		governance += m.CertificationPoints
	}

	transparency := tokenomicsClarityPoints[facts.TokenomicsClarity]
	if facts.HasWhitepaper {
		transparency += m.WhitepaperPoints
	}
	if facts.HasAudit {
		transparency += m.AuditPoints
	}

	decentralization := decentralizationPoints[facts.Decentralization]

	score := clamp(governance + transparency + decentralization)

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
			"shariah_governance": governance,
			"transparency":       transparency,
			"decentralization":   decentralization,
		},
	}
}
