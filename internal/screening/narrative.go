package screening

import (
	"fmt"

	"github.com/amanah-labs/halal-screener/internal/config"
	"github.com/amanah-labs/halal-screener/internal/model"
)

// narrative is the structured text derived from pillar detail. The
// free-text detailed explanation is an external collaborator's output
// and is never produced here.
type narrative struct {
	strengths       []string
	concerns        []string
	recommendations []string
}

var pillarStrengthText = map[string]string{
	"nature":     "Core business activity and real-world utility align with Shariah principles",
	"token":      "Token mechanics avoid riba and excessive uncertainty",
	"ratios":     "Financial ratios fall within accepted screening thresholds",
	"governance": "Strong Shariah governance and project transparency",
}

var pillarConcernText = map[string]string{
	"nature":     "Core business activity raises significant Shariah concerns",
	"token":      "Token structure carries riba, gharar, or speculation risk",
	"ratios":     "Financial ratios breach accepted screening thresholds",
	"governance": "Weak governance and limited project transparency",
}

// assembleNarrative deterministically maps pillar detail to strengths,
// concerns, and recommendations.
func assembleNarrative(facts *model.CryptocurrencyFacts, pillars model.PillarResults, m config.Methodology) narrative {
	var n narrative

	named := []struct {
		key    string
		result model.PillarResult
	}{
		{"nature", pillars.Nature},
		{"token", pillars.Token},
		{"ratios", pillars.Ratios},
		{"governance", pillars.Governance},
	}

	for _, p := range named {
		if float64(p.result.Score) > m.CompliantThreshold {
			n.strengths = append(n.strengths, pillarStrengthText[p.key])
		}
	}

	// One concern per active disqualifier.
	for _, d := range facts.Nature.Disqualifiers() {
		n.concerns = append(n.concerns, fmt.Sprintf("Prohibited activity detected: %s", d))
	}
	n.recommendations = appendIf(n.recommendations,
		facts.Nature.DisqualifierCount() > 0,
		"Avoid exposure until the prohibited activity is removed from the project")

	// One concern per failing ratio.
	for _, r := range []struct {
		name string
		fact model.RatioFact
	}{
		{"debt", facts.Ratios.Debt},
		{"cash and deposits", facts.Ratios.CashDeposits},
		{"non-compliant income", facts.Ratios.NonCompliantIncome},
	} {
		switch r.fact.Resolve() {
		case model.RatioFail:
			n.concerns = append(n.concerns, fmt.Sprintf(
				"The %s ratio of %.1f%% exceeds the %.1f%% threshold", r.name, r.fact.Ratio, r.fact.Threshold))
			n.recommendations = append(n.recommendations, fmt.Sprintf(
				"Monitor the %s ratio for a return below its screening threshold", r.name))
		case model.RatioUnknown:
			n.concerns = append(n.concerns, fmt.Sprintf("The %s ratio could not be determined", r.name))
			n.recommendations = appendIf(n.recommendations,
				!contains(n.recommendations, recommendDisclosures),
				recommendDisclosures)
		}
	}

	// One concern per pillar below the non-compliant band.
	for _, p := range named {
		if float64(p.result.Score) < m.NonCompliantThreshold {
			n.concerns = append(n.concerns, pillarConcernText[p.key])
		}
	}

	// Targeted recommendations from token and governance detail.
	n.recommendations = appendIf(n.recommendations,
		facts.Token.HasFixedReturns,
		"Avoid fixed-return staking; prefer profit-sharing reward mechanisms")
	n.recommendations = appendIf(n.recommendations,
		!facts.Governance.HasCertification,
		"Seek certification from a recognized Shariah board")
	n.recommendations = appendIf(n.recommendations,
		!facts.Governance.HasAudit,
		"Commission an independent audit to strengthen transparency")

	return n
}

const recommendDisclosures = "Obtain audited financial disclosures to complete the ratio screening"

func appendIf(list []string, cond bool, entry string) []string {
	if cond {
		return append(list, entry)
	}
	return list
}

func contains(list []string, entry string) bool {
	for _, s := range list {
		if s == entry {
			return true
		}
	}
	return false
}

// needsManualReview flags outcomes that a reviewer should confirm
// before they are presented as settled.
func needsManualReview(outcome *model.ScreeningOutcome, facts *model.CryptocurrencyFacts) bool {
	if facts.HasUnknownRatio() {
		return true
	}
	return outcome.OverallRating == model.RatingQuestionable && outcome.Confidence == model.ConfidenceLow
}
