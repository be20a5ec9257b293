package screening

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanah-labs/halal-screener/internal/model"
)

func TestNarrativeFailingRatio(t *testing.T) {
	f := cleanFacts()
	f.Ratios.Debt = model.RatioFact{Ratio: 45, Threshold: 33}

	outcome, err := Evaluate(f, DefaultMethodology(), time.Now())
	require.NoError(t, err)

	assert.Contains(t, outcome.Concerns, "The debt ratio of 45.0% exceeds the 33.0% threshold")
	assert.Contains(t, outcome.Recommendations, "Monitor the debt ratio for a return below its screening threshold")
}

func TestNarrativeUnknownRatiosShareOneRecommendation(t *testing.T) {
	f := cleanFacts()
	f.Ratios.Debt = model.RatioFact{Threshold: 33, Status: model.RatioUnknown}
	f.Ratios.CashDeposits = model.RatioFact{Threshold: 33, Status: model.RatioUnknown}

	outcome, err := Evaluate(f, DefaultMethodology(), time.Now())
	require.NoError(t, err)

	assert.Contains(t, outcome.Concerns, "The debt ratio could not be determined")
	assert.Contains(t, outcome.Concerns, "The cash and deposits ratio could not be determined")

	seen := 0
	for _, r := range outcome.Recommendations {
		if r == recommendDisclosures {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestNarrativeDisqualifierConcerns(t *testing.T) {
	f := cleanFacts()
	f.Nature.HasRiba = true
	f.Nature.HasGambling = true

	outcome, err := Evaluate(f, DefaultMethodology(), time.Now())
	require.NoError(t, err)

	assert.Contains(t, outcome.Concerns, "Prohibited activity detected: riba")
	assert.Contains(t, outcome.Concerns, "Prohibited activity detected: gambling")
	assert.Contains(t, outcome.Recommendations,
		"Avoid exposure until the prohibited activity is removed from the project")
}

func TestNarrativeGovernanceRecommendations(t *testing.T) {
	f := cleanFacts()
	f.Governance.HasCertification = false
	f.Governance.HasAudit = false

	outcome, err := Evaluate(f, DefaultMethodology(), time.Now())
	require.NoError(t, err)

	assert.Contains(t, outcome.Recommendations, "Seek certification from a recognized Shariah board")
	assert.Contains(t, outcome.Recommendations, "Commission an independent audit to strengthen transparency")
}

func TestNeedsManualReview(t *testing.T) {
	m := DefaultMethodology()

	t.Run("unknown ratio always flags review", func(t *testing.T) {
		f := cleanFacts()
		f.Ratios.Debt = model.RatioFact{Threshold: 33, Status: model.RatioUnknown}
		outcome, err := Evaluate(f, m, time.Now())
		require.NoError(t, err)
		assert.True(t, needsManualReview(outcome, f))
	})

	t.Run("clean halal outcome does not", func(t *testing.T) {
		f := cleanFacts()
		outcome, err := Evaluate(f, m, time.Now())
		require.NoError(t, err)
		assert.False(t, needsManualReview(outcome, f))
	})
}
