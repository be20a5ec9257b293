package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanah-labs/halal-screener/internal/model"
)

func TestEvaluateNature(t *testing.T) {
	m := DefaultMethodology()

	tests := []struct {
		name       string
		facts      model.NatureFacts
		wantScore  int
		wantStatus model.PillarStatus
	}{
		{
			"utility token with good utility",
			model.NatureFacts{Activity: model.ActivityUtilityToken, Utility: model.QualityGood},
			90, model.StatusCompliant,
		},
		{
			"payments with excellent utility",
			model.NatureFacts{Activity: model.ActivityPayments, Utility: model.QualityExcellent},
			95, model.StatusCompliant,
		},
		{
			"defi with poor utility",
			model.NatureFacts{Activity: model.ActivityDeFi, Utility: model.QualityPoor},
			60, model.StatusQuestionable,
		},
		{
			"meme with no utility",
			model.NatureFacts{Activity: model.ActivityMeme, Utility: model.QualityNone},
			20, model.StatusNonCompliant,
		},
		{
			"gambling with good utility still disqualified",
			model.NatureFacts{Activity: model.ActivityGambling, Utility: model.QualityGood, HasGambling: true},
			0, model.StatusNonCompliant,
		},
		{
			"single disqualifier forces non-compliant despite high score",
			model.NatureFacts{Activity: model.ActivityPayments, Utility: model.QualityExcellent, HasRiba: true},
			55, model.StatusNonCompliant,
		},
		{
			"all disqualifiers floor at zero",
			model.NatureFacts{
				Activity: model.ActivityGambling, Utility: model.QualityNone,
				HasRiba: true, HasGambling: true, HasAlcohol: true,
				HasAdultContent: true, IsSpeculationOnly: true,
			},
			0, model.StatusNonCompliant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateNature(tt.facts, m)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)
		})
	}
}

func TestEvaluateToken(t *testing.T) {
	m := DefaultMethodology()

	clean := model.TokenFacts{
		ContractClarity: model.RiskLow,
		RugPullRisk:     model.RiskLow,
		HasUtility:      true,
		AssetBacking:    model.QualityGood,
	}

	t.Run("clean token scores compliant", func(t *testing.T) {
		got := evaluateToken(clean, m)
		assert.Equal(t, model.StatusCompliant, got.Status)
		assert.Equal(t, 88, got.Score)
	})

	t.Run("verifiable backing lifts the backing factor", func(t *testing.T) {
		f := clean
		f.BackingVerifiable = true
		got := evaluateToken(f, m)
		assert.Equal(t, 90, got.Score)
		assert.InDelta(t, 90, got.Factors["asset_backing"], 0.01)
	})

	t.Run("fixed returns floor the riba factor", func(t *testing.T) {
		f := clean
		f.HasFixedReturns = true
		got := evaluateToken(f, m)
		assert.InDelta(t, 10, got.Factors["riba_avoidance"], 0.01)
		assert.Less(t, got.Score, 70)
	})

	t.Run("guaranteed yield staking is suspect", func(t *testing.T) {
		f := clean
		f.StakingMechanism = "Guaranteed 12% APY"
		got := evaluateToken(f, m)
		assert.InDelta(t, 50, got.Factors["riba_avoidance"], 0.01)
	})

	t.Run("profit sharing staking is clean", func(t *testing.T) {
		f := clean
		f.StakingMechanism = "proof-of-stake validator rewards"
		got := evaluateToken(f, m)
		assert.InDelta(t, 90, got.Factors["riba_avoidance"], 0.01)
	})

	t.Run("pure meme coin is non-compliant", func(t *testing.T) {
		f := model.TokenFacts{
			ContractClarity: model.RiskHigh,
			RugPullRisk:     model.RiskHigh,
			IsMemeCoin:      true,
			AssetBacking:    model.QualityNone,
		}
		got := evaluateToken(f, m)
		assert.Equal(t, model.StatusNonCompliant, got.Status)
	})

	t.Run("meme with utility scores above pure meme", func(t *testing.T) {
		pure := evaluateToken(model.TokenFacts{
			ContractClarity: model.RiskMedium, RugPullRisk: model.RiskMedium,
			IsMemeCoin: true, AssetBacking: model.QualityNone,
		}, m)
		withUtility := evaluateToken(model.TokenFacts{
			ContractClarity: model.RiskMedium, RugPullRisk: model.RiskMedium,
			IsMemeCoin: true, HasUtility: true, AssetBacking: model.QualityNone,
		}, m)
		assert.Greater(t, withUtility.Score, pure.Score)
	})
}

func TestEvaluateRatios(t *testing.T) {
	m := DefaultMethodology()

	pass := func(ratio, threshold float64) model.RatioFact {
		return model.RatioFact{Ratio: ratio, Threshold: threshold}
	}

	t.Run("all passing scores 100", func(t *testing.T) {
		got := evaluateRatios(model.RatioFacts{
			Debt:               pass(10, 33),
			CashDeposits:       pass(20, 33),
			NonCompliantIncome: pass(1, 5),
		}, m)
		assert.Equal(t, 100, got.Score)
		assert.Equal(t, model.StatusCompliant, got.Status)
	})

	t.Run("one failing ratio is non-compliant", func(t *testing.T) {
		got := evaluateRatios(model.RatioFacts{
			Debt:               pass(50, 33), // ~52% overshoot
			CashDeposits:       pass(20, 33),
			NonCompliantIncome: pass(1, 5),
		}, m)
		assert.Equal(t, model.StatusNonCompliant, got.Status)
		assert.Less(t, got.Score, 100)
		assert.Greater(t, got.Score, 0)
	})

	t.Run("penalty grows with overshoot", func(t *testing.T) {
		slight := evaluateRatios(model.RatioFacts{
			Debt: pass(35, 33), CashDeposits: pass(0, 33), NonCompliantIncome: pass(0, 5),
		}, m)
		heavy := evaluateRatios(model.RatioFacts{
			Debt: pass(90, 33), CashDeposits: pass(0, 33), NonCompliantIncome: pass(0, 5),
		}, m)
		assert.Greater(t, slight.Score, heavy.Score)
	})

	t.Run("overshoot penalty caps at the configured maximum", func(t *testing.T) {
		got := evaluateRatios(model.RatioFacts{
			Debt: pass(100, 5), CashDeposits: pass(0, 33), NonCompliantIncome: pass(0, 5),
		}, m)
		assert.InDelta(t, m.FailedRatioPenalty, got.Factors["debt_penalty"], 0.01)
	})

	t.Run("unknown ratio is questionable, not failed", func(t *testing.T) {
		got := evaluateRatios(model.RatioFacts{
			Debt:               model.RatioFact{Threshold: 33, Status: model.RatioUnknown},
			CashDeposits:       pass(20, 33),
			NonCompliantIncome: pass(1, 5),
		}, m)
		assert.Equal(t, model.StatusQuestionable, got.Status)
		assert.Equal(t, 85, got.Score)
	})

	t.Run("source-supplied status overrides the raw ratio", func(t *testing.T) {
		got := evaluateRatios(model.RatioFacts{
			Debt:               model.RatioFact{Ratio: 10, Threshold: 33, Status: model.RatioFail},
			CashDeposits:       pass(20, 33),
			NonCompliantIncome: pass(1, 5),
		}, m)
		assert.Equal(t, model.StatusNonCompliant, got.Status)
	})
}

func TestEvaluateGovernance(t *testing.T) {
	m := DefaultMethodology()

	base := model.GovernanceFacts{
		TokenomicsClarity: model.RiskMedium,
		Decentralization:  model.RiskMedium,
	}

	t.Run("full governance saturates at 100", func(t *testing.T) {
		got := evaluateGovernance(model.GovernanceFacts{
			HasShariahBoard: true, HasIslamicAdvisors: true, HasCertification: true,
			HasWhitepaper: true, HasAudit: true,
			TokenomicsClarity: model.RiskLow, Decentralization: model.RiskHigh,
		}, m)
		assert.Equal(t, 100, got.Score)
		assert.Equal(t, model.StatusCompliant, got.Status)
	})

	t.Run("no signals is non-compliant", func(t *testing.T) {
		got := evaluateGovernance(model.GovernanceFacts{
			TokenomicsClarity: model.RiskHigh, Decentralization: model.RiskLow,
		}, m)
		assert.Equal(t, model.StatusNonCompliant, got.Status)
	})

	t.Run("adding a signal never lowers the score", func(t *testing.T) {
		before := evaluateGovernance(base, m).Score

		variants := []model.GovernanceFacts{}
		for i := 0; i < 5; i++ {
			f := base
			switch i {
			case 0:
				f.HasShariahBoard = true
			case 1:
				f.HasIslamicAdvisors = true
			case 2:
				f.HasCertification = true
			case 3:
				f.HasWhitepaper = true
			case 4:
				f.HasAudit = true
			}
			variants = append(variants, f)
		}

		for _, f := range variants {
			require.GreaterOrEqual(t, evaluateGovernance(f, m).Score, before)
		}
	})
}
