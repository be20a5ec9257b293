package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFacts() CryptocurrencyFacts {
	return CryptocurrencyFacts{
		Coin:   Coin{SourceID: "ethereum", Symbol: "ETH", Name: "Ethereum"},
		Nature: NatureFacts{Activity: ActivityInfrastructure, Utility: QualityGood},
		Token: TokenFacts{
			ContractClarity: RiskLow,
			RugPullRisk:     RiskMedium,
			AssetBacking:    QualityPoor,
		},
		Ratios: RatioFacts{
			Debt:               RatioFact{Ratio: 12, Threshold: 33},
			CashDeposits:       RatioFact{Ratio: 8, Threshold: 33},
			NonCompliantIncome: RatioFact{Ratio: 2, Threshold: 5},
		},
		Governance: GovernanceFacts{
			TokenomicsClarity: RiskLow,
			Decentralization:  RiskHigh,
		},
	}
}

func TestFactsValidate(t *testing.T) {
	t.Run("valid facts pass", func(t *testing.T) {
		f := validFacts()
		require.NoError(t, f.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*CryptocurrencyFacts)
	}{
		{"empty source id", func(f *CryptocurrencyFacts) { f.Coin.SourceID = "" }},
		{"blank symbol", func(f *CryptocurrencyFacts) { f.Coin.Symbol = "  " }},
		{"unknown activity", func(f *CryptocurrencyFacts) { f.Nature.Activity = "farming" }},
		{"unknown utility", func(f *CryptocurrencyFacts) { f.Nature.Utility = "ok" }},
		{"unknown contract clarity", func(f *CryptocurrencyFacts) { f.Token.ContractClarity = "" }},
		{"unknown asset backing", func(f *CryptocurrencyFacts) { f.Token.AssetBacking = "solid" }},
		{"ratio out of range", func(f *CryptocurrencyFacts) { f.Ratios.Debt.Ratio = 101 }},
		{"negative threshold", func(f *CryptocurrencyFacts) { f.Ratios.Debt.Threshold = -5 }},
		{"bad ratio status", func(f *CryptocurrencyFacts) { f.Ratios.CashDeposits.Status = "maybe" }},
		{"unknown decentralization", func(f *CryptocurrencyFacts) { f.Governance.Decentralization = "full" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFacts()
			tt.mutate(&f)
			assert.Error(t, f.Validate())
		})
	}
}

func TestRatioFactResolve(t *testing.T) {
	tests := []struct {
		name string
		fact RatioFact
		want RatioStatus
	}{
		{"explicit status wins", RatioFact{Ratio: 10, Threshold: 33, Status: RatioFail}, RatioFail},
		{"under threshold passes", RatioFact{Ratio: 10, Threshold: 33}, RatioPass},
		{"at threshold passes", RatioFact{Ratio: 33, Threshold: 33}, RatioPass},
		{"over threshold fails", RatioFact{Ratio: 33.1, Threshold: 33}, RatioFail},
		{"explicit unknown", RatioFact{Threshold: 33, Status: RatioUnknown}, RatioUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fact.Resolve())
		})
	}
}

func TestDisqualifiers(t *testing.T) {
	n := NatureFacts{HasGambling: true, IsSpeculationOnly: true}
	assert.Equal(t, 2, n.DisqualifierCount())
	assert.Equal(t, []string{"gambling", "pure speculation"}, n.Disqualifiers())

	assert.Equal(t, 0, NatureFacts{}.DisqualifierCount())
	assert.Empty(t, NatureFacts{}.Disqualifiers())
}

func TestApplyDefaultThresholds(t *testing.T) {
	f := validFacts()
	f.Ratios = RatioFacts{
		Debt:         RatioFact{Ratio: 10},
		CashDeposits: RatioFact{Ratio: 20, Threshold: 25}, // explicit threshold kept
	}
	f.ApplyDefaultThresholds()

	assert.Equal(t, DefaultDebtThreshold, f.Ratios.Debt.Threshold)
	assert.Equal(t, 25.0, f.Ratios.CashDeposits.Threshold)
	assert.Equal(t, DefaultNCIncomeThreshold, f.Ratios.NonCompliantIncome.Threshold)
}

func TestHasUnknownRatio(t *testing.T) {
	f := validFacts()
	assert.False(t, f.HasUnknownRatio())

	f.Ratios.NonCompliantIncome.Status = RatioUnknown
	assert.True(t, f.HasUnknownRatio())
}
