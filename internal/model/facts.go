package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ActivityClass categorizes a project's core business activity.
type ActivityClass string

const (
	ActivityPayments       ActivityClass = "payments"
	ActivityUtilityToken   ActivityClass = "utility-token"
	ActivityDeFi           ActivityClass = "defi"
	ActivityInfrastructure ActivityClass = "infrastructure"
	ActivityStablecoin     ActivityClass = "stablecoin"
	ActivityExchangeToken  ActivityClass = "exchange-token"
	ActivityMeme           ActivityClass = "meme"
	ActivityGambling       ActivityClass = "gambling"
	ActivityLending        ActivityClass = "lending"
	ActivityUnknown        ActivityClass = "unknown"
)

// Valid reports whether the activity class is a known value.
func (a ActivityClass) Valid() bool {
	switch a {
	case ActivityPayments, ActivityUtilityToken, ActivityDeFi,
		ActivityInfrastructure, ActivityStablecoin, ActivityExchangeToken,
		ActivityMeme, ActivityGambling, ActivityLending, ActivityUnknown:
		return true
	}
	return false
}

// QualityRating is a four-level qualitative rating.
type QualityRating string

const (
	QualityExcellent QualityRating = "excellent"
	QualityGood      QualityRating = "good"
	QualityPoor      QualityRating = "poor"
	QualityNone      QualityRating = "none"
)

func (q QualityRating) Valid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityPoor, QualityNone:
		return true
	}
	return false
}

// RiskLevel is a three-level risk rating.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// RatioStatus is the screening outcome of a single financial ratio.
type RatioStatus string

const (
	RatioPass    RatioStatus = "pass"
	RatioFail    RatioStatus = "fail"
	RatioUnknown RatioStatus = "unknown"
)

func (r RatioStatus) Valid() bool {
	switch r {
	case RatioPass, RatioFail, RatioUnknown:
		return true
	}
	return false
}

// Coin identifies a cryptocurrency and its market snapshot at screening
// time. Market fields are informational only and never affect scoring.
type Coin struct {
	SourceID     string  `json:"source_id" yaml:"source_id"`
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Name         string  `json:"name" yaml:"name"`
	CurrentPrice float64 `json:"current_price,omitempty" yaml:"current_price,omitempty"`
	MarketCap    float64 `json:"market_cap,omitempty" yaml:"market_cap,omitempty"`
	Volume24h    float64 `json:"volume_24h,omitempty" yaml:"volume_24h,omitempty"`
	LogoURL      string  `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
}

// NatureFacts feed the Nature & Purpose pillar.
type NatureFacts struct {
	Activity          ActivityClass `json:"activity" yaml:"activity"`
	Utility           QualityRating `json:"utility" yaml:"utility"`
	HasRiba           bool          `json:"has_riba" yaml:"has_riba"`
	HasGambling       bool          `json:"has_gambling" yaml:"has_gambling"`
	HasAlcohol        bool          `json:"has_alcohol" yaml:"has_alcohol"`
	HasAdultContent   bool          `json:"has_adult_content" yaml:"has_adult_content"`
	IsSpeculationOnly bool          `json:"is_speculation_only" yaml:"is_speculation_only"`
}

// DisqualifierCount returns how many prohibited-activity flags are set.
func (n NatureFacts) DisqualifierCount() int {
	count := 0
	for _, flag := range []bool{n.HasRiba, n.HasGambling, n.HasAlcohol, n.HasAdultContent, n.IsSpeculationOnly} {
		if flag {
			count++
		}
	}
	return count
}

// Disqualifiers returns the names of all active prohibited-activity flags.
func (n NatureFacts) Disqualifiers() []string {
	var names []string
	if n.HasRiba {
		names = append(names, "riba")
	}
	if n.HasGambling {
		names = append(names, "gambling")
	}
	if n.HasAlcohol {
		names = append(names, "alcohol")
	}
	if n.HasAdultContent {
		names = append(names, "adult content")
	}
	if n.IsSpeculationOnly {
		names = append(names, "pure speculation")
	}
	return names
}

// TokenFacts feed the Token Structure pillar.
type TokenFacts struct {
	HasFixedReturns   bool          `json:"has_fixed_returns" yaml:"has_fixed_returns"`
	StakingMechanism  string        `json:"staking_mechanism,omitempty" yaml:"staking_mechanism,omitempty"`
	ContractClarity   RiskLevel     `json:"contract_clarity" yaml:"contract_clarity"`
	RugPullRisk       RiskLevel     `json:"rug_pull_risk" yaml:"rug_pull_risk"`
	IsMemeCoin        bool          `json:"is_meme_coin" yaml:"is_meme_coin"`
	HasUtility        bool          `json:"has_utility" yaml:"has_utility"`
	AssetBacking      QualityRating `json:"asset_backing" yaml:"asset_backing"`
	BackingVerifiable bool          `json:"backing_verifiable" yaml:"backing_verifiable"`
}

// RatioFact is one financial ratio paired with its screening threshold.
// Status may be pre-computed by the data source; when empty it is
// derived from Ratio vs Threshold.
type RatioFact struct {
	Ratio     float64     `json:"ratio" yaml:"ratio"`
	Threshold float64     `json:"threshold" yaml:"threshold"`
	Status    RatioStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// Resolve returns the effective status, deriving it from the raw ratio
// when the data source did not supply one.
func (r RatioFact) Resolve() RatioStatus {
	if r.Status != "" {
		return r.Status
	}
	if r.Ratio <= r.Threshold {
		return RatioPass
	}
	return RatioFail
}

// RatioFacts feed the Financial Ratios pillar.
type RatioFacts struct {
	Debt               RatioFact `json:"debt" yaml:"debt"`
	CashDeposits       RatioFact `json:"cash_deposits" yaml:"cash_deposits"`
	NonCompliantIncome RatioFact `json:"non_compliant_income" yaml:"non_compliant_income"`
}

// GovernanceFacts feed the Governance & Transparency pillar.
type GovernanceFacts struct {
	HasShariahBoard    bool      `json:"has_shariah_board" yaml:"has_shariah_board"`
	HasIslamicAdvisors bool      `json:"has_islamic_advisors" yaml:"has_islamic_advisors"`
	HasCertification   bool      `json:"has_certification" yaml:"has_certification"`
	HasWhitepaper      bool      `json:"has_whitepaper" yaml:"has_whitepaper"`
	HasAudit           bool      `json:"has_audit" yaml:"has_audit"`
	TokenomicsClarity  RiskLevel `json:"tokenomics_clarity" yaml:"tokenomics_clarity"`
	Decentralization   RiskLevel `json:"decentralization" yaml:"decentralization"`
}

// CryptocurrencyFacts is the full structured input to one screening.
// Immutable for the duration of the screening invocation.
type CryptocurrencyFacts struct {
	Coin       Coin            `json:"coin" yaml:"coin"`
	Nature     NatureFacts     `json:"nature" yaml:"nature"`
	Token      TokenFacts      `json:"token" yaml:"token"`
	Ratios     RatioFacts      `json:"ratios" yaml:"ratios"`
	Governance GovernanceFacts `json:"governance" yaml:"governance"`
}

// Validate checks identity fields, enum membership, and ratio ranges.
// Out-of-range inputs are rejected, never silently clamped.
func (f *CryptocurrencyFacts) Validate() error {
	var errs []string

	if strings.TrimSpace(f.Coin.SourceID) == "" {
		errs = append(errs, "coin.source_id is required")
	}
	if strings.TrimSpace(f.Coin.Symbol) == "" {
		errs = append(errs, "coin.symbol is required")
	}

	if !f.Nature.Activity.Valid() {
		errs = append(errs, "nature.activity is not a known activity class")
	}
	if !f.Nature.Utility.Valid() {
		errs = append(errs, "nature.utility is not a known quality rating")
	}

	if !f.Token.ContractClarity.Valid() {
		errs = append(errs, "token.contract_clarity is not a known risk level")
	}
	if !f.Token.RugPullRisk.Valid() {
		errs = append(errs, "token.rug_pull_risk is not a known risk level")
	}
	if !f.Token.AssetBacking.Valid() {
		errs = append(errs, "token.asset_backing is not a known quality rating")
	}

	for _, rf := range []struct {
		name string
		fact RatioFact
	}{
		{"ratios.debt", f.Ratios.Debt},
		{"ratios.cash_deposits", f.Ratios.CashDeposits},
		{"ratios.non_compliant_income", f.Ratios.NonCompliantIncome},
	} {
		if rf.fact.Ratio < 0 || rf.fact.Ratio > 100 {
			errs = append(errs, rf.name+".ratio must be between 0 and 100")
		}
		if rf.fact.Threshold < 0 || rf.fact.Threshold > 100 {
			errs = append(errs, rf.name+".threshold must be between 0 and 100")
		}
		if rf.fact.Status != "" && !rf.fact.Status.Valid() {
			errs = append(errs, rf.name+".status is not a known ratio status")
		}
	}

	if !f.Governance.TokenomicsClarity.Valid() {
		errs = append(errs, "governance.tokenomics_clarity is not a known risk level")
	}
	if !f.Governance.Decentralization.Valid() {
		errs = append(errs, "governance.decentralization is not a known risk level")
	}

	if len(errs) > 0 {
		return eris.Errorf("facts validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// HasUnknownRatio reports whether any ratio is marked unknown by its source.
func (f *CryptocurrencyFacts) HasUnknownRatio() bool {
	return f.Ratios.Debt.Resolve() == RatioUnknown ||
		f.Ratios.CashDeposits.Resolve() == RatioUnknown ||
		f.Ratios.NonCompliantIncome.Resolve() == RatioUnknown
}

// Default ratio thresholds per the AAOIFI-style screening methodology.
const (
	DefaultDebtThreshold     = 33.0
	DefaultCashThreshold     = 33.0
	DefaultNCIncomeThreshold = 5.0
)

// ApplyDefaultThresholds fills zero thresholds with the methodology defaults.
func (f *CryptocurrencyFacts) ApplyDefaultThresholds() {
	if f.Ratios.Debt.Threshold == 0 {
		f.Ratios.Debt.Threshold = DefaultDebtThreshold
	}
	if f.Ratios.CashDeposits.Threshold == 0 {
		f.Ratios.CashDeposits.Threshold = DefaultCashThreshold
	}
	if f.Ratios.NonCompliantIncome.Threshold == 0 {
		f.Ratios.NonCompliantIncome.Threshold = DefaultNCIncomeThreshold
	}
}
