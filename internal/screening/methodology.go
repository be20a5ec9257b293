// Package screening implements the four-pillar Shariah compliance
// scoring engine for cryptocurrencies.
package screening

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/amanah-labs/halal-screener/internal/config"
)

// SchemaVersion stamps every persisted record with the methodology
// revision that produced it.
const SchemaVersion = "1.0"

// DefaultMethodology returns the seeded methodology table.
// Pillar weights and token factor weights each sum to 1.0.
func DefaultMethodology() config.Methodology {
	return config.Methodology{
		// Pillar weights (sum = 1.0).
		NatureWeight:     0.35,
		TokenWeight:      0.30,
		RatiosWeight:     0.20,
		GovernanceWeight: 0.15,

		// Pillar status bands.
		CompliantThreshold:    70,
		NonCompliantThreshold: 40,

		// Overall rating bands.
		HalalThreshold:    70,
		NonHalalThreshold: 40,

		// Confidence spread bounds.
		HighConfidenceSpread: 15,
		LowConfidenceSpread:  40,

		// Nature & Purpose.
		DisqualifierPenalty: 40,

		// Token structure factor weights (sum = 1.0).
		RibaAvoidanceWeight: 0.35,
		GhararWeight:        0.25,
		SpeculationWeight:   0.20,
		AssetBackingWeight:  0.20,

		// Financial ratios.
		UnknownRatioPenalty: 15,
		FailedRatioPenalty:  35,

		// Governance additive points.
		ShariahBoardPoints:  25,
		AdvisorPoints:       15,
		CertificationPoints: 15,
		WhitepaperPoints:    10,
		AuditPoints:         10,
	}
}

// PillarWeightSum returns the sum of the four pillar weights.
func PillarWeightSum(m config.Methodology) float64 {
	return m.NatureWeight + m.TokenWeight + m.RatiosWeight + m.GovernanceWeight
}

// TokenFactorWeightSum returns the sum of the token structure factor weights.
func TokenFactorWeightSum(m config.Methodology) float64 {
	return m.RibaAvoidanceWeight + m.GhararWeight + m.SpeculationWeight + m.AssetBackingWeight
}

// ValidateMethodology checks that a methodology table is internally
// consistent before it is allowed to drive a screening.
func ValidateMethodology(m config.Methodology) error {
	var errs []string

	weights := map[string]float64{
		"nature_weight":         m.NatureWeight,
		"token_weight":          m.TokenWeight,
		"ratios_weight":         m.RatiosWeight,
		"governance_weight":     m.GovernanceWeight,
		"riba_avoidance_weight": m.RibaAvoidanceWeight,
		"gharar_weight":         m.GhararWeight,
		"speculation_weight":    m.SpeculationWeight,
		"asset_backing_weight":  m.AssetBackingWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if math.Abs(PillarWeightSum(m)-1.0) > 0.001 {
		errs = append(errs, fmt.Sprintf("pillar weights must sum to 1.0, got %.3f", PillarWeightSum(m)))
	}
	if math.Abs(TokenFactorWeightSum(m)-1.0) > 0.001 {
		errs = append(errs, fmt.Sprintf("token factor weights must sum to 1.0, got %.3f", TokenFactorWeightSum(m)))
	}

	bands := map[string]float64{
		"compliant_threshold":     m.CompliantThreshold,
		"non_compliant_threshold": m.NonCompliantThreshold,
		"halal_threshold":         m.HalalThreshold,
		"non_halal_threshold":     m.NonHalalThreshold,
	}
	for name, b := range bands {
		if b < 0 || b > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}
	if m.CompliantThreshold <= m.NonCompliantThreshold {
		errs = append(errs, "compliant_threshold must be above non_compliant_threshold")
	}
	if m.HalalThreshold <= m.NonHalalThreshold {
		errs = append(errs, "halal_threshold must be above non_halal_threshold")
	}

	if m.HighConfidenceSpread < 0 || m.LowConfidenceSpread < m.HighConfidenceSpread {
		errs = append(errs, "confidence spreads must satisfy 0 <= high <= low")
	}

	penalties := map[string]float64{
		"disqualifier_penalty":  m.DisqualifierPenalty,
		"unknown_ratio_penalty": m.UnknownRatioPenalty,
		"failed_ratio_penalty":  m.FailedRatioPenalty,
	}
	for name, p := range penalties {
		if p < 0 || p > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", name))
		}
	}

	points := map[string]float64{
		"shariah_board_points": m.ShariahBoardPoints,
		"advisor_points":       m.AdvisorPoints,
		"certification_points": m.CertificationPoints,
		"whitepaper_points":    m.WhitepaperPoints,
		"audit_points":         m.AuditPoints,
	}
	for name, p := range points {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("screening: methodology validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MethodologyHash returns a SHA-256 hash of the methodology table so
// stored outcomes can be traced back to the exact parameters that
// produced them.
func MethodologyHash(m config.Methodology) string {
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:16]) // 32 hex chars
}

// clamp bounds a raw score to [0,100]. All pillar arithmetic saturates
// instead of raising.
func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// clampInt rounds and bounds a raw score to an integer in [0,100].
func clampInt(v float64) int {
	return int(math.Round(clamp(v)))
}
