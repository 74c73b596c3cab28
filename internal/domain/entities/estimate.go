package entities

import "math"

// MaxPrice bounds every price converted from a float so it cannot overflow int64.
const MaxPrice = math.MaxInt64 / 2

// RoundPrice rounds v to whole rubles within [0, MaxPrice]. NaN counts as zero.
func RoundPrice(v float64) int64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= MaxPrice {
		return MaxPrice
	}
	return int64(math.Round(v))
}

// PriceRange is a price band in whole rubles. Min <= Max, both non-negative.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// EstimateMethod tells downstream humans how much to trust a range.
type EstimateMethod string

const (
	// EstimateMethodLocal is the deterministic base tariff.
	EstimateMethodLocal EstimateMethod = "local"
	// EstimateMethodExternal is the external estimate accepted within bounds.
	EstimateMethodExternal EstimateMethod = "external"
	// EstimateMethodExternalCorrected is the external estimate replaced by market per-meter rates.
	EstimateMethodExternalCorrected EstimateMethod = "external_corrected"
)

// EstimateResult is built once per quote request and never recomputed afterwards.
type EstimateResult struct {
	Range            PriceRange     `json:"range"`
	Method           EstimateMethod `json:"method"`
	ExplanationShort string         `json:"explanation_short"`
	ExplanationLong  string         `json:"explanation_long,omitempty"`
	Warnings         []string       `json:"warnings"`
	TariffVersion    string         `json:"tariff_version"`
}

// ExternalMetrics is the measurement-style reply of the external estimator.
// Price is derived from it locally.
type ExternalMetrics struct {
	WeldLengthSimple      float64 `json:"weld_length_simple"`
	WeldLengthMedium      float64 `json:"weld_length_medium"`
	WeldLengthComplex     float64 `json:"weld_length_complex"`
	PrepHours             float64 `json:"prep_hours"`
	WeldHours             float64 `json:"weld_hours"`
	FinishHours           float64 `json:"finish_hours"`
	DifficultyCoefficient float64 `json:"difficulty_coefficient"`
	RiskLevel             string  `json:"risk_level"`
}

// ExternalEstimate is a validated, but still untrusted, reply of the external estimator.
// Exactly one of Range or Metrics carries the price information.
type ExternalEstimate struct {
	Range            PriceRange       `json:"range"`
	Metrics          *ExternalMetrics `json:"metrics,omitempty"`
	ExplanationShort string           `json:"explanation_short"`
	ExplanationLong  string           `json:"explanation_long,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
}
