package pricing

import (
	"fmt"
	"log"
	"math"
	"strings"

	"weld_quote/internal/domain/entities"
)

const (
	WarningExternalUnavailable = "external estimate unavailable, base tariff used"
	WarningInvertedRange       = "external range had min above max and was swapped"
	WarningFloorApplied        = "range raised to the minimum order"
	NoteMarketCorrection       = "The figure was adjusted to market per-meter rates."
)

// Reconciler merges the local estimate with the untrusted external one.
type Reconciler struct {
	local *LocalEstimator
}

func NewReconciler(local *LocalEstimator) *Reconciler {
	return &Reconciler{local: local}
}

// Reconcile always returns a consistent result. external == nil means the external
// estimator failed; local is returned untouched in that case.
func (r *Reconciler) Reconcile(local entities.PriceRange, external *entities.ExternalEstimate, job entities.JobSpec) entities.EstimateResult {
	t := r.local.Tariff()
	breakdown := r.local.Breakdown(job)
	resolved, length := breakdown.Job, breakdown.LengthMeters

	if external == nil {
		return r.localResult(local, breakdown, WarningExternalUnavailable)
	}

	warnings := append([]string(nil), external.Warnings...)
	rng := external.Range
	if external.Metrics != nil {
		priced, err := PriceFromMetrics(t, *external.Metrics)
		if err != nil {
			log.Printf("[pricing][reconcile] metrics rejected err=%v", err)
			return r.localResult(local, breakdown, WarningExternalUnavailable)
		}
		rng = priced
	}
	if rng.Min <= 0 || rng.Max <= 0 {
		log.Printf("[pricing][reconcile] non-positive external range min=%d max=%d", rng.Min, rng.Max)
		return r.localResult(local, breakdown, WarningExternalUnavailable)
	}
	if rng.Max < rng.Min {
		rng.Min, rng.Max = rng.Max, rng.Min
		warnings = append(warnings, WarningInvertedRange)
	}

	floor := t.Floor(resolved.WorkScope, resolved.MaterialOwner)
	rate := float64(rng.Max) / math.Max(length, t.MinRateLengthMeters)

	if rate < t.SaneRateMin || rate > t.SaneRateMax {
		band := t.marketRate(resolved.Material)
		lo, hi, floored := applyFloor(band.Min*length, band.Max*length, floor, band.Max/band.Min)
		if floored {
			warnings = append(warnings, WarningFloorApplied)
		}
		log.Printf("[pricing][reconcile] external corrected rate_per_m=%.0f length_m=%.2f material=%s", rate, length, resolved.Material)
		return entities.EstimateResult{
			Range:            roundRange(lo, hi),
			Method:           entities.EstimateMethodExternalCorrected,
			ExplanationShort: external.ExplanationShort,
			ExplanationLong:  joinNonEmpty(external.ExplanationLong, NoteMarketCorrection),
			Warnings:         append(warnings, NoteMarketCorrection),
			TariffVersion:    t.Version,
		}
	}

	spread := float64(rng.Max) / float64(rng.Min)
	lo, hi, floored := applyFloor(float64(rng.Min), float64(rng.Max), floor, spread)
	if floored {
		warnings = append(warnings, WarningFloorApplied)
	}
	return entities.EstimateResult{
		Range:            roundRange(lo, hi),
		Method:           entities.EstimateMethodExternal,
		ExplanationShort: external.ExplanationShort,
		ExplanationLong:  external.ExplanationLong,
		Warnings:         nonNil(warnings),
		TariffVersion:    t.Version,
	}
}

func (r *Reconciler) localResult(local entities.PriceRange, b Breakdown, warning string) entities.EstimateResult {
	return entities.EstimateResult{
		Range:            local,
		Method:           entities.EstimateMethodLocal,
		ExplanationShort: b.Explain(),
		ExplanationLong:  fmt.Sprintf("Weld %.0f, preparation %.0f, finishing %.0f, surcharges %.0f, multiplier %.2f.", b.WeldCost, b.PrepCost, b.FinishCost, b.Surcharges, b.Multiplier),
		Warnings:         []string{warning},
		TariffVersion:    r.local.Tariff().Version,
	}
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
