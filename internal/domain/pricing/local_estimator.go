package pricing

import (
	"fmt"
	"math"

	"weld_quote/internal/domain/entities"
)

// Breakdown is the itemized result of a local estimate.
type Breakdown struct {
	Job          entities.JobSpec // after free-text overrides
	LengthMeters float64

	WeldCost   float64
	PrepCost   float64
	FinishCost float64
	Surcharges float64
	Multiplier float64
	Subtotal   float64

	EscalatorApplied bool
	FloorApplied     bool
	CeilingApplied   bool

	Range entities.PriceRange
}

// LocalEstimator is the deterministic base tariff. It never fails: every malformed
// input degrades to a tariff default, so it can always back up the external estimator.
type LocalEstimator struct {
	tariff Tariff
}

func NewLocalEstimator(t Tariff) *LocalEstimator {
	return &LocalEstimator{tariff: t}
}

func (e *LocalEstimator) Tariff() Tariff {
	return e.tariff
}

// Estimate returns the price range for job.
func (e *LocalEstimator) Estimate(job entities.JobSpec) entities.PriceRange {
	return e.Breakdown(job).Range
}

// Resolve applies free-text overrides and the scope default, and parses the weld length.
func (e *LocalEstimator) Resolve(job entities.JobSpec) (entities.JobSpec, float64) {
	resolved := ResolveOverrides(job.FreeText).Apply(job)
	if _, ok := e.tariff.WorkScopes[resolved.WorkScope]; !ok {
		resolved.WorkScope = entities.WorkScopePreCut
	}
	return resolved, e.tariff.ParseLength(job.VolumeText)
}

func (e *LocalEstimator) Breakdown(job entities.JobSpec) Breakdown {
	t := e.tariff
	resolved, length := e.Resolve(job)
	b := Breakdown{Job: resolved, LengthMeters: length}

	b.WeldCost = length * t.WeldRatePerMeter
	if resolved.WeldType == entities.WeldTypeButt {
		b.WeldCost += t.BackWeldCost
	}
	b.PrepCost = length * t.PrepRatePerMeter
	if len(resolved.ExtraServices) > 0 {
		b.FinishCost = length * t.FinishStripMeters * t.FinishRatePerM2
	}

	mat := t.material(resolved.Material)
	scope := t.workScope(resolved.WorkScope)
	shape := t.thickness(resolved.Thickness) * t.weldType(resolved.WeldType)
	b.WeldCost *= mat.Weld * shape * scope.Weld
	b.PrepCost *= mat.Prep * shape * scope.Prep
	b.FinishCost *= mat.Finish * shape * scope.Finish

	b.Surcharges = t.WorkTypeSurcharge[resolved.WorkType]
	for _, s := range uniqueExtras(resolved.ExtraServices) {
		b.Surcharges += t.ExtraServiceFees[s]
	}

	conditions := 0.0
	for _, c := range uniqueConditions(resolved.Conditions) {
		conditions += t.Conditions[c]
	}
	b.Multiplier = t.position(resolved.Position) * (1 + conditions) * (1 + t.Deadlines[resolved.Deadline])
	if resolved.MaterialOwner == entities.MaterialOwnerContractor {
		b.Multiplier *= t.ContractorMaterialFactor
	}

	b.Subtotal = (b.WeldCost + b.PrepCost + b.FinishCost + b.Surcharges) * b.Multiplier
	if t.isExotic(resolved.Material) && length > t.EscalatorLengthMeters {
		b.Subtotal *= t.EscalatorFactor
		b.EscalatorApplied = true
	}

	lo, hi := b.Subtotal*t.BandLow, b.Subtotal*t.BandHigh
	lo, hi, b.FloorApplied = applyFloor(lo, hi, t.Floor(resolved.WorkScope, resolved.MaterialOwner), t.BandHigh/t.BandLow)

	if hi > t.CeilingMax && length <= t.CeilingLengthMeters {
		hi = t.CeilingMax
		lo = math.Min(lo, hi*t.CeilingMinFraction)
		b.CeilingApplied = true
	}

	b.Range = roundRange(lo, hi)
	return b
}

// Explain renders a one-line summary of the breakdown.
func (b Breakdown) Explain() string {
	return fmt.Sprintf("Base tariff: %.1f m of %s %s joint, thickness %s, position %s",
		b.LengthMeters, b.Job.Material, b.Job.WeldType, b.Job.Thickness, b.Job.Position)
}

// applyFloor lifts lo to floor and scales hi by the same factor, keeping the spread.
// spread is used when lo is zero and there is nothing to scale from.
func applyFloor(lo, hi, floor, spread float64) (float64, float64, bool) {
	if lo >= floor {
		return lo, hi, false
	}
	if lo <= 0 {
		return floor, floor * spread, true
	}
	factor := floor / lo
	return floor, hi * factor, true
}

func roundRange(lo, hi float64) entities.PriceRange {
	r := entities.PriceRange{Min: entities.RoundPrice(lo), Max: entities.RoundPrice(hi)}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}

func uniqueExtras(in []entities.ExtraService) []entities.ExtraService {
	seen := make(map[entities.ExtraService]struct{}, len(in))
	out := make([]entities.ExtraService, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func uniqueConditions(in []entities.Condition) []entities.Condition {
	seen := make(map[entities.Condition]struct{}, len(in))
	out := make([]entities.Condition, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
