package pricing

import (
	"errors"
	"fmt"

	"weld_quote/internal/domain/entities"
)

// Triple splits a multiplier into the weld, preparation and finishing axes.
type Triple struct {
	Weld   float64 `yaml:"weld" json:"weld"`
	Prep   float64 `yaml:"prep" json:"prep"`
	Finish float64 `yaml:"finish" json:"finish"`
}

// RateBand is a per-meter market price band.
type RateBand struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// MetricRates prices the measurement-style reply of the external estimator.
type MetricRates struct {
	SimplePerMeter  float64            `yaml:"simple_per_meter"`
	MediumPerMeter  float64            `yaml:"medium_per_meter"`
	ComplexPerMeter float64            `yaml:"complex_per_meter"`
	PrepPerHour     float64            `yaml:"prep_per_hour"`
	WeldPerHour     float64            `yaml:"weld_per_hour"`
	FinishPerHour   float64            `yaml:"finish_per_hour"`
	DifficultyMin   float64            `yaml:"difficulty_min"`
	DifficultyMax   float64            `yaml:"difficulty_max"`
	Risk            map[string]float64 `yaml:"risk"`
}

// Tariff is the full set of coefficients and thresholds used by the estimator and
// the reconciliation policy. Every number that was ever recalibrated lives here.
type Tariff struct {
	Version string `yaml:"version"`

	DefaultLengthMeters float64 `yaml:"default_length_meters"`
	MaxLengthMeters     float64 `yaml:"max_length_meters"`

	WeldRatePerMeter  float64 `yaml:"weld_rate_per_meter"`
	BackWeldCost      float64 `yaml:"back_weld_cost"`
	PrepRatePerMeter  float64 `yaml:"prep_rate_per_meter"`
	FinishStripMeters float64 `yaml:"finish_strip_meters"`
	FinishRatePerM2   float64 `yaml:"finish_rate_per_m2"`

	Materials  map[entities.Material]Triple   `yaml:"materials"`
	Thickness  map[entities.Thickness]float64 `yaml:"thickness"`
	WeldTypes  map[entities.WeldType]float64  `yaml:"weld_types"`
	WorkScopes map[entities.WorkScope]Triple  `yaml:"work_scopes"`

	WorkTypeSurcharge map[entities.WorkType]float64     `yaml:"work_type_surcharge"`
	ExtraServiceFees  map[entities.ExtraService]float64 `yaml:"extra_service_fees"`
	Positions         map[entities.Position]float64     `yaml:"positions"`
	Conditions        map[entities.Condition]float64    `yaml:"conditions"`
	Deadlines         map[entities.Deadline]float64     `yaml:"deadlines"`

	ContractorMaterialFactor float64 `yaml:"contractor_material_factor"`

	ExoticMaterials       []entities.Material `yaml:"exotic_materials"`
	EscalatorLengthMeters float64             `yaml:"escalator_length_meters"`
	EscalatorFactor       float64             `yaml:"escalator_factor"`

	BandLow  float64 `yaml:"band_low"`
	BandHigh float64 `yaml:"band_high"`

	Floors                    map[entities.WorkScope]float64 `yaml:"floors"`
	ContractorFloorSupplement float64                        `yaml:"contractor_floor_supplement"`

	CeilingMax          float64 `yaml:"ceiling_max"`
	CeilingLengthMeters float64 `yaml:"ceiling_length_meters"`
	CeilingMinFraction  float64 `yaml:"ceiling_min_fraction"`

	SaneRateMin         float64                        `yaml:"sane_rate_min"`
	SaneRateMax         float64                        `yaml:"sane_rate_max"`
	MinRateLengthMeters float64                        `yaml:"min_rate_length_meters"`
	MarketRates         map[entities.Material]RateBand `yaml:"market_rates"`

	Metrics MetricRates `yaml:"metrics"`
}

// DefaultTariff returns the calibrated tariff. Each call returns a fresh copy.
//
// Calibration reference: steel butt joint, lt_3, 16.3 m, flat, indoor, normal deadline,
// pre-cut blanks -> ~134 000..164 000; the same job in brass -> ~1.65x.
func DefaultTariff() Tariff {
	return Tariff{
		Version: "2024.2",

		DefaultLengthMeters: 1.0,
		MaxLengthMeters:     200,

		WeldRatePerMeter:  7000,
		BackWeldCost:      6000,
		PrepRatePerMeter:  1800,
		FinishStripMeters: 0.1,
		FinishRatePerM2:   6000,

		Materials: map[entities.Material]Triple{
			entities.MaterialSteel:     {Weld: 1.0, Prep: 1.0, Finish: 1.0},
			entities.MaterialStainless: {Weld: 1.3, Prep: 1.2, Finish: 1.4},
			entities.MaterialAluminium: {Weld: 1.4, Prep: 1.3, Finish: 1.3},
			entities.MaterialCastIron:  {Weld: 1.5, Prep: 1.4, Finish: 1.1},
			entities.MaterialCopper:    {Weld: 1.45, Prep: 1.25, Finish: 1.6},
			entities.MaterialBrass:     {Weld: 1.35, Prep: 1.2, Finish: 1.6},
			entities.MaterialTitanium:  {Weld: 1.8, Prep: 1.5, Finish: 1.5},
		},
		Thickness: map[entities.Thickness]float64{
			entities.ThicknessLT3:     1.0,
			entities.Thickness3To6:    1.2,
			entities.Thickness6To12:   1.5,
			entities.ThicknessGT12:    1.9,
			entities.ThicknessUnknown: 1.35,
		},
		WeldTypes: map[entities.WeldType]float64{
			entities.WeldTypeButt:   1.0,
			entities.WeldTypeCorner: 1.1,
			entities.WeldTypeTee:    1.15,
			entities.WeldTypeLap:    1.05,
			entities.WeldTypePipe:   1.4,
		},
		WorkScopes: map[entities.WorkScope]Triple{
			entities.WorkScopePreCut:      {Weld: 1.0, Prep: 1.0, Finish: 1.0},
			entities.WorkScopeFromScratch: {Weld: 1.1, Prep: 1.3, Finish: 1.1},
			entities.WorkScopeRepair:      {Weld: 1.15, Prep: 1.8, Finish: 1.2},
		},
		WorkTypeSurcharge: map[entities.WorkType]float64{
			entities.WorkTypeWelding:  0,
			entities.WorkTypeCutting:  3000,
			entities.WorkTypeOverlay:  5000,
			entities.WorkTypeGrinding: 2000,
			entities.WorkTypeComplex:  8000,
		},
		ExtraServiceFees: map[entities.ExtraService]float64{
			entities.ExtraVisualInspection: 2500,
			entities.ExtraUltrasonicTest:   4000,
			entities.ExtraPressureTest:     2000,
			entities.ExtraSoapTest:         750,
			entities.ExtraDocumentation:    1500,
		},
		Positions: map[entities.Position]float64{
			entities.PositionFlat:     1.0,
			entities.PositionVertical: 1.2,
			entities.PositionMixed:    1.3,
			entities.PositionOverhead: 1.4,
		},
		Conditions: map[entities.Condition]float64{
			entities.ConditionIndoor:     0,
			entities.ConditionOutdoor:    0.1,
			entities.ConditionHeight:     0.2,
			entities.ConditionTightSpace: 0.15,
		},
		Deadlines: map[entities.Deadline]float64{
			entities.DeadlineNormal: 0,
			entities.DeadlineUrgent: 0.3,
			entities.DeadlineNight:  0.5,
		},

		ContractorMaterialFactor: 1.15,

		ExoticMaterials:       []entities.Material{entities.MaterialCopper, entities.MaterialBrass, entities.MaterialTitanium},
		EscalatorLengthMeters: 10,
		EscalatorFactor:       1.25,

		BandLow:  0.9,
		BandHigh: 1.1,

		Floors: map[entities.WorkScope]float64{
			entities.WorkScopePreCut:      10000,
			entities.WorkScopeFromScratch: 15000,
			entities.WorkScopeRepair:      20000,
		},
		ContractorFloorSupplement: 5000,

		CeilingMax:          350000,
		CeilingLengthMeters: 5,
		CeilingMinFraction:  0.82,

		SaneRateMin:         1500,
		SaneRateMax:         45000,
		MinRateLengthMeters: 1.0,
		MarketRates: map[entities.Material]RateBand{
			entities.MaterialSteel:     {Min: 6000, Max: 9000},
			entities.MaterialStainless: {Min: 9000, Max: 13000},
			entities.MaterialAluminium: {Min: 10000, Max: 14000},
			entities.MaterialCastIron:  {Min: 10000, Max: 15000},
			entities.MaterialCopper:    {Min: 12000, Max: 17000},
			entities.MaterialBrass:     {Min: 11000, Max: 16000},
			entities.MaterialTitanium:  {Min: 15000, Max: 22000},
		},

		Metrics: MetricRates{
			SimplePerMeter:  6000,
			MediumPerMeter:  8500,
			ComplexPerMeter: 12000,
			PrepPerHour:     1500,
			WeldPerHour:     2200,
			FinishPerHour:   1800,
			DifficultyMin:   0.5,
			DifficultyMax:   3.0,
			Risk: map[string]float64{
				"low":    1.0,
				"medium": 1.1,
				"high":   1.25,
			},
		},
	}
}

var ErrInvalidTariff = errors.New("invalid tariff")

// Validate checks that every table is populated and every factor is positive.
func (t Tariff) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidTariff, fmt.Sprintf(format, args...))
	}
	if t.Version == "" {
		return bad("version is required")
	}
	if t.DefaultLengthMeters <= 0 || t.MaxLengthMeters < t.DefaultLengthMeters {
		return bad("length default=%v max=%v", t.DefaultLengthMeters, t.MaxLengthMeters)
	}
	if t.WeldRatePerMeter <= 0 || t.PrepRatePerMeter <= 0 || t.FinishRatePerM2 < 0 || t.BackWeldCost < 0 {
		return bad("base rates must be positive")
	}
	if _, ok := t.Materials[entities.MaterialSteel]; !ok {
		return bad("materials table must contain steel")
	}
	for m, tr := range t.Materials {
		if tr.Weld <= 0 || tr.Prep <= 0 || tr.Finish <= 0 {
			return bad("material %s has non-positive factor", m)
		}
	}
	if _, ok := t.Thickness[entities.ThicknessUnknown]; !ok {
		return bad("thickness table must contain unknown")
	}
	if _, ok := t.WeldTypes[entities.WeldTypeButt]; !ok {
		return bad("weld types table must contain butt")
	}
	if _, ok := t.WorkScopes[entities.WorkScopePreCut]; !ok {
		return bad("work scopes table must contain pre_cut")
	}
	for k, v := range t.Thickness {
		if v <= 0 {
			return bad("thickness %s factor must be positive", k)
		}
	}
	for k, v := range t.WeldTypes {
		if v <= 0 {
			return bad("weld type %s factor must be positive", k)
		}
	}
	for k, v := range t.Positions {
		if v <= 0 {
			return bad("position %s factor must be positive", k)
		}
	}
	for k, v := range t.Conditions {
		if v < 0 {
			return bad("condition %s surcharge must not be negative", k)
		}
	}
	for k, v := range t.Deadlines {
		if v < 0 {
			return bad("deadline %s surcharge must not be negative", k)
		}
	}
	for k, v := range t.WorkTypeSurcharge {
		if v < 0 {
			return bad("work type %s surcharge must not be negative", k)
		}
	}
	for k, v := range t.ExtraServiceFees {
		if v < 0 {
			return bad("extra service %s fee must not be negative", k)
		}
	}
	if t.BandLow <= 0 || t.BandHigh < t.BandLow {
		return bad("band low=%v high=%v", t.BandLow, t.BandHigh)
	}
	for k, v := range t.Floors {
		if v < 0 {
			return bad("floor %s must not be negative", k)
		}
	}
	if t.ContractorFloorSupplement < 0 {
		return bad("contractor floor supplement must not be negative")
	}
	if t.Floors[entities.WorkScopeRepair] < t.Floors[entities.WorkScopeFromScratch] ||
		t.Floors[entities.WorkScopeFromScratch] < t.Floors[entities.WorkScopePreCut] {
		return bad("floors must satisfy repair >= from_scratch >= pre_cut")
	}
	// below the band ratio the clamped minimum would drop under the unclamped one
	if t.CeilingMinFraction < t.BandLow/t.BandHigh || t.CeilingMinFraction > 1 {
		return bad("ceiling min fraction %v must be within [%v, 1]", t.CeilingMinFraction, t.BandLow/t.BandHigh)
	}
	if t.SaneRateMin <= 0 || t.SaneRateMax <= t.SaneRateMin || t.MinRateLengthMeters <= 0 {
		return bad("sane rate band min=%v max=%v", t.SaneRateMin, t.SaneRateMax)
	}
	if _, ok := t.MarketRates[entities.MaterialSteel]; !ok {
		return bad("market rates must contain steel")
	}
	return nil
}

func (t Tariff) material(m entities.Material) Triple {
	if tr, ok := t.Materials[m]; ok {
		return tr
	}
	return t.Materials[entities.MaterialSteel]
}

func (t Tariff) thickness(th entities.Thickness) float64 {
	if v, ok := t.Thickness[th]; ok {
		return v
	}
	return t.Thickness[entities.ThicknessUnknown]
}

func (t Tariff) weldType(w entities.WeldType) float64 {
	if v, ok := t.WeldTypes[w]; ok {
		return v
	}
	return t.WeldTypes[entities.WeldTypeButt]
}

func (t Tariff) workScope(s entities.WorkScope) Triple {
	if tr, ok := t.WorkScopes[s]; ok {
		return tr
	}
	return t.WorkScopes[entities.WorkScopePreCut]
}

func (t Tariff) position(p entities.Position) float64 {
	if v, ok := t.Positions[p]; ok {
		return v
	}
	return 1
}

func (t Tariff) marketRate(m entities.Material) RateBand {
	if r, ok := t.MarketRates[m]; ok {
		return r
	}
	return t.MarketRates[entities.MaterialSteel]
}

func (t Tariff) isExotic(m entities.Material) bool {
	for _, e := range t.ExoticMaterials {
		if e == m {
			return true
		}
	}
	return false
}

// Floor returns the minimum order for the given scope and material owner.
// Unknown scopes use the pre-cut floor.
func (t Tariff) Floor(scope entities.WorkScope, owner entities.MaterialOwner) float64 {
	floor, ok := t.Floors[scope]
	if !ok {
		floor = t.Floors[entities.WorkScopePreCut]
	}
	if owner == entities.MaterialOwnerContractor {
		floor += t.ContractorFloorSupplement
	}
	return floor
}
