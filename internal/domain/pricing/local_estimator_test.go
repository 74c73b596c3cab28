package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weld_quote/internal/domain/entities"
)

func steelJob() entities.JobSpec {
	return entities.JobSpec{
		WorkType:      entities.WorkTypeWelding,
		WorkScope:     entities.WorkScopePreCut,
		Material:      entities.MaterialSteel,
		Thickness:     entities.ThicknessLT3,
		WeldType:      entities.WeldTypeButt,
		Position:      entities.PositionFlat,
		Conditions:    []entities.Condition{entities.ConditionIndoor},
		MaterialOwner: entities.MaterialOwnerClient,
		Deadline:      entities.DeadlineNormal,
		VolumeText:    "16.3 м",
	}
}

var allMaterials = []entities.Material{
	entities.MaterialSteel, entities.MaterialStainless, entities.MaterialAluminium, entities.MaterialCastIron,
	entities.MaterialCopper, entities.MaterialBrass, entities.MaterialTitanium,
}

func TestLocalEstimator_SteelScenario(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())

	got := e.Estimate(steelJob())

	assert.Equal(t, entities.PriceRange{Min: 134496, Max: 164384}, got)
	assert.GreaterOrEqual(t, got.Min, int64(120000))
	assert.LessOrEqual(t, got.Max, int64(180000))
}

func TestLocalEstimator_BrassScenario(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	brass := steelJob()
	brass.Material = entities.MaterialBrass

	steelRange := e.Estimate(steelJob())
	b := e.Breakdown(brass)

	assert.True(t, b.EscalatorApplied)
	assert.Equal(t, entities.PriceRange{Min: 222011, Max: 271347}, b.Range)
	ratio := float64(b.Range.Min) / float64(steelRange.Min)
	assert.Greater(t, ratio, 1.5)
	assert.Less(t, ratio, 2.0)
}

func heavyJob() entities.JobSpec {
	return entities.JobSpec{
		WorkType:      entities.WorkTypeWelding,
		WorkScope:     entities.WorkScopeRepair,
		Material:      entities.MaterialTitanium,
		Thickness:     entities.ThicknessGT12,
		WeldType:      entities.WeldTypePipe,
		Position:      entities.PositionOverhead,
		Conditions:    []entities.Condition{entities.ConditionIndoor},
		MaterialOwner: entities.MaterialOwnerContractor,
		Deadline:      entities.DeadlineNight,
	}
}

func TestLocalEstimator_FreeTextVerbKeepsMaterial(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	brass := steelJob()
	brass.Material = entities.MaterialBrass
	brass.FreeText = "перила, стало шататься основание"

	b := e.Breakdown(brass)

	assert.Equal(t, entities.MaterialBrass, b.Job.Material)
	assert.Equal(t, entities.PriceRange{Min: 222011, Max: 271347}, b.Range)
}

func TestLocalEstimator_MonotonicInLength(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	lengths := []string{"10 см", "1 м", "2 м", "5 м", "10 м", "10.5 м", "16.3 м", "50 м", "200 м", "900 м"}

	for _, m := range allMaterials {
		job := steelJob()
		job.Material = m
		var prev entities.PriceRange
		for _, l := range lengths {
			job.VolumeText = l
			got := e.Estimate(job)
			require.GreaterOrEqualf(t, got.Min, prev.Min, "material=%s length=%s", m, l)
			require.GreaterOrEqualf(t, got.Max, prev.Max, "material=%s length=%s", m, l)
			prev = got
		}
	}
}

func TestLocalEstimator_MonotonicAcrossCeilingAndEscalator(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	tariff := e.Tariff()

	// 5 cm steps through the ceiling cutoff and the exotic escalator threshold
	var lengths []float64
	for cm := 5; cm <= 1200; cm += 5 {
		lengths = append(lengths, float64(cm)/100)
	}

	jobs := map[string]entities.JobSpec{"steel": steelJob(), "heavy titanium": heavyJob()}
	for name, job := range jobs {
		t.Run(name, func(t *testing.T) {
			var prev entities.PriceRange
			sawCeiling := false
			for _, l := range lengths {
				job.VolumeText = fmt.Sprintf("%.2f м", l)
				b := e.Breakdown(job)
				sawCeiling = sawCeiling || b.CeilingApplied
				require.GreaterOrEqualf(t, b.Range.Min, prev.Min, "length=%.2f range=%v prev=%v", l, b.Range, prev)
				require.GreaterOrEqualf(t, b.Range.Max, prev.Max, "length=%.2f range=%v prev=%v", l, b.Range, prev)
				require.LessOrEqualf(t, b.Range.Min, b.Range.Max, "length=%.2f", l)
				prev = b.Range
			}
			if job.Material == entities.MaterialTitanium {
				assert.True(t, sawCeiling, "ceiling never reached")
				assert.Greater(t, prev.Max, int64(tariff.CeilingMax))
			}
		})
	}
}

func TestLocalEstimator_AlternativeMaterialsNeverCheaperThanSteel(t *testing.T) {
	tariff := DefaultTariff()
	e := NewLocalEstimator(tariff)
	steel := tariff.Materials[entities.MaterialSteel]

	for _, length := range []string{"1 м", "16.3 м", "40 м"} {
		job := steelJob()
		job.VolumeText = length
		base := e.Estimate(job)
		for _, m := range allMaterials[1:] {
			assert.GreaterOrEqual(t, tariff.Materials[m].Weld, steel.Weld, "material=%s", m)
			job.Material = m
			got := e.Estimate(job)
			assert.GreaterOrEqualf(t, got.Min, base.Min, "material=%s length=%s", m, length)
		}
	}
}

func TestLocalEstimator_RangeValidity(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	thickness := []entities.Thickness{entities.ThicknessLT3, entities.Thickness3To6, entities.Thickness6To12, entities.ThicknessGT12, entities.ThicknessUnknown, "bogus"}
	welds := []entities.WeldType{entities.WeldTypeButt, entities.WeldTypeCorner, entities.WeldTypeTee, entities.WeldTypeLap, entities.WeldTypePipe, ""}
	scopes := []entities.WorkScope{entities.WorkScopePreCut, entities.WorkScopeFromScratch, entities.WorkScopeRepair, ""}
	volumes := []string{"", "0", "1 мм", "3 м", "120 м", "9999 м"}

	for _, m := range append(allMaterials, "unobtanium") {
		for _, th := range thickness {
			for _, w := range welds {
				for _, s := range scopes {
					for _, v := range volumes {
						job := steelJob()
						job.Material, job.Thickness, job.WeldType, job.WorkScope, job.VolumeText = m, th, w, s, v
						job.Position = entities.PositionOverhead
						job.Conditions = []entities.Condition{entities.ConditionHeight, entities.ConditionOutdoor}
						job.ExtraServices = []entities.ExtraService{entities.ExtraUltrasonicTest}
						job.MaterialOwner = entities.MaterialOwnerContractor

						got := e.Estimate(job)
						require.GreaterOrEqual(t, got.Min, int64(0))
						require.LessOrEqualf(t, got.Min, got.Max, "job=%+v", job)
					}
				}
			}
		}
	}
}

func TestLocalEstimator_Idempotent(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	job := steelJob()
	job.FreeText = "нержавейка 5 мм, тавровое соединение"
	job.Conditions = []entities.Condition{entities.ConditionHeight, entities.ConditionHeight}

	first := e.Estimate(job)
	second := e.Estimate(job)

	assert.Equal(t, first, second)
	assert.Equal(t, entities.MaterialSteel, job.Material)
	assert.Len(t, job.Conditions, 2)
}

func TestLocalEstimator_FloorEnforcement(t *testing.T) {
	tariff := DefaultTariff()
	e := NewLocalEstimator(tariff)

	repair := steelJob()
	repair.WorkScope = entities.WorkScopeRepair
	repair.VolumeText = ""
	preCut := repair
	preCut.WorkScope = entities.WorkScopePreCut
	preCut.VolumeText = "10 см"

	rb := e.Breakdown(repair)
	pb := e.Breakdown(preCut)

	assert.True(t, rb.FloorApplied)
	assert.Equal(t, int64(20000), rb.Range.Min)
	assert.Greater(t, rb.Range.Max, rb.Range.Min)
	assert.True(t, pb.FloorApplied)
	assert.Equal(t, int64(10000), pb.Range.Min)
	assert.Greater(t, tariff.Floor(entities.WorkScopeRepair, entities.MaterialOwnerClient), tariff.Floor(entities.WorkScopePreCut, entities.MaterialOwnerClient))

	preCut.MaterialOwner = entities.MaterialOwnerContractor
	assert.Equal(t, int64(15000), e.Estimate(preCut).Min)
}

func TestLocalEstimator_Ceiling(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	job := entities.JobSpec{
		WorkType:      entities.WorkTypeComplex,
		WorkScope:     entities.WorkScopeRepair,
		Material:      entities.MaterialTitanium,
		Thickness:     entities.ThicknessGT12,
		WeldType:      entities.WeldTypePipe,
		Position:      entities.PositionOverhead,
		Conditions:    []entities.Condition{entities.ConditionHeight, entities.ConditionTightSpace, entities.ConditionOutdoor},
		MaterialOwner: entities.MaterialOwnerContractor,
		Deadline:      entities.DeadlineNight,
		ExtraServices: []entities.ExtraService{entities.ExtraUltrasonicTest, entities.ExtraDocumentation},
		VolumeText:    "5 м",
	}

	short := e.Breakdown(job)
	job.VolumeText = "6 м"
	long := e.Breakdown(job)

	require.True(t, short.CeilingApplied)
	assert.Equal(t, entities.PriceRange{Min: 287000, Max: 350000}, short.Range)
	assert.False(t, long.CeilingApplied)
	assert.Greater(t, long.Range.Max, int64(350000))
}

func TestLocalEstimator_Defaults(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	base := e.Estimate(steelJob())

	unknownMaterial := steelJob()
	unknownMaterial.Material = "unobtanium"
	assert.Equal(t, base, e.Estimate(unknownMaterial))

	missingScope := steelJob()
	missingScope.WorkScope = ""
	assert.Equal(t, base, e.Estimate(missingScope))
	resolved, length := e.Resolve(missingScope)
	assert.Equal(t, entities.WorkScopePreCut, resolved.WorkScope)
	assert.InDelta(t, 16.3, length, 1e-9)
}

func TestLocalEstimator_FreeTextOverridesStructuredField(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	brass := steelJob()
	brass.Material = entities.MaterialBrass
	viaText := steelJob()
	viaText.FreeText = "ошибся в форме, это латунь"

	assert.Equal(t, e.Estimate(brass), e.Estimate(viaText))
}

func TestLocalEstimator_ExtrasAddFinishAndFees(t *testing.T) {
	e := NewLocalEstimator(DefaultTariff())
	plain := e.Breakdown(steelJob())
	job := steelJob()
	job.ExtraServices = []entities.ExtraService{entities.ExtraDocumentation, entities.ExtraDocumentation}
	withExtras := e.Breakdown(job)

	assert.Zero(t, plain.FinishCost)
	assert.InDelta(t, 16.3*0.1*6000, withExtras.FinishCost, 1e-6)
	assert.InDelta(t, 1500, withExtras.Surcharges, 1e-9)
	assert.Greater(t, withExtras.Range.Min, plain.Range.Min)
}

func TestLocalEstimator_UsesInjectedTariff(t *testing.T) {
	cheap := DefaultTariff()
	cheap.Version = "test"
	cheap.WeldRatePerMeter = 3500

	assert.Less(t, NewLocalEstimator(cheap).Estimate(steelJob()).Min, NewLocalEstimator(DefaultTariff()).Estimate(steelJob()).Min)
}
