package pricing

import (
	"errors"
	"fmt"
	"math"

	"weld_quote/internal/domain/entities"
)

var ErrInvalidMetrics = errors.New("invalid estimator metrics")

// PriceFromMetrics prices a measurement-style external reply with the tariff's metric rates.
// The difficulty coefficient is clamped; an unknown risk level counts as medium.
func PriceFromMetrics(t Tariff, m entities.ExternalMetrics) (entities.PriceRange, error) {
	values := []float64{
		m.WeldLengthSimple, m.WeldLengthMedium, m.WeldLengthComplex,
		m.PrepHours, m.WeldHours, m.FinishHours, m.DifficultyCoefficient,
	}
	volume := 0.0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return entities.PriceRange{}, fmt.Errorf("%w: negative or non-finite value", ErrInvalidMetrics)
		}
		if i < len(values)-1 {
			volume += v
		}
	}
	if volume == 0 {
		return entities.PriceRange{}, fmt.Errorf("%w: no weld length or hours", ErrInvalidMetrics)
	}

	r := t.Metrics
	base := m.WeldLengthSimple*r.SimplePerMeter +
		m.WeldLengthMedium*r.MediumPerMeter +
		m.WeldLengthComplex*r.ComplexPerMeter +
		m.PrepHours*r.PrepPerHour +
		m.WeldHours*r.WeldPerHour +
		m.FinishHours*r.FinishPerHour

	difficulty := math.Min(math.Max(m.DifficultyCoefficient, r.DifficultyMin), r.DifficultyMax)
	risk, ok := r.Risk[m.RiskLevel]
	if !ok {
		risk = r.Risk["medium"]
	}
	if risk <= 0 {
		risk = 1
	}

	total := base * difficulty * risk
	return roundRange(total*t.BandLow, total*t.BandHigh), nil
}
