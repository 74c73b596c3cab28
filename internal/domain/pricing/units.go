package pricing

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	reUnit   = regexp.MustCompile(`(?i)^\s*(мм|mm|см|cm|м|m)`)
)

// ParseLengthMeters turns a free-text quantity ("1630 см", "16.3 м", "5000 мм") into meters
// using the default tariff limits. Estimators with a loaded tariff use Tariff.ParseLength.
func ParseLengthMeters(text string) float64 {
	return DefaultTariff().ParseLength(text)
}

// ParseLength normalizes text to meters. Text without a positive number yields
// DefaultLengthMeters; anything above MaxLengthMeters is capped.
func (t Tariff) ParseLength(text string) float64 {
	return parseLength(text, t.DefaultLengthMeters, t.MaxLengthMeters)
}

func parseLength(text string, def, ceiling float64) float64 {
	loc := reNumber.FindStringIndex(text)
	if loc == nil {
		return def
	}
	value, err := strconv.ParseFloat(strings.Replace(text[loc[0]:loc[1]], ",", ".", 1), 64)
	if err != nil || value <= 0 {
		return def
	}

	if m := reUnit.FindStringSubmatch(text[loc[1]:]); m != nil {
		switch strings.ToLower(m[1]) {
		case "мм", "mm":
			value /= 1000
		case "см", "cm":
			value /= 100
		}
	}

	if value <= 0 {
		return def
	}
	if value > ceiling {
		log.Printf("[pricing][units] length capped raw_text=%q parsed_m=%.2f ceiling_m=%.0f", text, value, ceiling)
		return ceiling
	}
	return value
}
