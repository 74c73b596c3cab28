package estimator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"weld_quote/internal/domain/entities"
)

// replySchemaMap describes both reply shapes: a direct price range (in the current
// price_min/price_max form or the older aiMin/aiMax form) or a metrics object.
// Positivity is checked after decoding so it can be reported as its own failure kind.
func replySchemaMap() map[string]any {
	number := map[string]any{"type": "number"}
	text := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"price_min":         number,
			"price_max":         number,
			"aiMin":             number,
			"aiMax":             number,
			"explanation_short": text,
			"explanation_long":  text,
			"reasonShort":       text,
			"reasonLong":        text,
			"warnings":          map[string]any{"type": "array", "items": text},
			"metrics": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"weld_length_m": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"simple": number, "medium": number, "complex": number,
						},
					},
					"labor_hours": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"prep": number, "weld": number, "finish": number,
						},
					},
					"difficulty_coefficient": number,
					"risk_level":             map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
				},
				"required": []string{"weld_length_m", "difficulty_coefficient"},
			},
		},
		"anyOf": []any{
			map[string]any{"required": []string{"price_min", "price_max"}},
			map[string]any{"required": []string{"aiMin", "aiMax"}},
			map[string]any{"required": []string{"metrics"}},
		},
	}
}

var replySchema = mustCompileSchema(replySchemaMap())

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal reply schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("reply.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add reply schema: %v", err))
	}
	return compiler.MustCompile("reply.json")
}

type replyMetrics struct {
	WeldLength struct {
		Simple  float64 `json:"simple"`
		Medium  float64 `json:"medium"`
		Complex float64 `json:"complex"`
	} `json:"weld_length_m"`
	LaborHours struct {
		Prep   float64 `json:"prep"`
		Weld   float64 `json:"weld"`
		Finish float64 `json:"finish"`
	} `json:"labor_hours"`
	DifficultyCoefficient float64 `json:"difficulty_coefficient"`
	RiskLevel             string  `json:"risk_level"`
}

type reply struct {
	PriceMin         *float64      `json:"price_min"`
	PriceMax         *float64      `json:"price_max"`
	AIMin            *float64      `json:"aiMin"`
	AIMax            *float64      `json:"aiMax"`
	ExplanationShort string        `json:"explanation_short"`
	ExplanationLong  string        `json:"explanation_long"`
	ReasonShort      string        `json:"reasonShort"`
	ReasonLong       string        `json:"reasonLong"`
	Warnings         []string      `json:"warnings"`
	Metrics          *replyMetrics `json:"metrics"`
}

// ParseReply turns the model's message text into a validated ExternalEstimate.
func ParseReply(content string) (entities.ExternalEstimate, error) {
	obj, err := ExtractObject(content)
	if err != nil {
		return entities.ExternalEstimate{}, err
	}

	var generic any
	if err := json.Unmarshal([]byte(obj), &generic); err != nil {
		return entities.ExternalEstimate{}, fail(KindMalformedJSON, err)
	}
	if err := replySchema.Validate(generic); err != nil {
		return entities.ExternalEstimate{}, fail(KindSchemaMismatch, err)
	}

	var r reply
	if err := json.Unmarshal([]byte(obj), &r); err != nil {
		return entities.ExternalEstimate{}, fail(KindMalformedJSON, err)
	}

	out := entities.ExternalEstimate{
		ExplanationShort: firstNonEmpty(r.ExplanationShort, r.ReasonShort),
		ExplanationLong:  firstNonEmpty(r.ExplanationLong, r.ReasonLong),
		Warnings:         r.Warnings,
	}

	if r.Metrics != nil {
		m := r.Metrics
		metrics := entities.ExternalMetrics{
			WeldLengthSimple:      m.WeldLength.Simple,
			WeldLengthMedium:      m.WeldLength.Medium,
			WeldLengthComplex:     m.WeldLength.Complex,
			PrepHours:             m.LaborHours.Prep,
			WeldHours:             m.LaborHours.Weld,
			FinishHours:           m.LaborHours.Finish,
			DifficultyCoefficient: m.DifficultyCoefficient,
			RiskLevel:             m.RiskLevel,
		}
		if err := checkMetrics(metrics); err != nil {
			return entities.ExternalEstimate{}, err
		}
		out.Metrics = &metrics
		return out, nil
	}

	lo, hi := r.PriceMin, r.PriceMax
	if lo == nil || hi == nil {
		lo, hi = r.AIMin, r.AIMax
	}
	if !positive(*lo) || !positive(*hi) {
		return entities.ExternalEstimate{}, fail(KindNonPositive, fmt.Errorf("price range %v..%v", *lo, *hi))
	}
	out.Range = entities.PriceRange{Min: entities.RoundPrice(*lo), Max: entities.RoundPrice(*hi)}
	return out, nil
}

func checkMetrics(m entities.ExternalMetrics) error {
	all := []float64{m.WeldLengthSimple, m.WeldLengthMedium, m.WeldLengthComplex, m.PrepHours, m.WeldHours, m.FinishHours}
	total := 0.0
	for _, v := range all {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fail(KindNonPositive, errors.New("negative metric"))
		}
		total += v
	}
	if !positive(total) || !positive(m.DifficultyCoefficient) {
		return fail(KindNonPositive, errors.New("metrics carry no volume or difficulty"))
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
