package estimator

import (
	"fmt"
	"strings"

	"weld_quote/internal/domain/entities"
)

const systemPrompt = `Ты сметчик сварочной мастерской. По описанию работ и фотографиям оцени стоимость в рублях.
Ответь ТОЛЬКО JSON-объектом без пояснений вокруг него, в одной из двух форм:
{"price_min": число, "price_max": число, "explanation_short": "строка", "explanation_long": "строка", "warnings": ["строка"]}
или
{"metrics": {"weld_length_m": {"simple": число, "medium": число, "complex": число},
 "labor_hours": {"prep": число, "weld": число, "finish": число},
 "difficulty_coefficient": число, "risk_level": "low|medium|high"},
 "explanation_short": "строка", "explanation_long": "строка", "warnings": ["строка"]}
Все числа положительные. Базовый расчет дан как ориентир, а не как цель.`

// buildUserPrompt renders the job for the model. Free text goes last: it is the
// customer's own words and the most precise signal.
func buildUserPrompt(job entities.JobSpec, local entities.PriceRange) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	line("Вид работ", string(job.WorkType))
	line("Объем работ", string(job.WorkScope))
	line("Материал", string(job.Material))
	line("Толщина", string(job.Thickness))
	line("Тип соединения", string(job.WeldType))
	line("Положение", string(job.Position))
	line("Условия", joinEnum(job.Conditions))
	line("Металл предоставляет", string(job.MaterialOwner))
	line("Срочность", string(job.Deadline))
	line("Доп. услуги", joinEnum(job.ExtraServices))
	line("Объем (как указал клиент)", job.VolumeText)
	fmt.Fprintf(&b, "Базовый расчет (ориентир): от %d до %d руб.\n", local.Min, local.Max)
	if len(job.Attachments) > 0 {
		fmt.Fprintf(&b, "Фотографий: %d\n", len(job.Attachments))
	}
	line("Комментарий клиента", job.FreeText)
	return b.String()
}

// userContent returns the user message, switching to multi-part content when there
// are image attachments.
func userContent(job entities.JobSpec, local entities.PriceRange) any {
	text := buildUserPrompt(job, local)
	if len(job.Attachments) == 0 {
		return text
	}
	parts := []map[string]any{{"type": "text", "text": text}}
	for _, ref := range job.Attachments {
		parts = append(parts, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": ref},
		})
	}
	return parts
}

func joinEnum[T ~string](values []T) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return strings.Join(out, ", ")
}
