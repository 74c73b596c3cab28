package pricing

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"weld_quote/internal/domain/entities"
)

// Overrides holds the per-axis corrections found in free text. Nil means "no override".
type Overrides struct {
	Material  *entities.Material
	Thickness *entities.Thickness
	WeldType  *entities.WeldType
}

// verbGuard skips a match followed by an infinitive: "стали" in "стали шататься" is a verb.
type keyword struct {
	re        *regexp.Regexp
	value     string
	phrase    bool
	verbGuard bool
}

// word matches a whole token, so "стал" never hits "стало" and "tee" never hits "teeth".
func word(pattern, value string) keyword {
	return keyword{re: regexp.MustCompile(`^(?:` + pattern + `)$`), value: value}
}

func phrase(pattern, value string) keyword {
	return keyword{re: regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + pattern + `)(?:[^\p{L}\p{N}]|$)`), value: value, phrase: true}
}

func noun(pattern, value string) keyword {
	k := word(pattern, value)
	k.verbGuard = true
	return k
}

// Order matters: "нержавеющая сталь" must hit stainless before steel.
var materialKeywords = []keyword{
	word(`нерж\p{L}*`, string(entities.MaterialStainless)),
	word(`stainless`, string(entities.MaterialStainless)),
	word(`inox`, string(entities.MaterialStainless)),
	word(`алюмини\p{L}*`, string(entities.MaterialAluminium)),
	word(`alumin(?:i?um)`, string(entities.MaterialAluminium)),
	word(`чугун\p{L}*`, string(entities.MaterialCastIron)),
	phrase(`cast\s+iron`, string(entities.MaterialCastIron)),
	word(`castiron`, string(entities.MaterialCastIron)),
	word(`латун\p{L}*`, string(entities.MaterialBrass)),
	word(`brass`, string(entities.MaterialBrass)),
	word(`мед(?:ь|и|ью)`, string(entities.MaterialCopper)),
	word(`медн\p{L}*`, string(entities.MaterialCopper)),
	word(`copper`, string(entities.MaterialCopper)),
	word(`титан(?:а|у|ом|е|ов\p{L}*)?`, string(entities.MaterialTitanium)),
	word(`titanium`, string(entities.MaterialTitanium)),
	phrase(`черн(?:ый|ого|ому|ым|ом|ая|ой|ую|ое|ые|ых|ыми)\s+металл\p{L}*`, string(entities.MaterialSteel)),
	word(`стал(?:ь|ью|ей|ям|ями|ях)`, string(entities.MaterialSteel)),
	noun(`стали`, string(entities.MaterialSteel)),
	word(`стальн\p{L}*`, string(entities.MaterialSteel)),
	word(`steels?`, string(entities.MaterialSteel)),
}

var weldKeywords = []keyword{
	word(`труб\p{L}*`, string(entities.WeldTypePipe)),
	word(`pipes?|piping`, string(entities.WeldTypePipe)),
	word(`тавр\p{L}*`, string(entities.WeldTypeTee)),
	word(`tees?`, string(entities.WeldTypeTee)),
	word(`в?нахлест\p{L}*`, string(entities.WeldTypeLap)),
	word(`lap|lapped`, string(entities.WeldTypeLap)),
	word(`углов\p{L}*`, string(entities.WeldTypeCorner)),
	word(`corners?|fillets?`, string(entities.WeldTypeCorner)),
	word(`стык\p{L}*`, string(entities.WeldTypeButt)),
	word(`butt`, string(entities.WeldTypeButt)),
}

// Plate thickness above this is treated as a length typed in millimeters, not a thickness.
const maxThicknessMM = 60

var reThicknessMM = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:мм|mm)`)

// ResolveOverrides scans free text for material, thickness ("N mm") and joint keywords.
func ResolveOverrides(text string) Overrides {
	var out Overrides
	norm := normalizeText(text)
	if norm == "" {
		return out
	}

	words := strings.FieldsFunc(norm, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	if v, ok := firstKeyword(norm, words, materialKeywords); ok {
		m := entities.Material(v)
		out.Material = &m
	}
	if v, ok := firstKeyword(norm, words, weldKeywords); ok {
		w := entities.WeldType(v)
		out.WeldType = &w
	}
	for _, m := range reThicknessMM.FindAllStringSubmatch(norm, -1) {
		mm, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil || mm <= 0 || mm > maxThicknessMM {
			continue
		}
		th := ThicknessBand(mm)
		out.Thickness = &th
		break
	}
	return out
}

// Apply returns a copy of job with the overrides written over the structured fields.
func (o Overrides) Apply(job entities.JobSpec) entities.JobSpec {
	if o.Material != nil {
		job.Material = *o.Material
	}
	if o.Thickness != nil {
		job.Thickness = *o.Thickness
	}
	if o.WeldType != nil {
		job.WeldType = *o.WeldType
	}
	return job
}

// ThicknessBand maps a plate thickness in millimeters to its band.
func ThicknessBand(mm float64) entities.Thickness {
	switch {
	case mm < 3:
		return entities.ThicknessLT3
	case mm < 6:
		return entities.Thickness3To6
	case mm <= 12:
		return entities.Thickness6To12
	default:
		return entities.ThicknessGT12
	}
}

// Casers are stateful, so each call gets its own.
func normalizeText(s string) string {
	s = cases.Lower(language.Russian).String(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "ё", "е")
}

// firstKeyword returns the value of the first table entry found in text.
func firstKeyword(text string, words []string, table []keyword) (string, bool) {
	for _, k := range table {
		if k.phrase {
			if k.re.MatchString(text) {
				return k.value, true
			}
			continue
		}
		for i, w := range words {
			if !k.re.MatchString(w) {
				continue
			}
			if k.verbGuard && i+1 < len(words) && isInfinitive(words[i+1]) {
				continue
			}
			return k.value, true
		}
	}
	return "", false
}

func isInfinitive(w string) bool {
	for _, suffix := range []string{"ть", "ться", "ти", "тись"} {
		if strings.HasSuffix(w, suffix) {
			return true
		}
	}
	return false
}
