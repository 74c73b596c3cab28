package request

import (
	"strings"

	"weld_quote/internal/domain/entities"
)

// JobRequest is the intake form payload. Every field is optional: unknown or missing
// values are replaced by defaults so a sloppy form still produces an estimate.
type JobRequest struct {
	WorkType      string   `json:"work_type"`
	WorkScope     string   `json:"work_scope"`
	Material      string   `json:"material"`
	Thickness     string   `json:"thickness"`
	WeldType      string   `json:"weld_type"`
	Position      string   `json:"position"`
	Conditions    []string `json:"conditions" binding:"max=8"`
	MaterialOwner string   `json:"material_owner"`
	Deadline      string   `json:"deadline"`
	ExtraServices []string `json:"extra_services" binding:"max=10"`
	VolumeText    string   `json:"volume_text" binding:"max=200"`
	FreeText      string   `json:"free_text" binding:"max=4000"`
	Attachments   []string `json:"attachments" binding:"max=10"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// aliases maps alternative spellings used by older form versions.
var aliases = map[string]string{
	"from_blanks":  string(entities.WorkScopePreCut),
	"rework":       string(entities.WorkScopeRepair),
	"aluminum":     string(entities.MaterialAluminium),
	"pipe_to_pipe": string(entities.WeldTypePipe),
}

var (
	workTypes      = set(entities.WorkTypeWelding, entities.WorkTypeCutting, entities.WorkTypeOverlay, entities.WorkTypeGrinding, entities.WorkTypeComplex)
	workScopes     = set(entities.WorkScopeFromScratch, entities.WorkScopePreCut, entities.WorkScopeRepair)
	materials      = set(entities.MaterialSteel, entities.MaterialStainless, entities.MaterialAluminium, entities.MaterialCastIron, entities.MaterialCopper, entities.MaterialBrass, entities.MaterialTitanium)
	thicknesses    = set(entities.ThicknessLT3, entities.Thickness3To6, entities.Thickness6To12, entities.ThicknessGT12, entities.ThicknessUnknown)
	weldTypes      = set(entities.WeldTypeButt, entities.WeldTypeCorner, entities.WeldTypeTee, entities.WeldTypeLap, entities.WeldTypePipe)
	positions      = set(entities.PositionFlat, entities.PositionVertical, entities.PositionOverhead, entities.PositionMixed)
	conditions     = set(entities.ConditionIndoor, entities.ConditionOutdoor, entities.ConditionHeight, entities.ConditionTightSpace)
	materialOwners = set(entities.MaterialOwnerClient, entities.MaterialOwnerContractor)
	deadlines      = set(entities.DeadlineNormal, entities.DeadlineUrgent, entities.DeadlineNight)
	extras         = set(entities.ExtraVisualInspection, entities.ExtraUltrasonicTest, entities.ExtraPressureTest, entities.ExtraSoapTest, entities.ExtraDocumentation)
)

// ToJobSpec normalizes the payload into a JobSpec.
func (r JobRequest) ToJobSpec() entities.JobSpec {
	return entities.JobSpec{
		WorkType:      pick(r.WorkType, workTypes, entities.WorkTypeWelding),
		WorkScope:     pick(r.WorkScope, workScopes, entities.WorkScopePreCut),
		Material:      pick(r.Material, materials, entities.MaterialSteel),
		Thickness:     pick(r.Thickness, thicknesses, entities.ThicknessUnknown),
		WeldType:      pick(r.WeldType, weldTypes, entities.WeldTypeButt),
		Position:      pick(r.Position, positions, entities.PositionFlat),
		Conditions:    pickAll(r.Conditions, conditions),
		MaterialOwner: pick(r.MaterialOwner, materialOwners, entities.MaterialOwnerClient),
		Deadline:      pick(r.Deadline, deadlines, entities.DeadlineNormal),
		ExtraServices: pickAll(r.ExtraServices, extras),
		VolumeText:    strings.TrimSpace(r.VolumeText),
		FreeText:      strings.TrimSpace(r.FreeText),
		Attachments:   attachments(r.Attachments),
	}
}

func (r StatusRequest) ResolveStatus() entities.QuoteStatus {
	return entities.QuoteStatus(normalize(r.Status))
}

func set[T ~string](values ...T) map[T]struct{} {
	out := make(map[T]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

func normalize(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	if alias, ok := aliases[v]; ok {
		return alias
	}
	return v
}

func pick[T ~string](raw string, allowed map[T]struct{}, def T) T {
	v := T(normalize(raw))
	if _, ok := allowed[v]; ok {
		return v
	}
	return def
}

// pickAll keeps known values once each, in request order.
func pickAll[T ~string](raw []string, allowed map[T]struct{}) []T {
	out := make([]T, 0, len(raw))
	seen := make(map[T]bool, len(raw))
	for _, r := range raw {
		v := T(normalize(r))
		if _, ok := allowed[v]; !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func attachments(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, a := range raw {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
