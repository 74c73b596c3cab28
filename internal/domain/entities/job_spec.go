package entities

// WorkType is the kind of job requested.
type WorkType string

const (
	WorkTypeWelding  WorkType = "welding"
	WorkTypeCutting  WorkType = "cutting"
	WorkTypeOverlay  WorkType = "overlay"
	WorkTypeGrinding WorkType = "grinding"
	WorkTypeComplex  WorkType = "complex"
)

// WorkScope says where the job starts from, which decides who supplies consumables and metal.
type WorkScope string

const (
	WorkScopeFromScratch WorkScope = "from_scratch"
	WorkScopePreCut      WorkScope = "pre_cut"
	WorkScopeRepair      WorkScope = "repair"
)

type Material string

const (
	MaterialSteel     Material = "steel"
	MaterialStainless Material = "stainless"
	MaterialAluminium Material = "aluminium"
	MaterialCastIron  Material = "cast_iron"
	MaterialCopper    Material = "copper"
	MaterialBrass     Material = "brass"
	MaterialTitanium  Material = "titanium"
)

type Thickness string

const (
	ThicknessLT3     Thickness = "lt_3"
	Thickness3To6    Thickness = "mm_3_6"
	Thickness6To12   Thickness = "mm_6_12"
	ThicknessGT12    Thickness = "gt_12"
	ThicknessUnknown Thickness = "unknown"
)

type WeldType string

const (
	WeldTypeButt   WeldType = "butt"
	WeldTypeCorner WeldType = "corner"
	WeldTypeTee    WeldType = "tee"
	WeldTypeLap    WeldType = "lap"
	WeldTypePipe   WeldType = "pipe"
)

type Position string

const (
	PositionFlat     Position = "flat"
	PositionVertical Position = "vertical"
	PositionOverhead Position = "overhead"
	PositionMixed    Position = "mixed"
)

type Condition string

const (
	ConditionIndoor     Condition = "indoor"
	ConditionOutdoor    Condition = "outdoor"
	ConditionHeight     Condition = "height"
	ConditionTightSpace Condition = "tight_space"
)

// MaterialOwner says who provides the base metal.
type MaterialOwner string

const (
	MaterialOwnerClient     MaterialOwner = "client"
	MaterialOwnerContractor MaterialOwner = "contractor"
)

type Deadline string

const (
	DeadlineNormal Deadline = "normal"
	DeadlineUrgent Deadline = "urgent"
	DeadlineNight  Deadline = "night"
)

type ExtraService string

const (
	ExtraVisualInspection ExtraService = "visual_inspection"
	ExtraUltrasonicTest   ExtraService = "ultrasonic_test"
	ExtraPressureTest     ExtraService = "pressure_test"
	ExtraSoapTest         ExtraService = "soap_test"
	ExtraDocumentation    ExtraService = "documentation"
)

// JobSpec is the input to estimation. It is treated as read-only once built:
// estimators never mutate it and slices are never appended to in place.
type JobSpec struct {
	WorkType      WorkType       `json:"work_type"`
	WorkScope     WorkScope      `json:"work_scope"`
	Material      Material       `json:"material"`
	Thickness     Thickness      `json:"thickness"`
	WeldType      WeldType       `json:"weld_type"`
	Position      Position       `json:"position"`
	Conditions    []Condition    `json:"conditions"`
	MaterialOwner MaterialOwner  `json:"material_owner"`
	Deadline      Deadline       `json:"deadline"`
	ExtraServices []ExtraService `json:"extra_services"`
	VolumeText    string         `json:"volume_text"`
	FreeText      string         `json:"free_text"`
	Attachments   []string       `json:"attachments"`
}
