package director

import "github.com/ivlev/script2edl/internal/analyzer"

// MotionType names a camera treatment understood by the renderer.
type MotionType string

const (
	SlowZoomIn   MotionType = "slow_zoom_in"
	SlowZoomOut  MotionType = "slow_zoom_out"
	PushInFast   MotionType = "push_in_fast"
	PanLeftSoft  MotionType = "pan_left_soft"
	PanRightSoft MotionType = "pan_right_soft"
	MicroShake   MotionType = "micro_shake"
	WhipPanSoft  MotionType = "whip_pan_soft"
	HoldStatic   MotionType = "hold_static"
	ParallaxSoft MotionType = "parallax_soft"
)

const (
	HookMotion    = SlowZoomIn
	ClosingMotion = SlowZoomOut
)

// Intensity of a sound-effect cue.
type Intensity string

const (
	IntensitySubtle Intensity = "sutil"
	IntensityMid    Intensity = "medio"
	IntensityStrong Intensity = "fuerte"
)

const BrollStock = "stock"

// Editor notes for the positional beats.
const (
	NoteHook    = "Hook: maximizar atencion en los primeros 3 segundos"
	NoteClosing = "Cierre: dar espacio para CTA y transicion suave"
	NoteClimax  = "Climax: subir ritmo, corte a b-roll de impacto"
)

var motionCatalog = map[MotionType]Motion{
	SlowZoomIn:   {Type: SlowZoomIn, Label: "Slow Zoom In", Reason: "Acercamiento para revelar informacion clave"},
	SlowZoomOut:  {Type: SlowZoomOut, Label: "Slow Zoom Out", Reason: "Alejamiento para cerrar el bloque"},
	PushInFast:   {Type: PushInFast, Label: "Push In Fast", Reason: "Enfatiza el momento de impacto"},
	PanLeftSoft:  {Type: PanLeftSoft, Label: "Pan Left Soft", Reason: "Movimiento suave para narracion calma"},
	PanRightSoft: {Type: PanRightSoft, Label: "Pan Right Soft", Reason: "Paneo que acompaña el avance narrativo"},
	MicroShake:   {Type: MicroShake, Label: "Micro Shake", Reason: "Genera tension visual"},
	WhipPanSoft:  {Type: WhipPanSoft, Label: "Whip Pan Soft", Reason: "Transicion energetica"},
	HoldStatic:   {Type: HoldStatic, Label: "Hold Static", Reason: "Sin movimiento, enfasis en el contenido textual"},
	ParallaxSoft: {Type: ParallaxSoft, Label: "Parallax Soft", Reason: "Profundidad simulada con capas"},
}

// MotionFor returns the catalog entry for t. Unknown types fall back to the
// hook motion.
func MotionFor(t MotionType) Motion {
	if m, ok := motionCatalog[t]; ok {
		return m
	}
	return motionCatalog[HookMotion]
}

// KnownMotion reports whether t is in the catalog.
func KnownMotion(t MotionType) bool {
	_, ok := motionCatalog[t]
	return ok
}

type decisionRow struct {
	Motion MotionType
	Broll  string
	SFX    SFX
	Note   string
}

// decisionTable is keyed by the closed category set; CategoryDefault is the
// mandatory fallback row.
var decisionTable = map[analyzer.Category]decisionRow{
	analyzer.CategoryImpact: {
		Motion: PushInFast,
		Broll:  "dramatic impact slow motion dark cinematic",
		SFX:    SFX{Effect: "boom cinematografico", Intensity: IntensityStrong},
		Note:   "Momento de impacto, considerar corte rapido",
	},
	analyzer.CategoryTension: {
		Motion: MicroShake,
		Broll:  "dramatic tension dark shadows cinematic 4K",
		SFX:    SFX{Effect: "riser tension", Intensity: IntensityMid},
		Note:   "Tension narrativa, mantener ritmo sostenido",
	},
	analyzer.CategoryReveal: {
		Motion: SlowZoomIn,
		Broll:  "revealing light through darkness cinematic",
		SFX:    SFX{Effect: "whoosh suave", Intensity: IntensitySubtle},
		Note:   "Dato clave, pausa breve antes para generar expectativa",
	},
	analyzer.CategoryCalm: {
		Motion: PanLeftSoft,
		Broll:  "calm nature landscape soft light peaceful",
		SFX:    SFX{Effect: "ambiente oscuro", Intensity: IntensitySubtle},
		Note:   "Respirar, dejar que la imagen hable",
	},
	analyzer.CategoryEnergy: {
		Motion: WhipPanSoft,
		Broll:  "fast motion energy particles dynamic light",
		SFX:    SFX{Effect: "impact bajo", Intensity: IntensityMid},
		Note:   "Secuencia energetica, cortes rapidos",
	},
	analyzer.CategoryClosing: {
		Motion: SlowZoomOut,
		Broll:  "sunset horizon hopeful cinematic wide shot",
		SFX:    SFX{Effect: "reverse cymbal", Intensity: IntensityMid},
	},
	analyzer.CategoryDefault: {
		Motion: SlowZoomIn,
		Broll:  "atmospheric dark cinematic b-roll footage",
		SFX:    SFX{Effect: "transicion swoosh", Intensity: IntensitySubtle},
	},
}

// substitutionOrder is the motion column of decisionTable in category
// declaration order, default last.
var substitutionOrder = func() []MotionType {
	order := make([]MotionType, 0, len(analyzer.Categories)+1)
	for _, c := range analyzer.Categories {
		order = append(order, decisionTable[c].Motion)
	}
	return append(order, decisionTable[analyzer.CategoryDefault].Motion)
}()

func rowFor(c analyzer.Category) decisionRow {
	if row, ok := decisionTable[c]; ok {
		return row
	}
	return decisionTable[analyzer.CategoryDefault]
}
