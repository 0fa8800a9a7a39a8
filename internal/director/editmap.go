package director

import "github.com/ivlev/script2edl/internal/analyzer"

// Motion is a camera treatment with its human-readable rationale.
type Motion struct {
	Type   MotionType `json:"type" yaml:"type"`
	Label  string     `json:"label" yaml:"label"`
	Reason string     `json:"reason" yaml:"reason"`
}

// Broll is a stock-footage search cue.
type Broll struct {
	Query string `json:"query" yaml:"query"`
	Kind  string `json:"kind" yaml:"kind"`
}

// SFX is a sound-effect cue.
type SFX struct {
	Effect    string    `json:"effect" yaml:"effect"`
	Intensity Intensity `json:"intensity" yaml:"intensity"`
}

// Segment is one timed span of narration with every editorial decision
// attached.
type Segment struct {
	ID           int               `json:"id" yaml:"id"`
	Start        int               `json:"start" yaml:"start"`
	End          int               `json:"end" yaml:"end"`
	Text         string            `json:"text" yaml:"text"`
	Keywords     []string          `json:"keywords" yaml:"keywords"`
	Category     analyzer.Category `json:"category" yaml:"category"`
	Motion       Motion            `json:"motion" yaml:"motion"`
	Broll        Broll             `json:"broll" yaml:"broll"`
	SFX          SFX               `json:"sfx" yaml:"sfx"`
	OnScreenText string            `json:"onScreenText" yaml:"onScreenText"`
	Notes        string            `json:"notes" yaml:"notes"`
}

// Duration returns End-Start in seconds.
func (s Segment) Duration() int {
	return s.End - s.Start
}

// EditMap is the ordered edit decision list for one script. Version, App and
// ExportedAt are only set on exported documents.
type EditMap struct {
	Version       string    `json:"version,omitempty" yaml:"version,omitempty"`
	App           string    `json:"app,omitempty" yaml:"app,omitempty"`
	ExportedAt    string    `json:"exportedAt,omitempty" yaml:"exportedAt,omitempty"`
	Format        string    `json:"format" yaml:"format"`
	SegmentCount  int       `json:"segmentCount" yaml:"segmentCount"`
	TotalDuration int       `json:"totalDuration" yaml:"totalDuration"`
	Segments      []Segment `json:"segments" yaml:"segments"`
}

// Format names a target video length.
const (
	FormatShort = "short"
	FormatLong  = "long"
	FormatReels = "reels"
)

var formatDurations = map[string]int{
	FormatShort: 60,
	FormatLong:  180,
	FormatReels: 30,
}

// DurationFor returns the nominal length in seconds of a format. Unknown
// formats are treated as short.
func DurationFor(format string) int {
	if d, ok := formatDurations[format]; ok {
		return d
	}
	return formatDurations[FormatShort]
}

// KnownFormat reports whether format has a nominal duration.
func KnownFormat(format string) bool {
	_, ok := formatDurations[format]
	return ok
}

// finalize recomputes the derived header fields from Segments.
func (em *EditMap) finalize() {
	em.SegmentCount = len(em.Segments)
	em.TotalDuration = 0
	if n := len(em.Segments); n > 0 {
		em.TotalDuration = em.Segments[n-1].End
	}
}

// NewEditMap wraps already decided segments, renumbering ids 1..n.
func NewEditMap(format string, segs []Segment) *EditMap {
	em := &EditMap{Format: format, Segments: segs}
	for i := range em.Segments {
		em.Segments[i].ID = i + 1
	}
	em.finalize()
	return em
}
