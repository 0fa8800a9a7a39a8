package segmenter

import "strings"

// Segment is a contiguous span of narration before any editorial decision.
type Segment struct {
	ID    int    `json:"id" yaml:"id"`
	Start int    `json:"start" yaml:"start"` // seconds
	End   int    `json:"end" yaml:"end"`     // seconds
	Text  string `json:"text" yaml:"text"`
}

// Duration returns End-Start in seconds.
func (s Segment) Duration() int {
	return s.End - s.Start
}

const (
	DefaultWordsPerMinute = 160
	MinSegmentSeconds     = 3
)

// Options tunes extraction and the proportional fallback.
type Options struct {
	TargetDuration int // seconds, used only by the fallback
	TargetSegments int // <= 0 keeps every paragraph
	WordsPerMinute int // narration rate for the last marker segment
}

func (o Options) wpm() int {
	if o.WordsPerMinute <= 0 {
		return DefaultWordsPerMinute
	}
	return o.WordsPerMinute
}

// Split recovers segments from raw text. Explicit timestamps win; without at
// least two of them the text is cut into paragraphs and timed proportionally.
// Empty input yields nil.
func Split(text string, opts Options) []Segment {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if segs := Extract(text, opts); len(segs) >= 2 {
		return segs
	}

	return Proportional(text, opts)
}

func renumber(segs []Segment) []Segment {
	for i := range segs {
		segs[i].ID = i + 1
	}
	return segs
}
