package director

import (
	"fmt"

	"github.com/ivlev/script2edl/internal/analyzer"
	"github.com/ivlev/script2edl/internal/segmenter"
)

// Request is the input to one analysis.
type Request struct {
	Text           string
	Format         string
	TargetDuration int // seconds, 0 uses the format's nominal length
	TargetSegments int // 0 derives from the duration
}

// Director turns narration into an edit map
type Director struct {
	Classifier     analyzer.Classifier
	WordsPerMinute int
}

// NewDirector creates a Director with the keyword classifier and the default
// narration rate
func NewDirector() *Director {
	return &Director{
		Classifier:     analyzer.NewKeywordClassifier(),
		WordsPerMinute: segmenter.DefaultWordsPerMinute,
	}
}

// Analyze runs the full pipeline: segmentation, classification, decision
// assignment and assembly. The same request always yields the same map.
func (d *Director) Analyze(req Request) *EditMap {
	format := req.Format
	if format == "" {
		format = FormatShort
	}
	duration := req.TargetDuration
	if duration <= 0 {
		duration = DurationFor(format)
	}

	segs := segmenter.Split(req.Text, segmenter.Options{
		TargetDuration: duration,
		TargetSegments: req.TargetSegments,
		WordsPerMinute: d.WordsPerMinute,
	})
	return d.Assemble(format, segs)
}

// Assemble decides every segment and wraps them in an EditMap. Order is
// preserved and ids are reassigned 1..n.
func (d *Director) Assemble(format string, segs []segmenter.Segment) *EditMap {
	return NewEditMap(format, Assign(segs, d.classifier()))
}

func (d *Director) classifier() analyzer.Classifier {
	if d.Classifier == nil {
		return analyzer.NewKeywordClassifier()
	}
	return d.Classifier
}

// Analyze runs req through a default Director.
func Analyze(req Request) *EditMap {
	return NewDirector().Analyze(req)
}

// Retime spreads an already decided map over a new total duration by word
// count. Decisions are copied untouched; em itself is not modified.
func Retime(em *EditMap, duration int) (*EditMap, error) {
	if em == nil || len(em.Segments) == 0 {
		return nil, fmt.Errorf("edit map has no segments")
	}
	if duration < len(em.Segments) {
		return nil, fmt.Errorf("duration %ds too short for %d segments", duration, len(em.Segments))
	}

	texts := make([]string, len(em.Segments))
	for i, s := range em.Segments {
		texts[i] = s.Text
	}
	timed := segmenter.Allocate(texts, duration)

	out := &EditMap{Format: em.Format, Segments: make([]Segment, len(em.Segments))}
	for i, s := range em.Segments {
		s.Keywords = append([]string{}, s.Keywords...)
		s.ID = i + 1
		s.Start, s.End = timed[i].Start, timed[i].End
		out.Segments[i] = s
	}
	out.finalize()
	return out, nil
}
