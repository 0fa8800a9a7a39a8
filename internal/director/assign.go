package director

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ivlev/script2edl/internal/analyzer"
	"github.com/ivlev/script2edl/internal/segmenter"
)

const (
	hookWords = 6
	keyWords  = 4
)

// climaxIndex is floor(0.7*n), or -1 when the script is too short to have
// one apart from its first and last segment.
func climaxIndex(n int) int {
	if n <= 2 {
		return -1
	}
	return 7 * n / 10
}

// Assign classifies every segment and attaches motion, b-roll, sound and
// notes. Positional rules win over the category table in this order: first
// segment, last segment, climax, everything else.
func Assign(segs []segmenter.Segment, classifier analyzer.Classifier) []Segment {
	n := len(segs)
	out := make([]Segment, n)
	climax := climaxIndex(n)

	for i, s := range segs {
		res := classifier.Classify(s.Text)
		if !res.Category.Valid() {
			res.Category = analyzer.CategoryDefault
		}
		row := rowFor(res.Category)

		seg := Segment{
			ID:           s.ID,
			Start:        s.Start,
			End:          s.End,
			Text:         s.Text,
			Keywords:     res.Keywords,
			Category:     res.Category,
			OnScreenText: onScreenText(s.Text, i, n),
		}
		if seg.Keywords == nil {
			seg.Keywords = []string{}
		}

		switch {
		case i == 0:
			hook := rowFor(analyzer.CategoryReveal)
			seg.Category = analyzer.CategoryReveal
			seg.Motion = MotionFor(HookMotion)
			seg.Broll = Broll{Query: hook.Broll, Kind: BrollStock}
			seg.SFX = hook.SFX
			seg.Notes = NoteHook

		case i == n-1:
			closing := rowFor(analyzer.CategoryClosing)
			seg.Category = analyzer.CategoryClosing
			seg.Motion = MotionFor(ClosingMotion)
			seg.Broll = Broll{Query: closing.Broll, Kind: BrollStock}
			seg.SFX = closing.SFX
			seg.Notes = NoteClosing

		case i == climax:
			motion := PushInFast
			if out[i-1].Motion.Type == PushInFast {
				motion = MicroShake
			}
			seg.Motion = MotionFor(motion)
			seg.Broll = Broll{Query: rowFor(analyzer.CategoryImpact).Broll, Kind: BrollStock}
			seg.SFX = SFX{Effect: row.SFX.Effect, Intensity: IntensityStrong}
			seg.Notes = NoteClimax

		default:
			motion := row.Motion
			if i > 0 && motion == out[i-1].Motion.Type {
				motion = alternateMotion(motion)
			}
			seg.Motion = MotionFor(motion)
			seg.Broll = Broll{Query: row.Broll, Kind: BrollStock}
			seg.SFX = row.SFX
			seg.Notes = row.Note
		}

		out[i] = seg
	}
	return out
}

// Complete fills the decisions seg lacks from its category row: motion,
// b-roll and sound cue. Decisions already present are kept.
func Complete(seg Segment) Segment {
	if !seg.Category.Valid() {
		seg.Category = analyzer.CategoryDefault
	}
	row := rowFor(seg.Category)

	if seg.Motion.Type == "" {
		seg.Motion = MotionFor(row.Motion)
	}
	if seg.Broll.Query == "" {
		seg.Broll.Query = row.Broll
	}
	seg.Broll.Kind = BrollStock
	if seg.SFX.Effect == "" {
		seg.SFX.Effect = row.SFX.Effect
	}
	switch seg.SFX.Intensity {
	case IntensitySubtle, IntensityMid, IntensityStrong:
	default:
		seg.SFX.Intensity = row.SFX.Intensity
	}
	if seg.Keywords == nil {
		seg.Keywords = []string{}
	}
	return seg
}

// alternateMotion returns the first motion in table order that differs from
// prev. Static holds are never chosen as a substitute.
func alternateMotion(prev MotionType) MotionType {
	for _, m := range substitutionOrder {
		if m != prev && m != HoldStatic {
			return m
		}
	}
	return prev
}

// onScreenText is the hook caption for the first segment and a short key
// phrase around the middle and the climax.
func onScreenText(text string, i, n int) string {
	words := strings.Fields(text)
	switch {
	case i == 0:
		return strings.ToUpper(joinFirst(words, hookWords))
	case i == n/2 || i == 7*n/10:
		return sentenceCase(joinFirst(words, keyWords))
	}
	return ""
}

func joinFirst(words []string, k int) string {
	if len(words) > k {
		words = words[:k]
	}
	return strings.Join(words, " ")
}

func sentenceCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
