package segmenter

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var blankLine = regexp.MustCompile(`\n\s*\n`)

// Proportional cuts text into paragraph chunks and allocates
// opts.TargetDuration across them by word count. The last segment always
// ends exactly at TargetDuration.
func Proportional(text string, opts Options) []Segment {
	duration := opts.TargetDuration
	if duration <= 0 {
		return nil
	}

	chunks := splitChunks(text)
	if len(chunks) == 0 {
		return nil
	}

	chunks = mergeChunks(chunks, opts.TargetSegments, duration)

	return Allocate(chunks, duration)
}

// Allocate times already-cut chunks across duration seconds by word share.
// Each chunk gets at least MinSegmentSeconds provisionally, the total is then
// scaled back to duration and every boundary rounded. It returns nil when
// there are more chunks than seconds.
func Allocate(chunks []string, duration int) []Segment {
	if len(chunks) == 0 || duration <= 0 || len(chunks) > duration {
		return nil
	}

	// Provisional durations by word share
	totalWords := 0
	for _, c := range chunks {
		totalWords += len(strings.Fields(c))
	}

	provisional := make([]int, len(chunks))
	sum := 0
	for i, c := range chunks {
		share := 1.0 / float64(len(chunks))
		if totalWords > 0 {
			share = float64(len(strings.Fields(c))) / float64(totalWords)
		}
		d := int(math.Round(share * float64(duration)))
		if d < MinSegmentSeconds {
			d = MinSegmentSeconds
		}
		provisional[i] = d
		sum += d
	}

	// Normalize to the target, rounding each boundary
	bounds := make([]int, len(chunks)+1)
	factor := float64(duration) / float64(sum)
	acc := 0.0
	for i, d := range provisional {
		acc += float64(d) * factor
		bounds[i+1] = int(math.Round(acc))
	}
	bounds[len(chunks)] = duration
	repairBounds(bounds)

	segs := make([]Segment, len(chunks))
	for i, c := range chunks {
		segs[i] = Segment{Start: bounds[i], End: bounds[i+1], Text: c}
	}
	return renumber(segs)
}

func splitChunks(text string) []string {
	chunks := nonEmpty(blankLine.Split(text, -1))
	if len(chunks) < 2 {
		chunks = nonEmpty(strings.Split(text, "\n"))
	}
	return chunks
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mergeChunks joins the shortest adjacent pair (earliest on ties) until the
// chunk count is no larger than the duration in seconds and, when target is
// positive, within target+2.
func mergeChunks(chunks []string, target, duration int) []string {
	tooMany := func(n int) bool {
		if n > duration {
			return true
		}
		return target > 0 && n > target+2 && n > 2
	}

	for len(chunks) > 1 && tooMany(len(chunks)) {
		minLen, minIdx := -1, 0
		for i := 0; i < len(chunks)-1; i++ {
			l := utf8.RuneCountInString(chunks[i]) + utf8.RuneCountInString(chunks[i+1])
			if minLen < 0 || l < minLen {
				minLen, minIdx = l, i
			}
		}
		chunks[minIdx] = chunks[minIdx] + " " + chunks[minIdx+1]
		chunks = append(chunks[:minIdx+1], chunks[minIdx+2:]...)
	}
	return chunks
}

// repairBounds keeps every interval at least one second wide. It only moves
// boundaries when rounding collapsed one, which needs very skewed chunks.
func repairBounds(b []int) {
	n := len(b) - 1
	for i := 1; i < n; i++ {
		if b[i] <= b[i-1] {
			b[i] = b[i-1] + 1
		}
	}
	for i := n - 1; i >= 1; i-- {
		if b[i] >= b[i+1] {
			b[i] = b[i+1] - 1
		}
	}
}
