package segmenter

import (
	"math"
	"regexp"
	"strings"

	"github.com/ivlev/script2edl/internal/timecode"
)

const (
	rangeTime  = `\d{1,2}:\d{2}(?::\d{2})?`
	markerTime = `\d{1,2}:\d{2}(?::\d{2})?(?:\.\d+)?`
)

// "0:00-0:08 text", "[0:00 – 0:08] text", "(0:00—0:08) text"
var rangePattern = regexp.MustCompile(
	`(?m)[\[(]?(` + rangeTime + `)[ \t]*[-–—][ \t]*(` + rangeTime + `)[\])]?[ \t]+(.+)`,
)

// Marker conventions, tried in this order.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\[(` + markerTime + `)\]\s*`),
	regexp.MustCompile(`\((` + markerTime + `)\)\s*`),
	regexp.MustCompile(`(?m)^[ \t]*(` + markerTime + `)[ \t]*[-–—:][ \t]*`),
}

// Extract looks for explicit time annotations. The first convention that
// yields two or more usable matches wins; nil means no usable structure.
func Extract(text string, opts Options) []Segment {
	if segs := extractRanges(text); len(segs) >= 2 {
		return renumber(segs)
	}

	for _, rx := range markerPatterns {
		if segs := extractMarkers(text, rx, opts.wpm()); len(segs) >= 2 {
			return renumber(segs)
		}
	}

	return nil
}

func extractRanges(text string) []Segment {
	var segs []Segment
	for _, m := range rangePattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[3])
		if body == "" {
			continue
		}
		segs = append(segs, Segment{
			Start: timecode.Parse(m[1]),
			End:   timecode.Parse(m[2]),
			Text:  body,
		})
	}
	return segs
}

func extractMarkers(text string, rx *regexp.Regexp, wpm int) []Segment {
	matches := rx.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var segs []Segment
	for i, m := range matches {
		bodyStart := m[1]
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		body := strings.TrimSpace(text[bodyStart:bodyEnd])
		start := timecode.Parse(text[m[2]:m[3]])

		var end int
		if i+1 < len(matches) {
			next := matches[i+1]
			end = timecode.Parse(text[next[2]:next[3]])
		} else {
			end = start + EstimateSeconds(body, wpm)
		}

		if body == "" {
			continue
		}
		segs = append(segs, Segment{Start: start, End: end, Text: body})
	}
	return segs
}

// EstimateSeconds guesses how long text takes to narrate at wpm words per
// minute, never less than MinSegmentSeconds.
func EstimateSeconds(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := len(strings.Fields(text))
	sec := int(math.Round(float64(words) / float64(wpm) * 60))
	if sec < MinSegmentSeconds {
		return MinSegmentSeconds
	}
	return sec
}
