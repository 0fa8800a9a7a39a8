package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/script2edl/internal/director"
)

const reelNameLength = 8

// CMXExporter writes a CMX 3600 edit decision list. Every segment becomes a
// video cut on its own b-roll reel, with the decisions as comments.
type CMXExporter struct {
	opts Options
}

func (e *CMXExporter) Export(w io.Writer, em *director.EditMap) error {
	title := e.opts.Title
	if title == "" {
		title = strings.ToUpper(e.opts.App)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE: %s\n", title)
	fmt.Fprintf(bw, "FCM: NON-DROP FRAME\n\n")

	for i, s := range em.Segments {
		reel := reelName(fmt.Sprintf("BR%03d", s.ID))
		in, out := cmxTimecode(s.Start), cmxTimecode(s.End)
		fmt.Fprintf(bw, "%03d  %-8s V     C        %s %s %s %s\n", i+1, reel, in, out, in, out)
		fmt.Fprintf(bw, "* FROM CLIP NAME: %s\n", oneLine(s.Broll.Query))
		fmt.Fprintf(bw, "* MOTION: %s\n", s.Motion.Type)
		fmt.Fprintf(bw, "* SFX: %s (%s)\n", oneLine(s.SFX.Effect), s.SFX.Intensity)
		if s.OnScreenText != "" {
			fmt.Fprintf(bw, "* TEXT: %s\n", oneLine(s.OnScreenText))
		}
		if s.Notes != "" {
			fmt.Fprintf(bw, "* NOTE: %s\n", oneLine(s.Notes))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func (e *CMXExporter) Extension() string   { return "edl" }
func (e *CMXExporter) ContentType() string { return "text/plain; charset=utf-8" }

// cmxTimecode formats whole seconds as HH:MM:SS:FF. Segment bounds are
// whole seconds, so the frame field is always 00.
func cmxTimecode(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d:00", sec/3600, sec%3600/60, sec%60)
}

// reelName keeps reel names alphanumeric and at most eight characters
func reelName(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
	if len(name) > reelNameLength {
		name = name[:reelNameLength]
	}
	if name == "" {
		name = "AX"
	}
	return name
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
