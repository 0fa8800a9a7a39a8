package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/timecode"
)

// ReportExporter writes the plain-text editor report: every segment, then
// the b-roll shopping list and the distinct sound effects and motions
type ReportExporter struct {
	opts Options
}

func (e *ReportExporter) Export(w io.Writer, em *director.EditMap) error {
	hr := strings.Repeat("=", 55)
	hr2 := strings.Repeat("-", 40)
	title := e.opts.Title
	if title == "" {
		title = "(sin titulo)"
	}

	bw := bufio.NewWriter(w)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	line("%s", hr)
	line("%s - REPORTE DE EDICION", strings.ToUpper(e.opts.App))
	line("%s", hr)
	line("")
	line("Proyecto: %s", title)
	line("Formato: %s", em.Format)
	line("Duracion: %ds", em.TotalDuration)
	line("Segmentos: %d", em.SegmentCount)
	line("Exportado: %s", e.opts.now().Format("2006-01-02 15:04"))
	line("")

	line("%s", hr2)
	line("SEGMENTOS")
	line("%s", hr2)
	for _, s := range em.Segments {
		line("")
		line("--- SEGMENTO %d [%s - %s] %s ---", s.ID, timecode.Format(s.Start), timecode.Format(s.End), s.Category)
		line("  VOZ: %s", s.Text)
		if s.OnScreenText != "" {
			line("  TEXTO: %s", s.OnScreenText)
		}
		line("  MOTION: %s (%s)", s.Motion.Label, s.Motion.Reason)
		line("  B-ROLL: %s", orDash(s.Broll.Query))
		line("  SFX: %s (%s)", orDash(s.SFX.Effect), s.SFX.Intensity)
		if s.Notes != "" {
			line("  NOTA: %s", s.Notes)
		}
	}

	line("")
	line("%s", hr2)
	line("B-ROLL A BUSCAR:")
	for i, s := range em.Segments {
		if s.Broll.Query != "" {
			line("  %d. [%s] %s", i+1, timecode.Format(s.Start), s.Broll.Query)
		}
	}

	line("")
	line("SFX NECESARIOS:")
	for i, sfx := range distinct(em.Segments, func(s director.Segment) string { return s.SFX.Effect }) {
		line("  %d. %s", i+1, sfx)
	}

	line("")
	line("MOTIONS USADOS:")
	for i, m := range distinct(em.Segments, func(s director.Segment) string { return string(s.Motion.Type) }) {
		line("  %d. %s", i+1, m)
	}

	line("")
	line("%s", hr)
	line("Generado por %s", e.opts.App)
	line("%s", hr)
	return bw.Flush()
}

func (e *ReportExporter) Extension() string   { return "txt" }
func (e *ReportExporter) ContentType() string { return "text/plain; charset=utf-8" }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// distinct keeps the first occurrence of every non-empty key, in order
func distinct(segs []director.Segment, key func(director.Segment) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range segs {
		k := key(s)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
