package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/timecode"
)

var csvHeader = []string{
	"id", "start", "end", "voiceover", "on_screen_text", "motion",
	"broll_query", "sfx", "sfx_intensity", "category", "notes",
}

// CSVExporter writes one row per segment, times as M:SS
type CSVExporter struct{}

func (e *CSVExporter) Export(w io.Writer, em *director.EditMap) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range em.Segments {
		row := []string{
			strconv.Itoa(s.ID),
			timecode.Format(s.Start),
			timecode.Format(s.End),
			s.Text,
			s.OnScreenText,
			string(s.Motion.Type),
			s.Broll.Query,
			s.SFX.Effect,
			string(s.SFX.Intensity),
			string(s.Category),
			s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (e *CSVExporter) Extension() string   { return "csv" }
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
