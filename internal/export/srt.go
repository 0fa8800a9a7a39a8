package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/script2edl/internal/director"
)

// SRTExporter writes the narration as SubRip subtitles, one cue per segment
type SRTExporter struct{}

func (e *SRTExporter) Export(w io.Writer, em *director.EditMap) error {
	for i, s := range em.Segments {
		text := strings.Join(strings.Fields(s.Text), " ")
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(s.Start), srtTime(s.End), text); err != nil {
			return err
		}
	}
	return nil
}

func (e *SRTExporter) Extension() string   { return "srt" }
func (e *SRTExporter) ContentType() string { return "application/x-subrip" }

// srtTime formats whole seconds as HH:MM:SS,000
func srtTime(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d,000", sec/3600, sec%3600/60, sec%60)
}
