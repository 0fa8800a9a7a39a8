package export

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/timecode"
)

// packEntries are the files bundled by PackExporter, in archive order
var packEntries = []struct {
	name   string
	format string
}{
	{"edl.json", "json"},
	{"edl.csv", "csv"},
	{"reporte.txt", "txt"},
	{"subtitles.srt", "srt"},
	{"edl.edl", "edl"},
}

// PackExporter bundles every text export plus a markdown script into a ZIP
type PackExporter struct {
	opts Options
}

func (e *PackExporter) Export(w io.Writer, em *director.EditMap) error {
	zw := zip.NewWriter(w)

	for _, entry := range packEntries {
		data, err := Bytes(entry.format, em, e.opts)
		if err != nil {
			return err
		}
		if err := addFile(zw, entry.name, data); err != nil {
			return err
		}
	}
	if err := addFile(zw, "script.md", []byte(scriptMarkdown(e.opts.Title, em))); err != nil {
		return err
	}

	return zw.Close()
}

func (e *PackExporter) Extension() string   { return "zip" }
func (e *PackExporter) ContentType() string { return "application/zip" }

func addFile(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("zip %s: %w", name, err)
	}
	_, err = f.Write(data)
	return err
}

func scriptMarkdown(title string, em *director.EditMap) string {
	if title == "" {
		title = "Guion"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, s := range em.Segments {
		fmt.Fprintf(&b, "**[%s]** %s\n\n", timecode.Format(s.Start), s.Text)
	}
	return b.String()
}
