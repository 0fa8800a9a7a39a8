package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/script2edl/internal/director"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"Text", "guion.txt", false},
		{"Markdown", "guion.md", false},
		{"Unsupported", "guion.docx", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, "Hola mundo.")
			src, err := Open(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%s) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
			if src != nil {
				defer src.Close()
				if src.Name() != "guion" {
					t.Errorf("Name() = %q, want guion", src.Name())
				}
			}
		})
	}
}

func TestOpenMissingPDF(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for a missing PDF")
	}
}

func TestTextSourceNormalizesLineEndings(t *testing.T) {
	path := writeFile(t, t.TempDir(), "win.txt", "Uno.\r\n\r\nDos.")
	text, err := NewTextSource(path).Text()
	if err != nil {
		t.Fatal(err)
	}
	if text != "Uno.\n\nDos." {
		t.Errorf("Text() = %q", text)
	}
}

func TestIsEditMap(t *testing.T) {
	for path, want := range map[string]bool{
		"a.json": true, "a.YAML": true, "a.yml": true,
		"a.txt": false, "a.pdf": false, "a": false,
	} {
		if got := IsEditMap(path); got != want {
			t.Errorf("IsEditMap(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	d := director.NewDirector()

	t.Run("Text", func(t *testing.T) {
		path := writeFile(t, dir, "guion.txt", "0:00 - 0:05 Hola mundo.\n0:05 - 0:12 Esto es una prueba.\n0:12 - 0:15 Adios.")
		em, err := Load(d, path, director.Request{Format: director.FormatShort})
		if err != nil {
			t.Fatal(err)
		}
		if em.SegmentCount != 3 || em.TotalDuration != 15 {
			t.Errorf("got %d segments / %ds, want 3 / 15s", em.SegmentCount, em.TotalDuration)
		}
	})

	t.Run("ExportedMap", func(t *testing.T) {
		orig := director.Analyze(director.Request{Text: "Uno dos.\n\nTres cuatro.\n\nCinco seis."})
		path := filepath.Join(dir, "map.json")
		if err := director.WriteEditMap(orig, path); err != nil {
			t.Fatal(err)
		}
		em, err := Load(d, path, director.Request{})
		if err != nil {
			t.Fatal(err)
		}
		if em.SegmentCount != orig.SegmentCount {
			t.Errorf("imported %d segments, want %d", em.SegmentCount, orig.SegmentCount)
		}
	})

	t.Run("InvalidMap", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", "{not json")
		if _, err := Load(d, path, director.Request{}); !errors.Is(err, director.ErrInvalidFile) {
			t.Errorf("error = %v, want ErrInvalidFile", err)
		}
	})
}
