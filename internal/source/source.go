package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/script2edl/internal/director"
)

// Source yields the narration of one script
type Source interface {
	Name() string
	Text() (string, error)
	Close() error
}

// IsEditMap reports whether path holds an exported edit map or a structured
// script that should go through director.Import instead of a Source.
func IsEditMap(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Open picks a Source for path by extension
func Open(path string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return NewFitzPDFSource(path)
	case ".txt", ".md", "":
		return NewTextSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported script type %q: %s", ext, path)
	}
}

// Load opens path and returns an edit map: structured files are imported,
// everything else is read as narration and analyzed with d.
func Load(d *director.Director, path string, req director.Request) (*director.EditMap, error) {
	if IsEditMap(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return d.Import(data)
	}

	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	text, err := src.Text()
	if err != nil {
		return nil, err
	}
	req.Text = text
	return d.Analyze(req), nil
}

// TextSource reads a plain text or markdown script
type TextSource struct {
	path string
}

func NewTextSource(path string) *TextSource {
	return &TextSource{path: path}
}

func (s *TextSource) Name() string {
	return baseName(s.path)
}

func (s *TextSource) Text() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func (s *TextSource) Close() error {
	return nil
}

// FitzPDFSource extracts narration from a PDF script, one paragraph per page
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) Name() string {
	return baseName(f.path)
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

// Text joins page texts with blank lines. Empty pages are skipped.
func (f *FitzPDFSource) Text() (string, error) {
	var pages []string
	for i := 0; i < f.doc.NumPage(); i++ {
		text, err := f.doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
