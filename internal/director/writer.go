package director

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportVersion is stamped on every exported map.
const ExportVersion = "1.0"

// ErrInvalidFile is returned when imported data is neither an edit map nor a
// script with narration.
var ErrInvalidFile = errors.New("invalid file")

// Stamp returns a copy of em carrying export metadata.
func Stamp(em *EditMap, app string, at time.Time) *EditMap {
	out := *em
	out.Segments = append([]Segment(nil), em.Segments...)
	out.Version = ExportVersion
	out.App = app
	out.ExportedAt = at.UTC().Format(time.RFC3339)
	return &out
}

// Marshal encodes em as "json" (two-space indent) or "yaml".
func Marshal(em *EditMap, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(em, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(em)
	default:
		return nil, fmt.Errorf("unsupported edit map format: %s", format)
	}
}

// WriteEditMap writes em to path, choosing the encoding from the extension
func WriteEditMap(em *EditMap, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	data, err := Marshal(em, format)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadEditMap reads and imports a JSON or YAML file
func ReadEditMap(path string) (*EditMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Import(data)
}

type rawScene struct {
	Narration string `json:"narration" yaml:"narration"`
	StartSec  int    `json:"startSec" yaml:"startSec"`
	EndSec    int    `json:"endSec" yaml:"endSec"`
}

type rawScript struct {
	Raw    string     `json:"raw" yaml:"raw"`
	Scenes []rawScene `json:"scenes" yaml:"scenes"`
}

type rawProject struct {
	Format      string `json:"format" yaml:"format"`
	DurationSec int    `json:"durationSec" yaml:"durationSec"`
}

type importDoc struct {
	EditMap `yaml:",inline"`
	Scenes  []rawScene  `json:"scenes" yaml:"scenes"`
	Script  *rawScript  `json:"script" yaml:"script"`
	Project *rawProject `json:"project" yaml:"project"`
}

// Import reads an exported edit map or a raw script through a default
// Director.
func Import(data []byte) (*EditMap, error) {
	return NewDirector().Import(data)
}

// Import accepts JSON or YAML. A map whose segments carry decisions is
// trusted as-is. A script with scene narration (top-level or under "script")
// or bare segment texts is analyzed again. Everything else is
// ErrInvalidFile.
func (d *Director) Import(data []byte) (*EditMap, error) {
	var doc importDoc
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFile)
	}

	var err error
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &doc)
	} else {
		err = yaml.Unmarshal(trimmed, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if hasDecisions(doc.Segments) {
		em := doc.EditMap
		for i := range em.Segments {
			if em.Segments[i].Keywords == nil {
				em.Segments[i].Keywords = []string{}
			}
		}
		em.finalize()
		return &em, nil
	}

	narration, lastEnd := doc.narration()
	if strings.TrimSpace(narration) == "" {
		return nil, fmt.Errorf("%w: no segments or narration found", ErrInvalidFile)
	}

	req := Request{Text: narration, Format: doc.Format}
	if doc.Project != nil {
		if req.Format == "" {
			req.Format = doc.Project.Format
		}
		req.TargetDuration = doc.Project.DurationSec
	}
	if req.TargetDuration <= 0 {
		req.TargetDuration = lastEnd
	}
	return d.Analyze(req), nil
}

func hasDecisions(segs []Segment) bool {
	if len(segs) == 0 {
		return false
	}
	for _, s := range segs {
		if s.Motion.Type == "" {
			return false
		}
	}
	return true
}

// narration joins scene narrations as paragraphs and reports the last scene
// end, if any.
func (doc *importDoc) narration() (string, int) {
	scenes := doc.Scenes
	raw := ""
	if doc.Script != nil {
		if len(scenes) == 0 {
			scenes = doc.Script.Scenes
		}
		raw = doc.Script.Raw
	}

	var parts []string
	lastEnd := 0
	for _, s := range scenes {
		if t := strings.TrimSpace(s.Narration); t != "" {
			parts = append(parts, t)
		}
		if s.EndSec > lastEnd {
			lastEnd = s.EndSec
		}
	}
	if len(parts) == 0 {
		for _, s := range doc.Segments {
			if t := strings.TrimSpace(s.Text); t != "" {
				parts = append(parts, t)
			}
			if s.End > lastEnd {
				lastEnd = s.End
			}
		}
	}
	if len(parts) == 0 {
		return raw, 0
	}
	return strings.Join(parts, "\n\n"), lastEnd
}
