package effects

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/renderer"
)

const PlanVersion = "1.0"

// Plan is the per-segment camera script handed to the renderer
type Plan struct {
	Version string `yaml:"version"`
	Format  string `yaml:"format"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	FPS     int    `yaml:"fps"`
	Shots   []Shot `yaml:"shots"`
}

// Shot is one segment's motion with its keyframes and ready-made filter
type Shot struct {
	SegmentID    int                 `yaml:"segment"`
	Start        int                 `yaml:"start"`
	End          int                 `yaml:"end"`
	Motion       director.MotionType `yaml:"motion"`
	Broll        string              `yaml:"broll"`
	SFX          string              `yaml:"sfx"`
	OnScreenText string              `yaml:"onScreenText,omitempty"`
	Keyframes    []renderer.Keyframe `yaml:"keyframes"`
	Filter       string              `yaml:"filter"`
}

// Duration returns End-Start in seconds
func (s Shot) Duration() float64 {
	return float64(s.End - s.Start)
}

// BuildPlan expands every segment's motion into keyframes at the frame size
// and rate given in base. Unknown motion types fall back to a static hold.
func BuildPlan(em *director.EditMap, base config.SegmentParams) *Plan {
	plan := &Plan{
		Version: PlanVersion,
		Format:  em.Format,
		Width:   base.Width,
		Height:  base.Height,
		FPS:     base.FPS,
		Shots:   make([]Shot, 0, len(em.Segments)),
	}

	for i, seg := range em.Segments {
		preset, err := NewPreset(seg.Motion.Type)
		if err != nil {
			preset = presets[director.HoldStatic]
		}

		params := base
		params.Duration = float64(seg.Duration())
		params.SegmentIndex = i

		effect := &MotionEffect{Preset: preset}
		plan.Shots = append(plan.Shots, Shot{
			SegmentID:    seg.ID,
			Start:        seg.Start,
			End:          seg.End,
			Motion:       seg.Motion.Type,
			Broll:        seg.Broll.Query,
			SFX:          fmt.Sprintf("%s (%s)", seg.SFX.Effect, seg.SFX.Intensity),
			OnScreenText: seg.OnScreenText,
			Keyframes:    preset.Keyframes(params.Duration, base.Width, base.Height),
			Filter:       effect.GenerateFilter(params),
		})
	}
	return plan
}

// WritePlan writes a plan to a YAML file
func WritePlan(plan *Plan, path string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadPlan reads a plan from a YAML file
func ReadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	return &plan, nil
}
