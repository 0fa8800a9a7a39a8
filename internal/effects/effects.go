package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/renderer"
	"github.com/ivlev/script2edl/internal/system"
)

// Effect produces the ffmpeg filter chain for one segment
type Effect interface {
	GenerateFilter(params config.SegmentParams) string
}

// MotionEffect renders every segment with one preset
type MotionEffect struct {
	Preset Preset
}

func (e *MotionEffect) GenerateFilter(p config.SegmentParams) string {
	kfs := e.Preset.Keyframes(p.Duration, p.Width, p.Height)
	return buildFilter(kfs, p)
}

// PlanEffect replays the keyframes stored in a render plan
type PlanEffect struct {
	Plan *Plan
}

// NewPlanEffect creates a new PlanEffect
func NewPlanEffect(plan *Plan) *PlanEffect {
	return &PlanEffect{Plan: plan}
}

// GenerateFilter builds the filter for shot p.SegmentIndex, stretching its
// keyframes to p.Duration
func (e *PlanEffect) GenerateFilter(p config.SegmentParams) string {
	if e.Plan == nil || p.SegmentIndex >= len(e.Plan.Shots) {
		// Shot not found, hold a static frame
		return fmt.Sprintf("%s,scale=%d:%d", aspectFilter(p), p.Width, p.Height)
	}

	shot := e.Plan.Shots[p.SegmentIndex]
	timeScale := 1.0
	if d := shot.Duration(); d > 0 {
		timeScale = p.Duration / d
	}

	scaled := make([]renderer.Keyframe, len(shot.Keyframes))
	for i, kf := range shot.Keyframes {
		scaled[i] = kf
		scaled[i].Time *= timeScale
	}
	return buildFilter(scaled, p)
}

func aspectFilter(p config.SegmentParams) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		p.Width, p.Height, p.Width, p.Height,
	)
}

func buildFilter(kfs []renderer.Keyframe, p config.SegmentParams) string {
	parts := []string{aspectFilter(p)}
	if zoom := renderer.GenerateZoomPanFilter(kfs, p.Duration, p.FPS, p.Width, p.Height); zoom != "" {
		parts = append(parts, zoom)
	}
	if fade := renderer.GenerateFadeFilter(p.Duration, p.FadeDuration); fade != "" {
		parts = append(parts, fade)
	}
	if p.Debug && system.CheckFilterSupport("drawtext") {
		parts = append(parts, fmt.Sprintf(
			"drawtext=text='Segment %d | Zoom %%{zoom}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5",
			p.SegmentIndex+1))
	}
	parts = append(parts, fmt.Sprintf("scale=%d:%d", p.Width, p.Height))
	return strings.Join(parts, ",")
}
