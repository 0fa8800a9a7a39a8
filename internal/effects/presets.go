package effects

import (
	"fmt"
	"math"

	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/renderer"
)

// Preset turns a motion type into camera keyframes for one shot
type Preset interface {
	Keyframes(duration float64, width, height int) []renderer.Keyframe
}

// Move zooms from ZoomFrom to ZoomTo while sliding the window center by
// Shift times the frame width (negative is leftwards). Ramp is the share of
// the shot the move takes; the rest holds.
type Move struct {
	ZoomFrom float64
	ZoomTo   float64
	Shift    float64
	Ramp     float64
}

func (m Move) Keyframes(duration float64, width, height int) []renderer.Keyframe {
	cy := float64(height) / 2
	startX := float64(width)/2 - m.Shift*float64(width)/2
	endX := float64(width)/2 + m.Shift*float64(width)/2

	ramp := m.Ramp
	if ramp <= 0 || ramp > 1 {
		ramp = 1
	}

	kfs := []renderer.Keyframe{
		{Time: 0, Rect: window(startX, cy, m.ZoomFrom, width, height), Zoom: m.ZoomFrom},
		{Time: duration * ramp, Rect: window(endX, cy, m.ZoomTo, width, height), Zoom: m.ZoomTo},
	}
	if ramp < 1 {
		kfs = append(kfs, renderer.Keyframe{Time: duration, Rect: kfs[1].Rect, Zoom: m.ZoomTo})
	}
	return kfs
}

// Shake jitters the window horizontally around the center at Frequency
// half-cycles per second, decaying linearly to rest over Decay seconds
type Shake struct {
	Zoom      float64
	Amplitude float64 // pixels
	Frequency float64 // hz
	Decay     float64 // seconds
}

func (s Shake) Keyframes(duration float64, width, height int) []renderer.Keyframe {
	cx, cy := float64(width)/2, float64(height)/2
	rest := window(cx, cy, s.Zoom, width, height)

	settle := math.Min(s.Decay, duration)
	step := 1 / (2 * s.Frequency)

	kfs := []renderer.Keyframe{{Time: 0, Rect: rest, Zoom: s.Zoom}}
	sign := 1.0
	for t := step; t < settle; t += step {
		amp := s.Amplitude * (1 - t/settle)
		kfs = append(kfs, renderer.Keyframe{
			Time: t,
			Rect: window(cx+sign*amp, cy, s.Zoom, width, height),
			Zoom: s.Zoom,
		})
		sign = -sign
	}
	kfs = append(kfs, renderer.Keyframe{Time: settle, Rect: rest, Zoom: s.Zoom})
	if settle < duration {
		kfs = append(kfs, renderer.Keyframe{Time: duration, Rect: rest, Zoom: s.Zoom})
	}
	return kfs
}

// window is the source region visible at zoom when centered on (cx, cy)
func window(cx, cy, zoom float64, width, height int) renderer.Rectangle {
	if zoom < 1 {
		zoom = 1
	}
	w := float64(width) / zoom
	h := float64(height) / zoom
	return renderer.Rectangle{
		X: int(math.Round(cx - w/2)),
		Y: int(math.Round(cy - h/2)),
		W: int(math.Round(w)),
		H: int(math.Round(h)),
	}
}

var presets = map[director.MotionType]Preset{
	director.SlowZoomIn:   Move{ZoomFrom: 1.0, ZoomTo: 1.15, Ramp: 1},
	director.SlowZoomOut:  Move{ZoomFrom: 1.15, ZoomTo: 1.0, Ramp: 1},
	director.PushInFast:   Move{ZoomFrom: 1.0, ZoomTo: 1.3, Ramp: 0.3},
	director.PanLeftSoft:  Move{ZoomFrom: 1.1, ZoomTo: 1.1, Shift: -0.05, Ramp: 1},
	director.PanRightSoft: Move{ZoomFrom: 1.1, ZoomTo: 1.1, Shift: 0.05, Ramp: 1},
	director.WhipPanSoft:  Move{ZoomFrom: 1.1, ZoomTo: 1.1, Shift: 0.08, Ramp: 0.15},
	director.HoldStatic:   Move{ZoomFrom: 1.0, ZoomTo: 1.0, Ramp: 1},
	director.ParallaxSoft: Move{ZoomFrom: 1.0, ZoomTo: 1.08, Shift: 0.03, Ramp: 1},
	director.MicroShake:   Shake{Zoom: 1.05, Amplitude: 2, Frequency: 15, Decay: 1},
}

// NewPreset returns the preset for a motion type
func NewPreset(motion director.MotionType) (Preset, error) {
	p, ok := presets[motion]
	if !ok {
		return nil, fmt.Errorf("unknown motion type: %s", motion)
	}
	return p, nil
}
