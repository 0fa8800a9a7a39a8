package effects

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/renderer"
)

var base = config.SegmentParams{Width: 1920, Height: 1080, FPS: 30, FadeDuration: 0.5}

func TestEveryMotionHasPreset(t *testing.T) {
	motions := []director.MotionType{
		director.SlowZoomIn, director.SlowZoomOut, director.PushInFast,
		director.PanLeftSoft, director.PanRightSoft, director.MicroShake,
		director.WhipPanSoft, director.HoldStatic, director.ParallaxSoft,
	}

	for _, m := range motions {
		t.Run(string(m), func(t *testing.T) {
			p, err := NewPreset(m)
			if err != nil {
				t.Fatalf("NewPreset failed: %v", err)
			}
			kfs := p.Keyframes(6, 1920, 1080)
			if len(kfs) < 2 {
				t.Fatalf("Expected at least 2 keyframes, got %d", len(kfs))
			}
			if kfs[0].Time != 0 || kfs[len(kfs)-1].Time != 6 {
				t.Errorf("Keyframes should span the shot: %+v", kfs)
			}
			for i := 1; i < len(kfs); i++ {
				if kfs[i].Time < kfs[i-1].Time {
					t.Errorf("Keyframes out of order at %d", i)
				}
			}
		})
	}

	if _, err := NewPreset("barrel_roll"); err == nil {
		t.Error("Expected error for unknown motion")
	}
}

func TestMoveKeyframes(t *testing.T) {
	tests := []struct {
		motion   director.MotionType
		from, to float64
		dx       int // sign of horizontal travel
	}{
		{director.SlowZoomIn, 1.0, 1.15, 0},
		{director.SlowZoomOut, 1.15, 1.0, 0},
		{director.PushInFast, 1.0, 1.3, 0},
		{director.PanLeftSoft, 1.1, 1.1, -1},
		{director.PanRightSoft, 1.1, 1.1, 1},
	}

	for _, tt := range tests {
		p, _ := NewPreset(tt.motion)
		kfs := p.Keyframes(10, 1920, 1080)
		first, last := kfs[0], kfs[len(kfs)-1]

		if first.Zoom != tt.from || last.Zoom != tt.to {
			t.Errorf("%s: zoom %.2f -> %.2f, want %.2f -> %.2f", tt.motion, first.Zoom, last.Zoom, tt.from, tt.to)
		}

		fx, _ := first.Rect.Center()
		lx, _ := last.Rect.Center()
		switch {
		case tt.dx < 0 && lx >= fx, tt.dx > 0 && lx <= fx, tt.dx == 0 && math.Abs(lx-fx) > 1:
			t.Errorf("%s: center moved %.1f -> %.1f", tt.motion, fx, lx)
		}
	}
}

func TestPushInHolds(t *testing.T) {
	p, _ := NewPreset(director.PushInFast)
	kfs := p.Keyframes(10, 1920, 1080)
	if len(kfs) != 3 || math.Abs(kfs[1].Time-3) > 1e-9 || kfs[1].Zoom != kfs[2].Zoom {
		t.Errorf("Expected fast push then hold, got %+v", kfs)
	}
}

func TestShakeSettles(t *testing.T) {
	p, _ := NewPreset(director.MicroShake)
	kfs := p.Keyframes(4, 1920, 1080)

	rest := kfs[0].Rect
	moved := false
	for _, kf := range kfs {
		dx := kf.Rect.X - rest.X
		if dx < -2 || dx > 2 {
			t.Errorf("Shake exceeded amplitude: %d px at %.2fs", dx, kf.Time)
		}
		if dx != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("Expected the window to move")
	}
	if last := kfs[len(kfs)-1]; last.Rect != rest || last.Time != 4 {
		t.Errorf("Expected rest at the end, got %+v", last)
	}

	short := p.Keyframes(0.5, 1920, 1080)
	if short[len(short)-1].Time != 0.5 {
		t.Errorf("Short shot should settle at its end, got %+v", short[len(short)-1])
	}
}

func TestMotionEffectFilter(t *testing.T) {
	p, _ := NewPreset(director.SlowZoomIn)
	params := base
	params.Duration = 5

	filter := (&MotionEffect{Preset: p}).GenerateFilter(params)
	for _, part := range []string{"pad=1920:1080", "zoompan=", "d=150", "fade=t=out:st=4.50", "scale=1920:1080"} {
		if !strings.Contains(filter, part) {
			t.Errorf("Filter should contain %q: %s", part, filter)
		}
	}
}

func sampleMap() *director.EditMap {
	return director.Analyze(director.Request{
		Text:   "[0:00] Nadie te conto el secreto.\n[0:06] Pero la crisis llego.\n[0:14] Fue increible.\n[0:20] Suscribite.",
		Format: director.FormatShort,
	})
}

func TestBuildPlan(t *testing.T) {
	em := sampleMap()
	plan := BuildPlan(em, base)

	if len(plan.Shots) != len(em.Segments) {
		t.Fatalf("Expected %d shots, got %d", len(em.Segments), len(plan.Shots))
	}
	for i, shot := range plan.Shots {
		seg := em.Segments[i]
		if shot.SegmentID != seg.ID || shot.Motion != seg.Motion.Type || shot.Duration() != float64(seg.Duration()) {
			t.Errorf("Shot %d does not match its segment", i)
		}
		if !strings.Contains(shot.Filter, "zoompan=") {
			t.Errorf("Shot %d has no zoompan filter", i)
		}
		t.Logf("Shot %d: %s %d-%d, %d keyframes", shot.SegmentID, shot.Motion, shot.Start, shot.End, len(shot.Keyframes))
	}
}

func TestBuildPlanUnknownMotion(t *testing.T) {
	em := &director.EditMap{Segments: []director.Segment{
		{ID: 1, Start: 0, End: 4, Motion: director.Motion{Type: "barrel_roll"}},
	}}
	plan := BuildPlan(em, base)
	kfs := plan.Shots[0].Keyframes
	if kfs[0].Zoom != 1 || kfs[len(kfs)-1].Zoom != 1 {
		t.Errorf("Expected static fallback, got %+v", kfs)
	}
}

func TestPlanWriteRead(t *testing.T) {
	plan := BuildPlan(sampleMap(), base)
	path := filepath.Join(t.TempDir(), "plan.yaml")

	if err := WritePlan(plan, path); err != nil {
		t.Fatalf("WritePlan failed: %v", err)
	}
	back, err := ReadPlan(path)
	if err != nil {
		t.Fatalf("ReadPlan failed: %v", err)
	}

	if back.Version != PlanVersion || len(back.Shots) != len(plan.Shots) {
		t.Fatalf("Plan header mismatch: %+v", back)
	}
	if back.Shots[0].Filter != plan.Shots[0].Filter {
		t.Error("Filter lost in round trip")
	}
}

func TestPlanEffectScalesKeyframes(t *testing.T) {
	plan := &Plan{Shots: []Shot{{
		Start: 0, End: 4,
		Keyframes: []renderer.Keyframe{
			{Time: 0, Rect: renderer.FullFrame(1920, 1080), Zoom: 1},
			{Time: 4, Rect: renderer.FullFrame(1920, 1080), Zoom: 1.2},
		},
	}}}

	params := base
	params.Duration = 8
	filter := NewPlanEffect(plan).GenerateFilter(params)
	// 4s shot stretched to 8s at 30fps ends on frame 240
	if !strings.Contains(filter, "if(lte(on,240)") {
		t.Errorf("Expected keyframes stretched to 8s: %s", filter)
	}

	params.SegmentIndex = 5
	if f := NewPlanEffect(plan).GenerateFilter(params); strings.Contains(f, "zoompan") {
		t.Errorf("Missing shot should render static, got %s", f)
	}
}
