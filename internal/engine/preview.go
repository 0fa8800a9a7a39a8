package engine

import (
	"context"
	"fmt"
	"image"

	"github.com/ivlev/script2edl/internal/cards"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/effects"
	"github.com/ivlev/script2edl/internal/system"
	"github.com/ivlev/script2edl/internal/video"
)

// clipDurations stretches segment lengths so that after (n-1) crossfades of
// fade seconds the preview still lasts as long as the edit map. The fade is
// halved while it does not fit inside the shortest segment.
func clipDurations(em *director.EditMap, fade float64) ([]float64, float64) {
	n := len(em.Segments)
	durations := make([]float64, n)
	if n == 0 {
		return durations, fade
	}

	minDur := float64(em.Segments[0].Duration())
	for _, s := range em.Segments {
		if d := float64(s.Duration()); d < minDur {
			minDur = d
		}
	}
	if n > 1 && fade >= minDur {
		fade = minDur / 2
		fmt.Printf("[!] Transition shortened to %.2fs for a short segment\n", fade)
	}

	for i, s := range em.Segments {
		durations[i] = float64(s.Duration())
		if i < n-1 {
			durations[i] += fade
		}
	}
	return durations, fade
}

// renderPreview animates every card with its shot's motion and joins the
// clips into an animatic
func (p *Project) renderPreview(ctx context.Context, em *director.EditMap, plan *effects.Plan, path string) error {
	enc := p.Encoder
	if enc == nil {
		enc = video.NewFFmpegEncoder(p.Config.VideoEncoder, p.Config.Quality)
	}

	fade := 0.0
	if p.Config.Transition != "none" {
		fade = p.Config.FadeDuration
	}
	durations, fade := clipDurations(em, fade)

	var effect effects.Effect = effects.NewPlanEffect(plan)
	opts := p.cardOptions()
	clips := make([]video.Clip, 0, len(em.Segments))
	var canvases []*image.RGBA
	defer func() {
		for _, c := range canvases {
			system.PutImage(c)
		}
	}()

	for i, seg := range em.Segments {
		var shot *effects.Shot
		if i < len(plan.Shots) {
			shot = &plan.Shots[i]
		}
		img, err := cards.Render(cards.FromSegment(seg, shot, i == len(em.Segments)-1, opts), opts)
		if err != nil {
			return err
		}
		canvases = append(canvases, img)

		params := config.SegmentParams{
			Width:        p.Config.Width,
			Height:       p.Config.Height,
			FPS:          p.Config.FPS,
			Duration:     durations[i],
			SegmentIndex: i,
		}
		clips = append(clips, video.Clip{
			Image:  img,
			Params: params,
			Filter: effect.GenerateFilter(params),
		})
	}

	fmt.Printf("[*] Rendering preview: %d clips, transition %q\n", len(clips), p.Config.Transition)
	return video.RenderAnimatic(ctx, enc, clips, path, p.Config.Workers, video.ConcatOptions{
		Durations:    durations,
		FadeDuration: fade,
		Transition:   p.Config.Transition,
		AudioPath:    p.Config.AudioPath,
	})
}
