package video

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/script2edl/internal/config"
)

// Clip is one still with the filter that animates it
type Clip struct {
	Image  image.Image
	Params config.SegmentParams
	Filter string
}

// RenderAnimatic encodes every clip in parallel, at most workers at a time,
// and joins them into out
func RenderAnimatic(ctx context.Context, enc VideoEncoder, clips []Clip, out string, workers int, opts ConcatOptions) error {
	if len(clips) == 0 {
		return fmt.Errorf("animatic has no clips")
	}

	tmpDir, err := os.MkdirTemp("", "script2edl_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	paths := make([]string, len(clips))
	g, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, clip := range clips {
		paths[i] = filepath.Join(tmpDir, fmt.Sprintf("s%d.mp4", i))
		g.Go(func() error {
			if err := enc.EncodeSegment(gctx, clip.Image, paths[i], clip.Params, clip.Filter); err != nil {
				return fmt.Errorf("segment %d: %w", i+1, err)
			}
			fmt.Printf("[>] Ready: %d/%d\n", i+1, len(clips))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(opts.Durations) == 0 {
		for _, c := range clips {
			opts.Durations = append(opts.Durations, c.Params.Duration)
		}
	}
	return enc.Concatenate(ctx, paths, out, tmpDir, opts)
}
