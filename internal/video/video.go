package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/system"
)

type VideoEncoder interface {
	EncodeSegment(ctx context.Context, img image.Image, videoPath string, params config.SegmentParams, filter string) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, opts ConcatOptions) error
}

// ConcatOptions describe how segment clips are joined
type ConcatOptions struct {
	Durations    []float64 // per clip, used for xfade offsets
	FadeDuration float64
	Transition   string // xfade transition name, "" or "none" for hard cuts
	AudioPath    string // optional narration track
}

func (o ConcatOptions) crossfade(n int) bool {
	return o.Transition != "" && o.Transition != "none" && n > 1 && o.FadeDuration > 0
}

type FFmpegEncoder struct {
	Codec   string
	Quality int
}

// NewFFmpegEncoder picks the best local H.264 encoder when codec is empty
func NewFFmpegEncoder(codec string, quality int) *FFmpegEncoder {
	if codec == "" {
		codec = system.GetBestH264Encoder()
	}
	if quality <= 0 {
		quality = 23
	}
	return &FFmpegEncoder{Codec: codec, Quality: quality}
}

func (e *FFmpegEncoder) EncodeSegment(
	ctx context.Context,
	img image.Image,
	videoPath string,
	params config.SegmentParams,
	filter string,
) error {
	inputW, inputH := img.Bounds().Dx(), img.Bounds().Dy()

	args := e.buildFFmpegArgs(inputW, inputH, videoPath, params, filter)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out strings.Builder
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// One raw RGBA frame, zoompan repeats it for the whole clip
	if err := writeRawRGBA(stdin, img); err != nil {
		stdin.Close()
		cmd.Wait()
		return fmt.Errorf("write raw error: %w", err)
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(
	inputW, inputH int,
	videoPath string,
	params config.SegmentParams,
	filter string,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", inputW, inputH),
		"-i", "-",
		"-vf", filter,
		"-t", fmt.Sprintf("%f", params.Duration),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", e.Codec,
	}
	args = append(args, e.qualityArgs()...)
	return append(args, videoPath)
}

func (e *FFmpegEncoder) qualityArgs() []string {
	switch e.Codec {
	case "h264_videotoolbox":
		// VideoToolbox takes a bitrate instead of -q:v
		return []string{"-b:v", fmt.Sprintf("%dk", e.Quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", e.Quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, opts ConcatOptions) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("no segments to concatenate")
	}

	if !opts.crossfade(len(segmentPaths)) && opts.AudioPath == "" {
		concatFilePath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(concatFilePath, segmentPaths); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
			"-f", "concat", "-safe", "0", "-i", concatFilePath,
			"-c", "copy", finalPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
		}
		return nil
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", e.buildConcatArgs(segmentPaths, finalPath, opts)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade error: %v, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, p := range segmentPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	return nil
}

// buildConcatArgs chains clips with xfade (or the concat filter) and maps the
// narration track when one is given
func (e *FFmpegEncoder) buildConcatArgs(segmentPaths []string, finalPath string, opts ConcatOptions) []string {
	args := []string{"-y"}
	for _, p := range segmentPaths {
		args = append(args, "-i", p)
	}

	audioIndex := -1
	if opts.AudioPath != "" {
		audioIndex = len(segmentPaths)
		args = append(args, "-i", opts.AudioPath)
	}

	var filters []string
	lastOut := "[0:v]"
	if opts.crossfade(len(segmentPaths)) {
		offset := 0.0
		for i := 1; i < len(segmentPaths); i++ {
			if i-1 < len(opts.Durations) {
				offset += opts.Durations[i-1] - opts.FadeDuration
			}
			outName := fmt.Sprintf("[v%d]", i)
			filters = append(filters, fmt.Sprintf("%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s",
				lastOut, i, opts.Transition, opts.FadeDuration, offset, outName))
			lastOut = outName
		}
	} else if len(segmentPaths) > 1 {
		var inputs strings.Builder
		for i := range segmentPaths {
			fmt.Fprintf(&inputs, "[%d:v]", i)
		}
		filters = append(filters, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vconcat]", inputs.String(), len(segmentPaths)))
		lastOut = "[vconcat]"
	}

	if len(filters) > 0 {
		args = append(args, "-filter_complex", strings.Join(filters, ";"))
		args = append(args, "-map", lastOut)
	} else {
		args = append(args, "-map", "0:v")
	}
	if audioIndex != -1 {
		args = append(args, "-map", fmt.Sprintf("%d:a", audioIndex), "-shortest")
	}

	args = append(args, "-c:v", e.Codec, "-pix_fmt", "yuv420p")
	args = append(args, e.qualityArgs()...)
	return append(args, finalPath)
}
