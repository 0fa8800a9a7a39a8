package cards

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/effects"
	"github.com/ivlev/script2edl/internal/renderer"
	"github.com/ivlev/script2edl/internal/system"
	"github.com/ivlev/script2edl/internal/timecode"
)

// Options control card size, palette and the closing call to action
type Options struct {
	Width, Height int
	Workers       int
	CTAURL        string // encoded as a QR code on the last card
	Background    color.RGBA
	Foreground    color.RGBA
	Accent        color.RGBA
}

// DefaultOptions returns a dark 1920x1080 palette
func DefaultOptions() Options {
	return Options{
		Width:      1920,
		Height:     1080,
		Workers:    4,
		Background: color.RGBA{R: 16, G: 16, B: 24, A: 255},
		Foreground: color.RGBA{R: 245, G: 245, B: 245, A: 255},
		Accent:     color.RGBA{R: 255, G: 196, B: 0, A: 255},
	}
}

// Card is one segment's storyboard frame
type Card struct {
	SegmentID int
	Headline  string // on-screen text, may be empty
	Caption   string
	Label     string
	Frame     *renderer.Rectangle // camera window at mid-shot, optional
	QRContent string
}

// FromSegment builds the card for seg. shot may be nil.
func FromSegment(seg director.Segment, shot *effects.Shot, last bool, opts Options) Card {
	c := Card{
		SegmentID: seg.ID,
		Headline:  seg.OnScreenText,
		Caption:   fmt.Sprintf("#%02d  %s-%s  %s", seg.ID, timecode.Format(seg.Start), timecode.Format(seg.End), seg.Broll.Query),
		Label:     fmt.Sprintf("%s / %s", strings.ToUpper(string(seg.Category)), seg.Motion.Label),
	}
	if shot != nil && len(shot.Keyframes) > 0 {
		mid := renderer.InterpolateKeyframes(shot.Keyframes, shot.Duration()/2)
		frame := mid.Window(opts.Width, opts.Height)
		c.Frame = &frame
	}
	if last && opts.CTAURL != "" {
		c.QRContent = opts.CTAURL
	}
	return c
}

// scale picks the pixel size of one 7x13 glyph cell
func scale(height int) int {
	s := height / 180
	if s < 1 {
		s = 1
	}
	return s
}

// Render draws a card on a pooled canvas. Callers return it with
// system.PutImage when done.
func Render(c Card, opts Options) (*image.RGBA, error) {
	s := scale(opts.Height)
	small := system.GetFilled(image.Rect(0, 0, opts.Width/s, opts.Height/s), opts.Background)
	defer system.PutImage(small)

	face := basicfont.Face7x13
	sw, sh := small.Bounds().Dx(), small.Bounds().Dy()
	margin := 6

	drawText(small, face, opts.Accent, margin, margin+face.Ascent, c.Label)

	lines := wrap(c.Headline, face, sw-2*margin)
	lineHeight := face.Height + 2
	y := (sh-len(lines)*lineHeight)/2 + face.Ascent
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		drawText(small, face, opts.Foreground, (sw-w)/2, y, line)
		y += lineHeight
	}

	caption := truncate(c.Caption, face, sw-2*margin)
	drawText(small, face, muted(opts.Foreground), margin, sh-margin, caption)

	card := system.GetImage(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.NearestNeighbor.Scale(card, card.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	if c.Frame != nil {
		outline(card, *c.Frame, opts.Accent, s)
	}
	if c.QRContent != "" {
		if err := drawQR(card, c.QRContent, opts.Height/4, s*margin); err != nil {
			system.PutImage(card)
			return nil, err
		}
	}
	return card, nil
}

func drawText(dst *image.RGBA, face font.Face, col color.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrap breaks text into lines no wider than width pixels. A single word
// wider than width gets its own line.
func wrap(text string, face font.Face, width int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && font.MeasureString(face, candidate).Ceil() > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// truncate shortens text with "..." until it fits width pixels
func truncate(text string, face font.Face, width int) string {
	if font.MeasureString(face, text).Ceil() <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if s := string(runes) + "..."; font.MeasureString(face, s).Ceil() <= width {
			return s
		}
	}
	return ""
}

func muted(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// outline draws a rectangle border of the given thickness
func outline(dst *image.RGBA, r renderer.Rectangle, col color.RGBA, thickness int) {
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thickness),
		image.Rect(rect.Min.X, rect.Max.Y-thickness, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thickness, rect.Max.Y),
		image.Rect(rect.Max.X-thickness, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, e := range edges {
		xdraw.Draw(dst, e.Intersect(rect), src, image.Point{}, xdraw.Src)
	}
}

// drawQR places a QR code of size pixels in the bottom-right corner
func drawQR(dst *image.RGBA, content string, size, margin int) error {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	code := q.Image(size)

	b := dst.Bounds()
	at := image.Rect(b.Max.X-margin-size, b.Max.Y-margin-size, b.Max.X-margin, b.Max.Y-margin)
	xdraw.Draw(dst, at, code, code.Bounds().Min, xdraw.Src)
	return nil
}

// WritePNG encodes img to path
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// RenderAll writes one card per segment into dir, at most opts.Workers at a
// time, and returns the paths in segment order. plan may be nil.
func RenderAll(ctx context.Context, em *director.EditMap, plan *effects.Plan, dir string, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, len(em.Segments))
	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, seg := range em.Segments {
		var shot *effects.Shot
		if plan != nil && i < len(plan.Shots) {
			shot = &plan.Shots[i]
		}
		card := FromSegment(seg, shot, i == len(em.Segments)-1, opts)
		path := filepath.Join(dir, fmt.Sprintf("card_%02d.png", seg.ID))
		paths[i] = path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Render(card, opts)
			if err != nil {
				return fmt.Errorf("card %d: %w", card.SegmentID, err)
			}
			defer system.PutImage(img)
			return WritePNG(img, path)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
