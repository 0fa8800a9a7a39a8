package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/script2edl/internal/cards"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/effects"
	"github.com/ivlev/script2edl/internal/export"
	"github.com/ivlev/script2edl/internal/llm"
	"github.com/ivlev/script2edl/internal/source"
	"github.com/ivlev/script2edl/internal/system"
	"github.com/ivlev/script2edl/internal/video"
)

// Decision origins reported with every result
const (
	SourceCore   = "core"
	SourceImport = "import"
)

// Project runs scripts through the director and writes every configured
// artifact
type Project struct {
	Config   *config.Config
	Director *director.Director
	Decider  llm.DecisionSource // optional, the core is the fallback
	Encoder  video.VideoEncoder // only used for previews
}

// Result is what one run produced
type Result struct {
	Input   string
	Source  string // SourceCore, SourceImport or the provider name
	EditMap *director.EditMap
	Files   []string
	Elapsed time.Duration
}

func NewProject(cfg *config.Config, d *director.Director, decider llm.DecisionSource, enc video.VideoEncoder) *Project {
	if d == nil {
		d = director.NewDirector()
	}
	return &Project{
		Config:   cfg,
		Director: d,
		Decider:  decider,
		Encoder:  enc,
	}
}

// Request builds a director request from the configuration
func (p *Project) Request(text string) director.Request {
	return director.Request{
		Text:           text,
		Format:         p.Config.Format,
		TargetDuration: p.Config.TargetDuration,
		TargetSegments: p.Config.TargetSegments,
	}
}

// Decide asks the decision source first and falls back to the core on any
// failure. It never returns a nil map.
func (p *Project) Decide(ctx context.Context, req director.Request) (*director.EditMap, string) {
	if p.Decider != nil && strings.TrimSpace(req.Text) != "" {
		em, err := p.Decider.Decide(ctx, req)
		if err == nil {
			return em, p.Decider.Name()
		}
		log.Printf("[!] %s decision source failed, using the core: %v", p.Decider.Name(), err)
	}
	return p.Director.Analyze(req), SourceCore
}

// Load reads one script or edit map file. Imported maps are retimed when a
// target duration is configured.
func (p *Project) Load(ctx context.Context, path string) (*director.EditMap, string, error) {
	if source.IsEditMap(path) {
		em, err := source.Load(p.Director, path, p.Request(""))
		if err != nil {
			return nil, "", err
		}
		if d := p.Config.TargetDuration; d > 0 && d != em.TotalDuration {
			retimed, err := director.Retime(em, d)
			if err != nil {
				return nil, "", err
			}
			fmt.Printf("[*] Retimed %s: %ds -> %ds\n", filepath.Base(path), em.TotalDuration, d)
			em = retimed
		}
		return em, SourceImport, nil
	}

	src, err := source.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	text, err := src.Text()
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	em, origin := p.Decide(ctx, p.Request(text))
	return em, origin, nil
}

// Run processes one input file
func (p *Project) Run(ctx context.Context, input string) (*Result, error) {
	startTime := time.Now()
	name := baseName(input)

	em, origin, err := p.Load(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(em.Segments) == 0 {
		return nil, fmt.Errorf("%s: script has no usable text", input)
	}
	fmt.Printf("[*] %s: %d segments, %s, %ds (%s)\n", name, em.SegmentCount, em.Format, em.TotalDuration, origin)

	res := &Result{Input: input, Source: origin, EditMap: em}
	if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
		return nil, err
	}

	opts := export.Options{App: config.AppName, Title: name}
	for _, format := range p.Config.Exports {
		path := director.GenerateExportPath(p.Config.OutputDir, name, format)
		if err := export.WriteFile(format, em, path, opts); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	analyzeEnd := time.Now()
	var plan *effects.Plan
	if p.Config.WritePlan || p.Config.WriteCards || p.Config.Preview {
		plan = effects.BuildPlan(em, p.segmentParams())
	}
	if p.Config.WritePlan {
		path := director.GenerateExportPath(p.Config.OutputDir, name+"_plan", "yaml")
		if err := effects.WritePlan(plan, path); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	if p.Config.WriteCards {
		dir := filepath.Join(p.Config.OutputDir, name+"_cards")
		paths, err := cards.RenderAll(ctx, em, plan, dir, p.cardOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to render cards: %w", err)
		}
		res.Files = append(res.Files, paths...)
	}
	cardsEnd := time.Now()

	if p.Config.Preview {
		path := director.GenerateExportPath(p.Config.OutputDir, name+"_preview", "mp4")
		if err := p.renderPreview(ctx, em, plan, path); err != nil {
			return nil, fmt.Errorf("failed to render preview: %w", err)
		}
		res.Files = append(res.Files, path)
	}

	res.Elapsed = time.Since(startTime)
	for _, f := range res.Files {
		fmt.Printf("[+++] Written: %s\n", f)
	}

	if p.Config.ShowStats {
		p.report(name, em, startTime, analyzeEnd, cardsEnd)
	}
	return res, nil
}

// RunBatch processes inputs concurrently, at most Config.Workers at a time.
// Results keep input order; the first error cancels the rest. Inputs whose
// artifacts would share a name are rejected before anything runs.
func (p *Project) RunBatch(ctx context.Context, inputs []string) ([]*Result, error) {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := baseName(input)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s and %s would write the same %s outputs", prev, input, name)
		}
		seen[name] = input
	}

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Config.Workers))

	for i, input := range inputs {
		g.Go(func() error {
			res, err := p.Run(gctx, input)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(input), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ApplyAudioDuration takes the target duration from the narration track
// when none is set. Call it once before Run or RunBatch.
func (p *Project) ApplyAudioDuration() error {
	if p.Config.AudioPath == "" || p.Config.TargetDuration > 0 {
		return nil
	}
	d, err := system.GetAudioDuration(p.Config.AudioPath)
	if err != nil {
		return fmt.Errorf("failed to read audio duration: %w", err)
	}
	p.Config.TargetDuration = int(math.Ceil(d))
	fmt.Printf("[*] Audio duration: %.2fs -> %ds\n", d, p.Config.TargetDuration)
	return nil
}

func (p *Project) segmentParams() config.SegmentParams {
	return config.SegmentParams{
		Width:        p.Config.Width,
		Height:       p.Config.Height,
		FPS:          p.Config.FPS,
		FadeDuration: p.Config.FadeDuration,
	}
}

func (p *Project) cardOptions() cards.Options {
	opts := cards.DefaultOptions()
	opts.Width, opts.Height = p.Config.Width, p.Config.Height
	opts.Workers = p.Config.Workers
	opts.CTAURL = p.Config.CTAURL
	return opts
}

func (p *Project) report(name string, em *director.EditMap, start, analyzeEnd, cardsEnd time.Time) {
	totalTime := time.Since(start)
	stats, err := system.CollectStats()
	if err != nil {
		log.Printf("[!] %v", err)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Analysis + Export: %.2fs\n"+
			"Plan + Cards: %.2fs\n"+
			"Preview: %.2fs\n"+
			"Segments: %d\n"+
			"%s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, totalTime.Seconds(),
		analyzeEnd.Sub(start).Seconds(), cardsEnd.Sub(analyzeEnd).Seconds(), time.Since(cardsEnd).Seconds(),
		em.SegmentCount, stats,
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Segments: %d | Total: %.2fs | RSS: %.1f MB\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		name,
		em.SegmentCount,
		totalTime.Seconds(),
		float64(stats.RSSBytes)/(1<<20),
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
