package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ivlev/script2edl/internal/analyzer"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/engine"
	"github.com/ivlev/script2edl/internal/llm"
	"github.com/ivlev/script2edl/internal/source"
	"github.com/ivlev/script2edl/internal/system"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	system.InitResourceLimits()

	configPtr := flag.String("config", "", "YAML config file")
	inputPtr := flag.String("input", "", "Script file or folder (default: latest file in input/scripts/)")
	importPtr := flag.String("import", "", "Exported edit map to load instead of a script, or \"latest\" for the newest one in -output")
	formatPtr := flag.String("format", "", "Video format: short, long, reels")
	durationPtr := flag.Int("duration", 0, "Target duration in seconds (0 uses the format length)")
	segmentsPtr := flag.Int("segments", 0, "Target segment count (0 derives it from the duration)")
	outputPtr := flag.String("output", "", "Output folder")
	exportPtr := flag.String("export", "", "Export formats, comma separated: json,yaml,csv,txt,srt,edl,zip")
	planPtr := flag.Bool("plan", false, "Write the render plan (keyframes and ffmpeg filters)")
	cardsPtr := flag.Bool("cards", false, "Render storyboard cards as PNG")
	previewPtr := flag.Bool("preview", false, "Render an animatic preview with ffmpeg")
	audioPtr := flag.String("audio", "", "Narration audio; its length sets the duration and it is mixed into the preview")
	presetPtr := flag.String("preset", "", "Frame preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	providerPtr := flag.String("provider", "", "Decision source: gemini, openai (empty uses the built-in director)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Workers")
	statsPtr := flag.Bool("stats", false, "Print a performance report")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}
	cfg.BuildVersion = version

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["format"] {
		cfg.Format = *formatPtr
	}
	if set["duration"] {
		cfg.TargetDuration = *durationPtr
	}
	if set["segments"] {
		cfg.TargetSegments = *segmentsPtr
	}
	if set["output"] {
		cfg.OutputDir = *outputPtr
	}
	if set["export"] {
		cfg.Exports = config.ParseExports(*exportPtr)
	}
	if set["audio"] {
		cfg.AudioPath = *audioPtr
	}
	if set["provider"] {
		cfg.Provider = *providerPtr
	}
	if set["workers"] {
		cfg.Workers = *workersPtr
	}
	cfg.WritePlan = cfg.WritePlan || *planPtr
	cfg.WriteCards = cfg.WriteCards || *cardsPtr
	cfg.Preview = cfg.Preview || *previewPtr
	cfg.ShowStats = cfg.ShowStats || *statsPtr

	switch *presetPtr {
	case "16:9":
		cfg.Width, cfg.Height = 1920, 1080
	case "9:16":
		cfg.Width, cfg.Height = 1080, 1920
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] %v", err)
	}
	if cfg.Format != "" && !director.KnownFormat(cfg.Format) {
		log.Printf("[!] Unknown format %q, using %ds", cfg.Format, director.DurationFor(cfg.Format))
	}

	inputs, err := resolveInputs(cfg, *inputPtr, *importPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, err := analyzer.NewClassifier(cfg.Classifier)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	d := director.NewDirector()
	d.Classifier = classifier
	if cfg.WordsPerMinute > 0 {
		d.WordsPerMinute = cfg.WordsPerMinute
	}

	decider, err := llm.New(ctx, cfg)
	if err != nil {
		log.Printf("[!] Decision source disabled: %v", err)
		decider = nil
	}
	if decider != nil {
		defer decider.Close()
		fmt.Printf("[*] Decision source: %s (fallback: built-in director)\n", decider.Name())
	}

	project := engine.NewProject(cfg, d, decider, nil)
	if err := project.ApplyAudioDuration(); err != nil {
		log.Fatalf("[-] %v", err)
	}

	fmt.Println("--- [SCRIPT2EDL] ---")
	fmt.Printf("[*] Inputs: %d | Format: %s | Exports: %v\n", len(inputs), cfg.Format, cfg.Exports)
	fmt.Println("--------------------")

	results, err := project.RunBatch(ctx, inputs)
	if err != nil {
		log.Fatalf("[-] Project error: %v", err)
	}

	for _, res := range results {
		fmt.Printf("[+++] Success! %s -> %d segments, %ds (%s) in %.2fs\n",
			res.Input, res.EditMap.SegmentCount, res.EditMap.TotalDuration, res.Source, res.Elapsed.Seconds())
	}
}

// resolveInputs turns -import / -input into a list of files
func resolveInputs(cfg *config.Config, input, importPath string) ([]string, error) {
	if importPath != "" {
		if importPath == "latest" {
			latest, err := director.FindLatestEditMap(cfg.OutputDir)
			if err != nil {
				return nil, err
			}
			fmt.Printf("[*] Selected edit map: %s\n", latest)
			return []string{latest}, nil
		}
		if !source.IsEditMap(importPath) {
			return nil, fmt.Errorf("-import expects a .json or .yaml edit map: %s", importPath)
		}
		return []string{importPath}, nil
	}

	if input == "" {
		if err := os.MkdirAll(cfg.InputPath, 0755); err != nil {
			return nil, err
		}
		latest, err := system.FindLatest(cfg.InputPath, system.ScriptExtensions)
		if err != nil {
			return nil, fmt.Errorf("%v. Put a script in %s/", err, cfg.InputPath)
		}
		fmt.Printf("[*] Selected script: %s\n", latest)
		return []string{latest}, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	files, err := system.ListFiles(input, system.ScriptExtensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scripts found in %s", input)
	}
	return files, nil
}
