package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const AppName = "script2edl"

type Config struct {
	InputPath      string   `yaml:"input"`
	OutputDir      string   `yaml:"output"`
	Format         string   `yaml:"format"`
	TargetDuration int      `yaml:"duration"`
	TargetSegments int      `yaml:"segments"`
	WordsPerMinute int      `yaml:"wordsPerMinute"`
	Classifier     string   `yaml:"classifier"`
	Exports        []string `yaml:"exports"`
	WritePlan      bool     `yaml:"plan"`
	WriteCards     bool     `yaml:"cards"`
	Width          int      `yaml:"width"`
	Height         int      `yaml:"height"`
	FPS            int      `yaml:"fps"`
	FadeDuration   float64  `yaml:"fade"`
	Workers        int      `yaml:"workers"`
	CTAURL         string   `yaml:"ctaUrl"`

	Preview      bool   `yaml:"preview"`
	AudioPath    string `yaml:"audio"`      // narration; its length sets the duration
	Transition   string `yaml:"transition"` // xfade name, "none" for hard cuts
	VideoEncoder string `yaml:"encoder"`    // empty picks the best local H.264 encoder
	Quality      int    `yaml:"quality"`

	Provider        string        `yaml:"provider"` // "", "gemini" or "openai"
	Model           string        `yaml:"model"`
	ProviderTimeout time.Duration `yaml:"providerTimeout"`
	GeminiAPIKey    string        `yaml:"-"`
	OpenAIAPIKey    string        `yaml:"-"`

	ServerAddr   string `yaml:"addr"`
	ShowStats    bool   `yaml:"stats"`
	BuildVersion string `yaml:"-"`
}

// SegmentParams carries what a motion effect needs to render one segment
type SegmentParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	FadeDuration  float64
	SegmentIndex  int
	Debug         bool
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		InputPath:       "input/scripts",
		OutputDir:       "output",
		Format:          "short",
		WordsPerMinute:  160,
		Classifier:      "keyword",
		Exports:         []string{"json"},
		Width:           1920,
		Height:          1080,
		FPS:             30,
		FadeDuration:    0.5,
		Workers:         4,
		Transition:      "fade",
		Quality:         23,
		ProviderTimeout: 30 * time.Second,
		ServerAddr:      ":8080",
	}
}

// Load builds a Config from defaults, an optional YAML file, .env and the
// environment, in that order
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[!] Could not load .env: %v", err)
	}
	cfg.applyEnv()

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}

	strVars := map[string]*string{
		"SCRIPT2EDL_PROVIDER": &c.Provider,
		"SCRIPT2EDL_MODEL":    &c.Model,
		"SCRIPT2EDL_FORMAT":   &c.Format,
		"SCRIPT2EDL_OUTPUT":   &c.OutputDir,
		"SCRIPT2EDL_ADDR":     &c.ServerAddr,
		"SCRIPT2EDL_CTA_URL":  &c.CTAURL,
	}
	for name, dst := range strVars {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"SCRIPT2EDL_DURATION": &c.TargetDuration,
		"SCRIPT2EDL_SEGMENTS": &c.TargetSegments,
		"SCRIPT2EDL_WORKERS":  &c.Workers,
	}
	for name, dst := range intVars {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				log.Printf("[!] Ignoring %s=%q: %v", name, v, err)
				continue
			}
			*dst = n
		}
	}

	if v := os.Getenv("SCRIPT2EDL_PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ProviderTimeout = d
		} else {
			log.Printf("[!] Ignoring SCRIPT2EDL_PROVIDER_TIMEOUT=%q: %v", v, err)
		}
	}
}

// ParseExports splits a comma separated export list such as "json,csv"
func ParseExports(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var knownExports = map[string]bool{
	"json": true, "yaml": true, "csv": true, "txt": true,
	"srt": true, "edl": true, "zip": true,
}

// Validate rejects settings the engine cannot honor
func (c *Config) Validate() error {
	for _, e := range c.Exports {
		if !knownExports[e] {
			return fmt.Errorf("unknown export format: %s", e)
		}
	}
	switch c.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.TargetDuration < 0 {
		return fmt.Errorf("duration must not be negative: %d", c.TargetDuration)
	}
	if c.Width <= 0 || c.Height <= 0 || c.FPS <= 0 {
		return fmt.Errorf("invalid frame settings %dx%d@%d", c.Width, c.Height, c.FPS)
	}
	if c.FadeDuration < 0 {
		return fmt.Errorf("fade must not be negative: %.2f", c.FadeDuration)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}
