package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "short" || cfg.FPS != 30 || cfg.Workers != 4 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script2edl.yaml")
	data := []byte("format: reels\nduration: 45\nexports: [json, csv]\nproviderTimeout: 5s\nwidth: 1080\nheight: 1920\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SCRIPT2EDL_SEGMENTS", "6")
	t.Setenv("SCRIPT2EDL_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Format != "reels" || cfg.TargetDuration != 45 {
		t.Errorf("YAML values not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Exports, []string{"json", "csv"}) {
		t.Errorf("Unexpected exports %v", cfg.Exports)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.ProviderTimeout)
	}
	if cfg.TargetSegments != 6 || cfg.Provider != "gemini" || cfg.GeminiAPIKey != "test-key" {
		t.Errorf("Env values not applied: %+v", cfg)
	}
	if cfg.Width != 1080 || cfg.Height != 1920 {
		t.Errorf("Expected portrait frame, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown export", func(c *Config) { c.Exports = []string{"pdf"} }, true},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, true},
		{"negative duration", func(c *Config) { c.TargetDuration = -1 }, true},
		{"zero fps", func(c *Config) { c.FPS = 0 }, true},
		{"zero workers clamps", func(c *Config) { c.Workers = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseExports(t *testing.T) {
	got := ParseExports(" JSON, csv,,txt ")
	if !reflect.DeepEqual(got, []string{"json", "csv", "txt"}) {
		t.Errorf("Unexpected exports %v", got)
	}
}
