package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
	"github.com/ivlev/script2edl/internal/engine"
)

const script = "[0:00] Nadie te conto este secreto.\n[0:06] Pero la crisis llego de golpe.\n[0:14] Fue increible.\n[0:20] Suscribite para mas."

type failingDecider struct{}

func (failingDecider) Name() string { return "gemini" }

func (failingDecider) Decide(ctx context.Context, req director.Request) (*director.EditMap, error) {
	return nil, errors.New("quota exceeded")
}

func (failingDecider) Close() error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Width, cfg.Height = 320, 180
	cfg.BuildVersion = "test"
	h := NewHandlers(engine.NewProject(cfg, nil, nil, nil))
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return NewRouter(h)
}

func do(t *testing.T, r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func analyzedMap(t *testing.T) *director.EditMap {
	t.Helper()
	return director.Analyze(director.Request{Text: script})
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response lacks a request id")
	}
	if !strings.Contains(w.Body.String(), `"service":"script2edl"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodOptions, "/api/director/analyze", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestAnalyze(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Script", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/director/analyze", mustJSON(t, AnalyzeRequest{ScriptText: script, Format: "short"}))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var resp AnalyzeResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Source != engine.SourceCore || len(resp.Segments) != 4 || resp.EditMap.SegmentCount != 4 {
			t.Errorf("source %s, %d segments", resp.Source, len(resp.Segments))
		}
		if resp.EditMap.Segments[0].Motion.Type != director.HookMotion {
			t.Errorf("first motion = %s", resp.EditMap.Segments[0].Motion.Type)
		}
	})

	t.Run("Proportional", func(t *testing.T) {
		body := mustJSON(t, AnalyzeRequest{ScriptText: "Uno dos tres.\n\nCuatro cinco seis.", Format: "reels"})
		w := do(t, r, http.MethodPost, "/api/director/analyze", body)
		var resp AnalyzeResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.EditMap.Format != "reels" || resp.EditMap.TotalDuration != 30 {
			t.Errorf("format %s, duration %d", resp.EditMap.Format, resp.EditMap.TotalDuration)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"EmptyText", `{"scriptText": "   "}`},
		{"MissingText", `{"format": "short"}`},
		{"BrokenJSON", `{"scriptText": `},
		{"NegativeDuration", `{"scriptText": "hola", "targetDurationSec": -5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/director/analyze", []byte(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}

	t.Run("EmptyTextMessage", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/director/analyze", []byte(`{"scriptText": ""}`))
		if !strings.Contains(w.Body.String(), "Se requiere el texto del guion") {
			t.Errorf("body = %s", w.Body.String())
		}
	})
}

func TestAnalyzeFallsBackWhenProviderFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	r := NewRouter(NewHandlers(engine.NewProject(cfg, nil, failingDecider{}, nil)))

	w := do(t, r, http.MethodPost, "/api/director/analyze", mustJSON(t, AnalyzeRequest{ScriptText: script}))
	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Source != engine.SourceCore || resp.EditMap.SegmentCount != 4 {
		t.Errorf("source %s with %d segments", resp.Source, resp.EditMap.SegmentCount)
	}
}

func TestImport(t *testing.T) {
	r := newTestRouter(t)
	em := analyzedMap(t)

	t.Run("ExportedMap", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/edl/import", mustJSON(t, em))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var resp EditMapResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.EditMap.SegmentCount != em.SegmentCount || resp.EditMap.Segments[2].Motion != em.Segments[2].Motion {
			t.Error("imported map differs from the exported one")
		}
	})

	t.Run("RawScript", func(t *testing.T) {
		body := []byte("scenes:\n  - narration: Hola mundo.\n  - narration: Adios.\n")
		w := do(t, r, http.MethodPost, "/api/edl/import", body)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/edl/import", []byte(`{"foo": 1}`))
		if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid file") {
			t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})
}

func TestExport(t *testing.T) {
	r := newTestRouter(t)
	body := mustJSON(t, analyzedMap(t))

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"json", "application/json", `"exportedAt": "2026-03-01T12:00:00Z"`},
		{"yaml", "application/yaml", "segmentCount: 4"},
		{"csv", "text/csv", "id,start,end"},
		{"txt", "text/plain", "REPORTE"},
		{"srt", "application/x-subrip", "00:00:00,000 --> 00:00:06,000"},
		{"edl", "text/plain", "FCM: NON-DROP FRAME"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/edl/export?format="+tt.format+"&title=guion", body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("content type = %q, want %q", ct, tt.contentType)
			}
			if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "guion.") {
				t.Errorf("content disposition = %q", cd)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body lacks %q:\n%s", tt.contains, w.Body.String())
			}
		})
	}

	t.Run("UnknownFormat", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/edl/export?format=docx", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("EmptyMap", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/edl/export", []byte(`{"segments": []}`))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestFormats(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/api/edl/formats", nil)
	var resp struct {
		Formats []string `json:"formats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Formats) != 7 {
		t.Errorf("formats = %v", resp.Formats)
	}
}

func TestRetime(t *testing.T) {
	r := newTestRouter(t)
	em := analyzedMap(t)

	w := do(t, r, http.MethodPost, "/api/edl/retime", mustJSON(t, RetimeRequest{EditMap: em, TargetDurationSec: 60}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp EditMapResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.EditMap.TotalDuration != 60 {
		t.Errorf("duration = %d, want 60", resp.EditMap.TotalDuration)
	}

	w = do(t, r, http.MethodPost, "/api/edl/retime", mustJSON(t, RetimeRequest{EditMap: em, TargetDurationSec: 2}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("too short: status = %d, want 400", w.Code)
	}
	w = do(t, r, http.MethodPost, "/api/edl/retime", []byte(`{"targetDurationSec": 30}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("no map: status = %d, want 400", w.Code)
	}
}

func TestPlan(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/api/edl/plan", mustJSON(t, analyzedMap(t)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var plan struct {
		Width int `yaml:"width"`
		Shots []struct {
			Motion string `yaml:"motion"`
			Filter string `yaml:"filter"`
		} `yaml:"shots"`
	}
	if err := yaml.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatal(err)
	}
	if plan.Width != 320 || len(plan.Shots) != 4 {
		t.Fatalf("plan = %+v", plan)
	}
	if !strings.Contains(plan.Shots[0].Filter, "zoompan") {
		t.Errorf("first shot filter = %s", plan.Shots[0].Filter)
	}
}

func TestCard(t *testing.T) {
	r := newTestRouter(t)
	body := mustJSON(t, analyzedMap(t))

	w := do(t, r, http.MethodPost, "/api/edl/cards/1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if cfg.Width != 320 || cfg.Height != 180 {
		t.Errorf("card is %dx%d", cfg.Width, cfg.Height)
	}

	if w := do(t, r, http.MethodPost, "/api/edl/cards/99", body); w.Code != http.StatusNotFound {
		t.Errorf("unknown segment: status = %d, want 404", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/edl/cards/abc", body); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", w.Code)
	}
}
