package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/script2edl/internal/analyzer"
	"github.com/ivlev/script2edl/internal/config"
	"github.com/ivlev/script2edl/internal/director"
)

// ErrInvalidOutput is returned when a provider answers with something that is
// not a usable edit map
var ErrInvalidOutput = errors.New("invalid provider output")

// DecisionSource produces an edit map from a request. Implementations own
// their timeout and must not retry.
type DecisionSource interface {
	Name() string
	Decide(ctx context.Context, req director.Request) (*director.EditMap, error)
	Close() error
}

// New returns the decision source configured in cfg, or nil when no provider
// is set
func New(ctx context.Context, cfg *config.Config) (DecisionSource, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider needs GEMINI_API_KEY")
		}
		src, err := NewGeminiSource(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.ProviderTimeout)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY")
		}
		return NewOpenAISource(cfg.OpenAIAPIKey, cfg.Model, cfg.ProviderTimeout), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

var formatGuides = map[string]string{
	director.FormatShort: "Short (~60s), fast-paced, each segment 5-12 seconds",
	director.FormatLong:  "Long (~3min), more detailed, segments 10-20 seconds",
	director.FormatReels: "Reels (~30s), ultra-short, segments 3-8 seconds",
}

const systemPrompt = `You are a professional video editor specializing in faceless content.
You analyze scripts and produce Edit Maps with an editorial decision for each segment.

Respond with valid JSON only. No markdown, no explanations, no code blocks.

Output schema:
{
  "segments": [
    {
      "id": number,
      "start": number,
      "end": number,
      "text": "string (segment script text)",
      "keywords": ["string"],
      "emotion": "impacto|tension|revelacion|calma|energia|cierre",
      "motion": {
        "type": "slow_zoom_in|slow_zoom_out|push_in_fast|pan_left_soft|pan_right_soft|micro_shake|whip_pan_soft|hold_static|parallax_soft",
        "label": "string",
        "reason": "string (Spanish)"
      },
      "broll": { "query": "string (English stock footage query)", "type": "stock" },
      "sfx": { "effect": "string (Spanish)", "intensity": "sutil|medio|fuerte" },
      "onScreenText": "string or empty",
      "notes": "string (Spanish, actionable)"
    }
  ]
}

Rules:
- If the script contains timestamps, use those exact timestamps.
- Otherwise segment by paragraphs and distribute the duration proportionally.
- First segment: motion slow_zoom_in, note about the first 3 seconds.
- Last segment: emotion cierre, motion slow_zoom_out, note about CTA space.
- Climax (~70% through): push_in_fast or micro_shake, stronger SFX.
- Never repeat the same motion type in consecutive segments.
- On-screen text only for the hook and 1-2 key moments.
- Keywords: 3-6 per segment.`

// Prompt builds the system and user messages for req
func Prompt(req director.Request) (string, string) {
	format := req.Format
	if format == "" {
		format = director.FormatShort
	}
	duration := req.TargetDuration
	if duration <= 0 {
		duration = director.DurationFor(format)
	}
	guide, ok := formatGuides[format]
	if !ok {
		guide = formatGuides[director.FormatShort]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this script and generate the Edit Map.\n")
	fmt.Fprintf(&b, "- Format: %s\n", guide)
	fmt.Fprintf(&b, "- Target duration: %d seconds\n", duration)
	if req.TargetSegments > 0 {
		fmt.Fprintf(&b, "- Segments: about %d\n", req.TargetSegments)
	}
	fmt.Fprintf(&b, "\nScript:\n%s", strings.TrimSpace(req.Text))
	return systemPrompt, b.String()
}

type remoteSegment struct {
	Start    *float64 `json:"start"`
	End      *float64 `json:"end"`
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
	Emotion  string   `json:"emotion"`
	Category string   `json:"category"`
	Motion   *struct {
		Type   string `json:"type"`
		Label  string `json:"label"`
		Reason string `json:"reason"`
	} `json:"motion"`
	Broll struct {
		Query string `json:"query"`
		Type  string `json:"type"`
		Kind  string `json:"kind"`
	} `json:"broll"`
	SFX struct {
		Effect    string `json:"effect"`
		Intensity string `json:"intensity"`
	} `json:"sfx"`
	OnScreenText string `json:"onScreenText"`
	Notes        string `json:"notes"`
}

type remoteOutput struct {
	Segments []remoteSegment `json:"segments"`
}

// Parse decodes a provider answer into an edit map. The answer may be wrapped
// in a markdown fence or surrounded by prose. The first segment must carry a
// numeric start, text and motion, and every segment must end after it
// starts. Decisions missing from later segments come from their category
// row.
func Parse(raw, format string) (*director.EditMap, error) {
	body := extractJSON(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object", ErrInvalidOutput)
	}

	var out remoteOutput
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if len(out.Segments) == 0 {
		return nil, fmt.Errorf("%w: no segments", ErrInvalidOutput)
	}
	first := out.Segments[0]
	if first.Start == nil || strings.TrimSpace(first.Text) == "" || first.Motion == nil || first.Motion.Type == "" {
		return nil, fmt.Errorf("%w: first segment lacks start, text or motion", ErrInvalidOutput)
	}

	if format == "" {
		format = director.FormatShort
	}
	segs := make([]director.Segment, len(out.Segments))
	for i, r := range out.Segments {
		seg := r.toSegment()
		if seg.End <= seg.Start {
			return nil, fmt.Errorf("%w: segment %d ends at %d, before its start %d", ErrInvalidOutput, i+1, seg.End, seg.Start)
		}
		segs[i] = director.Complete(seg)
	}
	return director.NewEditMap(format, segs), nil
}

func (r remoteSegment) toSegment() director.Segment {
	seg := director.Segment{
		Start:        seconds(r.Start),
		End:          seconds(r.End),
		Text:         strings.TrimSpace(r.Text),
		Keywords:     r.Keywords,
		OnScreenText: r.OnScreenText,
		Notes:        r.Notes,
		Broll:        director.Broll{Query: r.Broll.Query, Kind: director.BrollStock},
		SFX: director.SFX{
			Effect:    r.SFX.Effect,
			Intensity: director.Intensity(r.SFX.Intensity),
		},
	}
	cat := analyzer.Category(r.Category)
	if cat == "" {
		cat = analyzer.Category(r.Emotion)
	}
	if !cat.Valid() {
		cat = analyzer.CategoryDefault
	}
	seg.Category = cat

	if r.Motion != nil && r.Motion.Type != "" {
		t := director.MotionType(r.Motion.Type)
		seg.Motion = director.MotionFor(t)
		if director.KnownMotion(t) {
			if r.Motion.Label != "" {
				seg.Motion.Label = r.Motion.Label
			}
			if r.Motion.Reason != "" {
				seg.Motion.Reason = r.Motion.Reason
			}
		}
	}
	return seg
}

func seconds(v *float64) int {
	if v == nil || *v < 0 {
		return 0
	}
	return int(math.Round(*v))
}

// extractJSON returns the outermost {...} of s, skipping code fences and
// surrounding text
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
