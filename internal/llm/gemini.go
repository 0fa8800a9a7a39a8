package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ivlev/script2edl/internal/director"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiSource asks a Gemini model for the edit map
type GeminiSource struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiSource(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiSource, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.7)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))

	return &GeminiSource{client: client, model: m, timeout: timeout}, nil
}

func (g *GeminiSource) Name() string {
	return "gemini"
}

func (g *GeminiSource) Decide(ctx context.Context, req director.Request) (*director.EditMap, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	_, user := Prompt(req)
	resp, err := g.model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return Parse(text, req.Format)
}

func (g *GeminiSource) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from gemini", ErrInvalidOutput)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
