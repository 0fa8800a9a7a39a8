package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/ivlev/script2edl/internal/director"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAISource asks an OpenAI chat model for the edit map
type OpenAISource struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAISource creates a source. Extra options such as option.WithBaseURL
// point it at compatible endpoints.
func NewOpenAISource(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *OpenAISource {
	if model == "" {
		model = defaultOpenAIModel
	}
	clientOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAISource{
		client:  openai.NewClient(clientOpts...),
		model:   model,
		timeout: timeout,
	}
}

func (o *OpenAISource) Name() string {
	return "openai"
}

func (o *OpenAISource) Decide(ctx context.Context, req director.Request) (*director.EditMap, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	system, user := Prompt(req)
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Model:       o.model,
		Temperature: openai.Float(0.7),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrInvalidOutput)
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidOutput)
	}
	return Parse(raw, req.Format)
}

func (o *OpenAISource) Close() error {
	return nil
}
