package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EmptyCompletionText is returned in place of an empty upstream completion so
// callers always receive displayable text.
const EmptyCompletionText = "No content returned"

// ErrNotConfigured means no upstream API key was provided at startup. The
// server keeps running; only completion calls fail.
var ErrNotConfigured = errors.New("upstream API key is not configured")

// CompletionGateway wraps the external text-completion service: one blocking
// call per prompt, no retries, no streaming.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type OpenAIGateway struct {
	client     openai.Client
	model      string
	configured bool
}

func NewOpenAIGateway(apiKey, model string, opts ...option.RequestOption) *OpenAIGateway {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIGateway{
		client:     openai.NewClient(opts...),
		model:      model,
		configured: apiKey != "",
	}
}

func (g *OpenAIGateway) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.configured {
		return "", ErrNotConfigured
	}

	res, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return EmptyCompletionText, nil
	}

	text := strings.TrimSpace(res.Choices[0].Message.Content)
	if text == "" {
		return EmptyCompletionText, nil
	}
	return text, nil
}
