// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/blogsmith/pkg/types"
)

// OpenAI implements Generator with the openai-go chat completions API. Each
// prompt is sent as a single user message.
type OpenAI struct {
	Model       string
	Temperature float64
	MaxTokens   int

	client openai.Client
}

// NewOpenAI validates cfg and builds an OpenAI generator. cfg.Temperature is
// sent as given, zero included; config.SetDefaults supplies the 0.7 default.
// The SDK's built-in retries are disabled; a failed call fails the stage.
func NewOpenAI(cfg types.AIConfig, client *http.Client) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key missing: set ai.api_key, BLOGSMITH_AI_API_KEY, OPENAI_API_KEY, or .secrets/openai-api-key")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if client != nil {
		opts = append(opts, option.WithHTTPClient(client))
	}

	return &OpenAI{
		Model:       model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		client:      openai.NewClient(opts...),
	}, nil
}

// Generate sends prompt and returns the first choice's content verbatim.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.Temperature),
	}
	if o.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(o.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
