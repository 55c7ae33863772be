// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the external text-generation service behind a single
// Generate operation so the pipeline can be tested with deterministic stubs.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/blogsmith/pkg/types"
)

const defaultModel = "gpt-4o-mini"

// Generator turns one prompt into one block of text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to the Generator interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewFromConfig builds the Generator selected by cfg.Provider. The client is
// shared by every request the generator makes; nil uses http.DefaultClient.
func NewFromConfig(cfg types.AIConfig, client *http.Client) (Generator, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAI(cfg, client)
	case types.ProviderOpenAICompatible:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider %s requires base_url", cfg.Provider)
		}
		return NewOpenAI(cfg, client)
	case types.ProviderEcho:
		return Echo{}, nil
	default:
		return nil, fmt.Errorf("provider %q not supported: use openai, openai-compatible, or echo", cfg.Provider)
	}
}
