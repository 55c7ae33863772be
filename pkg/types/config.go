// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and data types shared across blogsmith
// packages and the CLI.
package types

import "time"

// HTTPConfig holds shared HTTP settings used when calling the generation service.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. Zero means no client-side timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "blogsmith/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// Provider identifies the generation backend.
type Provider string

const (
	// ProviderOpenAI calls the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"

	// ProviderOpenAICompatible calls any OpenAI-compatible endpoint
	// (DeepSeek, Ollama, vLLM gateways). Requires BaseURL.
	ProviderOpenAICompatible Provider = "openai-compatible"

	// ProviderEcho answers every prompt locally without a network call.
	ProviderEcho Provider = "echo"
)

// AIConfig holds settings for the text-generation service. Model selection,
// credentials and sampling belong here, not to the pipeline.
type AIConfig struct {
	// Provider selects the backend: openai, openai-compatible, or echo.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the completion length. Zero leaves it to the service.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// PipelineConfig holds settings for the four-stage pipeline.
type PipelineConfig struct {
	// AllowEmpty accepts empty stage results instead of failing the run.
	AllowEmpty bool `json:"allow_empty" yaml:"allow_empty" mapstructure:"allow_empty"`

	// PromptsFile is an optional YAML file of prompt template overrides keyed
	// by stage name.
	PromptsFile string `json:"prompts_file,omitempty" yaml:"prompts_file,omitempty" mapstructure:"prompts_file"`
}

// ExportFormat selects how a finished post is written out.
type ExportFormat string

const (
	// FormatMarkdown writes the post body exactly as generated.
	FormatMarkdown ExportFormat = "markdown"

	// FormatText writes the topic and body with typographic punctuation
	// replaced by ASCII.
	FormatText ExportFormat = "text"

	// FormatHTML renders the markdown body into a standalone HTML document.
	FormatHTML ExportFormat = "html"
)

// ExportConfig holds settings for writing finished posts.
type ExportConfig struct {
	// Format selects the output format: markdown, text, or html.
	Format ExportFormat `json:"format" yaml:"format" mapstructure:"format"`

	// OutputDir is the directory for exported posts. Empty means stdout.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty" mapstructure:"output_dir"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// RunTimeout bounds one pipeline run per request. Zero means no bound.
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout" mapstructure:"run_timeout"`
}

// BatchConfig holds settings for multi-topic runs.
type BatchConfig struct {
	// Concurrency is the number of topics generated at once (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}

// Config groups every blogsmith setting.
type Config struct {
	AI       AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
	Export   ExportConfig   `json:"export" yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Batch    BatchConfig    `json:"batch" yaml:"batch" mapstructure:"batch"`
}
