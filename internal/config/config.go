// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves blogsmith settings. Precedence, lowest first:
// defaults, the YAML config file, BLOGSMITH_* environment variables, bound
// CLI flags. An API key left unset falls back to the secrets directory and
// then OPENAI_API_KEY.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/blogsmith/internal/export"
	"github.com/pdiddy/blogsmith/internal/httputil"
	"github.com/pdiddy/blogsmith/internal/secrets"
	"github.com/pdiddy/blogsmith/pkg/types"
)

// EnvPrefix prefixes every environment override, e.g. BLOGSMITH_AI_MODEL.
const EnvPrefix = "BLOGSMITH"

// OpenAIKeyEnv is the conventional API key variable, consulted last.
const OpenAIKeyEnv = "OPENAI_API_KEY"

var defaults = map[string]any{
	"ai.provider":           string(types.ProviderOpenAI),
	"ai.model":              "gpt-4o-mini",
	"ai.api_key":            "",
	"ai.base_url":           "",
	"ai.temperature":        0.7,
	"ai.max_tokens":         0,
	"http.timeout":          2 * time.Minute,
	"http.user_agent":       httputil.DefaultUserAgent,
	"pipeline.allow_empty":  false,
	"pipeline.prompts_file": "",
	"export.format":         string(types.FormatMarkdown),
	"export.output_dir":     "",
	"server.addr":           ":8080",
	"server.run_timeout":    5 * time.Minute,
	"batch.concurrency":     2,
}

// SetDefaults registers defaults and environment handling on v. Every key is
// given a default so environment variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes v into a Config, fills the API key from s or OPENAI_API_KEY
// when unset, and validates the result.
func Load(v *viper.Viper, s secrets.Secrets) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.AI.Provider = types.Provider(strings.ToLower(strings.TrimSpace(string(cfg.AI.Provider))))
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = s.Value(secrets.OpenAIAPIKey, OpenAIKeyEnv)
	}

	format, err := export.ParseFormat(string(cfg.Export.Format))
	if err != nil {
		return types.Config{}, err
	}
	cfg.Export.Format = format

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting in cfg. The API key is not checked
// here because the echo provider needs none; the generator reports it.
func Validate(cfg types.Config) error {
	var errs []error

	switch cfg.AI.Provider {
	case types.ProviderOpenAI, types.ProviderEcho:
	case types.ProviderOpenAICompatible:
		if cfg.AI.BaseURL == "" {
			errs = append(errs, errors.New("ai.base_url is required for provider openai-compatible"))
		}
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q is not supported: use openai, openai-compatible, or echo", cfg.AI.Provider))
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("ai.temperature %v must be between 0 and 2", cfg.AI.Temperature))
	}
	if cfg.AI.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("ai.max_tokens %d must not be negative", cfg.AI.MaxTokens))
	}
	if cfg.HTTP.Timeout < 0 {
		errs = append(errs, fmt.Errorf("http.timeout %v must not be negative", cfg.HTTP.Timeout))
	}
	if _, err := export.ParseFormat(string(cfg.Export.Format)); err != nil {
		errs = append(errs, fmt.Errorf("export.format: %w", err))
	}
	if cfg.Server.RunTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.run_timeout %v must not be negative", cfg.Server.RunTimeout))
	}
	if cfg.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("batch.concurrency %d must be positive", cfg.Batch.Concurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
