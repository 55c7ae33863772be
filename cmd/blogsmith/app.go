// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/blogsmith/internal/config"
	"github.com/pdiddy/blogsmith/internal/httputil"
	"github.com/pdiddy/blogsmith/internal/llm"
	"github.com/pdiddy/blogsmith/internal/pipeline"
	"github.com/pdiddy/blogsmith/pkg/types"
)

// bindFlag binds a flag to a config key. Keys shared by several commands are
// bound in each command's PreRun so the running command's flag wins.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

func loadConfig() (types.Config, error) {
	return config.Load(viper.GetViper(), loadedSecrets)
}

// newExecutor builds the pipeline for cfg: generator, HTTP client, prompt
// overrides and empty-result policy.
func newExecutor(cfg types.Config, opts ...pipeline.Option) (*pipeline.Executor, error) {
	gen, err := llm.NewFromConfig(cfg.AI, httputil.NewClient(cfg.HTTP))
	if err != nil {
		return nil, fmt.Errorf("configuring generator: %w", err)
	}

	all := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Pipeline.PromptsFile != "" {
		prompts, err := pipeline.LoadPrompts(cfg.Pipeline.PromptsFile)
		if err != nil {
			return nil, err
		}
		all = append(all, pipeline.WithPrompts(prompts))
	}
	if cfg.Pipeline.AllowEmpty {
		all = append(all, pipeline.WithPermissiveOutput())
	}
	return pipeline.New(gen, append(all, opts...)...)
}
