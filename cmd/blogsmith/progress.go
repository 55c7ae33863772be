// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/blogsmith/internal/pipeline"
)

// progressHooks prints one line per stage, for example
//
//	[2/4] outline ... done in 3.1s (1840 chars)
func progressHooks(w io.Writer) pipeline.Hooks {
	stages := pipeline.Stages()
	index := make(map[string]int, len(stages))
	for i, st := range stages {
		index[st.Name] = i + 1
	}

	return pipeline.Hooks{
		OnStageStart: func(_ context.Context, e *pipeline.StageEvent) {
			fmt.Fprintf(w, "[%d/%d] %s ... ", index[e.Stage], len(stages), e.Stage)
		},
		OnStageEnd: func(_ context.Context, e *pipeline.StageEvent) {
			d := e.Duration.Round(100 * time.Millisecond)
			if e.Err != nil {
				fmt.Fprintf(w, "failed after %s\n", d)
				return
			}
			fmt.Fprintf(w, "done in %s (%d chars)\n", d, e.OutputLen)
		},
	}
}
