// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"time"
)

// RunEvent describes the start or end of one run.
type RunEvent struct {
	RunID    string
	Topic    string
	Duration time.Duration
	Err      error
}

// StageEvent describes the start or end of one stage within a run.
type StageEvent struct {
	RunID     string
	Stage     string
	Duration  time.Duration
	OutputLen int
	Err       error
}

// Hooks observe a run without influencing it. Any hook may be nil.
type Hooks struct {
	OnRunStart   func(ctx context.Context, e *RunEvent)
	OnStageStart func(ctx context.Context, e *StageEvent)
	OnStageEnd   func(ctx context.Context, e *StageEvent)
	OnRunEnd     func(ctx context.Context, e *RunEvent)
}

// MultiHooks fans each event out to every hs in order.
func MultiHooks(hs ...Hooks) Hooks {
	return Hooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range hs {
				h.runStart(ctx, e)
			}
		},
		OnStageStart: func(ctx context.Context, e *StageEvent) {
			for _, h := range hs {
				h.stageStart(ctx, e)
			}
		},
		OnStageEnd: func(ctx context.Context, e *StageEvent) {
			for _, h := range hs {
				h.stageEnd(ctx, e)
			}
		},
		OnRunEnd: func(ctx context.Context, e *RunEvent) {
			for _, h := range hs {
				h.runEnd(ctx, e)
			}
		},
	}
}

func (h Hooks) runStart(ctx context.Context, e *RunEvent) {
	if h.OnRunStart != nil {
		h.OnRunStart(ctx, e)
	}
}

func (h Hooks) stageStart(ctx context.Context, e *StageEvent) {
	if h.OnStageStart != nil {
		h.OnStageStart(ctx, e)
	}
}

func (h Hooks) stageEnd(ctx context.Context, e *StageEvent) {
	if h.OnStageEnd != nil {
		h.OnStageEnd(ctx, e)
	}
}

func (h Hooks) runEnd(ctx context.Context, e *RunEvent) {
	if h.OnRunEnd != nil {
		h.OnRunEnd(ctx, e)
	}
}
