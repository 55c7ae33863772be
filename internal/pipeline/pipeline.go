// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline turns a topic into a blog post by running four generation
// stages in strict order: research, outline, draft, rewrite. Each stage reads
// an immutable snapshot of the state built so far and contributes exactly one
// new field. The first failing stage aborts the run; there are no retries and
// no substituted content.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/blogsmith/internal/llm"
)

// Executor drives the four stages for one topic at a time. An Executor holds
// no per-run state and is safe for concurrent use; every call to Run or
// Execute gets its own State.
type Executor struct {
	gen        llm.Generator
	logger     *slog.Logger
	hooks      Hooks
	prompts    Prompts
	templates  map[string]*template.Template
	permissive bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger. Runs log with run_id and stage attributes.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(e *Executor) {
		e.hooks = h
	}
}

// WithPrompts replaces the stage prompt templates. Stages missing from p keep
// their default template.
func WithPrompts(p Prompts) Option {
	return func(e *Executor) {
		for name, src := range p {
			e.prompts[name] = src
		}
	}
}

// WithPermissiveOutput accepts empty stage results instead of failing with
// ErrEmptyResult.
func WithPermissiveOutput() Option {
	return func(e *Executor) {
		e.permissive = true
	}
}

// New builds an Executor that delegates every stage to gen.
func New(gen llm.Generator, opts ...Option) (*Executor, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	e := &Executor{
		gen:     gen,
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		prompts: DefaultPrompts(),
	}
	for _, opt := range opts {
		opt(e)
	}

	templates, err := compilePrompts(e.prompts)
	if err != nil {
		return nil, err
	}
	e.templates = templates
	return e, nil
}

// Run generates a post for topic and returns only the final rewritten text.
func (e *Executor) Run(ctx context.Context, topic string) (string, error) {
	state, err := e.Execute(ctx, topic)
	if err != nil {
		return "", err
	}
	final, _ := state.Get(FieldFinalBlog)
	return final, nil
}

// Execute runs every stage and returns the state reached. On error the state
// holds only the fields of stages that completed and must not be treated as
// a finished post.
func (e *Executor) Execute(ctx context.Context, topic string) (State, error) {
	if strings.TrimSpace(topic) == "" {
		return State{}, fmt.Errorf("%w: topic is empty", ErrInvalidInput)
	}

	runID := uuid.NewString()
	log := e.logger.With("run_id", runID)
	started := time.Now()

	e.hooks.runStart(ctx, &RunEvent{RunID: runID, Topic: topic})
	log.Info("run started", "topic", topic)

	state := newState(topic)
	var err error
	for _, st := range stages {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("run cancelled before stage %s: %w", st.Name, ctxErr)
			break
		}

		var out string
		out, err = e.runStage(ctx, log, runID, st, state)
		if err != nil {
			break
		}
		state = state.with(st.Produces, out)
	}

	elapsed := time.Since(started)
	e.hooks.runEnd(ctx, &RunEvent{RunID: runID, Topic: topic, Duration: elapsed, Err: err})
	if err != nil {
		log.Error("run failed", "duration", elapsed, "error", err)
		return state, err
	}
	log.Info("run finished", "duration", elapsed)
	return state, nil
}

// runStage renders the stage prompt from state, issues the single generation
// call, and returns the raw text. A result that arrives after the context is
// cancelled is discarded.
func (e *Executor) runStage(ctx context.Context, log *slog.Logger, runID string, st Stage, state State) (string, error) {
	log = log.With("stage", st.Name)

	prompt, err := renderPrompt(e.templates[st.Name], st, state)
	if err != nil {
		return "", &StageError{Stage: st.Name, Err: fmt.Errorf("rendering prompt: %w", err)}
	}

	ev := &StageEvent{RunID: runID, Stage: st.Name}
	e.hooks.stageStart(ctx, ev)
	log.Debug("stage started", "prompt_len", len(prompt))

	started := time.Now()
	out, err := e.gen.Generate(ctx, prompt)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil && !e.permissive && strings.TrimSpace(out) == "" {
		err = ErrEmptyResult
	}
	ev.Duration = time.Since(started)

	if err != nil {
		ev.Err = &StageError{Stage: st.Name, Err: err}
		e.hooks.stageEnd(ctx, ev)
		log.Warn("stage failed", "duration", ev.Duration, "error", err)
		return "", ev.Err
	}

	ev.OutputLen = len(out)
	e.hooks.stageEnd(ctx, ev)
	log.Debug("stage finished", "duration", ev.Duration, "output_len", ev.OutputLen)
	return out, nil
}
