// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch generates posts for many topics. Every topic is an
// independent pipeline run with its own state; a failed topic is reported and
// does not stop the others.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/blogsmith/internal/export"
	"github.com/pdiddy/blogsmith/pkg/types"
)

const defaultConcurrency = 2

// Runner produces the final post for one topic.
type Runner interface {
	Run(ctx context.Context, topic string) (string, error)
}

// Result records the outcome for one topic.
type Result struct {
	Topic string
	Path  string
	Err   error
}

// Summary holds counts and per-topic results from a batch, in input order.
type Summary struct {
	Generated int
	Failed    int
	Results   []Result
}

// Total returns the number of topics processed.
func (s Summary) Total() int {
	return s.Generated + s.Failed
}

// HasFailures reports whether any topic failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run generates a post for each topic with at most cfg.Concurrency runs in
// flight, writes each to out.OutputDir in out.Format, and prints one progress
// line per topic to w. A topic whose file name matches an earlier topic's
// fails without running. The returned error is non-nil only when ctx ends
// before the batch completes.
func Run(ctx context.Context, r Runner, topics []string, cfg types.BatchConfig, out types.ExportConfig, w io.Writer) (Summary, error) {
	if out.OutputDir == "" {
		return Summary{}, fmt.Errorf("batch requires an output directory")
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	results := make([]Result, len(topics))
	var mu sync.Mutex
	progress := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	collisions := fileCollisions(topics, out.Format)

	var g errgroup.Group
	g.SetLimit(limit)
	for i, topic := range topics {
		if err := collisions[i]; err != nil {
			results[i] = Result{Topic: topic, Err: err}
			progress("failed    %s: %v\n", topic, err)
			continue
		}
		g.Go(func() error {
			results[i] = generateOne(ctx, r, topic, out)
			if err := results[i].Err; err != nil {
				progress("failed    %s: %v\n", topic, err)
			} else {
				progress("generated %s -> %s\n", topic, results[i].Path)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := Summary{Results: results}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
		} else {
			summary.Generated++
		}
	}
	return summary, ctx.Err()
}

func generateOne(ctx context.Context, r Runner, topic string, out types.ExportConfig) Result {
	final, err := r.Run(ctx, topic)
	if err != nil {
		return Result{Topic: topic, Err: err}
	}
	path, err := export.WriteFile(out.OutputDir, export.Document{Topic: topic, Body: final}, out.Format)
	if err != nil {
		return Result{Topic: topic, Err: err}
	}
	return Result{Topic: topic, Path: path}
}

// fileCollisions returns, by index, an error for each topic whose export
// file name was already claimed by an earlier topic. Those topics are not run.
func fileCollisions(topics []string, format types.ExportFormat) map[int]error {
	owner := make(map[string]string, len(topics))
	collisions := make(map[int]error)
	for i, topic := range topics {
		name := export.FileName(topic, format)
		if first, ok := owner[name]; ok {
			collisions[i] = fmt.Errorf("output file %s collides with topic %q", name, first)
			continue
		}
		owner[name] = topic
	}
	return collisions
}

// ReadTopics reads one topic per line. Blank lines and lines starting with #
// are skipped, surrounding whitespace is trimmed, and repeated topics are
// kept once.
func ReadTopics(r io.Reader) ([]string, error) {
	var topics []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		topics = append(topics, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading topics: %w", err)
	}
	return topics, nil
}
