// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Echo answers every prompt locally. It is useful for dry runs of the CLI and
// server without credentials: the output quotes the first line of the prompt.
type Echo struct{}

// Generate returns a short markdown block derived from prompt.
func (Echo) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	first := strings.TrimSpace(prompt)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = strings.TrimSpace(first[:i])
	}
	return fmt.Sprintf("## echo\n\n%s\n", first), nil
}

// Scripted is a deterministic Generator for tests. It returns Responses in
// order, one per call, and records every prompt it receives. A non-nil entry in
// Errors at the same index fails that call instead.
type Scripted struct {
	Responses []string
	Errors    []error

	mu      sync.Mutex
	prompts []string
}

// Generate returns the next scripted response.
func (s *Scripted) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)

	if i < len(s.Errors) && s.Errors[i] != nil {
		return "", s.Errors[i]
	}
	if i >= len(s.Responses) {
		return "", fmt.Errorf("scripted generator: no response for call %d", i+1)
	}
	return s.Responses[i], nil
}

// Prompts returns a copy of the prompts received so far.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
