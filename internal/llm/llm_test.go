// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blogsmith/pkg/types"
)

const chatCompletionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "ten facts"}}
  ]
}`

// chatRequest captures the fields of the chat completions body the tests inspect.
type chatRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, body string, got *chatRequest, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestOpenAIGenerate(t *testing.T) {
	var got chatRequest
	var calls int32
	ts := newChatServer(t, http.StatusOK, chatCompletionJSON, &got, &calls)
	defer ts.Close()

	gen, err := NewOpenAI(types.AIConfig{APIKey: "sk-test", BaseURL: ts.URL, Temperature: 0.7}, ts.Client())
	require.NoError(t, err)

	text, err := gen.Generate(context.Background(), "List 10 facts")
	require.NoError(t, err)

	assert.Equal(t, "ten facts", text)
	assert.Equal(t, defaultModel, got.Model)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "List 10 facts", got.Messages[0].Content)
}

func TestOpenAIGenerateSendsZeroTemperature(t *testing.T) {
	var got chatRequest
	var calls int32
	ts := newChatServer(t, http.StatusOK, chatCompletionJSON, &got, &calls)
	defer ts.Close()

	gen, err := NewOpenAI(types.AIConfig{APIKey: "sk-test", BaseURL: ts.URL, Temperature: 0}, ts.Client())
	require.NoError(t, err)
	assert.Equal(t, 0.0, gen.Temperature)

	_, err = gen.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.NotNil(t, got.Temperature, "temperature must be sent even when zero")
	assert.Equal(t, 0.0, *got.Temperature)
}

func TestOpenAIGenerateServerErrorIsNotRetried(t *testing.T) {
	var calls int32
	ts := newChatServer(t, http.StatusInternalServerError, `{"error":{"message":"boom"}}`, nil, &calls)
	defer ts.Close()

	gen, err := NewOpenAI(types.AIConfig{APIKey: "sk-test", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	var calls int32
	ts := newChatServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, nil, &calls)
	defer ts.Close()

	gen, err := NewOpenAI(types.AIConfig{APIKey: "sk-test", BaseURL: ts.URL}, ts.Client())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.AIConfig
		wantErr string
		check   func(t *testing.T, g Generator)
	}{
		{
			name: "openai by default",
			cfg:  types.AIConfig{APIKey: "sk"},
			check: func(t *testing.T, g Generator) {
				o, ok := g.(*OpenAI)
				require.True(t, ok)
				assert.Equal(t, defaultModel, o.Model)
			},
		},
		{
			name: "compatible keeps model",
			cfg:  types.AIConfig{Provider: types.ProviderOpenAICompatible, APIKey: "sk", BaseURL: "http://localhost:11434/v1", Model: "llama3"},
			check: func(t *testing.T, g Generator) {
				assert.Equal(t, "llama3", g.(*OpenAI).Model)
			},
		},
		{
			name:    "compatible requires base url",
			cfg:     types.AIConfig{Provider: types.ProviderOpenAICompatible, APIKey: "sk"},
			wantErr: "requires base_url",
		},
		{
			name:    "missing api key",
			cfg:     types.AIConfig{Provider: types.ProviderOpenAI},
			wantErr: "api key missing",
		},
		{
			name: "echo needs no key",
			cfg:  types.AIConfig{Provider: types.ProviderEcho},
			check: func(t *testing.T, g Generator) {
				assert.IsType(t, Echo{}, g)
			},
		},
		{
			name:    "unknown provider",
			cfg:     types.AIConfig{Provider: "bard"},
			wantErr: "not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewFromConfig(tt.cfg, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, g)
		})
	}
}

func TestEcho(t *testing.T) {
	out, err := Echo{}.Generate(context.Background(), "  Write a post\nmore lines")
	require.NoError(t, err)
	assert.Equal(t, "## echo\n\nWrite a post\n", out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Echo{}.Generate(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScripted(t *testing.T) {
	boom := errors.New("boom")
	s := &Scripted{Responses: []string{"a", "", "c"}, Errors: []error{nil, boom}}

	out, err := s.Generate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	_, err = s.Generate(context.Background(), "p2")
	assert.ErrorIs(t, err, boom)

	out, err = s.Generate(context.Background(), "p3")
	require.NoError(t, err)
	assert.Equal(t, "c", out)

	_, err = s.Generate(context.Background(), "p4")
	assert.Error(t, err)

	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, s.Prompts())
}

func TestFunc(t *testing.T) {
	g := Func(func(_ context.Context, p string) (string, error) { return strings.ToUpper(p), nil })
	out, err := g.Generate(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)
}
