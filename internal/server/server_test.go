// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/blogsmith/internal/llm"
	"github.com/pdiddy/blogsmith/internal/metrics"
	"github.com/pdiddy/blogsmith/internal/pipeline"
)

func newExecutor(t *testing.T, gen llm.Generator, opts ...pipeline.Option) *pipeline.Executor {
	t.Helper()
	ex, err := pipeline.New(gen, opts...)
	require.NoError(t, err)
	return ex
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreatePostJSON(t *testing.T) {
	gen := &llm.Scripted{Responses: []string{"facts", "outline", "draft", "Final “post”"}}
	h := NewHandler(newExecutor(t, gen))

	rec := post(t, h, "/v1/posts", `{"topic":"  Sustainable Living Tips "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp PostResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Sustainable Living Tips", resp.Topic)
	assert.Equal(t, "Final “post”", resp.FinalBlog)
}

func TestCreatePostExport(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
		body        string
	}{
		{format: "text", contentType: "text/plain", filename: "Green_Tips_blog.txt", body: "Final \"post\""},
		{format: "markdown", contentType: "text/markdown", filename: "Green_Tips_blog.md", body: "Final “post”"},
		{format: "html", contentType: "text/html", filename: "Green_Tips_blog.html", body: "<title>Green Tips</title>"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			gen := &llm.Scripted{Responses: []string{"f", "o", "d", "Final “post”"}}
			h := NewHandler(newExecutor(t, gen))

			rec := post(t, h, "/v1/posts?format="+tt.format, `{"topic":"Green Tips"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, rec.Header().Get("Content-Disposition"))
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestCreatePostRejectsBadRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	gen := &llm.Scripted{}
	h := NewHandler(newExecutor(t, gen), WithMetrics(m, reg))

	for name, tc := range map[string]struct{ target, body string }{
		"empty topic":    {target: "/v1/posts", body: `{"topic":"   "}`},
		"missing topic":  {target: "/v1/posts", body: `{}`},
		"unknown format": {target: "/v1/posts?format=pdf", body: `{"topic":"x"}`},
		"malformed body": {target: "/v1/posts", body: `{"topic":`},
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, tc.target, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, gen.Prompts(), "no stage runs for a rejected request")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Runs.WithLabelValues(metrics.OutcomeInvalid)))
}

func TestCreatePostStageFailure(t *testing.T) {
	gen := &llm.Scripted{
		Responses: []string{"facts", "outline"},
		Errors:    []error{nil, nil, errors.New("model overloaded")},
	}
	h := NewHandler(newExecutor(t, gen))

	rec := post(t, h, "/v1/posts", `{"topic":"AI in Education"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pipeline.StageDraft, resp.Stage)
	assert.Contains(t, resp.Error, "model overloaded")
	assert.NotContains(t, rec.Body.String(), "final_blog")
}

func TestCreatePostTimeout(t *testing.T) {
	slow := llm.Func(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	h := NewHandler(newExecutor(t, slow), WithRunTimeout(20*time.Millisecond))

	rec := post(t, h, "/v1/posts", `{"topic":"bees"}`)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pipeline.StageResearch, resp.Stage)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	ex := newExecutor(t, llm.Echo{}, pipeline.WithHooks(m.Hooks()))
	srv := httptest.NewServer(NewHandler(ex, WithMetrics(m, reg)))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	resp, err = http.Post(srv.URL+"/v1/posts", "application/json", strings.NewReader(`{"topic":"bees"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `blogsmith_runs_total{outcome="success"} 1`)
	assert.Contains(t, string(body), `blogsmith_stage_duration_seconds_count{stage="rewrite"} 1`)
}

func TestMetricsRouteAbsentWithoutGatherer(t *testing.T) {
	h := NewHandler(newExecutor(t, llm.Echo{}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, "127.0.0.1:0", http.NotFoundHandler(), discardLogger())
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
