// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"go.yaml.in/yaml/v3"
)

// Prompts maps a stage name to its text/template source. Templates see only
// the fields the stage reads, as {{.Topic}}, {{.Facts}}, {{.Outline}} and
// {{.Draft}}.
type Prompts map[string]string

// defaultPrompts carries the stock instruction for each stage.
var defaultPrompts = Prompts{
	StageResearch: `List 10 factual and up-to-date insights about the topic '{{.Topic}}'.`,

	StageOutline: `Create a clear, SEO-optimized blog outline for '{{.Topic}}'
based on these facts:
{{.Facts}}
`,

	StageDraft: `Write a detailed and engaging blog post following this outline:
{{.Outline}}

Tone: Human, conversational, informative.
Length: Around 800-1200 words.
`,

	StageRewrite: `Rewrite this blog naturally to make it sound 100% human-written,
engaging, and plagiarism-free (no AI traces):
{{.Draft}}
`,
}

// DefaultPrompts returns a copy of the stock prompt templates.
func DefaultPrompts() Prompts {
	out := make(Prompts, len(defaultPrompts))
	for k, v := range defaultPrompts {
		out[k] = v
	}
	return out
}

// LoadPrompts reads a YAML file of prompt overrides keyed by stage name and
// returns the defaults with those overrides applied.
func LoadPrompts(path string) (Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompts file: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing prompts file %s: %w", path, err)
	}

	prompts := DefaultPrompts()
	var unknown []string
	for name, tmpl := range overrides {
		if _, ok := prompts[name]; !ok {
			unknown = append(unknown, name)
			continue
		}
		prompts[name] = tmpl
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("prompts file %s: unknown stage(s) %s", path, strings.Join(unknown, ", "))
	}
	return prompts, nil
}

// templateKey is the name a field is exposed under inside a prompt template.
func templateKey(f Field) string {
	switch f {
	case FieldTopic:
		return "Topic"
	case FieldFacts:
		return "Facts"
	case FieldOutline:
		return "Outline"
	case FieldDraft:
		return "Draft"
	default:
		return "FinalBlog"
	}
}

// compilePrompts parses one template per stage and dry-runs it against
// placeholder values, so a template referring to a field its stage does not
// read is rejected before any run starts.
func compilePrompts(p Prompts) (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(stages))
	for _, st := range stages {
		src, ok := p[st.Name]
		if !ok || strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("no prompt template for stage %s", st.Name)
		}
		tmpl, err := template.New(st.Name).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt for stage %s: %w", st.Name, err)
		}
		placeholder := make(map[string]string, len(st.Reads))
		for _, f := range st.Reads {
			placeholder[templateKey(f)] = string(f)
		}
		if err := tmpl.Execute(&bytes.Buffer{}, placeholder); err != nil {
			return nil, fmt.Errorf("prompt for stage %s may only use %s: %w", st.Name, readKeys(st), err)
		}
		out[st.Name] = tmpl
	}
	return out, nil
}

// renderPrompt executes tmpl with the fields st reads from state.
func renderPrompt(tmpl *template.Template, st Stage, state State) (string, error) {
	data := make(map[string]string, len(st.Reads))
	for _, f := range st.Reads {
		v, ok := state.Get(f)
		if !ok {
			return "", fmt.Errorf("field %s not yet produced", f)
		}
		data[templateKey(f)] = v
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func readKeys(st Stage) string {
	keys := make([]string, len(st.Reads))
	for i, f := range st.Reads {
		keys[i] = "{{." + templateKey(f) + "}}"
	}
	return strings.Join(keys, ", ")
}
