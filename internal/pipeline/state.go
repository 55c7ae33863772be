// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "fmt"

// Field names one entry of the pipeline state.
type Field string

const (
	FieldTopic     Field = "topic"
	FieldFacts     Field = "facts"
	FieldOutline   Field = "outline"
	FieldDraft     Field = "draft"
	FieldFinalBlog Field = "final_blog"
)

// fieldOrder is the order in which fields are produced during a run.
var fieldOrder = []Field{FieldTopic, FieldFacts, FieldOutline, FieldDraft, FieldFinalBlog}

// State is the accumulating record of one run. It is an immutable snapshot:
// merging a stage result returns a new State and leaves the receiver intact,
// so a snapshot handed to a stage can never change underneath it.
type State struct {
	values map[Field]string
}

func newState(topic string) State {
	return State{values: map[Field]string{FieldTopic: topic}}
}

// Get returns the value of f and whether it has been produced.
func (s State) Get(f Field) (string, bool) {
	v, ok := s.values[f]
	return v, ok
}

// Has reports whether f has been produced.
func (s State) Has(f Field) bool {
	_, ok := s.values[f]
	return ok
}

// Fields returns the produced fields in production order.
func (s State) Fields() []Field {
	var out []Field
	for _, f := range fieldOrder {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Map returns a copy of the state keyed by field name, for display by callers.
func (s State) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for f, v := range s.values {
		out[string(f)] = v
	}
	return out
}

// with returns a copy of s with f set. A field is written once per run;
// writing it again is a programming error.
func (s State) with(f Field, v string) State {
	if s.Has(f) {
		panic(fmt.Sprintf("pipeline: field %s already set", f))
	}
	next := make(map[Field]string, len(s.values)+1)
	for k, old := range s.values {
		next[k] = old
	}
	next[f] = v
	return State{values: next}
}
