// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// Stage names, in run order.
const (
	StageResearch = "research"
	StageOutline  = "outline"
	StageDraft    = "draft"
	StageRewrite  = "rewrite"
)

// Stage is one transformation step: it reads a subset of the state, issues
// exactly one generation request, and produces one new field from the raw
// response text.
type Stage struct {
	Name     string
	Reads    []Field
	Produces Field
}

// stages is the fixed run order: research, outline, draft, rewrite.
var stages = []Stage{
	{Name: StageResearch, Reads: []Field{FieldTopic}, Produces: FieldFacts},
	{Name: StageOutline, Reads: []Field{FieldTopic, FieldFacts}, Produces: FieldOutline},
	{Name: StageDraft, Reads: []Field{FieldOutline}, Produces: FieldDraft},
	{Name: StageRewrite, Reads: []Field{FieldDraft}, Produces: FieldFinalBlog},
}

// Stages returns the ordered stage list.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}
