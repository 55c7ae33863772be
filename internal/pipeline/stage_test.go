// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagesContract(t *testing.T) {
	got := Stages()
	require.Len(t, got, 4)

	assert.Equal(t, StageResearch, got[0].Name)
	assert.Equal(t, []Field{FieldTopic}, got[0].Reads)
	assert.Equal(t, FieldFacts, got[0].Produces)

	assert.Equal(t, StageOutline, got[1].Name)
	assert.Equal(t, []Field{FieldTopic, FieldFacts}, got[1].Reads)
	assert.Equal(t, FieldOutline, got[1].Produces)

	assert.Equal(t, StageDraft, got[2].Name)
	assert.Equal(t, []Field{FieldOutline}, got[2].Reads)
	assert.Equal(t, FieldDraft, got[2].Produces)

	assert.Equal(t, StageRewrite, got[3].Name)
	assert.Equal(t, []Field{FieldDraft}, got[3].Reads)
	assert.Equal(t, FieldFinalBlog, got[3].Produces)

	got[0].Name = "mutated"
	assert.Equal(t, StageResearch, Stages()[0].Name)
}
