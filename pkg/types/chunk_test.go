package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkValidate(t *testing.T) {
	chunk := Chunk{
		Content:   "Some content.",
		Index:     0,
		StartChar: 0,
		EndChar:   13,
	}
	assert.NoError(t, chunk.Validate())
}

func TestChunkValidate_EmptyContent(t *testing.T) {
	chunk := Chunk{Index: 0}
	assert.Error(t, chunk.Validate())
}

func TestChunkValidate_BadRange(t *testing.T) {
	chunk := Chunk{Content: "x", Index: 0, StartChar: 10, EndChar: 5}
	assert.Error(t, chunk.Validate())

	chunk = Chunk{Content: "x", Index: 0, StartChar: -1, EndChar: 5}
	assert.Error(t, chunk.Validate())
}

func TestChunkValidate_QualityScoreRange(t *testing.T) {
	chunk := Chunk{Content: "x", QualityScore: 1.5}
	assert.Error(t, chunk.Validate())

	chunk.QualityScore = -0.1
	assert.Error(t, chunk.Validate())

	chunk.QualityScore = 0.5
	assert.NoError(t, chunk.Validate())
}

func TestComputeContentHash(t *testing.T) {
	a := Chunk{Content: "same text"}
	b := Chunk{Content: "same text"}
	c := Chunk{Content: "different text"}

	a.ComputeContentHash()
	b.ComputeContentHash()
	c.ComputeContentHash()

	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.NotEqual(t, a.ContentHash, c.ContentHash)
}

func TestValidateSequence(t *testing.T) {
	chunks := []Chunk{
		{Content: "a", Index: 0, StartChar: 0, EndChar: 10},
		{Content: "b", Index: 1, StartChar: 8, EndChar: 20},
		{Content: "c", Index: 2, StartChar: 20, EndChar: 30},
	}
	assert.NoError(t, ValidateSequence(chunks))
}

func TestValidateSequence_BrokenIndex(t *testing.T) {
	chunks := []Chunk{
		{Content: "a", Index: 0},
		{Content: "b", Index: 2},
	}
	assert.Error(t, ValidateSequence(chunks))
}

func TestValidateSequence_DecreasingOffsets(t *testing.T) {
	chunks := []Chunk{
		{Content: "a", Index: 0, StartChar: 100, EndChar: 110},
		{Content: "b", Index: 1, StartChar: 50, EndChar: 60},
	}
	assert.Error(t, ValidateSequence(chunks))
}

func TestPropAccessors(t *testing.T) {
	var chunk Chunk
	chunk.SetProp("name", "value")
	chunk.SetProp("count", 3)
	chunk.SetProp("ratio", 0.5)
	chunk.SetProp("flag", true)

	s, ok := chunk.PropString("name")
	require.True(t, ok)
	assert.Equal(t, "value", s)

	_, ok = chunk.PropString("count")
	assert.False(t, ok) // wrong type

	n, ok := chunk.PropInt("count")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	f, ok := chunk.PropFloat("ratio")
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 1e-9)

	// Ints widen to float
	f, ok = chunk.PropFloat("count")
	require.True(t, ok)
	assert.InDelta(t, 3.0, f, 1e-9)

	assert.True(t, chunk.PropBool("flag"))
	assert.False(t, chunk.PropBool("missing"))

	assert.Equal(t, "value", chunk.PropStringOr("name", "def"))
	assert.Equal(t, "def", chunk.PropStringOr("missing", "def"))
}
