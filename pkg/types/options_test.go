package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkingOptions(t *testing.T) {
	opts := NewChunkingOptions()
	assert.Equal(t, StrategyAuto, opts.Strategy)
	assert.Equal(t, DefaultMaxChunkSize, opts.MaxChunkSize)
	assert.Equal(t, DefaultOverlapSize, opts.OverlapSize)
	assert.NoError(t, opts.Validate())
}

func TestOptionsValidate_NonPositiveSize(t *testing.T) {
	opts := NewChunkingOptions()
	opts.MaxChunkSize = 0

	err := opts.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "max_chunk_size", cfgErr.Option)
}

func TestOptionsValidate_NegativeOverlap(t *testing.T) {
	opts := NewChunkingOptions()
	opts.OverlapSize = -1

	var cfgErr *ConfigurationError
	require.True(t, errors.As(opts.Validate(), &cfgErr))
	assert.Equal(t, "overlap_size", cfgErr.Option)
}

func TestOptionsValidate_OverlapNotSmaller(t *testing.T) {
	opts := NewChunkingOptions()
	opts.MaxChunkSize = 100
	opts.OverlapSize = 100

	var cfgErr *ConfigurationError
	require.True(t, errors.As(opts.Validate(), &cfgErr))
	assert.Equal(t, "overlap_size", cfgErr.Option)

	opts.OverlapSize = 99
	assert.NoError(t, opts.Validate())
}

func TestCohesionLevelForScore(t *testing.T) {
	assert.Equal(t, CohesionVeryHigh, CohesionLevelForScore(0.8))
	assert.Equal(t, CohesionHigh, CohesionLevelForScore(0.7))
	assert.Equal(t, CohesionMedium, CohesionLevelForScore(0.5))
	assert.Equal(t, CohesionLow, CohesionLevelForScore(0.35))
	assert.Equal(t, CohesionVeryLow, CohesionLevelForScore(0.1))
}
