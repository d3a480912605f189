package chunking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

type stubStrategy struct{ name string }

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	return nil, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	r.Freeze()

	s, usedFallback, err := r.Get("stub")
	require.NoError(t, err)
	assert.False(t, usedFallback)
	assert.Equal(t, "stub", s.Name())
}

func TestRegistryDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	assert.Error(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
}

func TestRegistryFrozenRejectsWrites(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	r.Freeze()

	err := r.Register("late", func() Strategy { return &stubStrategy{name: "late"} })
	assert.ErrorIs(t, err, types.ErrRegistryFrozen)

	err = r.SetFallback("stub")
	assert.ErrorIs(t, err, types.ErrRegistryFrozen)
}

func TestRegistryUnknownWithoutFallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	r.Freeze()

	_, _, err := r.Get("missing")
	var unknownErr *types.UnknownStrategyError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "missing", unknownErr.Name)
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	require.NoError(t, r.SetFallback("stub"))
	r.Freeze()

	s, usedFallback, err := r.Get("missing")
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.Equal(t, "stub", s.Name())
}

func TestRegistryFallbackMustExist(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.SetFallback("missing"))
}

func TestRegistryConcurrentReadsAfterFreeze(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stub", func() Strategy { return &stubStrategy{name: "stub"} }))
	r.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s, _, err := r.Get("stub")
				assert.NoError(t, err)
				assert.NotNil(t, s)
			}
		}()
	}
	wg.Wait()
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(nil)

	names := r.Names()
	assert.Len(t, names, 8)
	for _, name := range []string{
		types.StrategyFixedSize, types.StrategyParagraph, types.StrategySemantic,
		types.StrategySmart, types.StrategyHierarchical, types.StrategyPageLevel,
		types.StrategyRecursive, types.StrategyIntelligent,
	} {
		s, usedFallback, err := r.Get(name)
		require.NoError(t, err, name)
		assert.False(t, usedFallback)
		assert.Equal(t, name, s.Name())
	}

	// Unknown names resolve to the fixed-size fallback
	s, usedFallback, err := r.Get("nonexistent")
	require.NoError(t, err)
	assert.True(t, usedFallback)
	assert.Equal(t, types.StrategyFixedSize, s.Name())
}
