package chunking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chunksmith/chunksmith-mcp/internal/textgen"
	"github.com/chunksmith/chunksmith-mcp/pkg/types"
)

// Engine resolves a strategy, runs it, and finalizes the produced chunks:
// identity, ordering, hashing, and enrichment props. It is the only entry
// point the server and the quality analyzer use for chunking.
type Engine struct {
	registry *Registry
	selector *Selector
	logger   *slog.Logger
}

// NewEngine wires an engine around a frozen registry.
func NewEngine(registry *Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		selector: NewSelector(),
		logger:   logger,
	}
}

// NewDefaultRegistry registers the full strategy set, configures the
// fixed-size fallback, and freezes the registry. completion may be nil.
func NewDefaultRegistry(completion textgen.Provider) *Registry {
	r := NewRegistry()
	// Registration happens during startup only; errors here mean a
	// duplicate name, which is a programming error.
	mustRegister := func(name string, f Factory) {
		if err := r.Register(name, f); err != nil {
			panic(err)
		}
	}
	mustRegister(types.StrategyFixedSize, func() Strategy { return NewFixedSize() })
	mustRegister(types.StrategyParagraph, func() Strategy { return NewParagraph() })
	mustRegister(types.StrategySemantic, func() Strategy { return NewSemantic() })
	mustRegister(types.StrategySmart, func() Strategy { return NewSmart() })
	mustRegister(types.StrategyHierarchical, func() Strategy { return NewHierarchical() })
	mustRegister(types.StrategyPageLevel, func() Strategy { return NewPageLevel() })
	mustRegister(types.StrategyRecursive, func() Strategy { return NewRecursive() })
	mustRegister(types.StrategyIntelligent, func() Strategy { return NewIntelligent(completion) })
	if err := r.SetFallback(types.StrategyFixedSize); err != nil {
		panic(err)
	}
	r.Freeze()
	return r
}

// Chunk validates options, resolves the strategy (running auto-selection
// when requested), executes it, and finalizes the chunk sequence.
func (e *Engine) Chunk(ctx context.Context, doc *types.Document, opts types.ChunkingOptions) ([]types.Chunk, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.ID, err)
	}
	if doc.Text == "" {
		return nil, fmt.Errorf("document %q: %w", doc.ID, types.ErrEmptyDocument)
	}

	name := opts.Strategy
	if name == "" {
		name = types.StrategyAuto
	}

	autoSelected := ""
	if name == types.StrategyAuto {
		sel := e.selector.Select(doc, opts)
		e.logger.Debug("auto-selected strategy",
			"doc", doc.ID, "strategy", sel.Strategy, "reason", sel.Reason)
		name = sel.Strategy
		opts = sel.Options
		autoSelected = sel.Strategy
	}

	strategy, usedFallback, err := e.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", doc.ID, err)
	}
	if usedFallback {
		e.logger.Warn("strategy not registered, using fallback",
			"doc", doc.ID, "requested", name, "fallback", strategy.Name())
	}

	chunks, err := strategy.Chunk(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("strategy %q on document %q: %w", strategy.Name(), doc.ID, err)
	}

	e.finalize(doc, strategy.Name(), chunks, opts, autoSelected, usedFallback, name)

	if err := types.ValidateSequence(chunks); err != nil {
		return nil, fmt.Errorf("strategy %q on document %q: %w", strategy.Name(), doc.ID, err)
	}
	return chunks, nil
}

// finalize assigns identity and ordering, hashes content, and writes the
// enrichment props every chunk must expose.
func (e *Engine) finalize(doc *types.Document, strategyName string, chunks []types.Chunk,
	opts types.ChunkingOptions, autoSelected string, usedFallback bool, requested string) {
	for i := range chunks {
		c := &chunks[i]
		c.ID = uuid.NewString()
		c.DocID = doc.ID
		c.Index = i
		c.Strategy = strategyName
		c.ComputeContentHash()

		contentType := ClassifyContent(c.Content)
		c.SetProp(types.PropContentType, string(contentType))
		c.SetProp(types.PropStructuralRole, string(classifyRole(contentType, i, len(chunks))))
		c.SetProp(types.PropTokenEstimate, EstimateTokens(c.Content))
		if autoSelected != "" {
			c.SetProp(types.PropAutoStrategy, autoSelected)
		}
		if usedFallback {
			c.SetProp(types.PropFallback,
				fmt.Sprintf("strategy %q not registered, fell back to %q", requested, strategyName))
		}
		for k, v := range opts.CustomProperties {
			c.SetProp(k, v)
		}
	}
}
