package storage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chunksmith/chunksmith-mcp/internal/embedder"
)

// CachingEmbedder wraps an embedding provider with the persistent store:
// lookups hit SQLite first, misses go to the inner provider and are written
// back. Store failures degrade to pass-through; embedding always works when
// the inner provider works.
type CachingEmbedder struct {
	inner  embedder.Provider
	store  Store
	logger *slog.Logger
}

// NewCachingEmbedder wraps inner with the persistent cache in store.
func NewCachingEmbedder(inner embedder.Provider, store Store, logger *slog.Logger) *CachingEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingEmbedder{inner: inner, store: store, logger: logger}
}

// Embed returns the cached embedding for text when present, otherwise
// embeds and stores it.
func (c *CachingEmbedder) Embed(ctx context.Context, text string) (*embedder.Embedding, error) {
	hash := embedder.ComputeHash(text)
	if cached := c.lookup(ctx, hash); cached != nil {
		return cached, nil
	}

	emb, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.writeBack(ctx, hash, emb)
	return emb, nil
}

// EmbedBatch serves cached entries and embeds only the misses, preserving
// input order in the result.
func (c *CachingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]*embedder.Embedding, error) {
	out := make([]*embedder.Embedding, len(texts))
	hashes := make([]string, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		hashes[i] = embedder.ComputeHash(text)
		if cached := c.lookup(ctx, hashes[i]); cached != nil {
			out[i] = cached
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	embs, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, emb := range embs {
		i := missIdx[j]
		out[i] = emb
		c.writeBack(ctx, hashes[i], emb)
	}
	return out, nil
}

func (c *CachingEmbedder) lookup(ctx context.Context, hash string) *embedder.Embedding {
	stored, err := c.store.GetEmbedding(ctx, hash, c.inner.Name(), c.inner.Model())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("embedding cache lookup failed", "error", err)
		}
		return nil
	}
	return &embedder.Embedding{
		Vector:    stored.Vector,
		Dimension: stored.Dimension,
		Provider:  stored.Provider,
		Model:     stored.Model,
		Hash:      stored.ContentHash,
	}
}

func (c *CachingEmbedder) writeBack(ctx context.Context, hash string, emb *embedder.Embedding) {
	err := c.store.PutEmbedding(ctx, &StoredEmbedding{
		ContentHash: hash,
		Provider:    c.inner.Name(),
		Model:       c.inner.Model(),
		Dimension:   emb.Dimension,
		Vector:      emb.Vector,
	})
	if err != nil {
		c.logger.Warn("embedding cache write failed", "error", err)
	}
}

// Dimension reports the inner provider's dimension.
func (c *CachingEmbedder) Dimension() int { return c.inner.Dimension() }

// Name reports the inner provider's name.
func (c *CachingEmbedder) Name() string { return c.inner.Name() }

// Model reports the inner provider's model.
func (c *CachingEmbedder) Model() string { return c.inner.Model() }

// Close closes the inner provider. The store is owned by the caller and is
// closed separately.
func (c *CachingEmbedder) Close() error { return c.inner.Close() }
