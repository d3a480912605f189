// Package embedder generates vector embeddings for text segments using
// pluggable providers (Jina AI, OpenAI, local deterministic vectors).
//
// The semantic analysis packages depend only on the Provider interface and
// the Similarity function; which provider backs them is decided once at
// startup via NewFromEnv or New.
//
// # Basic Usage
//
//	prov, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer prov.Close()
//
//	emb, err := prov.Embed(ctx, "The quarterly report shows growth.")
//	fmt.Printf("dimension: %d\n", emb.Dimension)
//
// # Batching
//
// EmbedBatch reduces API round trips when scoring many sentences at once.
// Batches are capped at MaxBatchSize; EmbedAll embeds inputs of any size
// by splitting them into capped batches, and is what the analysis packages
// call.
//
// # Caching
//
// Providers share an LRU cache keyed by content hash, so repeated analysis
// of the same sentences (common when benchmarking several strategies over
// one document) does not re-issue API calls. A persistent second-level
// cache lives in the storage package.
//
// # Degradation
//
// API providers retry with exponential backoff and honor context
// cancellation. When no provider is configured at all, analysis code paths
// fall back to lexical statistics and mark their results degraded rather
// than failing.
package embedder
