package types

import "time"

// QualityMetrics aggregates per-chunk measurements into document-level scores.
// All scores are in [0, 1].
type QualityMetrics struct {
	AverageCompleteness float64
	ContentConsistency  float64
	BoundaryQuality     float64
	OverallScore        float64

	AverageChunkSize float64
	ChunkSizeStdDev  float64
	TotalChunks      int
	PerChunkScores   []float64
}

// QualityReport is the result of a full quality analysis pass: metrics plus
// rule-based recommendations keyed on fixed thresholds.
type QualityReport struct {
	DocID           string
	Strategy        string
	Metrics         QualityMetrics
	Recommendations []string
	Degraded        bool
}

// StrategyBenchmark is one strategy's slot in a benchmark run. A failed
// strategy is recorded here rather than aborting the whole benchmark.
type StrategyBenchmark struct {
	Strategy       string
	QualityScore   float64
	ProcessingTime time.Duration
	ChunkCount     int
	AvgChunkSize   float64
	Err            string
}

// Failed reports whether this strategy's run ended in an error.
func (b StrategyBenchmark) Failed() bool {
	return b.Err != ""
}

// BenchmarkResult compares strategies over one document.
type BenchmarkResult struct {
	DocID               string
	RecommendedStrategy string
	Results             []StrategyBenchmark
}
