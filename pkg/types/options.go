package types

// Strategy names. The set is closed; dispatch goes through the registry,
// never through reflection.
const (
	StrategyAuto         = "auto"
	StrategySmart        = "smart"
	StrategyIntelligent  = "intelligent"
	StrategySemantic     = "semantic"
	StrategyParagraph    = "paragraph"
	StrategyFixedSize    = "fixed_size"
	StrategyHierarchical = "hierarchical"
	StrategyPageLevel    = "page_level"
	StrategyRecursive    = "recursive"
)

// Defaults applied by NewChunkingOptions.
const (
	DefaultMaxChunkSize = 1024
	DefaultOverlapSize  = 128
)

// ChunkingOptions configures a chunking run. Invalid combinations are
// rejected up front; nothing is silently clamped.
type ChunkingOptions struct {
	Strategy          string
	MaxChunkSize      int
	OverlapSize       int
	PreserveStructure bool
	StrategyOptions   map[string]any
	CustomProperties  map[string]any
}

// NewChunkingOptions returns options with documented defaults: the auto
// strategy, 1024 max size, 128 overlap.
func NewChunkingOptions() ChunkingOptions {
	return ChunkingOptions{
		Strategy:     StrategyAuto,
		MaxChunkSize: DefaultMaxChunkSize,
		OverlapSize:  DefaultOverlapSize,
	}
}

// Validate rejects invalid option combinations before any chunking begins.
func (o ChunkingOptions) Validate() error {
	if o.MaxChunkSize <= 0 {
		return &ConfigurationError{
			Option: "max_chunk_size",
			Value:  o.MaxChunkSize,
			Reason: "must be greater than zero",
		}
	}
	if o.OverlapSize < 0 {
		return &ConfigurationError{
			Option: "overlap_size",
			Value:  o.OverlapSize,
			Reason: "cannot be negative",
		}
	}
	if o.OverlapSize >= o.MaxChunkSize {
		return &ConfigurationError{
			Option: "overlap_size",
			Value:  o.OverlapSize,
			Reason: "must be smaller than max_chunk_size",
		}
	}
	return nil
}

// StrategyOption returns a strategy-specific option value.
func (o ChunkingOptions) StrategyOption(key string) (any, bool) {
	v, ok := o.StrategyOptions[key]
	return v, ok
}
