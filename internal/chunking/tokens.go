package chunking

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokensPerChar is the heuristic divisor for estimating tokens (chars/4)
// when no BPE encoding is available.
const TokensPerChar = 4

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// EstimateTokens estimates the token count of text. It uses the cl100k_base
// BPE encoding when it can be loaded, and falls back to the chars/4
// heuristic otherwise (the encoding data may be unavailable offline).
func EstimateTokens(text string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
		if err == nil {
			encoding = enc
		}
	})
	if encoding != nil {
		return len(encoding.Encode(text, nil, nil))
	}
	return len(text) / TokensPerChar
}
