package chunk

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// DefaultEncoding is the tiktoken encoding used when none is configured.
	// cl100k_base matches GPT-4 and most recent embedding models.
	DefaultEncoding = "cl100k_base"

	// WordTokenRatio approximates the average tokens-per-word ratio of
	// English prose. Used by WordEstimator when no exact tokenizer is
	// available.
	WordTokenRatio = 0.75
)

// TokenCounter estimates the number of tokens in a string. Implementations
// must be safe for concurrent use and return a count > 0 for any string
// containing at least one non-whitespace character.
type TokenCounter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens exactly using a tiktoken BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter for the given encoding or model name.
// An empty string selects DefaultEncoding. The name is first tried as an
// encoding, then as a model name.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		enc, err = tiktoken.EncodingForModel(encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
		}
	}

	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the exact token count of text under the configured encoding.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// WordEstimator approximates token counts from whitespace-separated word
// counts. It is dependency-free and deterministic, so chunking always
// functions even when no tiktoken vocabulary can be loaded.
type WordEstimator struct {
	// Ratio is the tokens-per-word multiplier. Zero or negative values
	// fall back to WordTokenRatio.
	Ratio float64
}

// NewWordEstimator creates a WordEstimator with the default ratio.
func NewWordEstimator() *WordEstimator {
	return &WordEstimator{Ratio: WordTokenRatio}
}

// Count estimates tokens as int(words * ratio), truncated. Any text with at
// least one word counts as at least one token; whitespace-only text counts
// as zero.
func (e *WordEstimator) Count(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	ratio := e.Ratio
	if ratio <= 0 {
		ratio = WordTokenRatio
	}

	n := int(float64(words) * ratio)
	if n < 1 {
		n = 1
	}
	return n
}

// NewTokenCounter resolves a TokenCounter once at construction time: it
// prefers an exact tiktoken counter for the given encoding and silently
// falls back to the word estimator when the encoding cannot be loaded
// (for example when the vocabulary is not cached and cannot be fetched).
func NewTokenCounter(encoding string) TokenCounter {
	if counter, err := NewTiktokenCounter(encoding); err == nil {
		return counter
	}
	return NewWordEstimator()
}
