package chunk

import (
	"fmt"
	"strings"
)

const (
	// DefaultTargetTokens is the default token budget per chunk.
	DefaultTargetTokens = 280

	// DefaultOverlapTokens is the default token budget for the sentence
	// overlap carried between consecutive chunks.
	DefaultOverlapTokens = 40
)

// Packer greedily groups sentences into chunks bounded by a token budget,
// carrying a sentence-aligned overlap from the tail of each emitted chunk
// into the next one. A Packer is stateless between calls and safe to use
// concurrently as long as its TokenCounter is.
type Packer struct {
	counter       TokenCounter
	targetTokens  int
	overlapTokens int
}

// NewPacker creates a Packer. targetTokens must be positive; overlapTokens
// must be non-negative and smaller than targetTokens. A nil counter selects
// the word estimator fallback.
func NewPacker(counter TokenCounter, targetTokens, overlapTokens int) (*Packer, error) {
	if targetTokens <= 0 {
		return nil, fmt.Errorf("target tokens must be positive, got %d", targetTokens)
	}
	if overlapTokens < 0 {
		return nil, fmt.Errorf("overlap tokens must not be negative, got %d", overlapTokens)
	}
	if overlapTokens >= targetTokens {
		return nil, fmt.Errorf("overlap tokens (%d) must be smaller than target tokens (%d)", overlapTokens, targetTokens)
	}
	if counter == nil {
		counter = NewWordEstimator()
	}
	return &Packer{
		counter:       counter,
		targetTokens:  targetTokens,
		overlapTokens: overlapTokens,
	}, nil
}

// Pack consumes sentences in order and returns the ordered chunk texts, each
// chunk being its member sentences joined by single spaces.
//
// A chunk is emitted as soon as the next sentence would push the pending
// buffer past the target budget, so a sentence landing exactly on the target
// is still included. A single sentence larger than the target is never
// split; it occupies a chunk alone. Each iteration consumes exactly one
// sentence, so packing terminates in O(len(sentences)) steps regardless of
// parameter sanity.
func (p *Packer) Pack(sentences []string) []string {
	var chunks []string
	var buf []string
	var bufTokens []int
	total := 0

	for _, s := range sentences {
		t := p.counter.Count(s)

		if len(buf) > 0 && total+t > p.targetTokens {
			chunks = append(chunks, strings.Join(buf, " "))
			buf, bufTokens, total = p.carryOverlap(buf, bufTokens)
		}

		buf = append(buf, s)
		bufTokens = append(bufTokens, t)
		total += t
	}

	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, " "))
	}

	return chunks
}

// PackText splits text into sentences and packs them.
func (p *Packer) PackText(text string) []string {
	return p.Pack(SplitSentences(text))
}

// TargetTokens returns the configured token budget per chunk.
func (p *Packer) TargetTokens() int { return p.targetTokens }

// OverlapTokens returns the configured overlap budget.
func (p *Packer) OverlapTokens() int { return p.overlapTokens }

// Counter returns the token counter the packer sizes chunks with.
func (p *Packer) Counter() TokenCounter { return p.counter }

// carryOverlap seeds the next buffer with whole sentences taken from the end
// of the just-emitted one. Walking backward, sentences are accumulated while
// their cumulative token count stays within the overlap budget; the first
// sentence that would exceed it stops the walk. Document order is preserved
// in the returned seed.
func (p *Packer) carryOverlap(buf []string, bufTokens []int) ([]string, []int, int) {
	if p.overlapTokens <= 0 {
		return nil, nil, 0
	}

	taken := 0
	total := 0
	for i := len(buf) - 1; i >= 0; i-- {
		if total+bufTokens[i] > p.overlapTokens {
			break
		}
		total += bufTokens[i]
		taken++
	}
	if taken == 0 {
		return nil, nil, 0
	}

	seed := make([]string, taken)
	seedTokens := make([]int, taken)
	copy(seed, buf[len(buf)-taken:])
	copy(seedTokens, bufTokens[len(bufTokens)-taken:])
	return seed, seedTokens, total
}
