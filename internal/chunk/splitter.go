package chunk

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// SplitSentences splits a text block into an ordered sequence of
// sentence-like units. Runs of whitespace (including newlines) collapse to a
// single space, bullet markers become sentence boundaries, and the text is
// split wherever terminal punctuation (. ! ?) is followed by a space and an
// uppercase letter or digit. Punctuation stays attached to the preceding
// sentence. Empty segments are dropped, so text without any terminal
// punctuation comes back as a single sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	// A standalone bullet becomes a terminator so each bullet item turns
	// into its own sentence segment.
	text = strings.ReplaceAll(text, "•", ". ")

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Boundary: terminal punctuation, whitespace, then an uppercase
		// letter or digit. The bullet substitution can double up spaces, so
		// accept a run.
		next := i + 1
		for next < len(runes) && runes[next] == ' ' {
			next++
		}
		if next > i+1 && next < len(runes) && isSentenceStart(runes[next]) {
			if seg := strings.TrimSpace(string(runes[start : i+1])); seg != "" {
				sentences = append(sentences, seg)
			}
			start = next
			i = next - 1
		}
	}
	if seg := strings.TrimSpace(string(runes[start:])); seg != "" {
		sentences = append(sentences, seg)
	}

	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSentenceStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
