package chunk

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "  \n\t ",
			want: nil,
		},
		{
			name: "no terminal punctuation returns whole text",
			text: "a fragment without any terminator",
			want: []string{"a fragment without any terminator"},
		},
		{
			name: "two sentences",
			text: "First sentence. Second sentence.",
			want: []string{"First sentence.", "Second sentence."},
		},
		{
			name: "question and exclamation boundaries",
			text: "Is it safe? Yes! Proceed with care.",
			want: []string{"Is it safe?", "Yes!", "Proceed with care."},
		},
		{
			name: "digit starts a sentence",
			text: "See section 4. 5 workers are required.",
			want: []string{"See section 4.", "5 workers are required."},
		},
		{
			name: "lowercase continuation is not a boundary",
			text: "approx. twelve units were found. Next check is due.",
			want: []string{"approx. twelve units were found.", "Next check is due."},
		},
		{
			name: "newlines and runs of spaces collapse",
			text: "First   sentence\nspans lines.\n\nSecond   one.",
			want: []string{"First sentence spans lines.", "Second one."},
		},
		{
			name: "ellipsis does not create empty segments",
			text: "Wait... Then continue.",
			want: []string{"Wait...", "Then continue."},
		},
		{
			name: "bullets become sentence boundaries",
			text: "Hazards include: • Falling objects • Loud noise",
			want: []string{"Hazards include: .", "Falling objects .", "Loud noise"},
		},
		{
			name: "leading and trailing whitespace trimmed",
			text: "   Only one sentence here.   ",
			want: []string{"Only one sentence here."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitSentences_NonEmptyInput(t *testing.T) {
	// Any text with visible content yields at least one sentence.
	inputs := []string{"x", "one two three", "No stop", "Stop. stop. stop."}
	for _, text := range inputs {
		if got := SplitSentences(text); len(got) == 0 {
			t.Errorf("SplitSentences(%q) returned no sentences", text)
		}
	}
}

func TestSplitSentences_RejoinReconstructs(t *testing.T) {
	// Rejoining the split with single spaces reproduces the
	// whitespace-normalized input.
	text := "Wear gloves at all times. Inspect the harness daily!\nReport defects to 2 supervisors. Unterminated trailing fragment"
	normalized := strings.Join(strings.Fields(text), " ")

	got := strings.Join(SplitSentences(text), " ")
	if got != normalized {
		t.Errorf("rejoined split = %q, want %q", got, normalized)
	}
}
