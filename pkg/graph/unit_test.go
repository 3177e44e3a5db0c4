package graph

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty input",
			text: "",
			want: []string(nil),
		},
		{
			name: "single sentence",
			text: "Caffeine impairs sleep.",
			want: []string{"Caffeine impairs sleep."},
		},
		{
			name: "multiple sentences",
			text: "Hello world. This is a test! How are you?",
			want: []string{
				"Hello world.",
				"This is a test!",
				"How are you?",
			},
		},
		{
			name: "sentences with empty lines",
			text: "First sentence.\n\nSecond sentence.\n\nThird sentence.",
			want: []string{
				"First sentence.",
				"Second sentence.",
				"Third sentence.",
			},
		},
		{
			name: "multi-line sentence",
			text: "This is a long\nsentence that spans\nmultiple lines.",
			want: []string{"This is a long sentence that spans multiple lines."},
		},
		{
			name: "markdown table as single sentence",
			text: "Header1 | Header2\n------- | -------\nValue1  | Value2\nValue3  | Value4",
			want: []string{
				"Header1 | Header2\n------- | -------\nValue1  | Value2\nValue3  | Value4",
			},
		},
		{
			name: "text with table",
			text: "Introduction text.\nHeader1 | Header2\n------- | -------\nValue1  | Value2\nConclusion text.",
			want: []string{
				"Introduction text.",
				"Header1 | Header2\n------- | -------\nValue1  | Value2",
				"Conclusion text.",
			},
		},
		{
			name: "table without delimiter",
			text: "Header1 | Header2\nValue1  | Value2",
			want: []string{
				"Header1 | Header2",
				"Value1  | Value2",
			},
		},
		{
			name: "text with no punctuation",
			text: "Just some text without punctuation\nMore text here",
			want: []string{"Just some text without punctuation More text here"},
		},
		{
			name: "numeric listing is not a sentence boundary",
			text: "Step 1. prepare the sample and continue.",
			want: []string{"Step 1. prepare the sample and continue."},
		},
		{
			name: "closing quote stays with sentence",
			text: `He said "stop." Then he left.`,
			want: []string{
				`He said "stop."`,
				"Then he left.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitIntoSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitIntoSentences() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTransformIntoUnits(t *testing.T) {
	t.Run("empty text produces no units", func(t *testing.T) {
		units, err := transformIntoUnits("", "doc-1", "o200k_base", 100)
		if err != nil {
			t.Fatalf("transformIntoUnits: %v", err)
		}
		if len(units) != 0 {
			t.Errorf("expected no units, got %d", len(units))
		}
	})

	t.Run("short text fits in one unit", func(t *testing.T) {
		units, err := transformIntoUnits("One sentence. Another sentence.", "doc-1", "o200k_base", 100)
		if err != nil {
			t.Fatalf("transformIntoUnits: %v", err)
		}
		if len(units) != 1 {
			t.Fatalf("expected 1 unit, got %d", len(units))
		}
		if units[0].documentID != "doc-1" {
			t.Errorf("documentID = %q, want %q", units[0].documentID, "doc-1")
		}
		if units[0].start != 0 || units[0].end != 2 {
			t.Errorf("span = [%d, %d), want [0, 2)", units[0].start, units[0].end)
		}
	})

	t.Run("long text splits into multiple units", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 50; i++ {
			sb.WriteString("The quick brown fox jumps over the lazy dog near the river bank. ")
		}

		units, err := transformIntoUnits(sb.String(), "doc-2", "o200k_base", 64)
		if err != nil {
			t.Fatalf("transformIntoUnits: %v", err)
		}
		if len(units) < 2 {
			t.Fatalf("expected multiple units, got %d", len(units))
		}

		prevEnd := 0
		seen := make(map[string]bool)
		for _, u := range units {
			if u.start != prevEnd {
				t.Errorf("unit span gap: start %d, previous end %d", u.start, prevEnd)
			}
			prevEnd = u.end
			if u.text == "" {
				t.Error("unit has empty text")
			}
			if seen[u.id] {
				t.Errorf("duplicate unit ID %q", u.id)
			}
			seen[u.id] = true
		}
	})

	t.Run("sentences are never split mid-sentence", func(t *testing.T) {
		text := "First sentence here. Second sentence here. Third sentence here."
		units, err := transformIntoUnits(text, "doc-3", "o200k_base", 8)
		if err != nil {
			t.Fatalf("transformIntoUnits: %v", err)
		}
		for _, u := range units {
			if !strings.HasSuffix(u.text, ".") {
				t.Errorf("unit text does not end on a sentence boundary: %q", u.text)
			}
		}
	})
}
