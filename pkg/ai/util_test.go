package ai

import (
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type variable struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  variable
	}{
		{
			name:  "valid json object",
			input: `{"name":"SLEEP QUALITY"}`,
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'SLEEP QUALITY'}`,
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"SLEEP QUALITY",}`,
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"SLEEP QUALITY`,
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'SLEEP QUALITY'}"`,
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"SLEEP QUALITY\"\n}\n",
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "markdown fence with language tag",
			input: "```json\n{\"name\":\"SLEEP QUALITY\"}\n```",
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "markdown fence without language tag",
			input: "```\n{\"name\":\"SLEEP QUALITY\"}\n```",
			want:  variable{Name: "SLEEP QUALITY"},
		},
		{
			name:  "markdown fence around malformed json",
			input: "```json\n{name: 'SLEEP QUALITY'}\n```",
			want:  variable{Name: "SLEEP QUALITY"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got variable
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want.Name || got.Confidence != tc.want.Confidence {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ArrayVariants(t *testing.T) {
	type variable struct {
		Name string `json:"name"`
	}

	input := `[{name:'A'},{name:'B',}]`
	var got []variable
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two variables A,B", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type variable struct {
		Name string `json:"name"`
	}

	var got variable
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestUnmarshalFlexible_NestedStructures(t *testing.T) {
	type link struct {
		Source     string  `json:"source_variable"`
		Target     string  `json:"target_variable"`
		Confidence float64 `json:"confidence"`
	}
	type extraction struct {
		Links []link `json:"links"`
	}

	tests := []struct {
		name  string
		input string
		want  extraction
	}{
		{
			name:  "simple stringified",
			input: `"{ \"links\": [ { \"source_variable\": \"CAFFEINE INTAKE\", \"target_variable\": \"SLEEP QUALITY\", \"confidence\": 0.8 } ] }"`,
			want: extraction{Links: []link{
				{Source: "CAFFEINE INTAKE", Target: "SLEEP QUALITY", Confidence: 0.8},
			}},
		},
		{
			name:  "stringified with newlines",
			input: `"{\n  \"links\": [{\"source_variable\": \"CAFFEINE INTAKE\", \"target_variable\": \"SLEEP QUALITY\", \"confidence\": 0.8}]\n  }\n"`,
			want: extraction{Links: []link{
				{Source: "CAFFEINE INTAKE", Target: "SLEEP QUALITY", Confidence: 0.8},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got extraction
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if len(got.Links) != len(tc.want.Links) {
				t.Fatalf("UnmarshalFlexible() links length got = %d, want %d", len(got.Links), len(tc.want.Links))
			}
			for i := range got.Links {
				if got.Links[i] != tc.want.Links[i] {
					t.Fatalf("UnmarshalFlexible() links[%d] = %+v, want %+v", i, got.Links[i], tc.want.Links[i])
				}
			}
		})
	}
}

func TestStripMarkdownFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fence",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "fence directly followed by content",
			input: "```{\"a\":1}```",
			want:  `{"a":1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := stripMarkdownFence(tc.input)
			if got != tc.want {
				t.Fatalf("stripMarkdownFence() = %q, want %q", got, tc.want)
			}
		})
	}
}
