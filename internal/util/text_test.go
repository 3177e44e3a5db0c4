package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "contains null byte",
			input: "hel\x00lo",
			want:  "hello",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already canonical",
			input: "SLEEP QUALITY",
			want:  "SLEEP QUALITY",
		},
		{
			name:  "mixed case",
			input: "Sleep Quality",
			want:  "SLEEP QUALITY",
		},
		{
			name:  "surrounding and internal whitespace",
			input: "  sleep \t quality \n",
			want:  "SLEEP QUALITY",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalName(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected canonical name: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMeaningfulChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "only whitespace",
			input: " \t\r\n ",
			want:  0,
		},
		{
			name:  "mixed",
			input: "a b\nc",
			want:  3,
		},
		{
			name:  "empty",
			input: "",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeaningfulChars(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected count: got %d, want %d", got, tt.want)
			}
		})
	}
}
