package store

import (
	"reflect"
	"testing"
)

func TestDedupeStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "nil input",
			in:   nil,
			want: nil,
		},
		{
			name: "drops empties and duplicates",
			in:   []string{"a", "", "b", "a", "c", "b"},
			want: []string{"a", "b", "c"},
		},
		{
			name: "keeps first-seen order",
			in:   []string{"c", "a", "c", "b"},
			want: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeStrings(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeStrings(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
