package loader

import "testing"

func TestExtractPageNum(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{
			name: "simple page",
			path: "/tmp/causamap-ocr-x/page-3.png",
			want: 3,
		},
		{
			name: "zero padded",
			path: "/tmp/causamap-ocr-x/page-0012.png",
			want: 12,
		},
		{
			name: "no page number",
			path: "/tmp/causamap-ocr-x/page.png",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractPageNum(tt.path)
			if got != tt.want {
				t.Fatalf("extractPageNum(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	file := SourceFile{ID: "abc", FilePath: "sessions/1/doc.pdf"}
	if got, want := CacheKey(file), "abc:sessions/1/doc.pdf"; got != want {
		t.Fatalf("CacheKey() = %q, want %q", got, want)
	}
}
