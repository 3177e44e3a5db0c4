package doc

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		want    string
		wantErr bool
	}{
		{
			name: "simple paragraphs",
			xml: `<w:document><w:body>` +
				`<w:p><w:r><w:t>Hello</w:t></w:r></w:p>` +
				`<w:p><w:r><w:t>World</w:t></w:r></w:p>` +
				`</w:body></w:document>`,
			want: "Hello\nWorld\n",
		},
		{
			name: "tab and break",
			xml: `<w:document><w:body>` +
				`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>` +
				`</w:body></w:document>`,
			want: "a\tb\nc\n",
		},
		{
			name: "tracked deletion skipped",
			xml: `<w:document><w:body>` +
				`<w:p><w:r><w:t>kept</w:t></w:r>` +
				`<w:del><w:r><w:t>removed</w:t></w:r></w:del></w:p>` +
				`</w:body></w:document>`,
			want: "kept\n",
		},
		{
			name: "table cells separated by tabs",
			xml: `<w:document><w:body><w:tbl>` +
				`<w:tr><w:tc><w:p><w:r><w:t>c1</w:t></w:r></w:p></w:tc>` +
				`<w:tc><w:p><w:r><w:t>c2</w:t></w:r></w:p></w:tc></w:tr>` +
				`</w:tbl></w:body></w:document>`,
			want: "c1\n\tc2\n",
		},
		{
			name:    "missing document xml",
			xml:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input []byte
			if tt.name == "missing document xml" {
				var buf bytes.Buffer
				zw := zip.NewWriter(&buf)
				if err := zw.Close(); err != nil {
					t.Fatalf("close zip: %v", err)
				}
				input = buf.Bytes()
			} else {
				input = buildDocx(t, tt.xml)
			}

			got, err := parseDocx(input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", string(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDocx: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestParseDocxNotAZip(t *testing.T) {
	if _, err := parseDocx([]byte("plain text, not a zip")); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestParseDocxCollapsesBlankLines(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>first</w:t></w:r></w:p>` +
		`<w:p></w:p><w:p></w:p><w:p></w:p>` +
		`<w:p><w:r><w:t>second</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := parseDocx(buildDocx(t, xml))
	if err != nil {
		t.Fatalf("parseDocx: %v", err)
	}
	if strings.Contains(string(got), "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", string(got))
	}
}
