package doc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const docXMLMax = 50 << 20

var reBlankLines = regexp.MustCompile(`\n{3,}`)

// parseDocx walks word/document.xml and flattens runs, tabs, breaks and
// tables into plain text. Tracked deletions (w:del) are skipped.
func parseDocx(content []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("document.xml not found in docx")
	}
	if docFile.UncompressedSize64 > docXMLMax {
		return nil, fmt.Errorf("document.xml too large: %d bytes",
			docFile.UncompressedSize64)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, int64(docXMLMax)))

	var sb strings.Builder
	var (
		inText   bool
		delDepth int
		inTable  bool
		cellIdx  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "del":
				delDepth++
			case "t":
				inText = true
			case "tab":
				if delDepth == 0 {
					sb.WriteRune('\t')
				}
			case "br", "cr":
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "noBreakHyphen":
				if delDepth == 0 {
					sb.WriteRune('-')
				}
			case "tbl":
				inTable = true
				cellIdx = 0
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte('\n')
				}
			case "tr":
				cellIdx = 0
			case "tc":
				if inTable && delDepth == 0 {
					if cellIdx > 0 {
						sb.WriteRune('\t')
					}
					cellIdx++
				}
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "tr":
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "tbl":
				inTable = false
				if delDepth == 0 {
					sb.WriteByte('\n')
				}
			case "del":
				if delDepth > 0 {
					delDepth--
				}
			}

		case xml.CharData:
			if delDepth != 0 || !inText {
				continue
			}
			sb.Write([]byte(t))
		}
	}

	text := strings.TrimSpace(sb.String())
	text = reBlankLines.ReplaceAllString(text, "\n\n")

	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	return []byte(text), nil
}
