package graph

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/causamap/backend/pkg/loader"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
)

type processUnit struct {
	id         string
	documentID string
	start      int
	end        int
	text       string
}

func transformIntoUnits(
	text string,
	documentID string,
	encoder string,
	maxTokens int,
) ([]processUnit, error) {
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}

	sentences := splitIntoSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []processUnit
	chunkStart := -1
	chunkEnd := -1

	flushChunk := func() error {
		if chunkStart < 0 || chunkEnd <= chunkStart {
			return nil
		}
		uID, err := gonanoid.New()
		if err != nil {
			return err
		}

		var chunkText strings.Builder
		for i := chunkStart; i < chunkEnd; i++ {
			if i > chunkStart {
				chunkText.WriteString(" ")
			}
			chunkText.WriteString(sentences[i])
		}

		unit := processUnit{
			id:         uID,
			documentID: documentID,
			start:      chunkStart,
			end:        chunkEnd,
			text:       strings.TrimSpace(chunkText.String()),
		}
		chunks = append(chunks, unit)
		chunkStart = -1
		chunkEnd = -1
		return nil
	}

	for i := range sentences {
		if chunkStart < 0 {
			chunkStart = i
			chunkEnd = i + 1
			continue
		}

		var testText strings.Builder
		for j := chunkStart; j <= i; j++ {
			if j > chunkStart {
				testText.WriteString(" ")
			}
			testText.WriteString(sentences[j])
		}

		testTokens := len(enc.Encode(testText.String(), nil, nil))

		if testTokens <= maxTokens {
			chunkEnd = i + 1
		} else {
			if err := flushChunk(); err != nil {
				return nil, err
			}
			chunkStart = i
			chunkEnd = i + 1
		}
	}

	if err := flushChunk(); err != nil {
		return nil, err
	}

	return chunks, nil
}

func getUnitsFromText(
	ctx context.Context,
	file loader.SourceFile,
	encoder string,
) ([]processUnit, error) {
	textBytes, err := file.GetText(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(textBytes))
	if text == "" {
		return nil, nil
	}

	return transformIntoUnits(text, file.ID, encoder, file.MaxTokens)
}

// splitIntoSentences breaks a document into sentence-sized pieces while
// keeping markdown tables together as a single piece.
func splitIntoSentences(text string) []string {
	lines := strings.Split(text, "\n")
	var sentences []string
	var currentSentence strings.Builder

	tableDelimRe := regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)+\|?\s*$`)

	isTableRow := func(line string) bool {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return false
		}
		return strings.Contains(trimmed, "|")
	}

	flushCurrent := func() {
		if currentSentence.Len() > 0 {
			sentences = append(sentences, strings.TrimSpace(currentSentence.String()))
			currentSentence.Reset()
		}
	}

	appendLineSentences := func(trimmed string) {
		lineSentences := splitLineIntoSentences(trimmed)
		for _, sentence := range lineSentences {
			if currentSentence.Len() > 0 {
				currentSentence.WriteString(" ")
			}
			currentSentence.WriteString(sentence)

			if strings.HasSuffix(strings.TrimSpace(sentence), ".") ||
				strings.HasSuffix(strings.TrimSpace(sentence), "!") ||
				strings.HasSuffix(strings.TrimSpace(sentence), "?") {
				flushCurrent()
			}
		}
	}

	inTable := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !inTable && isTableRow(line) && i+1 < len(lines) && tableDelimRe.MatchString(strings.TrimSpace(lines[i+1])) {
			flushCurrent()
			inTable = true
			currentSentence.WriteString(line)
			continue
		}

		if !inTable && isTableRow(line) {
			flushCurrent()
			sentences = append(sentences, trimmed)
			continue
		}

		if inTable {
			if trimmed == "" || !isTableRow(line) {
				inTable = false
				flushCurrent()

				if trimmed != "" {
					appendLineSentences(trimmed)
				}
			} else {
				currentSentence.WriteString("\n")
				currentSentence.WriteString(line)
			}
			continue
		}

		if trimmed == "" {
			flushCurrent()
		} else {
			appendLineSentences(trimmed)
		}
	}

	flushCurrent()

	var result []string
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) != "" {
			result = append(result, sentence)
		}
	}

	return result
}

func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] == '.' || line[i] == '!' || line[i] == '?' {
			isNumericListing := false

			if i > 0 && unicode.IsDigit(rune(line[i-1])) {
				if i+1 < len(line) && line[i+1] == ' ' {
					isNumericListing = true
				}
			}

			if isNumericListing {
				continue
			}
			j := i + 1
			for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
				current.WriteByte(line[j])
				j++
			}

			for j < len(line) && (line[j] == '"' || line[j] == '\'' || line[j] == ')' ||
				line[j] == ']' || line[j] == '}') {
				current.WriteByte(line[j])
				j++
			}

			sentence := strings.TrimSpace(current.String())
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			current.Reset()
			i = j - 1
		}
	}

	remaining := strings.TrimSpace(current.String())
	if remaining != "" {
		sentences = append(sentences, remaining)
	}

	return sentences
}
