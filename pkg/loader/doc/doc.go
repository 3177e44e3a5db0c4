package doc

import (
	"context"
	"encoding/base64"
	"io"
	"sync"

	"github.com/causamap/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// DocSourceLoader loads Word documents (.docx) and extracts their text content
// from the embedded document XML.
type DocSourceLoader struct {
	loader loader.SourceFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDocSourceLoader creates a document loader that extracts text directly from docx XML.
func NewDocSourceLoader(loader loader.SourceFileLoader) *DocSourceLoader {
	return &DocSourceLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts text content from a Word document.
func (l *DocSourceLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		text, err := parseDocx(content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetFileTextFromIO extracts text content from a Word document provided as an io.Reader.
func GetFileTextFromIO(ctx context.Context, input io.Reader) ([]byte, error) {
	content, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	return parseDocx(content)
}

// GetBase64 returns the raw document encoded as base64.
func (l *DocSourceLoader) GetBase64(ctx context.Context, file loader.SourceFile) (loader.SourceBase64, error) {
	content, err := l.loader.GetFileText(ctx, file)
	if err != nil {
		return loader.SourceBase64{}, err
	}

	enc := base64.StdEncoding.EncodeToString(content)

	return loader.SourceBase64{
		Base64:   enc,
		FileType: "data:application/vnd.openxmlformats-officedocument.wordprocessingml.document;base64,",
	}, nil
}
