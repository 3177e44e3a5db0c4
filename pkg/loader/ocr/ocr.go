package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// OCRSourceLoader extracts text from images using AI vision models.
// It processes images in parallel and caches results for efficiency.
type OCRSourceLoader struct {
	loader   loader.SourceFileLoader
	aiClient ai.GraphAIClient
	parallel int

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewOCRSourceLoaderParams contains configuration for creating an OCRSourceLoader.
type NewOCRSourceLoaderParams struct {
	Loader   loader.SourceFileLoader
	AIClient ai.GraphAIClient
	Parallel int
}

// NewOCRSourceLoader creates a new OCR loader that extracts text from images using AI.
func NewOCRSourceLoader(params NewOCRSourceLoaderParams) *OCRSourceLoader {
	parallel := params.Parallel
	if parallel <= 0 {
		parallel = 1
	}
	return &OCRSourceLoader{
		loader:   params.Loader,
		aiClient: params.AIClient,
		parallel: parallel,
		cache:    make(map[string][]byte),
	}
}

// ProcessImages transcribes a slice of page images to text in parallel.
// Returns the concatenated text of all pages in order.
func (l *OCRSourceLoader) ProcessImages(ctx context.Context, file loader.SourceFile, images [][]byte) ([]byte, error) {
	output := make([][]byte, len(images))
	outputMtx := sync.Mutex{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)

	for i, img := range images {
		idx := i
		image := img
		g.Go(func() error {
			logger.Debug("[OCR] Processing page", "number", idx+1, "total", len(images))
			prompt := ai.TranscribePrompt
			b64String := base64.StdEncoding.EncodeToString(image)
			filePrefix := "data:image/png;base64,"
			b64 := loader.SourceBase64{
				Base64:   b64String,
				FileType: filePrefix,
			}
			desc, err := l.aiClient.GenerateImageDescription(gCtx, prompt, b64)
			if err != nil {
				return err
			}

			outputMtx.Lock()
			output[idx] = []byte(desc)
			outputMtx.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var res strings.Builder
	for _, o := range output {
		fmt.Fprintf(&res, "%s\n", o)
	}

	return []byte(res.String()), nil
}

// GetFileText loads an image file and extracts text using OCR. Results are cached.
func (l *OCRSourceLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
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

		output, err := l.ProcessImages(ctx, file, [][]byte{content})
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = output
		l.cacheMu.Unlock()

		return output, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 returns the image encoded as base64.
func (l *OCRSourceLoader) GetBase64(ctx context.Context, file loader.SourceFile) (loader.SourceBase64, error) {
	return l.loader.GetBase64(ctx, file)
}

// InvalidateCache removes a specific file from the cache.
func (l *OCRSourceLoader) InvalidateCache(file loader.SourceFile) {
	key := loader.CacheKey(file)
	l.cacheMu.Lock()
	delete(l.cache, key)
	l.cacheMu.Unlock()
}

// ClearCache removes all cached OCR results.
func (l *OCRSourceLoader) ClearCache() {
	l.cacheMu.Lock()
	l.cache = make(map[string][]byte)
	l.cacheMu.Unlock()
}
