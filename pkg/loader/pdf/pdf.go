package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/loader/ocr"
	"github.com/causamap/backend/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// PDFSourceLoader loads PDF files and extracts their text content.
// Text is extracted with pdftotext first; when the embedded text layer is
// missing or too sparse and an OCR loader is configured, the pages are
// rendered to images and transcribed instead.
type PDFSourceLoader struct {
	loader loader.SourceFileLoader
	ocr    *ocr.OCRSourceLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFOcrSourceLoader creates a PDF loader with OCR fallback for scanned documents.
func NewPDFOcrSourceLoader(loader loader.SourceFileLoader, ocr *ocr.OCRSourceLoader) *PDFSourceLoader {
	return &PDFSourceLoader{
		loader: loader,
		ocr:    ocr,
		cache:  make(map[string][]byte),
	}
}

// NewPDFSourceLoader creates a PDF loader that extracts text directly from PDF content.
func NewPDFSourceLoader(loader loader.SourceFileLoader) *PDFSourceLoader {
	return &PDFSourceLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts text from a PDF file. A PDF whose extracted text
// falls below EXTRACT_MIN_CHARS meaningful characters is treated as scanned
// and handed to the OCR loader, bounded by OCR_TIMEOUT_SEC.
func (l *PDFSourceLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
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

		text, err := parsePDF(content)
		if err != nil {
			return nil, err
		}

		minChars := int(util.GetEnvNumeric("EXTRACT_MIN_CHARS", 200))
		if l.ocr == nil || util.MeaningfulChars(string(text)) >= minChars {
			l.cacheMu.Lock()
			l.cache[key] = text
			l.cacheMu.Unlock()
			return text, nil
		}

		logger.Info("[PDF] Text layer too sparse, falling back to OCR",
			"file", file.ID,
			"chars", util.MeaningfulChars(string(text)),
		)

		pages, err := loader.CountPDFPages(content)
		if err != nil {
			return nil, err
		}
		maxPages := int(util.GetEnvNumeric("OCR_MAX_PAGES", 50))
		if pages > maxPages {
			return nil, fmt.Errorf("document has %d pages, OCR is limited to %d", pages, maxPages)
		}

		timeoutSec := int(util.GetEnvNumeric("OCR_TIMEOUT_SEC", 120))
		ocrCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
		defer cancel()

		images, err := loader.TransformPdfToImages(ocrCtx, content)
		if err != nil {
			return nil, err
		}

		result, err := l.ocr.ProcessImages(ocrCtx, file, images)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// GetBase64 returns the PDF encoded as base64.
func (l *PDFSourceLoader) GetBase64(ctx context.Context, file loader.SourceFile) (loader.SourceBase64, error) {
	content, err := l.loader.GetFileText(ctx, file)
	if err != nil {
		return loader.SourceBase64{}, err
	}

	result := base64.StdEncoding.EncodeToString(content)
	return loader.SourceBase64{
		Base64:   result,
		FileType: "data:application/pdf;base64,",
	}, nil
}
