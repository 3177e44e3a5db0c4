package loader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// TransformPdfToImages renders every page of a PDF to a PNG image using
// pdftoppm. The DPI can be tuned with PDF_DPI (default 200), which is enough
// for the vision model to read body text reliably.
func TransformPdfToImages(ctx context.Context, input []byte) ([][]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}
	tmpDir := filepath.Join(os.TempDir(), "causamap-ocr-"+id)
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir tmp: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not found in PATH: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 600*time.Second)
	defer cancel()

	dpi := readEnvInt("PDF_DPI", 200)
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(dpi), "-q", pdfPath, prefix)
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("pdftoppm timed out")
	}
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	paths, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("glob images: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no images produced")
	}

	sort.Slice(paths, func(i, j int) bool {
		return extractPageNum(paths[i]) < extractPageNum(paths[j])
	})

	images := make([][]byte, 0, len(paths))
	for _, f := range paths {
		b, readErr := os.ReadFile(f)
		if readErr != nil {
			return nil, fmt.Errorf("read image %s: %w", f, readErr)
		}
		images = append(images, b)
	}

	return images, nil
}

// CountPDFPages returns the number of pages in a PDF document using pdfinfo.
func CountPDFPages(input []byte) (int, error) {
	id, err := gonanoid.New()
	if err != nil {
		return 0, fmt.Errorf("nanoid: %w", err)
	}
	tmpDir := filepath.Join(os.TempDir(), "causamap-count-"+id)
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return 0, fmt.Errorf("mkdir tmp: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, input, 0o600); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}

	if _, err := exec.LookPath("pdfinfo"); err != nil {
		return 0, fmt.Errorf("pdfinfo not found in PATH: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdfinfo", pdfPath)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				if pages, err := strconv.Atoi(parts[1]); err == nil {
					return pages, nil
				}
			}
		}
	}

	return 0, fmt.Errorf("no page count in pdfinfo output")
}

func readEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func extractPageNum(path string) int {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".png")
	idx := strings.LastIndexByte(base, '-')
	if idx == -1 || idx+1 >= len(base) {
		return 0
	}
	n, _ := strconv.Atoi(base[idx+1:])
	return n
}

// CacheKey generates a unique cache key for a SourceFile based on its ID and path.
func CacheKey(file SourceFile) string {
	return file.ID + ":" + file.FilePath
}
