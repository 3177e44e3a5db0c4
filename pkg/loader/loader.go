package loader

import (
	"context"
)

type SourceFileType string

const (
	SourceFileTypeText SourceFileType = "text"
	SourceFileTypeDoc  SourceFileType = "doc"
	SourceFileTypePDF  SourceFileType = "pdf"
	SourceFileTypeWeb  SourceFileType = "web"
)

type SourceBase64 struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// SourceFile represents an uploaded document that can be turned into plain
// text for graph inference. FilePath is either an object key (uploads) or a
// URL (web imports); the actual content is retrieved via the associated
// SourceFileLoader.
type SourceFile struct {
	ID        string
	FilePath  string
	FileType  SourceFileType
	MaxTokens int
	Loader    SourceFileLoader
}

// NewSourceFileParams defines the input parameters for creating a new
// SourceFile instance. It is used by the constructor functions to initialize
// SourceFile values with consistent metadata and loader configuration.
type NewSourceFileParams struct {
	ID        string
	FilePath  string
	MaxTokens int
	Loader    SourceFileLoader
}

// NewTextSourceFile creates a SourceFile of type SourceFileTypeText for
// plain-text documents (.txt, .md) that need no format-specific parsing.
func NewTextSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  SourceFileTypeText,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// NewDocSourceFile creates a SourceFile of type SourceFileTypeDoc for Word
// documents (.docx).
func NewDocSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  SourceFileTypeDoc,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// NewPDFSourceFile creates a SourceFile of type SourceFileTypePDF.
func NewPDFSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  SourceFileTypePDF,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// NewWebSourceFile creates a SourceFile of type SourceFileTypeWeb. FilePath
// holds the page URL.
func NewWebSourceFile(params NewSourceFileParams) SourceFile {
	return SourceFile{
		ID:        params.ID,
		FilePath:  params.FilePath,
		FileType:  SourceFileTypeWeb,
		MaxTokens: params.MaxTokens,
		Loader:    params.Loader,
	}
}

// GetText retrieves the plain-text content of the file using its Loader.
//
// Example:
//
//	text, err := file.GetText(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(text))
func (f *SourceFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// GetBase64 retrieves the base64-encoded content of the file using its Loader.
// This is useful for transmitting binary file contents in a text-safe format.
func (f *SourceFile) GetBase64(ctx context.Context) (SourceBase64, error) {
	return f.Loader.GetBase64(ctx, *f)
}

// SourceFileLoader defines the interface for loading the contents of a
// SourceFile. Implementations may load files from disk, object storage,
// or the web.
type SourceFileLoader interface {
	GetFileText(ctx context.Context, file SourceFile) ([]byte, error)
	GetBase64(ctx context.Context, file SourceFile) (SourceBase64, error)
}
