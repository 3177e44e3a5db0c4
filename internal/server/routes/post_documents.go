package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/causamap/backend/internal/queue"
	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/internal/storage"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// fileTypeForName maps an upload's file extension to the loader type used
// during extraction.
func fileTypeForName(name string) (loader.SourceFileType, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return loader.SourceFileTypeText, true
	case ".docx":
		return loader.SourceFileTypeDoc, true
	case ".pdf":
		return loader.SourceFileTypePDF, true
	default:
		return "", false
	}
}

// queueDocumentUploads stores the uploads in object storage, creates their
// document rows, marks the session extracting and publishes one extraction
// job per document. Extensions must be validated by the caller.
func queueDocumentUploads(
	ctx context.Context,
	app *middleware.App,
	sessionID string,
	uploads []*multipart.FileHeader,
) ([]store.Document, error) {
	documents := make([]store.Document, 0, len(uploads))
	for _, file := range uploads {
		fileType, ok := fileTypeForName(file.Filename)
		if !ok {
			return nil, fmt.Errorf("unsupported file type: %s", file.Filename)
		}

		docID, err := gonanoid.New()
		if err != nil {
			return nil, err
		}

		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", file.Filename, err)
		}
		key, err := storage.PutFile(
			ctx,
			app.S3,
			fmt.Sprintf("sessions/%s/documents", sessionID),
			file.Filename,
			docID,
			src,
		)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}

		doc, err := app.Store.CreateDocument(ctx, &store.Document{
			ID:        docID,
			SessionID: sessionID,
			Name:      file.Filename,
			FileType:  string(fileType),
			ObjectKey: key,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
		documents = append(documents, *doc)
	}

	if err := app.Store.UpdateSessionStatus(ctx, sessionID, store.SessionStatusExtracting); err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}

	for _, doc := range documents {
		msgBytes, err := json.Marshal(queue.ExtractJobMsg{
			SessionID:  sessionID,
			DocumentID: doc.ID,
		})
		if err != nil {
			logger.Error("Failed to marshal extract message", "err", err)
			continue
		}
		if err := queue.PublishFIFO(app.Queue, queue.ExtractQueue, msgBytes); err != nil {
			logger.Error("Failed to publish to extract_queue", "err", err)
		}
	}

	return documents, nil
}

// AddDocumentsHandler uploads documents to a session (multipart/form-data)
// and queues text extraction for each of them.
func AddDocumentsHandler(c echo.Context) error {
	type addDocumentsResponse struct {
		Message   string           `json:"message"`
		Documents []store.Document `json:"documents,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, addDocumentsResponse{
			Message: "Invalid request body",
		})
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, addDocumentsResponse{
			Message: "No files provided",
		})
	}

	for _, file := range uploads {
		if _, ok := fileTypeForName(file.Filename); !ok {
			return c.JSON(http.StatusBadRequest, addDocumentsResponse{
				Message: fmt.Sprintf("Unsupported file type: %s", file.Filename),
			})
		}
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	sessionID := c.Param("id")

	if _, err := app.Store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, addDocumentsResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentsResponse{
			Message: "Internal server error",
		})
	}

	documents, err := queueDocumentUploads(ctx, app, sessionID, uploads)
	if err != nil {
		logger.Error("Failed to queue document uploads", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, addDocumentsResponse{
		Message:   "Documents queued for extraction",
		Documents: documents,
	})
}
