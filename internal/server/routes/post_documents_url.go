package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/queue"
	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// AddDocumentURLHandler imports a web page into a session. The page is
// fetched and reduced to its article text during extraction.
func AddDocumentURLHandler(c echo.Context) error {
	type addDocumentURLBody struct {
		URL  string `json:"url" validate:"required,url"`
		Name string `json:"name"`
	}

	type addDocumentURLResponse struct {
		Message  string          `json:"message"`
		Document *store.Document `json:"document,omitempty"`
	}

	data := new(addDocumentURLBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, addDocumentURLResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, addDocumentURLResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	sessionID := c.Param("id")

	if _, err := app.Store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, addDocumentURLResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentURLResponse{
			Message: "Internal server error",
		})
	}

	name := data.Name
	if name == "" {
		name = data.URL
	}

	doc, err := app.Store.CreateDocument(ctx, &store.Document{
		SessionID: sessionID,
		Name:      name,
		FileType:  string(loader.SourceFileTypeWeb),
		ObjectKey: data.URL,
	})
	if err != nil {
		logger.Error("Failed to create document", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentURLResponse{
			Message: "Internal server error",
		})
	}

	if err := app.Store.UpdateSessionStatus(ctx, sessionID, store.SessionStatusExtracting); err != nil {
		logger.Error("Failed to update session status", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentURLResponse{
			Message: "Internal server error",
		})
	}

	msgBytes, err := json.Marshal(queue.ExtractJobMsg{
		SessionID:  sessionID,
		DocumentID: doc.ID,
	})
	if err != nil {
		logger.Error("Failed to marshal extract message", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentURLResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.ExtractQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to extract_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, addDocumentURLResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, addDocumentURLResponse{
		Message:  "Document queued for extraction",
		Document: doc,
	})
}
