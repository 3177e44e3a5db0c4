package routes

import (
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetDocumentsHandler lists a session's documents with their extraction
// status.
func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Message   string           `json:"message,omitempty"`
		Documents []store.Document `json:"documents"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store
	sessionID := c.Param("id")

	if _, err := storeClient.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getDocumentsResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}

	documents, err := storeClient.ListDocuments(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{
		Documents: documents,
	})
}
