package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/queue"
	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// DeleteSessionHandler queues the removal of a session and everything derived
// from it. Cleanup runs asynchronously in the worker.
func DeleteSessionHandler(c echo.Context) error {
	type deleteSessionResponse struct {
		Message string `json:"message"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store
	sessionID := c.Param("id")

	if _, err := storeClient.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, deleteSessionResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	msgBytes, err := json.Marshal(queue.DeleteJobMsg{SessionID: sessionID})
	if err != nil {
		logger.Error("Failed to marshal delete message", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DeleteQueue, msgBytes); err != nil {
		logger.Error("Failed to publish to delete_queue", "err", err)
		return c.JSON(http.StatusInternalServerError, deleteSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, deleteSessionResponse{
		Message: "Session deletion queued",
	})
}
