package routes

import (
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetTopicsHandler returns the stored topic suggestions of a session.
func GetTopicsHandler(c echo.Context) error {
	type getTopicsResponse struct {
		Message string         `json:"message,omitempty"`
		Topics  []common.Topic `json:"topics"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store
	sessionID := c.Param("id")

	if _, err := storeClient.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getTopicsResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, getTopicsResponse{
			Message: "Internal server error",
		})
	}

	topics, err := storeClient.GetTopics(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to get topics", "err", err)
		return c.JSON(http.StatusInternalServerError, getTopicsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getTopicsResponse{
		Topics: topics,
	})
}
