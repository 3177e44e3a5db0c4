package routes

import (
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// GetSessionsHandler lists all research sessions, newest first.
func GetSessionsHandler(c echo.Context) error {
	type getSessionsResponse struct {
		Message  string          `json:"message,omitempty"`
		Sessions []store.Session `json:"sessions"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store

	sessions, err := storeClient.ListSessions(ctx)
	if err != nil {
		logger.Error("Failed to list sessions", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getSessionsResponse{
		Sessions: sessions,
	})
}

// GetSessionHandler returns a single session with its current status.
func GetSessionHandler(c echo.Context) error {
	type getSessionResponse struct {
		Message string         `json:"message,omitempty"`
		Session *store.Session `json:"session,omitempty"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store

	session, err := storeClient.GetSession(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getSessionResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get session", "err", err)
		return c.JSON(http.StatusInternalServerError, getSessionResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getSessionResponse{
		Session: session,
	})
}
