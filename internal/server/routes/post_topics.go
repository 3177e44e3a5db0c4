package routes

import (
	"errors"
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/graph"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// CreateTopicsHandler proposes research topics from a session's graph and
// stores them, replacing earlier suggestions. Requires the graph to hold at
// least one variable.
func CreateTopicsHandler(c echo.Context) error {
	type createTopicsResponse struct {
		Message string         `json:"message,omitempty"`
		Topics  []common.Topic `json:"topics,omitempty"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	sessionID := c.Param("id")

	g, err := app.Store.GetGraph(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, createTopicsResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get graph", "err", err)
		return c.JSON(http.StatusInternalServerError, createTopicsResponse{
			Message: "Internal server error",
		})
	}

	if len(g.Variables) == 0 {
		return c.JSON(http.StatusConflict, createTopicsResponse{
			Message: "Graph has no variables yet",
		})
	}

	topics, err := graph.GenerateTopics(ctx, g, app.AiClient)
	if err != nil {
		logger.Error("Failed to generate topics", "err", err)
		return c.JSON(http.StatusInternalServerError, createTopicsResponse{
			Message: "Internal server error",
		})
	}

	if err := app.Store.SaveTopics(ctx, sessionID, topics); err != nil {
		logger.Error("Failed to save topics", "err", err)
		return c.JSON(http.StatusInternalServerError, createTopicsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, createTopicsResponse{
		Message: "Topics generated successfully",
		Topics:  topics,
	})
}
