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

// GetGraphHandler returns the inferred causal graph of a session.
func GetGraphHandler(c echo.Context) error {
	type getGraphResponse struct {
		Message string        `json:"message,omitempty"`
		Graph   *common.Graph `json:"graph,omitempty"`
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store

	graph, err := storeClient.GetGraph(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, getGraphResponse{
				Message: "Session not found",
			})
		}
		logger.Error("Failed to get graph", "err", err)
		return c.JSON(http.StatusInternalServerError, getGraphResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getGraphResponse{
		Graph: graph,
	})
}
