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

// EditClustersHandler rewrites the cluster assignment of a session's graph.
// Clusters without an id are created; clusters left without variables are
// removed. References to unknown clusters or variables reject the whole edit.
func EditClustersHandler(c echo.Context) error {
	type clusterEdit struct {
		ID        string   `json:"id"`
		Label     string   `json:"label" validate:"required"`
		Variables []string `json:"variables"`
	}

	type editClustersBody struct {
		Clusters []clusterEdit `json:"clusters" validate:"required,dive"`
	}

	type editClustersResponse struct {
		Message string        `json:"message,omitempty"`
		Graph   *common.Graph `json:"graph,omitempty"`
	}

	data := new(editClustersBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, editClustersResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, editClustersResponse{
			Message: "Invalid request body",
		})
	}

	clusters := make([]common.Cluster, 0, len(data.Clusters))
	for _, edit := range data.Clusters {
		clusters = append(clusters, common.Cluster{
			ID:        edit.ID,
			Label:     edit.Label,
			Variables: edit.Variables,
		})
	}

	ctx := c.Request().Context()
	storeClient := c.(*middleware.AppContext).App.Store
	sessionID := c.Param("id")

	if err := storeClient.UpdateClusters(ctx, sessionID, clusters); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, editClustersResponse{
				Message: "Session not found",
			})
		}
		if errors.Is(err, store.ErrEmptyGraph) {
			return c.JSON(http.StatusConflict, editClustersResponse{
				Message: "Graph has no variables yet",
			})
		}
		if errors.Is(err, store.ErrUnknownID) {
			return c.JSON(http.StatusBadRequest, editClustersResponse{
				Message: err.Error(),
			})
		}
		logger.Error("Failed to update clusters", "err", err)
		return c.JSON(http.StatusInternalServerError, editClustersResponse{
			Message: "Internal server error",
		})
	}

	graph, err := storeClient.GetGraph(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to get graph", "err", err)
		return c.JSON(http.StatusInternalServerError, editClustersResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, editClustersResponse{
		Message: "Clusters updated successfully",
		Graph:   graph,
	})
}
