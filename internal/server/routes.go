package server

import (
	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Session routes
	apiRoutes.GET("/sessions", routes.GetSessionsHandler)
	apiRoutes.POST("/sessions", routes.CreateSessionHandler)
	apiRoutes.GET("/sessions/:id", routes.GetSessionHandler)
	apiRoutes.DELETE("/sessions/:id", routes.DeleteSessionHandler)

	// Document routes
	apiRoutes.GET("/sessions/:id/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/sessions/:id/documents", routes.AddDocumentsHandler)
	apiRoutes.POST("/sessions/:id/documents/url", routes.AddDocumentURLHandler)

	// Graph routes
	apiRoutes.GET("/sessions/:id/graph", routes.GetGraphHandler)
	apiRoutes.PATCH("/sessions/:id/graph", routes.EditClustersHandler)

	// Topic routes
	apiRoutes.GET("/sessions/:id/topics", routes.GetTopicsHandler)
	apiRoutes.POST("/sessions/:id/topics", routes.CreateTopicsHandler)

	// Prompt proxy
	apiRoutes.POST("/prompt", routes.PromptHandler)
}
