package routes

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// CreateSessionHandler creates a new research session from
// multipart/form-data. Files are optional; when present they are uploaded
// and queued for extraction right away.
func CreateSessionHandler(c echo.Context) error {
	type createSessionBody struct {
		Name string `form:"name" json:"name" validate:"required"`
	}

	type createSessionResponse struct {
		Message   string           `json:"message"`
		Session   *store.Session   `json:"session,omitempty"`
		Documents []store.Document `json:"documents,omitempty"`
	}

	data := new(createSessionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}

	// Files are optional on create, so a non-multipart body is fine.
	var uploads []*multipart.FileHeader
	form, err := c.MultipartForm()
	if err == nil {
		for _, file := range form.File["files"] {
			if _, ok := fileTypeForName(file.Filename); !ok {
				return c.JSON(http.StatusBadRequest, createSessionResponse{
					Message: fmt.Sprintf("Unsupported file type: %s", file.Filename),
				})
			}
			uploads = append(uploads, file)
		}
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	session, err := app.Store.CreateSession(ctx, data.Name)
	if err != nil {
		logger.Error("Failed to create session", "err", err)
		return c.JSON(http.StatusInternalServerError, createSessionResponse{
			Message: "Internal server error",
		})
	}

	var documents []store.Document
	if len(uploads) > 0 {
		documents, err = queueDocumentUploads(ctx, app, session.ID, uploads)
		if err != nil {
			logger.Error("Failed to queue document uploads", "err", err)
			return c.JSON(http.StatusInternalServerError, createSessionResponse{
				Message: "Internal server error",
			})
		}
		session.Status = store.SessionStatusExtracting
	}

	return c.JSON(http.StatusOK, createSessionResponse{
		Message:   "Session created successfully",
		Session:   session,
		Documents: documents,
	})
}
