package routes

import (
	"net/http"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PromptHandler forwards a free-form prompt to the configured model and
// returns its reply verbatim.
func PromptHandler(c echo.Context) error {
	type promptBody struct {
		Prompt string `json:"prompt" validate:"required"`
	}

	type promptResponse struct {
		Message  string `json:"message,omitempty"`
		Response string `json:"response,omitempty"`
	}

	data := new(promptBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, promptResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, promptResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	aiClient := c.(*middleware.AppContext).App.AiClient

	response, err := aiClient.GenerateCompletion(
		ctx,
		data.Prompt,
		ai.WithSystemPrompts(ai.AssistantPrompt),
	)
	if err != nil {
		logger.Error("Failed to generate completion", "err", err)
		return c.JSON(http.StatusInternalServerError, promptResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, promptResponse{
		Response: response,
	})
}
