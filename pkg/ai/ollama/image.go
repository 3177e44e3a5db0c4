package ollama

import (
	"context"
	"encoding/base64"

	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/loader"

	"github.com/ollama/ollama/api"
)

// GenerateImageDescription sends a vision chat request with a base64 image and
// returns the model's textual transcription.
func (c *GraphOllamaClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	b64 loader.SourceBase64,
) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64.Base64)
	if err != nil {
		return "", err
	}

	stream := false

	req := &api.ChatRequest{
		Model: c.imageModel,
		Messages: []api.Message{
			{Role: "system", Content: prompt},
			{
				Role:    "user",
				Content: "",
				Images:  []api.ImageData{raw},
			},
		},
		Stream: &stream,
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final = cr
		return nil
	}); err != nil {
		return "", err
	}

	durationMs := final.TotalDuration.Milliseconds()

	metrics := ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	}
	c.modifyMetrics(metrics)

	return final.Message.Content, nil
}
