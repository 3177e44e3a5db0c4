package aiclient

import (
	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	oai "github.com/causamap/backend/pkg/ai/ollama"
	gai "github.com/causamap/backend/pkg/ai/openai"
	"github.com/causamap/backend/pkg/logger"
)

// NewFromEnv builds the AI client selected by AI_ADAPTER. Both the server and
// the worker construct their client exactly once through this.
func NewFromEnv() ai.GraphAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ImageModel:      util.GetEnv("AI_IMAGE_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 10)),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			EmbeddingModel:  util.GetEnv("AI_EMBED_MODEL"),
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),
			ImageModel:      util.GetEnv("AI_IMAGE_MODEL"),

			EmbeddingURL: util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey: util.GetEnv("AI_EMBED_KEY"),
			ChatURL:      util.GetEnv("AI_CHAT_URL"),
			ChatKey:      util.GetEnv("AI_CHAT_KEY"),
			ImageURL:     util.GetEnv("AI_IMAGE_URL"),
			ImageKey:     util.GetEnv("AI_IMAGE_KEY"),

			TimeoutMin:            int(util.GetEnvNumeric("AI_TIMEOUT_MIN", 10)),
			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 15)),
		})
	}
}
