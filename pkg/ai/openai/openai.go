package openai

import (
	"sync"

	"github.com/causamap/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// GraphOpenAIClient is a client for interacting with the AI models used in
// causal graph inference. It manages separate OpenAI clients for embeddings,
// chat/completion, and vision tasks.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	embeddingModel  string
	chatModel       string
	extractionModel string
	imageModel      string

	embeddingURL string
	embeddingKey string
	chatURL      string
	chatKey      string
	imageURL     string
	imageKey     string

	timeoutMin int

	embeddingLock *semaphore.Weighted
	imageLock     *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
	ImageClient     *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for
// creating a new GraphOpenAIClient.
//
// EmbeddingModel specifies the model used for embeddings.
// ChatModel specifies the model used for chat and free-form completions.
// ExtractionModel specifies the model used for structured extraction.
// ImageModel specifies the vision model used for page transcription.
// The URL/Key pairs configure the respective API endpoints.
type NewGraphOpenAIClientParams struct {
	EmbeddingModel  string
	ChatModel       string
	ExtractionModel string
	ImageModel      string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string
	ImageURL     string
	ImageKey     string

	TimeoutMin            int
	MaxConcurrentRequests int64
}

// NewGraphOpenAIClient creates and returns a new GraphOpenAIClient configured
// with the provided parameters. It initializes separate OpenAI clients for
// embeddings, chat/completion, and vision tasks.
//
// Example:
//
//	params := openai.NewGraphOpenAIClientParams{
//		EmbeddingModel:  "text-embedding-3-small",
//		ChatModel:       "gpt-4o-mini",
//		ExtractionModel: "gpt-4o-mini",
//		EmbeddingKey:    os.Getenv("OPENAI_API_KEY"),
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewGraphOpenAIClient(params)
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	chatClient := newOpenaiClient(params.ChatURL, params.ChatKey)
	embedClient := newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey)
	imageClient := newOpenaiClient(params.ImageURL, params.ImageKey)

	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 10
	}
	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	return &GraphOpenAIClient{
		embeddingModel:  params.EmbeddingModel,
		chatModel:       params.ChatModel,
		extractionModel: params.ExtractionModel,
		imageModel:      params.ImageModel,

		chatURL:      params.ChatURL,
		chatKey:      params.ChatKey,
		embeddingURL: params.EmbeddingURL,
		embeddingKey: params.EmbeddingKey,
		imageURL:     params.ImageURL,
		imageKey:     params.ImageKey,

		timeoutMin: timeoutMin,

		embeddingLock: semaphore.NewWeighted(maxConcurrent),
		imageLock:     semaphore.NewWeighted(maxConcurrent),

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		ChatClient:      chatClient,
		EmbeddingClient: embedClient,
		ImageClient:     imageClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
