package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/causamap/backend/internal/util"
	"github.com/causamap/backend/pkg/ai"
	"github.com/causamap/backend/pkg/graph"
	"github.com/causamap/backend/pkg/loader"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"
)

// textSourceLoader serves already-extracted document text from memory. Graph
// inference runs on stored text, so no object storage round trip is needed.
type textSourceLoader struct {
	texts map[string]string
}

func (l *textSourceLoader) GetFileText(_ context.Context, file loader.SourceFile) ([]byte, error) {
	text, ok := l.texts[file.ID]
	if !ok {
		return nil, fmt.Errorf("no extracted text for document %s", file.ID)
	}
	return []byte(text), nil
}

func (l *textSourceLoader) GetBase64(_ context.Context, file loader.SourceFile) (loader.SourceBase64, error) {
	return loader.SourceBase64{}, fmt.Errorf("document %s has no binary representation", file.ID)
}

// ProcessGraphMessage rebuilds the causal graph of a session from the
// extracted text of all its ready documents.
func ProcessGraphMessage(
	ctx context.Context,
	msgBody []byte,
	storeClient store.Storage,
	aiClient ai.GraphAIClient,
) error {
	var msg GraphJobMsg
	if err := json.Unmarshal(msgBody, &msg); err != nil {
		logger.Error("[Graph] Invalid message, dropping", "err", err)
		return nil
	}
	if msg.SessionID == "" {
		logger.Error("[Graph] Message misses session id, dropping")
		return nil
	}

	if _, err := storeClient.GetSession(ctx, msg.SessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Graph] Session no longer exists, dropping", "session_id", msg.SessionID)
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	docs, err := storeClient.ListDocuments(ctx, msg.SessionID)
	if err != nil {
		return fmt.Errorf("failed to list session documents: %w", err)
	}

	maxTokens := int(util.GetEnvNumeric("UNIT_MAX_TOKENS", 800))
	textLoader := &textSourceLoader{texts: make(map[string]string)}
	files := make([]loader.SourceFile, 0, len(docs))
	for _, doc := range docs {
		if doc.Status != store.DocumentStatusReady {
			continue
		}
		textLoader.texts[doc.ID] = doc.Text
		files = append(files, loader.NewTextSourceFile(loader.NewSourceFileParams{
			ID:        doc.ID,
			FilePath:  doc.Name,
			MaxTokens: maxTokens,
			Loader:    textLoader,
		}))
	}

	if len(files) == 0 {
		logger.Warn("[Graph] Session has no extracted documents", "session_id", msg.SessionID)
		return storeClient.UpdateSessionStatus(ctx, msg.SessionID, store.SessionStatusFailed)
	}

	graphClient, err := graph.NewGraphClient(graph.NewGraphClientParams{
		TokenEncoder:       util.GetEnvString("TOKEN_ENCODER", "o200k_base"),
		ParallelFiles:      int(util.GetEnvNumeric("PARALLEL_FILES", 2)),
		ParallelAiRequests: int(util.GetEnvNumeric("PARALLEL_AI_REQUESTS", 8)),
		MaxRetries:         int(util.GetEnvNumeric("MAX_RETRIES", 3)),
	})
	if err != nil {
		return fmt.Errorf("failed to create graph client: %w", err)
	}

	if err := graphClient.ProcessGraph(ctx, files, msg.SessionID, aiClient, storeClient); err != nil {
		_ = storeClient.UpdateSessionStatus(ctx, msg.SessionID, store.SessionStatusFailed)
		return fmt.Errorf("graph inference failed for session %s: %w", msg.SessionID, err)
	}

	if err := storeClient.UpdateSessionStatus(ctx, msg.SessionID, store.SessionStatusReady); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	logger.Info("[Graph] Session ready", "session_id", msg.SessionID, "documents", len(files))
	return nil
}
