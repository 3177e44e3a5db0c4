package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/causamap/backend/internal/storage"
	"github.com/causamap/backend/pkg/logger"
	"github.com/causamap/backend/pkg/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProcessDeleteMessage removes a session's stored objects and all its rows.
// Graph data and topics go with the session via cascading deletes.
func ProcessDeleteMessage(
	ctx context.Context,
	msgBody []byte,
	storeClient store.Storage,
	s3Client *s3.Client,
) error {
	var msg DeleteJobMsg
	if err := json.Unmarshal(msgBody, &msg); err != nil {
		logger.Error("[Delete] Invalid message, dropping", "err", err)
		return nil
	}
	if msg.SessionID == "" {
		logger.Error("[Delete] Message misses session id, dropping")
		return nil
	}

	prefix := fmt.Sprintf("sessions/%s", msg.SessionID)
	if err := storage.DeleteFolder(ctx, s3Client, prefix); err != nil {
		return fmt.Errorf("failed to delete stored objects: %w", err)
	}

	if err := storeClient.DeleteGraph(ctx, msg.SessionID); err != nil {
		return fmt.Errorf("failed to delete graph data: %w", err)
	}

	if err := storeClient.DeleteSession(ctx, msg.SessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("[Delete] Session already gone", "session_id", msg.SessionID)
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	logger.Info("[Delete] Session deleted", "session_id", msg.SessionID)
	return nil
}
