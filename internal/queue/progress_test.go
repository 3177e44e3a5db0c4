package queue

import (
	"testing"

	"github.com/causamap/backend/pkg/store"
)

func docsWithStatus(statuses ...store.DocumentStatus) []store.Document {
	docs := make([]store.Document, 0, len(statuses))
	for i, s := range statuses {
		docs = append(docs, store.Document{
			ID:     string(rune('a' + i)),
			Status: s,
		})
	}
	return docs
}

func TestResolveSessionProgress(t *testing.T) {
	tests := []struct {
		name       string
		docs       []store.Document
		status     store.SessionStatus
		queueGraph bool
	}{
		{
			name:       "no documents",
			docs:       nil,
			status:     "",
			queueGraph: false,
		},
		{
			name:       "pending document holds progress",
			docs:       docsWithStatus(store.DocumentStatusReady, store.DocumentStatusPending),
			status:     "",
			queueGraph: false,
		},
		{
			name:       "extracting document holds progress",
			docs:       docsWithStatus(store.DocumentStatusExtracting),
			status:     "",
			queueGraph: false,
		},
		{
			name:       "all ready queues inference",
			docs:       docsWithStatus(store.DocumentStatusReady, store.DocumentStatusReady),
			status:     store.SessionStatusInferring,
			queueGraph: true,
		},
		{
			name:       "partial failure still queues inference",
			docs:       docsWithStatus(store.DocumentStatusReady, store.DocumentStatusFailed),
			status:     store.SessionStatusInferring,
			queueGraph: true,
		},
		{
			name:       "all failed fails the session",
			docs:       docsWithStatus(store.DocumentStatusFailed, store.DocumentStatusFailed),
			status:     store.SessionStatusFailed,
			queueGraph: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, queueGraph := resolveSessionProgress(tt.docs)
			if status != tt.status {
				t.Errorf("status = %q, want %q", status, tt.status)
			}
			if queueGraph != tt.queueGraph {
				t.Errorf("queueGraph = %v, want %v", queueGraph, tt.queueGraph)
			}
		})
	}
}
