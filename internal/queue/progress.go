package queue

import "github.com/causamap/backend/pkg/store"

// resolveSessionProgress derives the session status from its documents and
// reports whether graph inference should be queued now. An empty status means
// nothing changes yet (documents are still in flight, or there are none).
func resolveSessionProgress(docs []store.Document) (store.SessionStatus, bool) {
	if len(docs) == 0 {
		return "", false
	}

	ready := 0
	for _, doc := range docs {
		switch doc.Status {
		case store.DocumentStatusPending, store.DocumentStatusExtracting:
			return "", false
		case store.DocumentStatusReady:
			ready++
		}
	}

	if ready == 0 {
		return store.SessionStatusFailed, false
	}
	return store.SessionStatusInferring, true
}
