package queue

// ExtractJobMsg asks the worker to extract plain text from one uploaded
// document.
type ExtractJobMsg struct {
	SessionID  string `json:"session_id"`
	DocumentID string `json:"document_id"`
}

// GraphJobMsg asks the worker to (re)build the causal graph of a session from
// all its extracted documents.
type GraphJobMsg struct {
	SessionID string `json:"session_id"`
}

// DeleteJobMsg asks the worker to remove a session, its stored objects and
// all derived data.
type DeleteJobMsg struct {
	SessionID string `json:"session_id"`
}
