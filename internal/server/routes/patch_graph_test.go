package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/pkg/common"
	"github.com/causamap/backend/pkg/store"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i any) error {
	return tv.validator.Struct(i)
}

// stubStorage lets handler tests control the outcome of cluster edits.
type stubStorage struct {
	updateErr error
	graph     *common.Graph
}

func (s *stubStorage) CreateSession(context.Context, string) (*store.Session, error) {
	return nil, nil
}
func (s *stubStorage) GetSession(context.Context, string) (*store.Session, error) { return nil, nil }
func (s *stubStorage) ListSessions(context.Context) ([]store.Session, error)      { return nil, nil }
func (s *stubStorage) UpdateSessionStatus(context.Context, string, store.SessionStatus) error {
	return nil
}
func (s *stubStorage) DeleteSession(context.Context, string) error { return nil }
func (s *stubStorage) CreateDocument(context.Context, *store.Document) (*store.Document, error) {
	return nil, nil
}
func (s *stubStorage) GetDocument(context.Context, string, string) (*store.Document, error) {
	return nil, nil
}
func (s *stubStorage) ListDocuments(context.Context, string) ([]store.Document, error) {
	return nil, nil
}
func (s *stubStorage) UpdateDocumentStatus(context.Context, string, store.DocumentStatus, string) error {
	return nil
}
func (s *stubStorage) SetDocumentText(context.Context, string, string) error      { return nil }
func (s *stubStorage) ReplaceGraph(context.Context, string, *common.Graph) error  { return nil }
func (s *stubStorage) GetGraph(context.Context, string) (*common.Graph, error)    { return s.graph, nil }
func (s *stubStorage) UpdateClusters(context.Context, string, []common.Cluster) error {
	return s.updateErr
}
func (s *stubStorage) DeleteGraph(context.Context, string) error                 { return nil }
func (s *stubStorage) SaveTopics(context.Context, string, []common.Topic) error  { return nil }
func (s *stubStorage) GetTopics(context.Context, string) ([]common.Topic, error) { return nil, nil }

func editClustersRequest(t *testing.T, st store.Storage, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(http.MethodPatch, "/api/sessions/s1/graph", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	cc := &middleware.AppContext{Context: c, App: &middleware.App{Store: st}}

	if err := EditClustersHandler(cc); err != nil {
		t.Fatalf("EditClustersHandler() error = %v", err)
	}
	return rec
}

func TestEditClustersHandlerStatusCodes(t *testing.T) {
	body := `{"clusters":[{"id":"c1","label":"Health","variables":["v1"]}]}`

	tests := []struct {
		name      string
		updateErr error
		wantCode  int
	}{
		{
			name:      "unknown cluster id is rejected",
			updateErr: fmt.Errorf("%w: cluster c9", store.ErrUnknownID),
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "unknown variable id is rejected",
			updateErr: fmt.Errorf("%w: variable v9", store.ErrUnknownID),
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "empty graph conflicts",
			updateErr: store.ErrEmptyGraph,
			wantCode:  http.StatusConflict,
		},
		{
			name:      "missing session",
			updateErr: store.ErrNotFound,
			wantCode:  http.StatusNotFound,
		},
		{
			name:     "valid edit succeeds",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &stubStorage{
				updateErr: tt.updateErr,
				graph:     &common.Graph{ID: "s1"},
			}
			rec := editClustersRequest(t, st, body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestEditClustersHandlerRejectsMissingLabel(t *testing.T) {
	st := &stubStorage{graph: &common.Graph{ID: "s1"}}
	rec := editClustersRequest(t, st, `{"clusters":[{"id":"c1","variables":["v1"]}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
