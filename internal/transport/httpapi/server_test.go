package httpapi

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vakya-corpus/vakya"
)

type mockCorpus struct {
	addFn       func(ctx context.Context, path string) ([]string, error)
	removeFn    func(ctx context.Context, name string) (bool, error)
	listFn      func(ctx context.Context) ([]string, error)
	readSentsFn func(ctx context.Context, name string, opts ...vakya.ReadOption) (iter.Seq[vakya.Record], error)
	readBlobFn  func(ctx context.Context, name string) (string, error)
}

func (m *mockCorpus) Add(ctx context.Context, path string) ([]string, error) {
	if m.addFn != nil {
		return m.addFn(ctx, path)
	}
	return nil, nil
}

func (m *mockCorpus) Remove(ctx context.Context, name string) (bool, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, name)
	}
	return true, nil
}

func (m *mockCorpus) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockCorpus) ReadSents(ctx context.Context, name string, opts ...vakya.ReadOption) (iter.Seq[vakya.Record], error) {
	if m.readSentsFn != nil {
		return m.readSentsFn(ctx, name, opts...)
	}
	return slices.Values([]vakya.Record(nil)), nil
}

func (m *mockCorpus) ReadBlob(ctx context.Context, name string) (string, error) {
	if m.readBlobFn != nil {
		return m.readBlobFn(ctx, name)
	}
	return "", nil
}

func doRequest(t *testing.T, corpus CorpusService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewServer(corpus, zap.NewNop()).Router().ServeHTTP(rec, req)
	return rec
}

func TestAddFile_Created(t *testing.T) {
	m := &mockCorpus{
		addFn: func(_ context.Context, path string) ([]string, error) {
			if path != "/data/a.txt" {
				t.Errorf("unexpected path %q", path)
			}
			return []string{"id-1", "id-2"}, nil
		},
	}

	rec := doRequest(t, m, http.MethodPost, "/files", `{"path": "/data/a.txt"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.IDs) != 2 {
		t.Errorf("expected 2 ids, got %v", resp.IDs)
	}
}

func TestAddFile_MissingPath(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodPost, "/files", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAddFile_InvalidBody(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodPost, "/files", `{nope`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRemoveFile_OK(t *testing.T) {
	m := &mockCorpus{
		removeFn: func(_ context.Context, name string) (bool, error) {
			if name != "a.txt" {
				t.Errorf("unexpected name %q", name)
			}
			return true, nil
		},
	}

	rec := doRequest(t, m, http.MethodDelete, "/files/a.txt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestListFiles_EmptyIsArray(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodGet, "/files", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"files":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestReadSentences_QueryParams(t *testing.T) {
	var gotOpts []vakya.ReadOption
	m := &mockCorpus{
		readSentsFn: func(_ context.Context, name string, opts ...vakya.ReadOption) (iter.Seq[vakya.Record], error) {
			if name != "a.txt" {
				t.Errorf("unexpected name %q", name)
			}
			gotOpts = opts
			return slices.Values([]vakya.Record{{N: 3, Sent: "Sunday."}}), nil
		},
	}

	rec := doRequest(t, m, http.MethodGet, "/files/a.txt/sentences?from=1&to=5&kw=day&semantic=weekend&n=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(gotOpts) != 4 {
		t.Fatalf("expected 4 options, got %d", len(gotOpts))
	}

	var q vakya.Query
	for _, o := range gotOpts {
		o(&q)
	}
	if r := q.Range(); r == nil || r.Lo != 1 || r.Hi != 5 {
		t.Errorf("unexpected range: %v", r)
	}
	if q.Keyword() != "day" || q.Semantic() != "weekend" || q.Limit() != 2 {
		t.Errorf("unexpected query: kw=%q sem=%q limit=%d", q.Keyword(), q.Semantic(), q.Limit())
	}

	if !strings.Contains(rec.Body.String(), `"sent":"Sunday."`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReadSentences_HalfRange(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodGet, "/files/a.txt/sentences?from=1", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestReadSentences_BadCount(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodGet, "/files/a.txt/sentences?n=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestReadBlob_PlainText(t *testing.T) {
	m := &mockCorpus{
		readBlobFn: func(_ context.Context, _ string) (string, error) {
			return "One.  Two.", nil
		},
	}

	rec := doRequest(t, m, http.MethodGet, "/files/a.txt/blob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.Body.String() != "One.  Two." {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"collection not found", vakya.ErrCollectionNotFound, http.StatusNotFound},
		{"not implemented", vakya.ErrNotImplemented, http.StatusNotImplemented},
		{"service unavailable", vakya.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"plugin not found", vakya.ErrPluginNotFound, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockCorpus{
				readBlobFn: func(_ context.Context, _ string) (string, error) {
					return "", tc.err
				},
			}
			rec := doRequest(t, m, http.MethodGet, "/files/a.txt/blob", "")
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestHealth_OK(t *testing.T) {
	rec := doRequest(t, &mockCorpus{}, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_BackendDown(t *testing.T) {
	m := &mockCorpus{
		listFn: func(_ context.Context) ([]string, error) {
			return nil, vakya.ErrServiceUnavailable
		},
	}
	rec := doRequest(t, m, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
