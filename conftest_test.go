package vakya

import (
	"context"
)

// mockBackend implements the adapter contract for facade tests.
type mockBackend struct {
	replaceFn   func(ctx context.Context, name string, recs []Record) ([]string, error)
	removeFn    func(ctx context.Context, name string) (bool, error)
	listFn      func(ctx context.Context) ([]string, error)
	readSentsFn func(ctx context.Context, name string, q Query) ([][]Record, error)
	readBlobFn  func(ctx context.Context, name string) (string, error)
	closed      bool
}

func (m *mockBackend) Replace(ctx context.Context, name string, recs []Record) ([]string, error) {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, name, recs)
	}
	return nil, nil
}

func (m *mockBackend) Remove(ctx context.Context, name string) (bool, error) {
	if m.removeFn != nil {
		return m.removeFn(ctx, name)
	}
	return true, nil
}

func (m *mockBackend) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockBackend) ReadSents(ctx context.Context, name string, q Query) ([][]Record, error) {
	if m.readSentsFn != nil {
		return m.readSentsFn(ctx, name, q)
	}
	return nil, nil
}

func (m *mockBackend) ReadBlob(ctx context.Context, name string) (string, error) {
	if m.readBlobFn != nil {
		return m.readBlobFn(ctx, name)
	}
	return "", nil
}

func (m *mockBackend) Close() { m.closed = true }

// mockSemanticBackend adds the similarity capability on top of
// mockBackend.
type mockSemanticBackend struct {
	mockBackend
	searchFn func(ctx context.Context, name string, q Query) ([][]Record, error)
}

func (m *mockSemanticBackend) SearchSemantic(ctx context.Context, name string, q Query) ([][]Record, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, name, q)
	}
	return nil, nil
}
