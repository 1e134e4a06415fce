package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/craftconnect/tasktrigger/internal/store"
)

// ApplyUpdatesCall records the arguments of one ApplyUpdates invocation.
type ApplyUpdatesCall struct {
	Path    string
	Updates []store.Update
}

// MockTaskStore implements store.TaskStore for testing.
// Documents behaves like a tiny document database: updates merge into the
// stored field map and ServerTimestamp resolves to Now().
type MockTaskStore struct {
	// Function fields for customizable behavior
	ApplyUpdatesFn func(ctx context.Context, path string, updates []store.Update) error

	// Data for default implementation
	Documents        map[string]map[string]any
	ApplyUpdatesErr  error
	Now              func() time.Time
	ApplyUpdateCalls []ApplyUpdatesCall

	mu sync.Mutex
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Documents: make(map[string]map[string]any),
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Put stores a copy of fields at path, as a client creating the document would.
func (m *MockTaskStore) Put(path string, fields map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Documents[path] = copyFields(fields)
}

// Get returns a copy of the document at path.
func (m *MockTaskStore) Get(path string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.Documents[path]
	if !ok {
		return nil, false
	}
	return copyFields(doc), true
}

// CallCount returns how many times ApplyUpdates was invoked.
func (m *MockTaskStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ApplyUpdateCalls)
}

// ApplyUpdates implements the TaskStore interface
func (m *MockTaskStore) ApplyUpdates(ctx context.Context, path string, updates []store.Update) error {
	m.mu.Lock()
	m.ApplyUpdateCalls = append(m.ApplyUpdateCalls, ApplyUpdatesCall{
		Path:    path,
		Updates: append([]store.Update(nil), updates...),
	})
	m.mu.Unlock()

	if m.ApplyUpdatesFn != nil {
		return m.ApplyUpdatesFn(ctx, path, updates)
	}

	if m.ApplyUpdatesErr != nil {
		return m.ApplyUpdatesErr
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.Documents[path]
	if !ok {
		return store.ErrTaskNotFound
	}

	now := m.Now()
	for _, u := range updates {
		if store.IsServerTimestamp(u.Value) {
			doc[u.Field] = now
			continue
		}
		doc[u.Field] = u.Value
	}
	return nil
}

func copyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
