package mocks

import (
	"context"
	"sync"

	"showdown_stats/internal/app"
)

// MockReplayStore is an in-memory test double for the store.ReplayStore
type MockReplayStore struct {
	mu sync.Mutex

	Documents map[string]*app.ReplayDocument

	// Errors to return
	GetError error
	PutError error

	// Call tracking
	GetIDs []string
	PutIDs []string
}

func (m *MockReplayStore) Get(ctx context.Context, id string) (*app.ReplayDocument, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetIDs = append(m.GetIDs, id)
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	doc, ok := m.Documents[id]
	return doc, ok, nil
}

func (m *MockReplayStore) Put(ctx context.Context, doc *app.ReplayDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutIDs = append(m.PutIDs, doc.ID)
	if m.PutError != nil {
		return m.PutError
	}
	if m.Documents == nil {
		m.Documents = make(map[string]*app.ReplayDocument)
	}
	m.Documents[doc.ID] = doc
	return nil
}
