package mocks

import (
	"context"
	"fmt"
	"sync"

	"showdown_stats/internal/app"
)

// ReplayClient interface defines the methods used by ReplayProcessor from showdown.Client
type ReplayClient interface {
	SearchPage(ctx context.Context, format string, before int64) ([]app.ReplaySummary, error)
	GetReplay(ctx context.Context, id string) (*app.ReplayDocument, error)
	GetAPICallCount() int64
	ResetAPICallCount()
}

// MockReplayClient is a test double for the showdown.Client
type MockReplayClient struct {
	mu sync.Mutex

	// Responses to return. SearchPages are consumed front to back; once
	// exhausted, SearchPage returns an empty page.
	SearchPages [][]app.ReplaySummary
	Replays     map[string]*app.ReplayDocument

	// Errors to return
	SearchError error
	ReplayError map[string]error

	// Call tracking
	SearchCursors []int64
	ReplayIDs     []string
	apiCallCount  int64
}

func (m *MockReplayClient) SearchPage(ctx context.Context, format string, before int64) ([]app.ReplaySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiCallCount++
	m.SearchCursors = append(m.SearchCursors, before)
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	if len(m.SearchPages) == 0 {
		return nil, nil
	}
	page := m.SearchPages[0]
	m.SearchPages = m.SearchPages[1:]
	return page, nil
}

func (m *MockReplayClient) GetReplay(ctx context.Context, id string) (*app.ReplayDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apiCallCount++
	m.ReplayIDs = append(m.ReplayIDs, id)
	if err, ok := m.ReplayError[id]; ok {
		return nil, err
	}
	doc, ok := m.Replays[id]
	if !ok {
		return nil, fmt.Errorf("no replay document configured for %s", id)
	}
	return doc, nil
}

func (m *MockReplayClient) GetAPICallCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apiCallCount
}

func (m *MockReplayClient) ResetAPICallCount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiCallCount = 0
}
