package mocks

import (
	"context"
	"sync"

	"showdown_stats/internal/app"
)

// MockRecordWriter is a test double for the CSV and Sheets record writers
type MockRecordWriter struct {
	mu sync.Mutex

	// Error to return
	AppendError error

	// Call tracking
	Batches [][]app.MatchRecord
}

func (m *MockRecordWriter) Append(ctx context.Context, records []app.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AppendError != nil {
		return m.AppendError
	}
	batch := make([]app.MatchRecord, len(records))
	copy(batch, records)
	m.Batches = append(m.Batches, batch)
	return nil
}

// Records flattens all appended batches in arrival order
func (m *MockRecordWriter) Records() []app.MatchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []app.MatchRecord
	for _, batch := range m.Batches {
		all = append(all, batch...)
	}
	return all
}
