package processing

import (
	"context"

	"showdown_stats/internal/app"
)

// ReplayClientInterface defines the replay API client methods used by ReplayProcessor
type ReplayClientInterface interface {
	SearchPage(ctx context.Context, format string, before int64) ([]app.ReplaySummary, error)
	GetReplay(ctx context.Context, id string) (*app.ReplayDocument, error)
	GetAPICallCount() int64
	ResetAPICallCount()
}

// ReplayStoreInterface defines the replay cache methods used by ReplayProcessor
type ReplayStoreInterface interface {
	Get(ctx context.Context, id string) (*app.ReplayDocument, bool, error)
	Put(ctx context.Context, doc *app.ReplayDocument) error
}

// RecordWriterInterface defines a destination for interpreted match records.
// Implementations must tolerate batch-sized appends arriving in page order.
type RecordWriterInterface interface {
	Append(ctx context.Context, records []app.MatchRecord) error
}
