package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"showdown_stats/internal/app"
	"showdown_stats/internal/processing/mocks"
)

func testConfig(start, end int64) *app.Config {
	return &app.Config{
		Format:       "gen3ou",
		StartDate:    time.Unix(start, 0).UTC(),
		EndDate:      time.Unix(end, 0).UTC(),
		Workers:      2,
		RequestDelay: time.Millisecond,
	}
}

func testDocument(id string, uploadTime int64) *app.ReplayDocument {
	return &app.ReplayDocument{
		ID:         id,
		Format:     "[Gen 3] OU",
		FormatID:   "gen3ou",
		Players:    []string{"Alice", "Bob"},
		UploadTime: uploadTime,
		Log: "|player|p1|Alice|1|1500\n" +
			"|player|p2|Bob|2|1480\n" +
			"|switch|p1a: Zap|Zapdos|100/100\n" +
			"|switch|p2a: Tar|Tyranitar|100/100\n" +
			"|turn|1\n" +
			"|move|p1a: Zap|Thunderbolt|p2a: Tar\n" +
			"|-damage|p2a: Tar|60/100\n" +
			"|win|Alice",
	}
}

func summaryOf(doc *app.ReplayDocument) app.ReplaySummary {
	return app.ReplaySummary{
		ID:         doc.ID,
		Format:     doc.FormatID,
		Players:    doc.Players,
		UploadTime: doc.UploadTime,
	}
}

func TestProcessDateRangeSinglePage(t *testing.T) {
	docA := testDocument("gen3ou-100", 2000)
	docB := testDocument("gen3ou-101", 1500)

	client := &mocks.MockReplayClient{
		SearchPages: [][]app.ReplaySummary{
			{summaryOf(docA), summaryOf(docB)},
			{}, // terminates pagination
		},
		Replays: map[string]*app.ReplayDocument{
			docA.ID: docA,
			docB.ID: docB,
		},
	}
	writer := &mocks.MockRecordWriter{}

	processor := NewReplayProcessor(client, nil, []RecordWriterInterface{writer}, testConfig(1000, 3000))
	summary, err := processor.ProcessDateRange(context.Background())
	if err != nil {
		t.Fatalf("ProcessDateRange failed: %v", err)
	}

	if summary.Replays != 2 || summary.Interpreted != 2 || summary.Failures != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	records := writer.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ReplayID != docA.ID || records[1].ReplayID != docB.ID {
		t.Errorf("records out of page order: %s, %s", records[0].ReplayID, records[1].ReplayID)
	}
	if records[0].Winner == nil || *records[0].Winner != app.SideP1 {
		t.Errorf("expected p1 winner, got %v", records[0].Winner)
	}
}

func TestProcessDateRangePaginatesBackwards(t *testing.T) {
	docA := testDocument("gen3ou-200", 3000)
	docB := testDocument("gen3ou-201", 2000)
	docC := testDocument("gen3ou-202", 1500)
	docOld := testDocument("gen3ou-203", 500) // before start, must be dropped

	client := &mocks.MockReplayClient{
		SearchPages: [][]app.ReplaySummary{
			{summaryOf(docA), summaryOf(docB)},
			{summaryOf(docC), summaryOf(docOld)},
		},
		Replays: map[string]*app.ReplayDocument{
			docA.ID: docA,
			docB.ID: docB,
			docC.ID: docC,
		},
	}
	writer := &mocks.MockRecordWriter{}

	processor := NewReplayProcessor(client, nil, []RecordWriterInterface{writer}, testConfig(1000, 4000))
	summary, err := processor.ProcessDateRange(context.Background())
	if err != nil {
		t.Fatalf("ProcessDateRange failed: %v", err)
	}

	if summary.Pages != 2 || summary.Replays != 3 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(client.SearchCursors) != 2 {
		t.Fatalf("expected 2 search calls, got %d", len(client.SearchCursors))
	}
	if client.SearchCursors[0] != 4000 {
		t.Errorf("first cursor = %d, want end date 4000", client.SearchCursors[0])
	}
	if client.SearchCursors[1] != 2000 {
		t.Errorf("second cursor = %d, want oldest of first page 2000", client.SearchCursors[1])
	}

	records := writer.Records()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for _, record := range records {
		if record.ReplayID == docOld.ID {
			t.Errorf("replay older than start date was interpreted: %s", record.ReplayID)
		}
	}
}

func TestProcessDateRangeUsesCache(t *testing.T) {
	docA := testDocument("gen3ou-300", 2000)
	docB := testDocument("gen3ou-301", 1500)

	client := &mocks.MockReplayClient{
		SearchPages: [][]app.ReplaySummary{
			{summaryOf(docA), summaryOf(docB)},
		},
		Replays: map[string]*app.ReplayDocument{
			docB.ID: docB, // docA must come from the cache
		},
	}
	store := &mocks.MockReplayStore{
		Documents: map[string]*app.ReplayDocument{docA.ID: docA},
	}
	writer := &mocks.MockRecordWriter{}

	processor := NewReplayProcessor(client, store, []RecordWriterInterface{writer}, testConfig(1500, 3000))
	summary, err := processor.ProcessDateRange(context.Background())
	if err != nil {
		t.Fatalf("ProcessDateRange failed: %v", err)
	}

	if summary.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", summary.CacheHits)
	}
	for _, id := range client.ReplayIDs {
		if id == docA.ID {
			t.Errorf("cached replay %s was fetched from the API", docA.ID)
		}
	}
	if _, ok := store.Documents[docB.ID]; !ok {
		t.Errorf("fetched replay %s was not written back to the cache", docB.ID)
	}
	if len(writer.Records()) != 2 {
		t.Errorf("expected 2 records, got %d", len(writer.Records()))
	}
}

func TestProcessDateRangeToleratesReplayFailures(t *testing.T) {
	docA := testDocument("gen3ou-400", 2000)
	docBad := testDocument("gen3ou-401", 1800)
	docC := testDocument("gen3ou-402", 1500)

	client := &mocks.MockReplayClient{
		SearchPages: [][]app.ReplaySummary{
			{summaryOf(docA), summaryOf(docBad), summaryOf(docC)},
			{},
		},
		Replays: map[string]*app.ReplayDocument{
			docA.ID: docA,
			docC.ID: docC,
		},
		ReplayError: map[string]error{
			docBad.ID: errors.New("server returned 500"),
		},
	}
	writer := &mocks.MockRecordWriter{}

	processor := NewReplayProcessor(client, nil, []RecordWriterInterface{writer}, testConfig(1000, 3000))
	summary, err := processor.ProcessDateRange(context.Background())
	if err != nil {
		t.Fatalf("ProcessDateRange failed: %v", err)
	}

	if summary.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", summary.Failures)
	}
	records := writer.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ReplayID != docA.ID || records[1].ReplayID != docC.ID {
		t.Errorf("surviving records lost page order: %s, %s", records[0].ReplayID, records[1].ReplayID)
	}
}

func TestProcessDateRangeStopsOnEmptyFirstPage(t *testing.T) {
	client := &mocks.MockReplayClient{}
	writer := &mocks.MockRecordWriter{}

	processor := NewReplayProcessor(client, nil, []RecordWriterInterface{writer}, testConfig(1000, 3000))
	summary, err := processor.ProcessDateRange(context.Background())
	if err != nil {
		t.Fatalf("ProcessDateRange failed: %v", err)
	}

	if summary.Replays != 0 || summary.Pages != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if len(writer.Batches) != 0 {
		t.Errorf("writer received %d batches for an empty range", len(writer.Batches))
	}
}

func TestProcessDateRangePropagatesSearchError(t *testing.T) {
	client := &mocks.MockReplayClient{
		SearchError: errors.New("search unavailable"),
	}

	processor := NewReplayProcessor(client, nil, nil, testConfig(1000, 3000))
	if _, err := processor.ProcessDateRange(context.Background()); err == nil {
		t.Fatal("expected error from failing search")
	}
}

func TestProcessDateRangePropagatesWriterError(t *testing.T) {
	doc := testDocument("gen3ou-500", 2000)
	client := &mocks.MockReplayClient{
		SearchPages: [][]app.ReplaySummary{{summaryOf(doc)}},
		Replays:     map[string]*app.ReplayDocument{doc.ID: doc},
	}
	writer := &mocks.MockRecordWriter{AppendError: errors.New("disk full")}

	processor := NewReplayProcessor(client, nil, []RecordWriterInterface{writer}, testConfig(1000, 3000))
	if _, err := processor.ProcessDateRange(context.Background()); err == nil {
		t.Fatal("expected error from failing writer")
	}
}
