package processing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"showdown_stats/internal/app"
	"showdown_stats/internal/domain/battle"
	"showdown_stats/internal/domain/search"
)

// ReplayProcessor walks the replay search index backwards through a date
// range, interprets each battle log, and hands the resulting match records
// to the configured writers one page at a time.
type ReplayProcessor struct {
	client    ReplayClientInterface
	store     ReplayStoreInterface // nil disables caching
	writers   []RecordWriterInterface
	config    *app.Config
	pageDelay time.Duration
}

// ProcessingSummary captures counters for a completed date-range run
type ProcessingSummary struct {
	Pages       int
	Replays     int
	Interpreted int
	CacheHits   int
	Failures    int
}

func NewReplayProcessor(client ReplayClientInterface, store ReplayStoreInterface, writers []RecordWriterInterface, config *app.Config) *ReplayProcessor {
	return &ReplayProcessor{
		client:    client,
		store:     store,
		writers:   writers,
		config:    config,
		pageDelay: config.RequestDelay,
	}
}

// ProcessDateRange pages through search results from EndDate back to
// StartDate. Each page is interpreted and appended before the next page is
// fetched, so a partial run still leaves complete pages behind.
func (p *ReplayProcessor) ProcessDateRange(ctx context.Context) (*ProcessingSummary, error) {
	before := p.config.EndDate.Unix()
	startUnix := p.config.StartDate.Unix()
	summary := &ProcessingSummary{}

	log.Info().
		Str("format", p.config.Format).
		Time("start", p.config.StartDate).
		Time("end", p.config.EndDate).
		Msg("Processing replay date range")

	for {
		page, err := p.client.SearchPage(ctx, p.config.Format, before)
		if err != nil {
			return summary, fmt.Errorf("failed to fetch search page before %d: %w", before, err)
		}

		decision := search.AnalyzePage(page, startUnix)
		log.Debug().
			Int("page_size", len(page)).
			Int("in_range", decision.ReplaysInRange).
			Str("reason", decision.Reason).
			Int64("before", before).
			Msg("Analyzed search page")

		inRange := search.FilterSince(page, startUnix)
		if len(inRange) > 0 {
			summary.Pages++
			summary.Replays += len(inRange)

			records := p.interpretBatch(ctx, inRange, summary)
			summary.Interpreted += len(records)

			for _, writer := range p.writers {
				if err := writer.Append(ctx, records); err != nil {
					return summary, fmt.Errorf("failed to append %d records: %w", len(records), err)
				}
			}
		}

		if decision.ShouldStop {
			break
		}
		if decision.OldestTimestamp >= before {
			// A page whose cursor does not move would loop forever
			log.Warn().
				Int64("before", before).
				Int64("oldest", decision.OldestTimestamp).
				Msg("Search pagination made no progress, stopping")
			break
		}
		before = decision.OldestTimestamp

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case <-time.After(p.pageDelay):
		}
	}

	log.Info().
		Int("pages", summary.Pages).
		Int("replays", summary.Replays).
		Int("interpreted", summary.Interpreted).
		Int("cache_hits", summary.CacheHits).
		Int("failures", summary.Failures).
		Msg("Completed replay date range")

	return summary, nil
}

// interpretBatch fetches and interprets one page of replays with a bounded
// worker pool. Results keep the page's order; failed replays are dropped.
func (p *ReplayProcessor) interpretBatch(ctx context.Context, batch []app.ReplaySummary, summary *ProcessingSummary) []app.MatchRecord {
	workers := p.config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(batch) {
		workers = len(batch)
	}

	results := make([]*app.MatchRecord, len(batch))
	var cacheHits, failures atomic.Int64

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, hit, err := p.interpretOne(ctx, batch[i])
				if err != nil {
					failures.Add(1)
					log.Error().
						Err(err).
						Str("replay_id", batch[i].ID).
						Msg("Failed to interpret replay")
					continue
				}
				if hit {
					cacheHits.Add(1)
				}
				results[i] = record
			}
		}()
	}
	for i := range batch {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary.CacheHits += int(cacheHits.Load())
	summary.Failures += int(failures.Load())

	records := make([]app.MatchRecord, 0, len(batch))
	for _, record := range results {
		if record != nil {
			records = append(records, *record)
		}
	}
	return records
}

// interpretOne resolves a single replay document, preferring the local cache
// over the API. The boolean reports whether the cache served the document.
func (p *ReplayProcessor) interpretOne(ctx context.Context, summary app.ReplaySummary) (*app.MatchRecord, bool, error) {
	var doc *app.ReplayDocument
	hit := false

	if p.store != nil {
		cached, found, err := p.store.Get(ctx, summary.ID)
		if err != nil {
			log.Warn().
				Err(err).
				Str("replay_id", summary.ID).
				Msg("Cache lookup failed, falling back to API")
		} else if found {
			doc = cached
			hit = true
		}
	}

	if doc == nil {
		fetched, err := p.client.GetReplay(ctx, summary.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to fetch replay %s: %w", summary.ID, err)
		}
		doc = fetched

		if p.store != nil {
			if err := p.store.Put(ctx, doc); err != nil {
				log.Warn().
					Err(err).
					Str("replay_id", summary.ID).
					Msg("Failed to cache replay document")
			}
		}
	}

	record := battle.InterpretLog(doc)
	if record.ReplayID == "" {
		record.ReplayID = summary.ID
	}
	if record.UploadTime == 0 {
		record.UploadTime = summary.UploadTime
	}
	return &record, hit, nil
}
