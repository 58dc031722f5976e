package search

import "showdown_stats/internal/app"

// PaginationDecision contains the result of analyzing one search page
type PaginationDecision struct {
	ShouldStop      bool
	Reason          string
	OldestTimestamp int64
	ReplaysInRange  int
}

// Stop reasons
const (
	ReasonEmptyPage    = "empty_page"
	ReasonReachedStart = "reached_start"
	ReasonContinue     = "continue"
)

// AnalyzePage decides whether backwards pagination should continue after a
// page. The search API returns replays sorted by upload time descending, so
// the page's oldest upload time becomes the next "before" cursor; crossing
// the range start means every remaining replay is out of range.
// Pure function: makes the decision from the page contents alone.
func AnalyzePage(page []app.ReplaySummary, startUnix int64) PaginationDecision {
	if len(page) == 0 {
		return PaginationDecision{
			ShouldStop: true,
			Reason:     ReasonEmptyPage,
		}
	}

	oldest := OldestUploadTime(page)
	inRange := len(FilterSince(page, startUnix))

	if oldest < startUnix {
		return PaginationDecision{
			ShouldStop:      true,
			Reason:          ReasonReachedStart,
			OldestTimestamp: oldest,
			ReplaysInRange:  inRange,
		}
	}

	return PaginationDecision{
		ShouldStop:      false,
		Reason:          ReasonContinue,
		OldestTimestamp: oldest,
		ReplaysInRange:  inRange,
	}
}

// OldestUploadTime finds the minimum upload time in a page.
// Pure function: simple reduction operation.
func OldestUploadTime(page []app.ReplaySummary) int64 {
	if len(page) == 0 {
		return 0
	}

	oldest := page[0].UploadTime
	for _, summary := range page[1:] {
		if summary.UploadTime < oldest {
			oldest = summary.UploadTime
		}
	}
	return oldest
}

// FilterSince keeps only the replays uploaded at or after the range start
func FilterSince(page []app.ReplaySummary, startUnix int64) []app.ReplaySummary {
	var kept []app.ReplaySummary
	for _, summary := range page {
		if summary.UploadTime >= startUnix {
			kept = append(kept, summary)
		}
	}
	return kept
}
