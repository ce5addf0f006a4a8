package backfill

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/fortuna/cricbase/internal/ingest/commentary"
	"github.com/fortuna/cricbase/internal/store"
)

// DefaultMaxPages bounds the walk over one match's ball feed.
const DefaultMaxPages = 200

// FeedSource pages through a match's ball feed.
type FeedSource interface {
	FetchBallFeeds(ctx context.Context, matchKey string, lastDocID int64, filters commentary.Filters) ([]commentary.BallFeed, error)
	Deliveries(events []commentary.BallFeed, matchID string) []store.Delivery
}

// DeliveryWriter persists deliveries, reporting whether each one was new.
type DeliveryWriter interface {
	Upsert(ctx context.Context, d *store.Delivery) (bool, error)
}

// Runner walks ball feeds backwards with the lastDocId cursor and stores
// what it finds.
type Runner struct {
	feed     FeedSource
	writer   DeliveryWriter
	maxPages int
}

// NewRunner constructs a runner.
func NewRunner(feed FeedSource, writer DeliveryWriter) *Runner {
	return &Runner{feed: feed, writer: writer, maxPages: DefaultMaxPages}
}

// Run executes the job spec, reporting progress via the Reporter if provided.
// A failing match does not stop the others; their errors are combined.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter == nil {
		reporter = nopReporter{}
	}
	reporter.OnJobStart(spec)

	if len(spec.MatchIDs) == 0 {
		return fmt.Errorf("no match ids provided")
	}

	var merr *multierror.Error
	total := len(spec.MatchIDs)
	for idx, matchID := range spec.MatchIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		reporter.OnMatchStart(matchID, idx, total)

		inserted, err := r.backfillMatch(ctx, matchID, spec.DryRun, reporter)
		if err != nil {
			err = fmt.Errorf("match %s: %w", matchID, err)
			reporter.OnJobError(err)
			merr = multierror.Append(merr, err)
			continue
		}

		reporter.OnMatchProcessed(matchID, inserted)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return err
	}

	reporter.OnJobComplete()
	return nil
}

// backfillMatch fetches pages until one yields no delivery it has not seen,
// the cursor stops moving, or maxPages is reached. The cursor for the next
// page is the smallest document id of the current one.
func (r *Runner) backfillMatch(ctx context.Context, matchID string, dryRun bool, reporter Reporter) (int, error) {
	seen := make(map[string]bool)
	inserted := 0
	var cursor int64

	for page := 1; page <= r.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		events, err := r.feed.FetchBallFeeds(ctx, matchID, cursor, commentary.Filters{})
		if err != nil {
			return inserted, err
		}
		if len(events) == 0 {
			break
		}

		fresh := 0
		for _, d := range r.feed.Deliveries(events, matchID) {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			fresh++

			if dryRun {
				continue
			}
			d := d
			isNew, err := r.writer.Upsert(ctx, &d)
			if err != nil {
				return inserted, err
			}
			if isNew {
				inserted++
			}
		}

		reporter.OnPage(matchID, page, fresh)
		if fresh == 0 {
			break
		}

		next := oldestDocID(events)
		if next <= 0 || (cursor != 0 && next >= cursor) {
			break
		}
		cursor = next
	}

	return inserted, nil
}

func oldestDocID(events []commentary.BallFeed) int64 {
	var oldest int64
	for _, ev := range events {
		id := ev.DocID()
		if id <= 0 {
			continue
		}
		if oldest == 0 || id < oldest {
			oldest = id
		}
	}
	return oldest
}

type nopReporter struct{}

func (nopReporter) OnJobStart(JobSpec) {}
func (nopReporter) OnMatchStart(string, int, int) {}
func (nopReporter) OnPage(string, int, int) {}
func (nopReporter) OnMatchProcessed(string, int) {}
func (nopReporter) OnJobComplete() {}
func (nopReporter) OnJobError(error) {}
