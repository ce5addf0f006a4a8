package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

// LiveLister is the provider fallback chain.
type LiveLister interface {
	ListMatches(ctx context.Context, status string, offset int) ingest.ListResult
}

// FeedFetcher reads a match's ball feed.
type FeedFetcher interface {
	GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery
}

// MatchWriter persists match snapshots.
type MatchWriter interface {
	Upsert(ctx context.Context, m *store.Match) error
}

// DeliveryWriter persists deliveries, reporting whether each one was new.
type DeliveryWriter interface {
	Upsert(ctx context.Context, d *store.Delivery) (bool, error)
}

// Publisher fans updates out to stream consumers.
type Publisher interface {
	PublishMatchUpdate(ctx context.Context, m *store.Match) error
	PublishDelivery(ctx context.Context, d *store.Delivery) error
}

// Orchestrator polls live matches and their ball feeds on a fixed interval
type Orchestrator struct {
	lister     LiveLister
	feed       FeedFetcher
	matches    MatchWriter
	deliveries DeliveryWriter
	publisher  Publisher
	config     *Config

	mu     sync.Mutex
	cancel context.CancelFunc
	last   PollResult
}

// Config holds scheduler configuration
type Config struct {
	LivePollInterval     time.Duration // Default: 30s
	EnableLivePolling    bool          // Default: true
	MaxConcurrentFeeds   int           // Default: 4
	MaxConsecutiveErrors int           // Default: 5
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		LivePollInterval:     30 * time.Second,
		EnableLivePolling:    true,
		MaxConcurrentFeeds:   4,
		MaxConsecutiveErrors: 5,
	}
}

// PollResult summarises one poll.
type PollResult struct {
	At            time.Time     `json:"at"`
	Source        ingest.Source `json:"source,omitempty"`
	Matches       int           `json:"matches"`
	NewDeliveries int           `json:"new_deliveries"`
	Error         string        `json:"error,omitempty"`
}

// NewOrchestrator creates a new scheduler orchestrator. publisher may be nil.
func NewOrchestrator(lister LiveLister, feed FeedFetcher, matches MatchWriter, deliveries DeliveryWriter, publisher Publisher, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrentFeeds <= 0 {
		config.MaxConcurrentFeeds = 1
	}

	return &Orchestrator{
		lister:     lister,
		feed:       feed,
		matches:    matches,
		deliveries: deliveries,
		publisher:  publisher,
		config:     config,
	}
}

// Start runs the live poller until ctx is cancelled or Stop is called
func (o *Orchestrator) Start(ctx context.Context) {
	log.Printf("[scheduler] Live polling: %v (interval: %v)", o.config.EnableLivePolling, o.config.LivePollInterval)

	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	if o.config.EnableLivePolling {
		go o.runLivePolling(ctx)
	}

	<-ctx.Done()
	log.Println("[scheduler] Orchestrator stopping...")
}

func (o *Orchestrator) runLivePolling(ctx context.Context) {
	log.Printf("[scheduler] → Live polling started (interval: %v)", o.config.LivePollInterval)

	ticker := time.NewTicker(o.config.LivePollInterval)
	defer ticker.Stop()

	consecutiveErrors := 0

	// Run immediately on start
	o.pollAndTrack(ctx, &consecutiveErrors)

	for {
		select {
		case <-ctx.Done():
			log.Println("[scheduler] → Live polling stopped")
			return
		case <-ticker.C:
			o.pollAndTrack(ctx, &consecutiveErrors)
		}
	}
}

func (o *Orchestrator) pollAndTrack(ctx context.Context, consecutiveErrors *int) {
	if _, err := o.Poll(ctx); err != nil {
		*consecutiveErrors++
		log.Printf("[scheduler] ❌ Poll failed (%d consecutive): %v", *consecutiveErrors, err)

		// Back off for one extra interval when the providers keep failing.
		if *consecutiveErrors >= o.config.MaxConsecutiveErrors {
			log.Printf("[scheduler] ⚠️  High error rate detected. Skipping next poll...")
			select {
			case <-ctx.Done():
			case <-time.After(o.config.LivePollInterval):
			}
		}
		return
	}
	*consecutiveErrors = 0
}

// Poll lists live matches, stores and publishes them, then ingests each
// match's ball feed. It fails only when no provider answered.
func (o *Orchestrator) Poll(ctx context.Context) (PollResult, error) {
	result := PollResult{At: time.Now().UTC()}

	res := o.lister.ListMatches(ctx, store.StatusLive, 0)
	if res.Exhausted() {
		err := fmt.Errorf("no provider answered")
		if aerr := res.Err(); aerr != nil {
			err = fmt.Errorf("no provider answered: %w", aerr)
		}
		result.Error = err.Error()
		o.record(result)
		return result, err
	}

	result.Source = res.Source
	result.Matches = len(res.Matches)

	for i := range res.Matches {
		m := &res.Matches[i]
		if err := o.matches.Upsert(ctx, m); err != nil {
			log.Printf("[scheduler] ⚠️  Failed to store match %s: %v", m.ID, err)
			continue
		}
		if o.publisher != nil {
			if err := o.publisher.PublishMatchUpdate(ctx, m); err != nil {
				log.Printf("[scheduler] ⚠️  Failed to publish match %s: %v", m.ID, err)
			}
		}
	}

	fresh, err := o.ingestDeliveries(ctx, res.Matches)
	result.NewDeliveries = fresh
	if err != nil {
		// Stored what we could; the next poll picks up the rest.
		log.Printf("[scheduler] ⚠️  Delivery ingestion incomplete: %v", err)
	}

	if result.Matches > 0 {
		log.Printf("[scheduler] ✓ %d live matches from %s, %d new deliveries", result.Matches, result.Source, fresh)
	}

	o.record(result)
	return result, nil
}

// ingestDeliveries fetches ball feeds for matches concurrently, bounded by
// MaxConcurrentFeeds, and stores every delivery.
func (o *Orchestrator) ingestDeliveries(ctx context.Context, matches []store.Match) (int, error) {
	var (
		g     errgroup.Group
		fresh int64
	)
	g.SetLimit(o.config.MaxConcurrentFeeds)

	for _, m := range matches {
		matchID := m.ID
		g.Go(func() error {
			n, err := o.ingestMatch(ctx, matchID)
			atomic.AddInt64(&fresh, int64(n))
			return err
		})
	}

	err := g.Wait()
	return int(fresh), err
}

func (o *Orchestrator) ingestMatch(ctx context.Context, matchID string) (int, error) {
	fresh := 0
	for _, d := range o.feed.GetMatchDeliveries(ctx, matchID, 0) {
		d := d
		inserted, err := o.deliveries.Upsert(ctx, &d)
		if err != nil {
			return fresh, fmt.Errorf("storing delivery %s: %w", d.ID, err)
		}
		if !inserted {
			continue
		}
		fresh++
		if o.publisher != nil {
			if err := o.publisher.PublishDelivery(ctx, &d); err != nil {
				log.Printf("[scheduler] ⚠️  Failed to publish delivery %s: %v", d.ID, err)
			}
		}
	}
	return fresh, nil
}

func (o *Orchestrator) record(r PollResult) {
	o.mu.Lock()
	o.last = r
	o.mu.Unlock()
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("[scheduler] Stopping orchestrator...")

	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	log.Println("[scheduler] ✓ Orchestrator stopped")
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()

	status := map[string]interface{}{
		"live_polling_enabled": o.config.EnableLivePolling,
		"live_poll_interval":   o.config.LivePollInterval.String(),
		"max_concurrent_feeds": o.config.MaxConcurrentFeeds,
	}
	if !last.At.IsZero() {
		status["last_poll"] = last
	}
	return status
}
