package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

type fakeLister struct {
	res    ingest.ListResult
	status string
}

func (f *fakeLister) ListMatches(ctx context.Context, status string, offset int) ingest.ListResult {
	f.status = status
	return f.res
}

type fakeFeed struct {
	byMatch map[string][]store.Delivery
}

func (f *fakeFeed) GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery {
	return f.byMatch[matchID]
}

type memStore struct {
	mu         sync.Mutex
	matches    map[string]store.Match
	deliveries map[string]store.Delivery
	matchErr   error
}

func newMemStore() *memStore {
	return &memStore{matches: map[string]store.Match{}, deliveries: map[string]store.Delivery{}}
}

type matchWriter struct{ *memStore }

func (w matchWriter) Upsert(ctx context.Context, m *store.Match) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.matchErr != nil {
		return w.matchErr
	}
	w.matches[m.ID] = *m
	return nil
}

type deliveryWriter struct{ *memStore }

func (w deliveryWriter) Upsert(ctx context.Context, d *store.Delivery) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, exists := w.deliveries[d.ID]
	w.deliveries[d.ID] = *d
	return !exists, nil
}

type recordingPublisher struct {
	mu         sync.Mutex
	matches    []string
	deliveries []string
}

func (p *recordingPublisher) PublishMatchUpdate(ctx context.Context, m *store.Match) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matches = append(p.matches, m.ID)
	return nil
}

func (p *recordingPublisher) PublishDelivery(ctx context.Context, d *store.Delivery) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deliveries = append(p.deliveries, d.ID)
	return nil
}

func liveResult(ids ...string) ingest.ListResult {
	res := ingest.ListResult{Source: ingest.SourceLiveList, Matches: []store.Match{}}
	for _, id := range ids {
		res.Matches = append(res.Matches, store.Match{ID: id, Status: store.StatusLive})
	}
	return res
}

func feedFor() *fakeFeed {
	return &fakeFeed{byMatch: map[string][]store.Delivery{
		"a": {{ID: "a_2", MatchID: "a"}, {ID: "a_1", MatchID: "a"}},
		"b": {{ID: "b_1", MatchID: "b"}},
	}}
}

func TestPollStoresAndPublishes(t *testing.T) {
	lister := &fakeLister{res: liveResult("a", "b")}
	mem := newMemStore()
	pub := &recordingPublisher{}
	o := NewOrchestrator(lister, feedFor(), matchWriter{mem}, deliveryWriter{mem}, pub, nil)

	res, err := o.Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, store.StatusLive, lister.status)
	assert.Equal(t, ingest.SourceLiveList, res.Source)
	assert.Equal(t, 2, res.Matches)
	assert.Equal(t, 3, res.NewDeliveries)
	assert.Len(t, mem.matches, 2)
	assert.Len(t, mem.deliveries, 3)
	assert.ElementsMatch(t, []string{"a", "b"}, pub.matches)
	assert.ElementsMatch(t, []string{"a_2", "a_1", "b_1"}, pub.deliveries)
}

func TestPollPublishesOnlyNewDeliveries(t *testing.T) {
	lister := &fakeLister{res: liveResult("a")}
	mem := newMemStore()
	pub := &recordingPublisher{}
	o := NewOrchestrator(lister, feedFor(), matchWriter{mem}, deliveryWriter{mem}, pub, nil)

	_, err := o.Poll(context.Background())
	require.NoError(t, err)
	res, err := o.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.NewDeliveries)
	assert.Len(t, pub.deliveries, 2)
	assert.Len(t, pub.matches, 2)
}

func TestPollFailsWhenProvidersExhausted(t *testing.T) {
	lister := &fakeLister{res: ingest.ListResult{Attempts: []ingest.Attempt{
		{Source: ingest.SourceLiveList, Outcome: ingest.OutcomeFailed, Err: errors.New("timeout")},
	}}}
	mem := newMemStore()
	o := NewOrchestrator(lister, feedFor(), matchWriter{mem}, deliveryWriter{mem}, nil, nil)

	_, err := o.Poll(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Empty(t, mem.matches)
	assert.Contains(t, o.GetStatus(), "last_poll")
}

func TestPollWithoutPublisherOrMatches(t *testing.T) {
	mem := newMemStore()
	o := NewOrchestrator(&fakeLister{res: liveResult()}, feedFor(), matchWriter{mem}, deliveryWriter{mem}, nil, nil)

	res, err := o.Poll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, res.Matches)
}

func TestPollSkipsUnstorableMatch(t *testing.T) {
	mem := newMemStore()
	mem.matchErr = errors.New("constraint violation")
	pub := &recordingPublisher{}
	o := NewOrchestrator(&fakeLister{res: liveResult("a")}, feedFor(), matchWriter{mem}, deliveryWriter{mem}, pub, nil)

	res, err := o.Poll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, pub.matches)
	assert.Equal(t, 2, res.NewDeliveries)
}

func TestStartPollsImmediatelyAndStops(t *testing.T) {
	mem := newMemStore()
	cfg := DefaultConfig()
	cfg.LivePollInterval = time.Hour
	o := NewOrchestrator(&fakeLister{res: liveResult("a")}, feedFor(), matchWriter{mem}, deliveryWriter{mem}, nil, cfg)

	done := make(chan struct{})
	go func() {
		o.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return len(mem.deliveries) == 2
	}, time.Second, 5*time.Millisecond)

	o.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("orchestrator did not stop")
	}
}
