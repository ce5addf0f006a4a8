package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

type fakeSelector struct {
	list      ingest.ListResult
	match     ingest.MatchResult
	listCalls int
}

func (f *fakeSelector) ListMatches(ctx context.Context, status string, offset int) ingest.ListResult {
	f.listCalls++
	return f.list
}

func (f *fakeSelector) GetMatch(ctx context.Context, id string) ingest.MatchResult {
	return f.match
}

type fakeMatchStore struct {
	matches    []store.Match
	err        error
	listStatus string
}

func (f *fakeMatchStore) List(ctx context.Context, status string) ([]store.Match, error) {
	f.listStatus = status
	return f.matches, f.err
}

func (f *fakeMatchStore) GetByID(ctx context.Context, id string) (*store.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.matches {
		if f.matches[i].ID == id {
			return &f.matches[i], nil
		}
	}
	return nil, store.ErrNotFound
}

type memCache struct {
	data map[string][]byte
	ttl  time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	c.ttl = ttl
	return nil
}

func exhaustedList() ingest.ListResult {
	return ingest.ListResult{Attempts: []ingest.Attempt{
		{Source: ingest.SourceLiveList, Outcome: ingest.OutcomeFailed, Err: errors.New("down")},
		{Source: ingest.SourceCricAPI, Outcome: ingest.OutcomeSkipped},
	}}
}

func TestListMatchesUsesProviderAnswer(t *testing.T) {
	sel := &fakeSelector{list: ingest.ListResult{
		Matches: []store.Match{{ID: "1", Status: store.StatusLive}},
		Source:  ingest.SourceLiveList,
	}}
	repo := &fakeMatchStore{matches: []store.Match{{ID: "stored"}}}

	matches, err := NewMatchService(sel, repo, nil, 0).ListMatches(context.Background(), "live", 0)

	require.NoError(t, err)
	assert.Equal(t, []store.Match{{ID: "1", Status: store.StatusLive}}, matches)
	assert.Empty(t, repo.listStatus)
}

func TestListMatchesFallsBackToStore(t *testing.T) {
	sel := &fakeSelector{list: exhaustedList()}
	repo := &fakeMatchStore{matches: []store.Match{{ID: "stored", Status: store.StatusCompleted}}}

	matches, err := NewMatchService(sel, repo, nil, 0).ListMatches(context.Background(), "completed", 0)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "stored", matches[0].ID)
	assert.Equal(t, "completed", repo.listStatus)
}

func TestListMatchesStoreFailure(t *testing.T) {
	sel := &fakeSelector{list: exhaustedList()}
	repo := &fakeMatchStore{err: errors.New("connection reset")}

	_, err := NewMatchService(sel, repo, nil, 0).ListMatches(context.Background(), "", 0)

	assert.ErrorContains(t, err, "connection reset")
}

func TestListMatchesCachesProviderAnswers(t *testing.T) {
	sel := &fakeSelector{list: ingest.ListResult{
		Matches: []store.Match{{ID: "1", Team1: "New Zealand"}},
		Source:  ingest.SourceLiveList,
	}}
	c := newMemCache()
	svc := NewMatchService(sel, &fakeMatchStore{}, c, 10*time.Second)

	first, err := svc.ListMatches(context.Background(), "", 0)
	require.NoError(t, err)
	second, err := svc.ListMatches(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, sel.listCalls)
	assert.Equal(t, 10*time.Second, c.ttl)
	assert.Contains(t, c.data, "cricket:matches:all:0")
}

func TestListMatchesDoesNotCacheStoreFallback(t *testing.T) {
	sel := &fakeSelector{list: exhaustedList()}
	c := newMemCache()
	svc := NewMatchService(sel, &fakeMatchStore{matches: []store.Match{}}, c, 10*time.Second)

	_, err := svc.ListMatches(context.Background(), "live", 0)

	require.NoError(t, err)
	assert.Empty(t, c.data)
}

func TestGetMatchFromProvider(t *testing.T) {
	m := &store.Match{ID: "78412"}
	sel := &fakeSelector{match: ingest.MatchResult{Match: m, Source: ingest.SourceStatistics}}

	got, err := NewMatchService(sel, &fakeMatchStore{}, nil, 0).GetMatch(context.Background(), "78412")

	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestGetMatchFallsBackToStore(t *testing.T) {
	sel := &fakeSelector{}
	repo := &fakeMatchStore{matches: []store.Match{{ID: "78412", Venue: "Eden Park"}}}

	got, err := NewMatchService(sel, repo, nil, 0).GetMatch(context.Background(), "78412")

	require.NoError(t, err)
	assert.Equal(t, "Eden Park", got.Venue)
}

func TestGetMatchNotFound(t *testing.T) {
	_, err := NewMatchService(&fakeSelector{}, &fakeMatchStore{}, nil, 0).GetMatch(context.Background(), "nope")

	assert.ErrorIs(t, err, store.ErrNotFound)
}
