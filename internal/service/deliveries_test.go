package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cricbase/internal/store"
)

type fakeFeed struct {
	deliveries []store.Delivery
	lastDocID  int64
}

func (f *fakeFeed) GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery {
	f.lastDocID = lastDocID
	return f.deliveries
}

type fakeDeliveryStore struct {
	deliveries []store.Delivery
	limit      int
	increments map[string]int
}

func (f *fakeDeliveryStore) Feed(ctx context.Context, limit int) ([]store.Delivery, error) {
	f.limit = limit
	return f.deliveries, nil
}

func (f *fakeDeliveryStore) ListByMatch(ctx context.Context, matchID string) ([]store.Delivery, error) {
	out := []store.Delivery{}
	for _, d := range f.deliveries {
		if d.MatchID == matchID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeliveryStore) GetByID(ctx context.Context, id string) (*store.Delivery, error) {
	for i := range f.deliveries {
		if f.deliveries[i].ID == id {
			return &f.deliveries[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeDeliveryStore) IncrementCommentCount(ctx context.Context, id string) error {
	if f.increments == nil {
		f.increments = map[string]int{}
	}
	f.increments[id]++
	return nil
}

func TestLiveDeliveriesPassesCursor(t *testing.T) {
	feed := &fakeFeed{deliveries: []store.Delivery{{ID: "9"}}}

	got := NewDeliveryService(feed, &fakeDeliveryStore{}).LiveDeliveries(context.Background(), "78412", 1700000000000)

	assert.Equal(t, []store.Delivery{{ID: "9"}}, got)
	assert.Equal(t, int64(1700000000000), feed.lastDocID)
}

func TestFeedDefaultsLimit(t *testing.T) {
	repo := &fakeDeliveryStore{}
	svc := NewDeliveryService(&fakeFeed{}, repo)

	_, err := svc.Feed(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultFeedLimit, repo.limit)

	_, err = svc.Feed(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.limit)
}

func TestMatchDeliveriesAndLookup(t *testing.T) {
	repo := &fakeDeliveryStore{deliveries: []store.Delivery{
		{ID: "1", MatchID: "a"},
		{ID: "2", MatchID: "b"},
	}}
	svc := NewDeliveryService(&fakeFeed{}, repo)

	got, err := svc.MatchDeliveries(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []store.Delivery{{ID: "2", MatchID: "b"}}, got)

	_, err = svc.GetDelivery(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
