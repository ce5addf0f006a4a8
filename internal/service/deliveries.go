package service

import (
	"context"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// DefaultFeedLimit is the number of deliveries returned by the feed.
const DefaultFeedLimit = 20

// BallFeedSource fetches parsed deliveries for a match, most recent first.
type BallFeedSource interface {
	GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery
}

// DeliveryStore is the persisted delivery table.
type DeliveryStore interface {
	Feed(ctx context.Context, limit int) ([]store.Delivery, error)
	ListByMatch(ctx context.Context, matchID string) ([]store.Delivery, error)
	GetByID(ctx context.Context, id string) (*store.Delivery, error)
}

// DeliveryService handles ball-by-ball lookups
type DeliveryService struct {
	feed BallFeedSource
	repo DeliveryStore
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(feed BallFeedSource, repo DeliveryStore) *DeliveryService {
	return &DeliveryService{feed: feed, repo: repo}
}

// LiveDeliveries reads the ball feed directly. A provider outage yields an
// empty slice.
func (s *DeliveryService) LiveDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery {
	return s.feed.GetMatchDeliveries(ctx, matchID, lastDocID)
}

// Feed returns the most recent stored deliveries across all matches
func (s *DeliveryService) Feed(ctx context.Context, limit int) ([]store.Delivery, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	deliveries, err := s.repo.Feed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching delivery feed: %w", err)
	}
	return deliveries, nil
}

// MatchDeliveries returns a match's stored deliveries in bowling order
func (s *DeliveryService) MatchDeliveries(ctx context.Context, matchID string) ([]store.Delivery, error) {
	deliveries, err := s.repo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("fetching deliveries for %s: %w", matchID, err)
	}
	return deliveries, nil
}

// GetDelivery returns one stored delivery or store.ErrNotFound
func (s *DeliveryService) GetDelivery(ctx context.Context, id string) (*store.Delivery, error) {
	return s.repo.GetByID(ctx, id)
}
