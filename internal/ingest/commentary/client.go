// Package commentary fetches the ball-by-ball feed and turns its events into
// deliveries.
package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

// DefaultURL is the ball feed endpoint.
const DefaultURL = "https://content.crickapi.com/commentary/getBallFeeds"

// Client talks to the ball feed provider.
type Client struct {
	url  string
	http *http.Client
	now  func() time.Time
}

// NewClient creates a ball feed client. An empty url selects DefaultURL.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:  url,
		http: ingest.NewHTTPClient(timeout),
		now:  time.Now,
	}
}

// FetchBallFeeds returns the delivery events for a match, starting after
// lastDocID (0 for the newest page). Non-delivery events are dropped.
func (c *Client) FetchBallFeeds(ctx context.Context, matchKey string, lastDocID int64, filters Filters) ([]BallFeed, error) {
	body, err := json.Marshal(feedRequest{
		MatchKey:  matchKey,
		LastDocID: lastDocID,
		Filters:   filters,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding feed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var events []BallFeed
	if err := ingest.DoJSON(c.http, req, &events); err != nil {
		return nil, fmt.Errorf("fetching ball feed for %s: %w", matchKey, err)
	}

	balls := make([]BallFeed, 0, len(events))
	for _, ev := range events {
		if ev.Type.Value == EventTypeBall {
			balls = append(balls, ev)
		}
	}
	return balls, nil
}

// GetBallFeeds is FetchBallFeeds with failures logged and swallowed.
func (c *Client) GetBallFeeds(ctx context.Context, matchKey string, lastDocID int64, filters Filters) []BallFeed {
	balls, err := c.FetchBallFeeds(ctx, matchKey, lastDocID, filters)
	if err != nil {
		log.Printf("[commentary] ⚠️  %v", err)
		return []BallFeed{}
	}
	return balls
}

// GetMatchDeliveries returns the parsed deliveries for a match, most recent
// ball first. It never fails; a provider outage yields an empty slice.
func (c *Client) GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery {
	return c.Deliveries(c.GetBallFeeds(ctx, matchID, lastDocID, Filters{}), matchID)
}

// Deliveries parses events and sorts them by (over, ball) descending.
func (c *Client) Deliveries(events []BallFeed, matchID string) []store.Delivery {
	now := c.now()
	out := make([]store.Delivery, 0, len(events))
	for _, ev := range events {
		out = append(out, ParseDelivery(ev, matchID, now))
	}
	SortRecentFirst(out)
	return out
}

// SortRecentFirst orders deliveries by (over, ball) descending, keeping the
// provider order for ties.
func SortRecentFirst(ds []store.Delivery) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Over != ds[j].Over {
			return ds[i].Over > ds[j].Over
		}
		return ds[i].Ball > ds[j].Ball
	})
}
