// Package livematches talks to the live-list provider, which keys matches by
// an opaque id and encodes teams as short codes.
package livematches

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

const (
	DefaultLiveURL       = "https://api-v1.com/w/liveMatches2.php"
	DefaultStatisticsURL = "https://api-v1.com/w/matchStatistics.php"
)

// Client fetches the live match list and per-match statistics.
type Client struct {
	liveURL  string
	statsURL string
	http     *http.Client
	norm     *Normalizer
}

// NewClient creates a client. Empty URLs select the defaults.
func NewClient(liveURL, statsURL string, timeout time.Duration, norm *Normalizer) *Client {
	if liveURL == "" {
		liveURL = DefaultLiveURL
	}
	if statsURL == "" {
		statsURL = DefaultStatisticsURL
	}
	return &Client{
		liveURL:  liveURL,
		statsURL: statsURL,
		http:     ingest.NewHTTPClient(timeout),
		norm:     norm,
	}
}

// FetchLiveMatches returns the raw list records in provider order.
func (c *Client) FetchLiveMatches(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.liveURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var list liveList
	if err := ingest.DoJSON(c.http, req, &list); err != nil {
		return nil, fmt.Errorf("fetching live matches: %w", err)
	}
	return list, nil
}

// FetchMatchStatistics returns the statistics record for id, or nil when the
// provider has nothing for it.
func (c *Client) FetchMatchStatistics(ctx context.Context, id string) (*MatchStatistics, error) {
	u, err := url.Parse(c.statsURL)
	if err != nil {
		return nil, fmt.Errorf("parsing statistics url: %w", err)
	}
	q := u.Query()
	q.Set("key", id)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var raw json.RawMessage
	if err := ingest.DoJSON(c.http, req, &raw); err != nil {
		return nil, fmt.Errorf("fetching statistics for %s: %w", id, err)
	}
	if isEmpty(raw) {
		return nil, nil
	}

	var stats MatchStatistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decoding statistics for %s: %w", id, err)
	}
	stats.Raw = raw
	return &stats, nil
}

// LiveMatches fetches and normalizes the live match list.
func (c *Client) LiveMatches(ctx context.Context) ([]store.Match, error) {
	entries, err := c.FetchLiveMatches(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]store.Match, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, c.norm.NormalizeLive(e.ID, e.Match))
	}
	log.Printf("[livematches] ✓ Fetched %d matches", len(matches))
	return matches, nil
}

// MatchStatistics fetches and normalizes one match. It returns nil, nil when
// the provider has no record for id.
func (c *Client) MatchStatistics(ctx context.Context, id string) (*store.Match, error) {
	stats, err := c.FetchMatchStatistics(ctx, id)
	if err != nil || stats == nil {
		return nil, err
	}
	m := c.norm.NormalizeStatistics(id, *stats)
	return &m, nil
}

// isEmpty reports whether a payload carries no record.
func isEmpty(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "{}", "[]", `""`, "false":
		return true
	}
	return false
}
