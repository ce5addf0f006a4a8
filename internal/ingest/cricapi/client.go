// Package cricapi is the client for the keyed REST match-info provider. Its
// match ids are UUIDs.
package cricapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

// DefaultBaseURL is the provider API root.
const DefaultBaseURL = "https://api.cricapi.com/v1"

// ErrMissingAPIKey is returned by NewClient when no API key is configured.
var ErrMissingAPIKey = errors.New("cricapi: API key is required")

// Client calls the provider API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	norm    *Normalizer
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration, norm *Normalizer) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if norm == nil {
		norm = NewNormalizer()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    ingest.NewHTTPClient(timeout),
		norm:    norm,
	}, nil
}

// CurrentMatches returns the matches currently in progress.
func (c *Client) CurrentMatches(ctx context.Context, offset int) ([]store.Match, error) {
	return c.matchList(ctx, "currentMatches", offset)
}

// AllMatches returns the full match listing.
func (c *Client) AllMatches(ctx context.Context, offset int) ([]store.Match, error) {
	return c.matchList(ctx, "matches", offset)
}

// MatchInfo returns one match, or nil when the provider has no data for id.
func (c *Client) MatchInfo(ctx context.Context, id string) (*store.Match, error) {
	var info MatchInfo
	ok, err := c.get(ctx, "match_info", url.Values{"id": {id}}, &info)
	if err != nil || !ok {
		return nil, err
	}
	m := c.norm.Normalize(info)
	return &m, nil
}

// Series lists series, optionally filtered by search.
func (c *Client) Series(ctx context.Context, offset int, search string) ([]Series, error) {
	series := []Series{}
	if _, err := c.get(ctx, "series", listParams(offset, search), &series); err != nil {
		return nil, err
	}
	return series, nil
}

// Players lists players, optionally filtered by search.
func (c *Client) Players(ctx context.Context, offset int, search string) ([]Player, error) {
	players := []Player{}
	if _, err := c.get(ctx, "players", listParams(offset, search), &players); err != nil {
		return nil, err
	}
	return players, nil
}

// PlayerInfo returns a player's profile, or nil when the provider has none.
func (c *Client) PlayerInfo(ctx context.Context, id string) (*PlayerInfo, error) {
	var info PlayerInfo
	ok, err := c.get(ctx, "players_info", url.Values{"id": {id}}, &info)
	if err != nil || !ok {
		return nil, err
	}
	return &info, nil
}

func (c *Client) matchList(ctx context.Context, endpoint string, offset int) ([]store.Match, error) {
	var raw []json.RawMessage
	if _, err := c.get(ctx, endpoint, listParams(offset, ""), &raw); err != nil {
		return nil, err
	}

	matches := make([]store.Match, 0, len(raw))
	for _, r := range raw {
		var info MatchInfo
		if err := json.Unmarshal(r, &info); err != nil {
			log.Printf("[cricapi] ⚠️  Skipping malformed match in %s: %v", endpoint, err)
			continue
		}
		matches = append(matches, c.norm.Normalize(info))
	}
	log.Printf("[cricapi] ✓ Fetched %d matches from %s", len(matches), endpoint)
	return matches, nil
}

// get calls endpoint and decodes the envelope's data into out. It reports
// false without error when the provider answered with a non-success status
// or no data.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) (bool, error) {
	params.Set("apikey", c.apiKey)
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	var env envelope
	if err := ingest.DoJSON(c.http, req, &env); err != nil {
		return false, fmt.Errorf("cricapi %s: %w", endpoint, err)
	}
	if env.Status != statusSuccess {
		log.Printf("[cricapi] ⚠️  %s returned status %q %s", endpoint, env.Status, env.Reason)
		return false, nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, fmt.Errorf("cricapi %s: decoding data: %w", endpoint, err)
	}
	return true, nil
}

func listParams(offset int, search string) url.Values {
	params := url.Values{"offset": {strconv.Itoa(offset)}}
	if search != "" {
		params.Set("search", search)
	}
	return params
}
