package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/cricbase/internal/cache"
	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/store"
)

// MatchSelector is the provider fallback chain.
type MatchSelector interface {
	ListMatches(ctx context.Context, status string, offset int) ingest.ListResult
	GetMatch(ctx context.Context, id string) ingest.MatchResult
}

// MatchStore is the persisted copy of matches used when every provider is down.
type MatchStore interface {
	List(ctx context.Context, status string) ([]store.Match, error)
	GetByID(ctx context.Context, id string) (*store.Match, error)
}

// ListCache holds short-lived JSON answers.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// MatchService handles match lookups
type MatchService struct {
	selector MatchSelector
	repo     MatchStore
	cache    ListCache
	cacheTTL time.Duration
}

// NewMatchService creates a new match service. cache may be nil.
func NewMatchService(selector MatchSelector, repo MatchStore, cache ListCache, cacheTTL time.Duration) *MatchService {
	return &MatchService{
		selector: selector,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ListMatches returns matches with the given status ("" for all). Provider
// answers are cached; when every provider is exhausted the stored matches are
// returned, newest first.
func (s *MatchService) ListMatches(ctx context.Context, status string, offset int) ([]store.Match, error) {
	key := cache.MatchListKey(status, offset)

	if s.cache != nil && s.cacheTTL > 0 {
		var cached []store.Match
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("[matches] ⚠️  cache read %s: %v", key, err)
		} else if found {
			return cached, nil
		}
	}

	res := s.selector.ListMatches(ctx, status, offset)
	if !res.Exhausted() {
		log.Printf("[matches] Fetched %d matches from %s", len(res.Matches), res.Source)
		if s.cache != nil && s.cacheTTL > 0 {
			if err := s.cache.SetJSON(ctx, key, res.Matches, s.cacheTTL); err != nil {
				log.Printf("[matches] ⚠️  cache write %s: %v", key, err)
			}
		}
		return res.Matches, nil
	}

	if err := res.Err(); err != nil {
		log.Printf("[matches] ⚠️  providers exhausted, reading stored matches: %v", err)
	}

	matches, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing stored matches: %w", err)
	}
	return matches, nil
}

// GetMatch returns one match from the providers, or the stored copy. It
// returns store.ErrNotFound when nobody has it.
func (s *MatchService) GetMatch(ctx context.Context, id string) (*store.Match, error) {
	res := s.selector.GetMatch(ctx, id)
	if !res.Exhausted() {
		return res.Match, nil
	}

	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("fetching stored match %s: %w", id, err)
	}
	return m, nil
}
