package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fortuna/cricbase/internal/ingest/cricapi"
	"github.com/fortuna/cricbase/internal/store"
)

// ErrUpstream marks a provider failure that could not be hidden.
var ErrUpstream = errors.New("upstream provider failed")

// Directory is the keyed provider's series and player catalogue.
type Directory interface {
	Series(ctx context.Context, offset int, search string) ([]cricapi.Series, error)
	Players(ctx context.Context, offset int, search string) ([]cricapi.Player, error)
	PlayerInfo(ctx context.Context, id string) (*cricapi.PlayerInfo, error)
}

// CatalogService passes series and player lookups through to the keyed
// provider. Without one configured every list is empty.
type CatalogService struct {
	dir Directory
}

// NewCatalogService creates a catalog service. dir may be nil.
func NewCatalogService(dir Directory) *CatalogService {
	return &CatalogService{dir: dir}
}

// Series lists series matching search
func (s *CatalogService) Series(ctx context.Context, offset int, search string) []cricapi.Series {
	if s.dir == nil {
		return []cricapi.Series{}
	}
	series, err := s.dir.Series(ctx, offset, search)
	if err != nil {
		log.Printf("[catalog] ⚠️  series lookup failed: %v", err)
		return []cricapi.Series{}
	}
	return series
}

// Players lists players matching search
func (s *CatalogService) Players(ctx context.Context, offset int, search string) []cricapi.Player {
	if s.dir == nil {
		return []cricapi.Player{}
	}
	players, err := s.dir.Players(ctx, offset, search)
	if err != nil {
		log.Printf("[catalog] ⚠️  player lookup failed: %v", err)
		return []cricapi.Player{}
	}
	return players
}

// PlayerInfo returns one player's profile, store.ErrNotFound when the provider
// has none, or ErrUpstream when it failed.
func (s *CatalogService) PlayerInfo(ctx context.Context, id string) (*cricapi.PlayerInfo, error) {
	if s.dir == nil {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	info, err := s.dir.PlayerInfo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if info == nil {
		return nil, fmt.Errorf("player %s: %w", id, store.ErrNotFound)
	}
	return info, nil
}
