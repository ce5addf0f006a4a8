package service

import (
	"context"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// TopPlayersLimit caps the player leaderboard.
const TopPlayersLimit = 50

// StatsStore is the player_stats and team_stats tables.
type StatsStore interface {
	TopPlayers(ctx context.Context, limit int) ([]store.PlayerStats, error)
	Teams(ctx context.Context) ([]store.TeamStats, error)
}

// StatsService handles statistics-related business logic
type StatsService struct {
	repo StatsStore
}

// NewStatsService creates a new stats service
func NewStatsService(repo StatsStore) *StatsService {
	return &StatsService{repo: repo}
}

// TopPlayers returns the leading run scorers
func (s *StatsService) TopPlayers(ctx context.Context) ([]store.PlayerStats, error) {
	players, err := s.repo.TopPlayers(ctx, TopPlayersLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching player stats: %w", err)
	}
	return players, nil
}

// Teams returns team records, most wins first
func (s *StatsService) Teams(ctx context.Context) ([]store.TeamStats, error) {
	teams, err := s.repo.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching team stats: %w", err)
	}
	return teams, nil
}
