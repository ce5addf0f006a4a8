package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cricbase/internal/store"
)

type fakeStats struct {
	limit int
	err   error
}

func (f *fakeStats) TopPlayers(ctx context.Context, limit int) ([]store.PlayerStats, error) {
	f.limit = limit
	return []store.PlayerStats{{PlayerID: "1", Runs: 12000}}, f.err
}

func (f *fakeStats) Teams(ctx context.Context) ([]store.TeamStats, error) {
	return []store.TeamStats{{TeamID: "R", Wins: 9}}, f.err
}

func TestStatsService(t *testing.T) {
	repo := &fakeStats{}
	svc := NewStatsService(repo)

	players, err := svc.TopPlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 1)
	assert.Equal(t, TopPlayersLimit, repo.limit)

	teams, err := svc.Teams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, teams[0].Wins)
}

func TestStatsServiceWrapsErrors(t *testing.T) {
	svc := NewStatsService(&fakeStats{err: errors.New("relation does not exist")})

	_, err := svc.Teams(context.Background())
	assert.ErrorContains(t, err, "fetching team stats")
}
