package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// StatsRepository handles player and team statistics data access
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

// TopPlayers returns player career lines ordered by runs
func (r *StatsRepository) TopPlayers(ctx context.Context, limit int) ([]store.PlayerStats, error) {
	query := `
		SELECT player_id, player_name, matches, runs, wickets,
			COALESCE(average, 0), COALESCE(strike_rate, 0), economy
		FROM player_stats
		ORDER BY runs DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying player stats: %w", err)
	}
	defer rows.Close()

	players := []store.PlayerStats{}
	for rows.Next() {
		var (
			p       store.PlayerStats
			economy sql.NullFloat64
		)
		err := rows.Scan(&p.PlayerID, &p.PlayerName, &p.Matches, &p.Runs, &p.Wickets,
			&p.Average, &p.StrikeRate, &economy)
		if err != nil {
			return nil, fmt.Errorf("scanning player stats: %w", err)
		}
		p.Economy = floatPtr(economy)
		players = append(players, p)
	}

	return players, rows.Err()
}

// Teams returns team records ordered by wins
func (r *StatsRepository) Teams(ctx context.Context) ([]store.TeamStats, error) {
	query := `
		SELECT team_id, team_name, matches, wins, losses, COALESCE(win_percentage, 0)
		FROM team_stats
		ORDER BY wins DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying team stats: %w", err)
	}
	defer rows.Close()

	teams := []store.TeamStats{}
	for rows.Next() {
		var t store.TeamStats
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.Matches, &t.Wins, &t.Losses, &t.WinPercentage); err != nil {
			return nil, fmt.Errorf("scanning team stats: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}
