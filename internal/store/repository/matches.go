package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// MatchRepository handles match data access
type MatchRepository struct {
	db *store.Database
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *store.Database) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, team1, team2, team1_logo, team2_logo, venue, status,
			date, format, score, current_over, current_ball`

// List returns stored matches, newest first, optionally filtered by status
func (r *MatchRepository) List(ctx context.Context, status string) ([]store.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE ($1 = '' OR status = $1)
		ORDER BY date DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	matches := []store.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}

	return matches, rows.Err()
}

// GetByID finds a match by its provider id
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*store.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE id = $1
	`

	m, err := scanMatch(r.db.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Upsert inserts or updates a match
func (r *MatchRepository) Upsert(ctx context.Context, m *store.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			team1 = EXCLUDED.team1,
			team2 = EXCLUDED.team2,
			team1_logo = EXCLUDED.team1_logo,
			team2_logo = EXCLUDED.team2_logo,
			venue = EXCLUDED.venue,
			status = EXCLUDED.status,
			date = EXCLUDED.date,
			format = EXCLUDED.format,
			score = EXCLUDED.score,
			current_over = EXCLUDED.current_over,
			current_ball = EXCLUDED.current_ball
	`

	var score interface{}
	if m.Score != nil {
		b, err := json.Marshal(m.Score)
		if err != nil {
			return fmt.Errorf("encoding score: %w", err)
		}
		score = string(b)
	}

	_, err := r.db.DB().ExecContext(ctx, query,
		m.ID, m.Team1, m.Team2, nullString(m.Team1Logo), nullString(m.Team2Logo), m.Venue, m.Status,
		m.Date, m.Format, score, nullInt(m.CurrentOver), nullInt(m.CurrentBall),
	)
	if err != nil {
		return fmt.Errorf("upserting match %s: %w", m.ID, err)
	}

	return nil
}

func scanMatch(row scanner) (*store.Match, error) {
	var (
		m                        store.Match
		logo1, logo2             sql.NullString
		score                    []byte
		currentOver, currentBall sql.NullInt64
	)

	err := row.Scan(
		&m.ID, &m.Team1, &m.Team2, &logo1, &logo2, &m.Venue, &m.Status,
		&m.Date, &m.Format, &score, &currentOver, &currentBall,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning match: %w", err)
	}

	m.Team1Logo = stringPtr(logo1)
	m.Team2Logo = stringPtr(logo2)
	m.CurrentOver = intPtr(currentOver)
	m.CurrentBall = intPtr(currentBall)

	if len(score) > 0 && string(score) != "null" {
		var s store.MatchScore
		if err := json.Unmarshal(score, &s); err != nil {
			return nil, fmt.Errorf("decoding score for match %s: %w", m.ID, err)
		}
		m.Score = store.NewMatchScore(s.Team1, s.Team2)
	}

	return &m, nil
}
