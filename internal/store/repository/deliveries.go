package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// DeliveryRepository handles delivery data access
type DeliveryRepository struct {
	db *store.Database
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *store.Database) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

const deliveryColumns = `id, match_id, "over", ball, bowler, batsman, runs, is_wicket,
			wicket_type, is_four, is_six, description, "timestamp", comment_count`

// Feed returns the most recent deliveries across all matches
func (r *DeliveryRepository) Feed(ctx context.Context, limit int) ([]store.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		ORDER BY "timestamp" DESC
		LIMIT $1
	`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying delivery feed: %w", err)
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// ListByMatch returns a match's deliveries in bowling order
func (r *DeliveryRepository) ListByMatch(ctx context.Context, matchID string) ([]store.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE match_id = $1
		ORDER BY "over" ASC, ball ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("querying deliveries for match %s: %w", matchID, err)
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// GetByID finds a delivery by id
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*store.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE id = $1
	`

	d, err := scanDelivery(r.db.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("delivery %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Upsert inserts or updates a delivery and reports whether it was new.
// The stored comment count is owned by the comment layer and never overwritten.
func (r *DeliveryRepository) Upsert(ctx context.Context, d *store.Delivery) (bool, error) {
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0)
		ON CONFLICT (id) DO UPDATE SET
			"over" = EXCLUDED."over",
			ball = EXCLUDED.ball,
			bowler = EXCLUDED.bowler,
			batsman = EXCLUDED.batsman,
			runs = EXCLUDED.runs,
			is_wicket = EXCLUDED.is_wicket,
			wicket_type = EXCLUDED.wicket_type,
			is_four = EXCLUDED.is_four,
			is_six = EXCLUDED.is_six,
			description = EXCLUDED.description
		RETURNING (xmax = 0) AS inserted, comment_count
	`

	var inserted bool
	err := r.db.DB().QueryRowContext(ctx, query,
		d.ID, d.MatchID, d.Over, d.Ball, d.Bowler, d.Batsman, d.Runs, d.IsWicket,
		nullString(d.WicketType), d.IsFour, d.IsSix, d.Description, d.Timestamp,
	).Scan(&inserted, &d.CommentCount)
	if err != nil {
		return false, fmt.Errorf("upserting delivery %s: %w", d.ID, err)
	}

	return inserted, nil
}

// IncrementCommentCount adds one to a delivery's comment count
func (r *DeliveryRepository) IncrementCommentCount(ctx context.Context, id string) error {
	query := `UPDATE deliveries SET comment_count = comment_count + 1 WHERE id = $1`

	if _, err := r.db.DB().ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("incrementing comment count for %s: %w", id, err)
	}

	return nil
}

func scanDeliveries(rows *sql.Rows) ([]store.Delivery, error) {
	deliveries := []store.Delivery{}
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, *d)
	}

	return deliveries, rows.Err()
}

func scanDelivery(row scanner) (*store.Delivery, error) {
	var (
		d          store.Delivery
		wicketType sql.NullString
	)

	err := row.Scan(
		&d.ID, &d.MatchID, &d.Over, &d.Ball, &d.Bowler, &d.Batsman, &d.Runs, &d.IsWicket,
		&wicketType, &d.IsFour, &d.IsSix, &d.Description, &d.Timestamp, &d.CommentCount,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning delivery: %w", err)
	}

	d.WicketType = stringPtr(wicketType)
	return &d, nil
}
