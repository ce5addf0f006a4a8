package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/cricbase/internal/store"
)

// CommentRepository handles comment and vote data access
type CommentRepository struct {
	db *store.Database
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *store.Database) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByDelivery returns a delivery's comments with their authors, oldest first
func (r *CommentRepository) ListByDelivery(ctx context.Context, deliveryID string) ([]*store.Comment, error) {
	query := `
		SELECT c.id, c.delivery_id, c.user_id, c.content, c.created_at,
			c.upvotes, c.downvotes, c.parent_id,
			COALESCE(u.username, ''), COALESCE(u.email, ''), u.avatar, u.created_at
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.delivery_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for %s: %w", deliveryID, err)
	}
	defer rows.Close()

	comments := []*store.Comment{}
	for rows.Next() {
		var (
			c             store.Comment
			parentID      sql.NullString
			avatar        sql.NullString
			userCreatedAt sql.NullTime
		)
		err := rows.Scan(
			&c.ID, &c.DeliveryID, &c.UserID, &c.Content, &c.CreatedAt,
			&c.Upvotes, &c.Downvotes, &parentID,
			&c.User.Username, &c.User.Email, &avatar, &userCreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}

		c.ParentID = stringPtr(parentID)
		c.User.ID = c.UserID
		c.User.Avatar = stringPtr(avatar)
		c.User.CreatedAt = userCreatedAt.Time
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

// Exists reports whether a comment with id exists
func (r *CommentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.DB().QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking comment %s: %w", id, err)
	}
	return exists, nil
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, c *store.Comment) error {
	query := `
		INSERT INTO comments (id, delivery_id, user_id, content, parent_id, upvotes, downvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		c.ID, c.DeliveryID, c.UserID, c.Content, nullString(c.ParentID), c.Upvotes, c.Downvotes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	return nil
}

// UpsertVote records a user's vote, replacing any earlier vote on the comment
func (r *CommentRepository) UpsertVote(ctx context.Context, v store.Vote) error {
	query := `
		INSERT INTO comment_votes (comment_id, user_id, vote)
		VALUES ($1, $2, $3)
		ON CONFLICT (comment_id, user_id) DO UPDATE SET vote = EXCLUDED.vote
	`

	if _, err := r.db.DB().ExecContext(ctx, query, v.CommentID, v.UserID, v.Vote); err != nil {
		return fmt.Errorf("upserting vote on %s: %w", v.CommentID, err)
	}

	return nil
}

// RecountVotes recomputes a comment's vote totals from comment_votes
func (r *CommentRepository) RecountVotes(ctx context.Context, commentID string) (up, down int, err error) {
	query := `
		UPDATE comments SET
			upvotes = (SELECT COUNT(*) FROM comment_votes WHERE comment_id = $1 AND vote = 'up'),
			downvotes = (SELECT COUNT(*) FROM comment_votes WHERE comment_id = $1 AND vote = 'down')
		WHERE id = $1
		RETURNING upvotes, downvotes
	`

	err = r.db.DB().QueryRowContext(ctx, query, commentID).Scan(&up, &down)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("recounting votes on %s: %w", commentID, err)
	}

	return up, down, nil
}

// UserVotes returns a user's votes on a delivery's comments keyed by comment id
func (r *CommentRepository) UserVotes(ctx context.Context, deliveryID, userID string) (map[string]string, error) {
	query := `
		SELECT v.comment_id, v.vote
		FROM comment_votes v
		JOIN comments c ON c.id = v.comment_id
		WHERE c.delivery_id = $1 AND v.user_id = $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, deliveryID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer rows.Close()

	votes := make(map[string]string)
	for rows.Next() {
		var commentID, vote string
		if err := rows.Scan(&commentID, &vote); err != nil {
			return nil, fmt.Errorf("scanning vote: %w", err)
		}
		votes[commentID] = vote
	}

	return votes, rows.Err()
}
