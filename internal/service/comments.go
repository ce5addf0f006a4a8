package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/cricbase/internal/store"
)

var (
	// ErrInvalidVote is returned for votes other than "up" or "down".
	ErrInvalidVote = errors.New("vote must be \"up\" or \"down\"")
	// ErrInvalidComment is returned for empty comments and unknown parents.
	ErrInvalidComment = errors.New("invalid comment")
)

// CommentStore is the comments and comment_votes tables.
type CommentStore interface {
	ListByDelivery(ctx context.Context, deliveryID string) ([]*store.Comment, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, c *store.Comment) error
	UpsertVote(ctx context.Context, v store.Vote) error
	RecountVotes(ctx context.Context, commentID string) (up, down int, err error)
	UserVotes(ctx context.Context, deliveryID, userID string) (map[string]string, error)
}

// CommentTarget is the delivery side of commenting.
type CommentTarget interface {
	GetByID(ctx context.Context, id string) (*store.Delivery, error)
	IncrementCommentCount(ctx context.Context, id string) error
}

// UserStore makes sure a commenter row exists.
type UserStore interface {
	Ensure(ctx context.Context, u *store.User) (*store.User, error)
}

// CommentService handles comment threads and votes
type CommentService struct {
	comments   CommentStore
	deliveries CommentTarget
	users      UserStore
	newID      func() string
	now        func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(comments CommentStore, deliveries CommentTarget, users UserStore) *CommentService {
	return &CommentService{
		comments:   comments,
		deliveries: deliveries,
		users:      users,
		newID:      func() string { return uuid.New().String() },
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Thread returns a delivery's comments as a forest of replies. When userID is
// set each comment carries that user's vote.
func (s *CommentService) Thread(ctx context.Context, deliveryID, userID string) ([]*store.Comment, error) {
	comments, err := s.comments.ListByDelivery(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}

	if userID != "" && len(comments) > 0 {
		votes, err := s.comments.UserVotes(ctx, deliveryID, userID)
		if err != nil {
			return nil, fmt.Errorf("fetching votes: %w", err)
		}
		for _, c := range comments {
			if v, ok := votes[c.ID]; ok {
				v := v
				c.UserVote = &v
			}
		}
	}

	return BuildThread(comments), nil
}

// BuildThread links comments, given oldest first, into reply trees. A reply
// attaches to a parent seen earlier in the slice; any other reply becomes a
// root. The returned slice and every Replies field are non-nil.
func BuildThread(comments []*store.Comment) []*store.Comment {
	byID := make(map[string]*store.Comment, len(comments))
	roots := make([]*store.Comment, 0, len(comments))

	for _, c := range comments {
		c.Replies = make([]*store.Comment, 0)
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, c)
				byID[c.ID] = c
				continue
			}
		}
		roots = append(roots, c)
		byID[c.ID] = c
	}

	return roots
}

// CreateComment adds a comment by user to a delivery and bumps the delivery's
// comment count.
func (s *CommentService) CreateComment(ctx context.Context, user store.User, deliveryID, content string, parentID *string) (*store.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrInvalidComment)
	}

	if _, err := s.deliveries.GetByID(ctx, deliveryID); err != nil {
		return nil, err
	}

	if parentID != nil {
		exists, err := s.comments.Exists(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: parent %s does not exist", ErrInvalidComment, *parentID)
		}
	}

	author, err := s.users.Ensure(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}

	c := &store.Comment{
		ID:         s.newID(),
		DeliveryID: deliveryID,
		UserID:     author.ID,
		User:       *author,
		Content:    content,
		CreatedAt:  s.now(),
		ParentID:   parentID,
		Replies:    []*store.Comment{},
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.deliveries.IncrementCommentCount(ctx, deliveryID); err != nil {
		return nil, fmt.Errorf("updating comment count: %w", err)
	}

	return c, nil
}

// VoteResult is a comment's tallies after a vote.
type VoteResult struct {
	Success   bool   `json:"success"`
	CommentID string `json:"commentId"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
	UserVote  string `json:"userVote"`
}

// Vote records user's vote on a comment, replacing any earlier one, and
// recomputes the tallies.
func (s *CommentService) Vote(ctx context.Context, user store.User, commentID, vote string) (*VoteResult, error) {
	if vote != store.VoteUp && vote != store.VoteDown {
		return nil, ErrInvalidVote
	}

	exists, err := s.comments.Exists(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	}

	if _, err := s.users.Ensure(ctx, &user); err != nil {
		return nil, fmt.Errorf("ensuring user: %w", err)
	}

	if err := s.comments.UpsertVote(ctx, store.Vote{CommentID: commentID, UserID: user.ID, Vote: vote}); err != nil {
		return nil, err
	}

	up, down, err := s.comments.RecountVotes(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{
		Success:   true,
		CommentID: commentID,
		Upvotes:   up,
		Downvotes: down,
		UserVote:  vote,
	}, nil
}
