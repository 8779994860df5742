package domain

import (
	"context"
	"time"
)

var ErrReviewNotFound = &kindError{msg: "review not found", kind: ErrNotFound}

// Review is a rated comment on a listing. AuthorID never changes.
type Review struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	AuthorID  string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAuthoredBy reports whether userID wrote the review.
func (r *Review) IsAuthoredBy(userID string) bool {
	return userID != "" && r.AuthorID == userID
}

type ReviewInput struct {
	Comment string
	Rating  int
}

// ReviewDetail is a review with its author dereferenced.
type ReviewDetail struct {
	*Review
	Author *User
}

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id string) (*Review, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Review, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}
