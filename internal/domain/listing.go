package domain

import (
	"context"
	"time"
)

var ErrListingNotFound = &kindError{msg: "Listing you requested for does not exist", kind: ErrNotFound}

// Image references a stored upload. Filename is the media store's identifier.
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Listing is a rentable property. OwnerID never changes after creation.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
	Country     string    `json:"country"`
	Image       *Image    `json:"image,omitempty"`
	OwnerID     string    `json:"owner"`
	ReviewIDs   []string  `json:"reviews"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the listing's owner.
func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && l.OwnerID == userID
}

// ListingInput holds the editable fields of a listing.
type ListingInput struct {
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
}

// ListingDetail is a listing with its owner and reviews dereferenced.
// Owner and review authors are nil when the account no longer exists.
type ListingDetail struct {
	*Listing
	Owner   *User
	Reviews []*ReviewDetail
}

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	List(ctx context.Context, query string) ([]*Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, id string, input ListingInput) (*Listing, error)
	SetImage(ctx context.Context, id string, image Image) error
	Delete(ctx context.Context, id string) (*Listing, error)
	InsertMany(ctx context.Context, listings []*Listing) error
	DeleteAll(ctx context.Context) (int64, error)
	AddReview(ctx context.Context, listingID, reviewID string) error
	RemoveReview(ctx context.Context, listingID, reviewID string) error
}
