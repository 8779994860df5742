package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"staysync/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique ID for test fixtures
func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewTestUser creates a test user with sensible defaults
// Pass options to override specific fields
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:           nextID("user"),
		Username:     fmt.Sprintf("testuser%d", idCounter.Load()),
		PasswordHash: "$2a$10$test.hash.for.testing.purposes.only", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.Email == "" {
		o.Email = o.Username + "@example.com"
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	return &domain.User{
		ID:           o.ID,
		Username:     o.Username,
		Email:        o.Email,
		PasswordHash: o.PasswordHash,
		CreatedAt:    o.CreatedAt,
	}
}

// WithUserID sets the user ID
func WithUserID(id string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.ID = id
	}
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Email = email
	}
}

// WithPasswordHash sets the password hash
func WithPasswordHash(hash string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.PasswordHash = hash
	}
}

// SessionOptions allows customizing session fixture creation
type SessionOptions struct {
	ID        string
	UserID    string
	Token     string
	CSRFToken string
	Flash     domain.Flash
	ReturnTo  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewTestSession creates an anonymous session with sensible defaults
func NewTestSession(opts ...func(*SessionOptions)) *domain.Session {
	o := &SessionOptions{
		ID:        nextID("session"),
		Token:     nextID("token"),
		CSRFToken: nextID("csrf"),
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Session{
		ID:        o.ID,
		UserID:    o.UserID,
		Token:     o.Token,
		CSRFToken: o.CSRFToken,
		Flash:     o.Flash,
		ReturnTo:  o.ReturnTo,
		ExpiresAt: o.ExpiresAt,
		CreatedAt: o.CreatedAt,
	}
}

// WithSessionUserID binds the session to a user
func WithSessionUserID(userID string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.UserID = userID
	}
}

// WithToken sets the session token
func WithToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.Token = token
	}
}

// WithCSRFToken sets the session's CSRF token
func WithCSRFToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.CSRFToken = token
	}
}

// WithFlash adds a pending flash message
func WithFlash(kind, message string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		if o.Flash == nil {
			o.Flash = domain.Flash{}
		}
		o.Flash[kind] = append(o.Flash[kind], message)
	}
}

// WithReturnTo sets the post-login redirect
func WithReturnTo(url string) func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.ReturnTo = url
	}
}

// WithExpired creates an expired session
func WithExpired() func(*SessionOptions) {
	return func(o *SessionOptions) {
		o.ExpiresAt = time.Now().Add(-1 * time.Hour)
	}
}

// ListingOptions allows customizing listing fixture creation
type ListingOptions struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Image       *domain.Image
	OwnerID     string
	ReviewIDs   []string
}

// NewTestListing creates a listing with an image and an owner
func NewTestListing(opts ...func(*ListingOptions)) *domain.Listing {
	o := &ListingOptions{
		ID:          nextID("listing"),
		Title:       fmt.Sprintf("Cozy Cottage %d", idCounter.Load()),
		Description: "A quiet place by the lake",
		Price:       1200,
		Location:    "Lake Tahoe",
		Country:     "United States",
		OwnerID:     nextID("user"),
	}
	o.Image = &domain.Image{
		URL:      "https://res.cloudinary.com/demo/image/upload/" + o.ID + ".jpg",
		Filename: "staysync/" + o.ID,
	}

	for _, opt := range opts {
		opt(o)
	}

	now := time.Now()
	return &domain.Listing{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Price:       o.Price,
		Location:    o.Location,
		Country:     o.Country,
		Image:       o.Image,
		OwnerID:     o.OwnerID,
		ReviewIDs:   o.ReviewIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithListingID sets the listing ID
func WithListingID(id string) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.ID = id
	}
}

// WithTitle sets the title
func WithTitle(title string) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.Title = title
	}
}

// WithLocation sets the location and country
func WithLocation(location, country string) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.Location = location
		o.Country = country
	}
}

// WithPrice sets the nightly price
func WithPrice(price float64) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.Price = price
	}
}

// WithOwner sets the owner
func WithOwner(userID string) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.OwnerID = userID
	}
}

// WithImage sets the image; nil removes it
func WithImage(image *domain.Image) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.Image = image
	}
}

// WithReviewIDs sets the review references
func WithReviewIDs(ids ...string) func(*ListingOptions) {
	return func(o *ListingOptions) {
		o.ReviewIDs = ids
	}
}

// ReviewOptions allows customizing review fixture creation
type ReviewOptions struct {
	ID        string
	ListingID string
	Comment   string
	Rating    int
	AuthorID  string
}

// NewTestReview creates a four-star review
func NewTestReview(opts ...func(*ReviewOptions)) *domain.Review {
	o := &ReviewOptions{
		ID:        nextID("review"),
		ListingID: nextID("listing"),
		Comment:   "Lovely stay",
		Rating:    4,
		AuthorID:  nextID("user"),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Review{
		ID:        o.ID,
		ListingID: o.ListingID,
		Comment:   o.Comment,
		Rating:    o.Rating,
		AuthorID:  o.AuthorID,
		CreatedAt: time.Now(),
	}
}

// WithReviewID sets the review ID
func WithReviewID(id string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.ID = id
	}
}

// WithReviewListing sets the reviewed listing
func WithReviewListing(listingID string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.ListingID = listingID
	}
}

// WithAuthor sets the review author
func WithAuthor(userID string) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.AuthorID = userID
	}
}

// WithRating sets the rating
func WithRating(rating int) func(*ReviewOptions) {
	return func(o *ReviewOptions) {
		o.Rating = rating
	}
}

// Batch creation helpers

// NewTestUsers creates multiple test users
func NewTestUsers(count int) []*domain.User {
	users := make([]*domain.User, count)
	for i := 0; i < count; i++ {
		users[i] = NewTestUser()
	}
	return users
}

// NewTestListings creates multiple listings owned by the same user
func NewTestListings(ownerID string, count int) []*domain.Listing {
	listings := make([]*domain.Listing, count)
	for i := 0; i < count; i++ {
		listings[i] = NewTestListing(WithOwner(ownerID))
	}
	return listings
}

// ResetIDCounter resets the ID counter (useful for deterministic tests)
func ResetIDCounter() {
	idCounter.Store(0)
}
