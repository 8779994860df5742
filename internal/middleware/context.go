package middleware

import (
	"context"
	"net/http"

	"staysync/internal/domain"
)

// ErrorResponder renders err as the response. The router passes the central
// error page so guards and validators fail the same way controllers do.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

type contextKey string

const (
	listingKey      contextKey = "listing"
	reviewKey       contextKey = "review"
	listingInputKey contextKey = "listing_input"
	reviewInputKey  contextKey = "review_input"
	imageKey        contextKey = "image"
)

// ListingFromContext returns the listing loaded by ListingOwner
func ListingFromContext(ctx context.Context) (*domain.Listing, bool) {
	l, ok := ctx.Value(listingKey).(*domain.Listing)
	return l, ok
}

// ReviewFromContext returns the review loaded by ReviewAuthor
func ReviewFromContext(ctx context.Context) (*domain.Review, bool) {
	rv, ok := ctx.Value(reviewKey).(*domain.Review)
	return rv, ok
}

// ListingInputFromContext returns the payload accepted by ValidateListing
func ListingInputFromContext(ctx context.Context) (domain.ListingInput, bool) {
	in, ok := ctx.Value(listingInputKey).(domain.ListingInput)
	return in, ok
}

// ReviewInputFromContext returns the payload accepted by ValidateReview
func ReviewInputFromContext(ctx context.Context) (domain.ReviewInput, bool) {
	in, ok := ctx.Value(reviewInputKey).(domain.ReviewInput)
	return in, ok
}

// ImageFromContext returns the image stored by Upload, if a file was sent
func ImageFromContext(ctx context.Context) (*domain.Image, bool) {
	img, ok := ctx.Value(imageKey).(*domain.Image)
	return img, ok
}

func WithListing(ctx context.Context, l *domain.Listing) context.Context {
	return context.WithValue(ctx, listingKey, l)
}

func WithReview(ctx context.Context, rv *domain.Review) context.Context {
	return context.WithValue(ctx, reviewKey, rv)
}

func WithListingInput(ctx context.Context, in domain.ListingInput) context.Context {
	return context.WithValue(ctx, listingInputKey, in)
}

func WithReviewInput(ctx context.Context, in domain.ReviewInput) context.Context {
	return context.WithValue(ctx, reviewInputKey, in)
}

func WithImage(ctx context.Context, img *domain.Image) context.Context {
	return context.WithValue(ctx, imageKey, img)
}
