package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"staysync/internal/domain"
	"staysync/internal/observability"
)

type ReviewService struct {
	listings domain.ListingRepository
	reviews  domain.ReviewRepository
	events   eventSink
}

func NewReviewService(listings domain.ListingRepository, reviews domain.ReviewRepository, publisher domain.EventPublisher) *ReviewService {
	return &ReviewService{
		listings: listings,
		reviews:  reviews,
		events:   eventSink{publisher: publisher, now: time.Now},
	}
}

// Create adds a review by author to the listing and links it from the listing.
func (s *ReviewService) Create(ctx context.Context, listingID string, author domain.Identity, in domain.ReviewInput) (*domain.Review, error) {
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ListingID: listingID,
		Comment:   in.Comment,
		Rating:    in.Rating,
		AuthorID:  author.UserID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.listings.AddReview(ctx, listingID, review.ID); err != nil {
		// do not leave an unreachable review behind
		if delErr := s.reviews.Delete(ctx, review.ID); delErr != nil {
			observability.FromContext(ctx).Error("failed to remove unlinked review",
				slog.String("review_id", review.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("failed to link review to listing: %w", err)
	}

	observability.ReviewsCreatedTotal.Inc()
	s.events.publish(ctx, domain.Event{
		Type:      domain.EventReviewCreated,
		ListingID: listingID,
		ReviewID:  review.ID,
	})
	return review, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// Delete unlinks the review from its listing and removes it. A review that
// belongs to another listing is reported as not found. A listing that is
// already gone does not block the removal.
func (s *ReviewService) Delete(ctx context.Context, listingID, reviewID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ListingID != listingID {
		return domain.ErrReviewNotFound
	}

	if err := s.listings.RemoveReview(ctx, listingID, reviewID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.reviews.Delete(ctx, reviewID)
}
