package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"staysync/internal/domain"
	"staysync/internal/observability"
)

type ListingService struct {
	listings domain.ListingRepository
	reviews  domain.ReviewRepository
	users    domain.UserRepository
	events   eventSink
}

func NewListingService(
	listings domain.ListingRepository,
	reviews domain.ReviewRepository,
	users domain.UserRepository,
	publisher domain.EventPublisher,
) *ListingService {
	return &ListingService{
		listings: listings,
		reviews:  reviews,
		users:    users,
		events:   eventSink{publisher: publisher, now: time.Now},
	}
}

// Index returns every listing, or those whose title or location contains
// query case-insensitively.
func (s *ListingService) Index(ctx context.Context, query string) ([]*domain.Listing, error) {
	return s.listings.List(ctx, strings.TrimSpace(query))
}

// OwnedBy returns the listings a user has published.
func (s *ListingService) OwnedBy(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID)
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

// Detail loads a listing with its owner and each review's author. Accounts
// that no longer exist are left nil.
func (s *ListingService) Detail(ctx context.Context, id string) (*domain.ListingDetail, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	users := map[string]*domain.User{}
	lookup := func(userID string) (*domain.User, error) {
		if u, ok := users[userID]; ok {
			return u, nil
		}
		u, err := s.users.GetByID(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			u, err = nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
		}
		users[userID] = u
		return u, nil
	}

	detail := &domain.ListingDetail{Listing: listing}
	if detail.Owner, err = lookup(listing.OwnerID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.GetByIDs(ctx, listing.ReviewIDs)
	if err != nil {
		return nil, err
	}
	detail.Reviews = make([]*domain.ReviewDetail, 0, len(reviews))
	for _, rv := range reviews {
		author, err := lookup(rv.AuthorID)
		if err != nil {
			return nil, err
		}
		detail.Reviews = append(detail.Reviews, &domain.ReviewDetail{Review: rv, Author: author})
	}

	return detail, nil
}

// Create publishes a new listing owned by owner. An image is required.
func (s *ListingService) Create(ctx context.Context, owner domain.Identity, in domain.ListingInput, image *domain.Image) (*domain.Listing, error) {
	if image == nil {
		return nil, domain.ErrImageRequired
	}

	listing := &domain.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Country:     in.Country,
		Image:       image,
		OwnerID:     owner.UserID,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}

	observability.ListingsCreatedTotal.Inc()
	observability.FromContext(ctx).Info("listing created",
		slog.String("listing_id", listing.ID),
		slog.String("owner_id", listing.OwnerID),
	)
	s.events.publish(ctx, domain.Event{Type: domain.EventListingCreated, ListingID: listing.ID})

	return listing, nil
}

// Update overwrites the editable fields, then replaces the image when a new
// one was uploaded. The replaced image is announced for cleanup.
func (s *ListingService) Update(ctx context.Context, id string, in domain.ListingInput, image *domain.Image) (*domain.Listing, error) {
	listing, err := s.listings.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return listing, nil
	}

	previous := listing.Image
	if err := s.listings.SetImage(ctx, id, *image); err != nil {
		return nil, err
	}
	listing.Image = image

	if previous != nil && previous.Filename != image.Filename {
		s.events.publish(ctx, domain.Event{
			Type:      domain.EventListingImageReplaced,
			ListingID: id,
			Image:     previous,
		})
	}
	return listing, nil
}

// Delete removes a listing together with its reviews.
func (s *ListingService) Delete(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.listings.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(listing.ReviewIDs) > 0 {
		n, err := s.reviews.DeleteMany(ctx, listing.ReviewIDs)
		if err != nil {
			return nil, fmt.Errorf("listing %s deleted but its reviews were not: %w", id, err)
		}
		observability.FromContext(ctx).Debug("deleted listing reviews",
			slog.String("listing_id", id),
			slog.Int64("count", n),
		)
	}

	s.events.publish(ctx, domain.Event{
		Type:      domain.EventListingDeleted,
		ListingID: id,
		Image:     listing.Image,
	})
	return listing, nil
}
