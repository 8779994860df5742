package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventListingCreated       EventType = "listing.created"
	EventListingDeleted       EventType = "listing.deleted"
	EventListingImageReplaced EventType = "listing.image_replaced"
	EventReviewCreated        EventType = "review.created"
)

// Event announces a change to a listing. Image is the image that stopped
// being referenced, if any.
type Event struct {
	Type       EventType `json:"type"`
	ListingID  string    `json:"listing_id"`
	ReviewID   string    `json:"review_id,omitempty"`
	Image      *Image    `json:"image,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher delivers events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
