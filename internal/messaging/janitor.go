package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"staysync/internal/domain"
)

// ErrMalformedEvent marks a delivery that can never be processed.
var ErrMalformedEvent = errors.New("malformed event")

// MediaJanitor removes images that no listing references any more.
type MediaJanitor struct {
	media   domain.MediaStore
	timeout time.Duration
}

func NewMediaJanitor(media domain.MediaStore) *MediaJanitor {
	return &MediaJanitor{media: media, timeout: 30 * time.Second}
}

// Process handles one event body. Events without an image are ignored.
func (j *MediaJanitor) Process(ctx context.Context, body []byte) error {
	var event domain.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch event.Type {
	case domain.EventListingDeleted, domain.EventListingImageReplaced:
	default:
		slog.Debug("ignoring event", slog.String("type", string(event.Type)))
		return nil
	}

	if event.Image == nil || event.Image.Filename == "" {
		return nil
	}

	if err := j.media.Delete(ctx, event.Image.Filename); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", event.Image.Filename, err)
	}

	slog.Info("removed orphaned image",
		slog.String("listing_id", event.ListingID),
		slog.String("filename", event.Image.Filename),
		slog.String("reason", string(event.Type)))
	return nil
}

// Handle processes a delivery and settles it. Malformed payloads are
// dropped; store failures are requeued once.
func (j *MediaJanitor) Handle(ctx context.Context, msg amqp.Delivery) {
	msgCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	err := j.Process(msgCtx, msg.Body)
	switch {
	case err == nil:
		settled("ack", msg.Ack(false))
	case errors.Is(err, ErrMalformedEvent):
		slog.Error("dropping malformed event",
			slog.String("error", err.Error()),
			slog.String("body", string(msg.Body)))
		settled("nack", msg.Nack(false, false))
	default:
		slog.Error("error processing event",
			slog.String("error", err.Error()),
			slog.Bool("redelivered", msg.Redelivered))
		settled("nack", msg.Nack(false, !msg.Redelivered))
	}
}

func settled(action string, err error) {
	if err != nil {
		slog.Error("failed to "+action+" delivery", slog.String("error", err.Error()))
	}
}

// Run consumes deliveries until ctx is done or the channel closes.
func (j *MediaJanitor) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping media janitor")
			return
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("message channel closed")
				return
			}
			j.Handle(ctx, msg)
		}
	}
}
