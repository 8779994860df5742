package service

import (
	"context"
	"log/slog"
	"time"

	"staysync/internal/domain"
	"staysync/internal/observability"
)

// eventSink publishes best-effort: a failed publish is logged and counted
// but never fails the request that caused it.
type eventSink struct {
	publisher domain.EventPublisher
	now       func() time.Time
}

func (s eventSink) publish(ctx context.Context, event domain.Event) {
	event.OccurredAt = s.now()
	err := s.publisher.Publish(ctx, event)
	observability.EventsPublishedTotal.WithLabelValues(string(event.Type), observability.ResultLabel(err)).Inc()
	if err != nil {
		observability.FromContext(ctx).Warn("failed to publish event",
			slog.String("type", string(event.Type)),
			slog.String("listing_id", event.ListingID),
			slog.String("error", err.Error()),
		)
	}
}
