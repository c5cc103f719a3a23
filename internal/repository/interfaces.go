package repository

import (
	"context"
	"time"

	"event_gallery/internal/domain/models"
)

// EventStore loads and saves the whole events collection at once.
type EventStore interface {
	Load(ctx context.Context) (models.EventsCollection, error)
	Save(ctx context.Context, events models.EventsCollection) error
}

// VisitLedger remembers which visitor already opened an event on a given day.
type VisitLedger interface {
	// MarkVisit records the visit and reports whether it is the first one
	// for (eventID, day, visitorID) within ttl.
	MarkVisit(ctx context.Context, eventID, day, visitorID string, ttl time.Duration) (bool, error)
}
