package registrations

import (
	"context"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/events"
)

// Registration records a student joining an event. Rows are immutable and
// unique per (event, user).
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrantRow is a roster entry joined with user details for admins.
type RegistrantRow struct {
	Registration
	FullName  string  `json:"full_name"`
	CollegeID *string `json:"college_id"`
	Sem       *int    `json:"sem"`
}

// Store is the persistence surface the service needs.
type Store interface {
	GetEvent(ctx context.Context, eventID string) (*events.Event, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	Insert(ctx context.Context, reg Registration) (Registration, error)
	ListByEventWithUsers(ctx context.Context, eventID string) ([]RegistrantRow, error)
}

// Service enforces the registration rules: the event must exist and not be
// cancelled, and a positive capacity is a soft upper bound.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a registration for the calling student. The capacity
// check is a read-then-insert without a transaction, so the bound is
// best-effort under concurrent registrations; the (event, user) uniqueness
// constraint is what the datastore actually guarantees.
func (s *Service) Register(ctx context.Context, eventID, userID string) (Registration, error) {
	if eventID == "" {
		return Registration{}, apperr.Invalid("event_id required")
	}
	evt, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return Registration{}, apperr.Internal(err)
	}
	if evt == nil {
		return Registration{}, apperr.NotFound("event not found")
	}
	if evt.Status == events.StatusCancelled {
		return Registration{}, apperr.Conflict("event is cancelled")
	}
	if evt.Capacity > 0 {
		count, err := s.store.CountByEvent(ctx, eventID)
		if err != nil {
			return Registration{}, apperr.Internal(err)
		}
		if count >= evt.Capacity {
			return Registration{}, apperr.Conflict("event is full")
		}
	}
	return s.store.Insert(ctx, Registration{EventID: eventID, UserID: userID})
}

// Roster returns an event's registrations joined with user details.
func (s *Service) Roster(ctx context.Context, eventID string) ([]RegistrantRow, error) {
	rows, err := s.store.ListByEventWithUsers(ctx, eventID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
