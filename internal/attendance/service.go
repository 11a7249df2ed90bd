package attendance

import (
	"context"
	"time"

	"campusevents/internal/apperr"
)

// Record is one student's attendance row for an event. Status stays nil
// until an admin marks the student. Once Submitted is set the row is locked.
type Record struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	StudentID   string     `json:"student_id"`
	Status      *string    `json:"status"`
	Submitted   bool       `json:"submitted"`
	MarkedBy    *string    `json:"marked_by,omitempty"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RowView is a record joined with event title and student name for display.
// Missing joins degrade to the raw identifiers.
type RowView struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Status      *string   `json:"status"`
	Submitted   bool      `json:"submitted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InitResult reports what Initialize seeded.
type InitResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Store is the persistence surface the service needs.
type Store interface {
	RegistrantIDs(ctx context.Context, eventID string) ([]string, error)
	BulkInit(ctx context.Context, eventID string, studentIDs []string) (int, error)
	Upsert(ctx context.Context, rec Record) (Record, error)
	AnySubmitted(ctx context.Context, eventID string) (bool, error)
	SubmitAll(ctx context.Context, eventID string) (int64, error)
	ListForEvent(ctx context.Context, eventID string) ([]RowView, error)
	ListForStudent(ctx context.Context, studentID string) ([]Record, error)
}

// Service drives the attendance lifecycle: initialize rows from
// registrations, apply idempotent marks, then lock the set via submit.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Initialize seeds one attendance row per registrant, keyed on
// (event, student). Re-running only fills gaps for newly registered
// students; an event without registrations yields an empty success.
func (s *Service) Initialize(ctx context.Context, eventID string) (InitResult, error) {
	ids, err := s.store.RegistrantIDs(ctx, eventID)
	if err != nil {
		return InitResult{}, apperr.Internal(err)
	}
	if len(ids) == 0 {
		return InitResult{Message: "no registered students for this event"}, nil
	}
	count, err := s.store.BulkInit(ctx, eventID, ids)
	if err != nil {
		return InitResult{}, apperr.Internal(err)
	}
	return InitResult{Message: "attendance initialized", Count: count}, nil
}

// Mark normalizes the raw status and upserts the student's row, recording
// who marked it and when they checked in. The upsert tolerates students
// never seeded by Initialize. Marks are rejected once the event's
// attendance has been submitted.
func (s *Service) Mark(ctx context.Context, eventID, studentID string, rawStatus any, markedBy string) (Record, error) {
	if studentID == "" {
		return Record{}, apperr.Invalid("student_id is required")
	}
	status, err := NormalizeStatus(rawStatus)
	if err != nil {
		return Record{}, err
	}

	submitted, err := s.store.AnySubmitted(ctx, eventID)
	if err != nil {
		return Record{}, apperr.Internal(err)
	}
	if submitted {
		return Record{}, apperr.Conflict("attendance for this event has been submitted")
	}

	rec := Record{
		EventID:   eventID,
		StudentID: studentID,
		Status:    &status,
		MarkedBy:  &markedBy,
	}
	if status == StatusPresent {
		now := time.Now().UTC()
		rec.CheckedInAt = &now
	}
	out, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return Record{}, apperr.Internal(err)
	}
	return out, nil
}

// Submit locks every attendance row for the event.
func (s *Service) Submit(ctx context.Context, eventID string) (int64, error) {
	affected, err := s.store.SubmitAll(ctx, eventID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return affected, nil
}

// ListForEvent returns the event's rows with display joins.
func (s *Service) ListForEvent(ctx context.Context, eventID string) ([]RowView, error) {
	rows, err := s.store.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// ListForStudent returns a student's own rows, ordered by event.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := s.store.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
