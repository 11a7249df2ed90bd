package feedback

import (
	"context"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/attendance"
)

// Feedback is one student's rating for an event. Unique per
// (event, student); resubmitting overwrites the earlier rating.
type Feedback struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	Rating    int       `json:"rating"`
	Comments  *string   `json:"comments"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence surface the service needs.
type Store interface {
	AttendanceStatus(ctx context.Context, eventID, studentID string) (*string, error)
	Upsert(ctx context.Context, fb Feedback) (Feedback, error)
}

// Service gates feedback strictly on a present attendance mark.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submit validates the rating, verifies the student was marked present for
// the event, then upserts the (event, student) feedback row.
func (s *Service) Submit(ctx context.Context, eventID, studentID string, rating int, comments *string) (Feedback, error) {
	if eventID == "" {
		return Feedback{}, apperr.Invalid("event_id is required")
	}
	if rating < 1 || rating > 5 {
		return Feedback{}, apperr.Invalid("rating must be between 1 and 5")
	}

	status, err := s.store.AttendanceStatus(ctx, eventID, studentID)
	if err != nil {
		return Feedback{}, apperr.Internal(err)
	}
	if status == nil || !attendance.IsPresent(*status) {
		return Feedback{}, apperr.Forbidden("only students marked present may submit feedback")
	}

	fb := Feedback{
		EventID:   eventID,
		StudentID: studentID,
		Rating:    rating,
		Comments:  comments,
	}
	out, err := s.store.Upsert(ctx, fb)
	if err != nil {
		return Feedback{}, apperr.Internal(err)
	}
	return out, nil
}
