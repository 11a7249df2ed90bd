package feedback

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists feedback in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AttendanceStatus returns the student's attendance status for the event,
// nil when no row (or no mark) exists.
func (r *Repository) AttendanceStatus(ctx context.Context, eventID, studentID string) (*string, error) {
	var status *string
	err := r.db.QueryRowContext(ctx, `
		SELECT status FROM attendance WHERE event_id = $1 AND student_id = $2
	`, eventID, studentID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Upsert creates or overwrites the (event, student) feedback row.
func (r *Repository) Upsert(ctx context.Context, fb Feedback) (Feedback, error) {
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (id, event_id, student_id, rating, comments, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (event_id, student_id) DO UPDATE SET
			rating     = EXCLUDED.rating,
			comments   = EXCLUDED.comments,
			updated_at = now()
		RETURNING id, updated_at
	`, fb.ID, fb.EventID, fb.StudentID, fb.Rating, fb.Comments)
	if err := row.Scan(&fb.ID, &fb.UpdatedAt); err != nil {
		return Feedback{}, err
	}
	return fb, nil
}
