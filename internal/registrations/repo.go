package registrations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"campusevents/internal/apperr"
	"campusevents/internal/events"
	"campusevents/internal/store"
)

// Repository persists registrations in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetEvent returns the event fields the registration rules need, or nil.
func (r *Repository) GetEvent(ctx context.Context, eventID string) (*events.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, status, capacity, start_time FROM events WHERE id = $1
	`, eventID)
	var evt events.Event
	if err := row.Scan(&evt.ID, &evt.Title, &evt.Status, &evt.Capacity, &evt.StartTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &evt, nil
}

// CountByEvent counts registrations for a capacity check.
func (r *Repository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM registrations WHERE event_id = $1
	`, eventID).Scan(&count)
	return count, err
}

// Insert writes a registration row; registering twice for the same event
// surfaces as a conflict via the uniqueness constraint.
func (r *Repository) Insert(ctx context.Context, reg Registration) (Registration, error) {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO registrations (id, event_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, reg.ID, reg.EventID, reg.UserID)
	if err := row.Scan(&reg.CreatedAt); err != nil {
		if store.IsUniqueViolation(err) {
			return Registration{}, apperr.Conflict("already registered for this event")
		}
		return Registration{}, apperr.Internal(err)
	}
	return reg, nil
}

// ListByEventWithUsers returns the roster joined with user details.
func (r *Repository) ListByEventWithUsers(ctx context.Context, eventID string) ([]RegistrantRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.event_id, r.user_id, r.created_at, u.full_name, u.college_id, u.sem
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []RegistrantRow
	for rows.Next() {
		var row RegistrantRow
		if err := rows.Scan(&row.ID, &row.EventID, &row.UserID, &row.CreatedAt, &row.FullName, &row.CollegeID, &row.Sem); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}
