package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const eventColumns = `id, title, description, event_type, location, start_time, end_time, college_id, sem, capacity, created_by, status, created_at`

// Repository persists events in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new event.
func (r *Repository) Insert(ctx context.Context, evt Event) (Event, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Status == "" {
		evt.Status = StatusActive
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO events (id, title, description, event_type, location, start_time, end_time, college_id, sem, capacity, created_by, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at
	`, evt.ID, evt.Title, evt.Description, evt.EventType, evt.Location, evt.StartTime, evt.EndTime, evt.CollegeID, evt.Sem, evt.Capacity, evt.CreatedBy, evt.Status)
	if err := row.Scan(&evt.CreatedAt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// GetByID returns a single event by id, or nil.
func (r *Repository) GetByID(ctx context.Context, id string) (*Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	evt, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &evt, nil
}

// Update applies a partial field patch and returns the updated row.
func (r *Repository) Update(ctx context.Context, id string, fields UpdateFields) (Event, error) {
	sets := []string{}
	args := []any{}
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.EventType != nil {
		add("event_type", *fields.EventType)
	}
	if fields.Location != nil {
		add("location", *fields.Location)
	}
	if fields.StartTime != nil {
		add("start_time", *fields.StartTime)
	}
	if fields.EndTime != nil {
		add("end_time", *fields.EndTime)
	}
	if fields.Sem != nil {
		add("sem", *fields.Sem)
	}
	if fields.Capacity != nil {
		add("capacity", *fields.Capacity)
	}
	if len(sets) == 0 {
		evt, err := r.GetByID(ctx, id)
		if err != nil {
			return Event{}, err
		}
		if evt == nil {
			return Event{}, sql.ErrNoRows
		}
		return *evt, nil
	}

	args = append(args, id)
	query := "UPDATE events SET " + strings.Join(sets, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + eventColumns
	return scanEvent(r.db.QueryRowContext(ctx, query, args...))
}

// SetStatus writes the lifecycle status.
func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE events SET status = $2 WHERE id = $1`, id, status)
	return err
}

// List returns events matching the filter.
func (r *Repository) List(ctx context.Context, f Filter) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	clauses := []string{}
	if f.CollegeID != "" {
		args = append(args, f.CollegeID)
		clauses = append(clauses, fmt.Sprintf("college_id = $%d", len(args)))
	}
	if f.EventType != "" {
		args = append(args, f.EventType)
		clauses = append(clauses, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if f.Sem != nil {
		args = append(args, *f.Sem)
		clauses = append(clauses, fmt.Sprintf("sem = $%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	return r.queryEvents(ctx, query, args...)
}

// ListEligible returns a college's events open to the given semester,
// soonest first.
func (r *Repository) ListEligible(ctx context.Context, collegeID string, sem int) ([]Event, error) {
	return r.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE college_id = $1 AND (sem IS NULL OR sem = $2)
		ORDER BY start_time ASC NULLS LAST
	`, collegeID, sem)
}

// ListByCreator returns an admin's events, newest start time first.
func (r *Repository) ListByCreator(ctx context.Context, creatorID string) ([]Event, error) {
	return r.queryEvents(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE created_by = $1
		ORDER BY start_time DESC NULLS LAST
	`, creatorID)
}

// RegistrationCounts groups registrations by event.
func (r *Repository) RegistrationCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_id, COUNT(*) FROM registrations GROUP BY event_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// UserRegistrations returns a student's registrations keyed by event id.
func (r *Repository) UserRegistrations(ctx context.Context, userID string) (map[string]Registration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, user_id, created_at FROM registrations WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make(map[string]Registration)
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs[reg.EventID] = reg
	}
	return regs, rows.Err()
}

func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, evt)
	}
	return res, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEvent(row scannable) (Event, error) {
	var evt Event
	err := row.Scan(&evt.ID, &evt.Title, &evt.Description, &evt.EventType, &evt.Location,
		&evt.StartTime, &evt.EndTime, &evt.CollegeID, &evt.Sem, &evt.Capacity,
		&evt.CreatedBy, &evt.Status, &evt.CreatedAt)
	return evt, err
}
