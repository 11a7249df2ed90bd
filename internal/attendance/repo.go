package attendance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RegistrantIDs returns the user ids registered for an event.
func (r *Repository) RegistrantIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM registrations WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// BulkInit seeds one row per student keyed on (event, student). Existing
// rows are left untouched, so re-running only fills gaps. Returns the
// number of rows actually inserted.
func (r *Repository) BulkInit(ctx context.Context, eventID string, studentIDs []string) (int, error) {
	inserted := 0
	for _, studentID := range studentIDs {
		res, err := r.db.ExecContext(ctx, `
			INSERT INTO attendance (id, event_id, student_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (event_id, student_id) DO NOTHING
		`, uuid.NewString(), eventID, studentID)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// Upsert creates or updates the (event, student) row with the new mark.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, event_id, student_id, status, marked_by, checked_in_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, student_id) DO UPDATE SET
			status        = EXCLUDED.status,
			marked_by     = EXCLUDED.marked_by,
			checked_in_at = EXCLUDED.checked_in_at,
			updated_at    = now()
		RETURNING id, submitted, created_at, updated_at
	`, rec.ID, rec.EventID, rec.StudentID, rec.Status, rec.MarkedBy, rec.CheckedInAt)
	if err := row.Scan(&rec.ID, &rec.Submitted, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// AnySubmitted reports whether the event's attendance set has been locked.
func (r *Repository) AnySubmitted(ctx context.Context, eventID string) (bool, error) {
	var submitted bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM attendance WHERE event_id = $1 AND submitted)
	`, eventID).Scan(&submitted)
	return submitted, err
}

// SubmitAll locks every row for the event.
func (r *Repository) SubmitAll(ctx context.Context, eventID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance SET submitted = TRUE, updated_at = now() WHERE event_id = $1
	`, eventID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListForEvent returns the event's rows joined with event title and student
// name; missing joins fall back to the raw identifiers.
func (r *Repository) ListForEvent(ctx context.Context, eventID string) ([]RowView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.event_id, COALESCE(e.title, a.event_id::text),
		       a.student_id, COALESCE(u.full_name, a.student_id::text),
		       a.status, a.submitted, a.created_at, a.updated_at
		FROM attendance a
		LEFT JOIN events e ON e.id = a.event_id
		LEFT JOIN users u  ON u.id = a.student_id
		WHERE a.event_id = $1
		ORDER BY a.student_id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []RowView
	for rows.Next() {
		var v RowView
		if err := rows.Scan(&v.ID, &v.EventID, &v.EventTitle, &v.StudentID, &v.StudentName,
			&v.Status, &v.Submitted, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// ListForStudent returns a student's rows ordered by event id.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, student_id, status, submitted, marked_by, checked_in_at, created_at, updated_at
		FROM attendance
		WHERE student_id = $1
		ORDER BY event_id
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.StudentID, &rec.Status, &rec.Submitted,
			&rec.MarkedBy, &rec.CheckedInAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
