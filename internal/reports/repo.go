package reports

import (
	"context"
	"database/sql"
	"fmt"

	"campusevents/internal/events"
)

// Repository runs the read-only queries the report aggregations consume.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EventsLite returns slim event rows, optionally scoped to a college,
// ordered by start time.
func (r *Repository) EventsLite(ctx context.Context, collegeID string) ([]EventLite, error) {
	query := `SELECT id, title, event_type, start_time FROM events`
	args := []any{}
	if collegeID != "" {
		query += ` WHERE college_id = $1`
		args = append(args, collegeID)
	}
	query += ` ORDER BY start_time ASC NULLS LAST`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []EventLite
	for rows.Next() {
		var e EventLite
		if err := rows.Scan(&e.ID, &e.Title, &e.EventType, &e.StartTime); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
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

// AttendanceRows returns every attendance tuple for in-memory grouping.
func (r *Repository) AttendanceRows(ctx context.Context) ([]AttendanceRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_id, student_id, status FROM attendance`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []AttendanceRow
	for rows.Next() {
		var row AttendanceRow
		if err := rows.Scan(&row.EventID, &row.StudentID, &row.Status); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// UsersByIDs returns display rows for the given user ids.
func (r *Repository) UsersByIDs(ctx context.Context, ids []string) ([]UserLite, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, full_name, email FROM users WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []UserLite
	for rows.Next() {
		var u UserLite
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// EventsFiltered returns full event rows filtered by type and college.
func (r *Repository) EventsFiltered(ctx context.Context, eventType, collegeID string) ([]events.Event, error) {
	query := `SELECT id, title, description, event_type, location, start_time, end_time, college_id, sem, capacity, created_by, status, created_at FROM events`
	args := []any{}
	clauses := []string{}
	if collegeID != "" {
		args = append(args, collegeID)
		clauses = append(clauses, fmt.Sprintf("college_id = $%d", len(args)))
	}
	if eventType != "" {
		args = append(args, eventType)
		clauses = append(clauses, fmt.Sprintf("event_type = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []events.Event
	for rows.Next() {
		var e events.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.Location,
			&e.StartTime, &e.EndTime, &e.CollegeID, &e.Sem, &e.Capacity,
			&e.CreatedBy, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// EventTitles returns titles keyed by event id.
func (r *Repository) EventTitles(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	query := `SELECT id, title FROM events WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make(map[string]string)
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// FeedbackRows returns every feedback tuple for in-memory grouping.
func (r *Repository) FeedbackRows(ctx context.Context) ([]FeedbackRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_id, rating FROM feedback`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []FeedbackRow
	for rows.Next() {
		var row FeedbackRow
		if err := rows.Scan(&row.EventID, &row.Rating); err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

// CreatorStats counts an admin's events by status plus registrations
// across those events.
func (r *Repository) CreatorStats(ctx context.Context, creatorID string) (AdminStats, error) {
	var stats AdminStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE((SELECT COUNT(*) FROM registrations reg
			          JOIN events e ON e.id = reg.event_id
			          WHERE e.created_by = $1), 0)
		FROM events
		WHERE created_by = $1
	`, creatorID).Scan(&stats.TotalEventsCreated, &stats.TotalEventsCompleted,
		&stats.TotalEventsCancelled, &stats.TotalRegistrations)
	return stats, err
}

func placeholders(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		out += fmt.Sprintf("$%d", i)
	}
	return out
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
