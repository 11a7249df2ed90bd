package colleges

import (
	"context"
	"database/sql"
)

// College is static reference data partitioning users and events.
type College struct {
	ID   string `json:"id"`
	Code string `json:"college_code"`
	Name string `json:"college_name"`
}

// Repository reads the college reference table. Rows are created out-of-band.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]College, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, college_code, college_name
		FROM colleges
		ORDER BY college_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []College
	for rows.Next() {
		var c College
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
