package store

import "database/sql"

// Migrate creates the schema if it does not exist. Uniqueness constraints on
// (event_id, user_id) registrations and (event_id, student_id) attendance and
// feedback are the upsert targets the services rely on.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS colleges (
		id            uuid PRIMARY KEY,
		college_code  text UNIQUE NOT NULL,
		college_name  text NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		email         text UNIQUE NOT NULL,
		password_hash text NOT NULL,
		full_name     text NOT NULL,
		role          text NOT NULL DEFAULT 'student',
		college_id    uuid REFERENCES colleges(id),
		sem           int,
		created_at    timestamptz NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS events (
		id          uuid PRIMARY KEY,
		title       text NOT NULL,
		description text NOT NULL DEFAULT '',
		event_type  text NOT NULL DEFAULT '',
		location    text NOT NULL DEFAULT '',
		start_time  timestamptz,
		end_time    timestamptz,
		college_id  uuid REFERENCES colleges(id),
		sem         int,
		capacity    int NOT NULL DEFAULT 0,
		created_by  uuid REFERENCES users(id),
		status      text NOT NULL DEFAULT 'active',
		created_at  timestamptz NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS registrations (
		id         uuid PRIMARY KEY,
		event_id   uuid NOT NULL REFERENCES events(id),
		user_id    uuid NOT NULL REFERENCES users(id),
		created_at timestamptz NOT NULL DEFAULT now(),
		UNIQUE (event_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id            uuid PRIMARY KEY,
		event_id      uuid NOT NULL REFERENCES events(id),
		student_id    uuid NOT NULL REFERENCES users(id),
		status        text,
		submitted     boolean NOT NULL DEFAULT false,
		marked_by     uuid REFERENCES users(id),
		checked_in_at timestamptz,
		created_at    timestamptz NOT NULL DEFAULT now(),
		updated_at    timestamptz NOT NULL DEFAULT now(),
		UNIQUE (event_id, student_id)
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id         uuid PRIMARY KEY,
		event_id   uuid NOT NULL REFERENCES events(id),
		student_id uuid NOT NULL REFERENCES users(id),
		rating     int NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comments   text,
		updated_at timestamptz NOT NULL DEFAULT now(),
		UNIQUE (event_id, student_id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_college      ON events(college_id);
	CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id);
	CREATE INDEX IF NOT EXISTS idx_registrations_user  ON registrations(user_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_event    ON attendance(event_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_student  ON attendance(student_id);
	CREATE INDEX IF NOT EXISTS idx_feedback_event      ON feedback(event_id);
	`
	_, err := db.Exec(schema)
	return err
}
