package session

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/abelbrown/tracelens/internal/logging"
	"github.com/abelbrown/tracelens/internal/telemetry"
)

// LoadCapture reads a session out of a capture database written by the
// on-device recorder. The schema is a single events table with the
// payload serialized as JSON text; sessions has one row of metadata.
func LoadCapture(path string) (*Session, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Error("Failed to open capture database", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open capture database: %w", err)
	}
	defer db.Close()

	sess := &Session{}

	err = db.QueryRow("SELECT session_id FROM sessions LIMIT 1").Scan(&sess.ID)
	if err == sql.ErrNoRows {
		sess.ID = uuid.NewString()
	} else if err != nil {
		return nil, fmt.Errorf("failed to read session metadata: %w", err)
	}

	rows, err := db.Query(`
		SELECT event_id, event_type, timestamp, data
		FROM events
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture events: %w", err)
	}
	defer rows.Close()

	skipped := 0
	for rows.Next() {
		var (
			ev       telemetry.Event
			typ      string
			dataJSON sql.NullString
		)
		if err := rows.Scan(&ev.ID, &typ, &ev.Timestamp, &dataJSON); err != nil {
			skipped++
			continue
		}
		ev.Type = telemetry.EventType(typ)
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		if dataJSON.Valid && dataJSON.String != "" {
			if err := json.Unmarshal([]byte(dataJSON.String), &ev.Data); err != nil {
				logging.Warn("Capture event has malformed data payload", "event_id", ev.ID, "error", err)
				ev.Data = nil
			}
		}
		sess.Events = append(sess.Events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capture events: %w", err)
	}

	if skipped > 0 {
		logging.Warn("Capture rows skipped", "path", path, "skipped", skipped)
	}
	logging.Info("Capture loaded", "path", path, "session_id", sess.ID, "events", len(sess.Events))
	return sess, nil
}

// WriteCapture writes a session into a fresh capture database. The
// recorder owns this format; tracelens writes it only for round-trip
// tooling and test fixtures.
func WriteCapture(path string, sess *Session) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to create capture database: %w", err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS events (
		event_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		timestamp REAL NOT NULL,
		data TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create capture schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO sessions (session_id) VALUES (?)", sess.ID); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO events (event_id, event_type, timestamp, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ev := range sess.Events {
		var dataJSON string
		if len(ev.Data) > 0 {
			b, err := json.Marshal(ev.Data)
			if err != nil {
				return err
			}
			dataJSON = string(b)
		}
		if _, err := stmt.Exec(ev.ID, string(ev.Type), ev.Timestamp, dataJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}
