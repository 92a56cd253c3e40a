// Package session loads captured mobile-session telemetry from disk,
// either JSON exports or SQLite capture databases, into events ready
// for correlation.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/abelbrown/tracelens/internal/logging"
	"github.com/abelbrown/tracelens/internal/telemetry"
)

// Session is one recorded app session.
type Session struct {
	ID     string            `json:"session_id"`
	Events []telemetry.Event `json:"events"`
}

// LoadJSON reads a session export. Events missing an id are assigned a
// fresh one so downstream correlations always have both endpoints.
func LoadJSON(path string) (*Session, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(content, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	assigned := 0
	for i := range sess.Events {
		if sess.Events[i].ID == "" {
			sess.Events[i].ID = uuid.NewString()
			assigned++
		}
	}
	if assigned > 0 {
		logging.Warn("Session events missing ids", "path", path, "assigned", assigned)
	}

	logging.Info("Session loaded", "path", path, "session_id", sess.ID, "events", len(sess.Events))
	return &sess, nil
}

// Load dispatches on the file extension: .json goes through LoadJSON,
// .db / .sqlite / .sqlite3 through the capture database reader.
func Load(path string) (*Session, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadCapture(path)
	default:
		return nil, fmt.Errorf("unsupported session format: %s", filepath.Ext(path))
	}
}
