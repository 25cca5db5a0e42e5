// Package eventlog is the engine's durable, queryable record of every load
// decision, grounded on the teacher's internal/db package: a thin *sql.DB
// wrapper, modernc.org/sqlite as the driver, golang-migrate/v4 over an
// embedded iofs migration source, and a tailsql-backed admin route for live
// SQL debugging.
package eventlog

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// EventLog is the engine's load-event log.
type EventLog struct {
	*sql.DB
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("eventlog: failed to execute %q: %w", p, err)
		}
	}
	return nil
}

// Open opens (creating if necessary) a SQLite database at path, applies the
// WAL/busy-timeout pragmas, and migrates it to the latest schema.
func Open(path string) (*EventLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to open %q: %w", path, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	el := &EventLog{db}
	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("eventlog: failed to open embedded migrations: %w", err)
	}
	if err := el.MigrateUp(migrations); err != nil {
		db.Close()
		return nil, err
	}
	return el, nil
}

// RecordLoad inserts one load-decision record. It satisfies
// coverage.EventRecorder and never returns an error to the engine directly
// (a logging failure must not abort a seek); callers that need to observe
// write failures should use RecordLoadErr.
func (el *EventLog) RecordLoad(code string, descriptorIDs []string, cause error) {
	_ = el.RecordLoadErr(code, descriptorIDs, cause)
}

// RecordLoadErr is RecordLoad with the write error surfaced, for callers
// (tests, CLIs) that want to know when the log itself is broken.
func (el *EventLog) RecordLoadErr(code string, descriptorIDs []string, cause error) error {
	idsJSON, err := json.Marshal(descriptorIDs)
	if err != nil {
		return fmt.Errorf("eventlog: failed to marshal descriptor ids: %w", err)
	}
	var causeText sql.NullString
	if cause != nil {
		causeText = sql.NullString{String: cause.Error(), Valid: true}
	}
	_, err = el.Exec(
		`INSERT INTO load_events (event_code, occurred_unix_nanos, descriptor_ids_json, cause) VALUES (?, ?, ?, ?)`,
		code, time.Now().UnixNano(), string(idsJSON), causeText,
	)
	if err != nil {
		return fmt.Errorf("eventlog: failed to record load event: %w", err)
	}
	return nil
}

// LoadEvent is one row of the load event log.
type LoadEvent struct {
	ID            int64
	EventCode     string
	OccurredNanos int64
	DescriptorIDs []string
	Cause         string
}

// Recent returns the most recent limit load events, newest first.
func (el *EventLog) Recent(limit int) ([]LoadEvent, error) {
	rows, err := el.Query(
		`SELECT id, event_code, occurred_unix_nanos, descriptor_ids_json, cause
		 FROM load_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("eventlog: failed to query recent events: %w", err)
	}
	defer rows.Close()

	var out []LoadEvent
	for rows.Next() {
		var e LoadEvent
		var idsJSON string
		var cause sql.NullString
		if err := rows.Scan(&e.ID, &e.EventCode, &e.OccurredNanos, &idsJSON, &cause); err != nil {
			return nil, fmt.Errorf("eventlog: failed to scan event row: %w", err)
		}
		if err := json.Unmarshal([]byte(idsJSON), &e.DescriptorIDs); err != nil {
			return nil, fmt.Errorf("eventlog: failed to unmarshal descriptor ids: %w", err)
		}
		e.Cause = cause.String
		out = append(out, e)
	}
	return out, rows.Err()
}
