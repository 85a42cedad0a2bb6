package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// EventKind distinguishes detection event types.
type EventKind string

const (
	// EventGesture records a recognized hand gesture.
	EventGesture EventKind = "gesture"
	// EventEmotion records a dominant facial emotion.
	EventEmotion EventKind = "emotion"
)

// Event is one recorded detection.
type Event struct {
	ID         string
	SessionID  string
	Kind       EventKind
	Label      string
	Confidence float64
	CreatedAt  time.Time
}

// EventRepository provides access to the detection event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a new event. A missing ID is generated; CreatedAt is set to
// the insertion time.
func (r *EventRepository) Record(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO events (id, session_id, kind, label, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, string(e.Kind), e.Label, e.Confidence, e.CreatedAt,
	)
	return err
}

// Recent returns the most recent events, newest first, up to limit.
func (r *EventRepository) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, kind, label, confidence, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Label, &e.Confidence, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Get returns a single event by ID.
func (r *EventRepository) Get(id string) (*Event, error) {
	var e Event
	var kind string
	err := r.db.QueryRow(
		`SELECT id, session_id, kind, label, confidence, created_at
		 FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.SessionID, &kind, &e.Label, &e.Confidence, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Kind = EventKind(kind)
	return &e, nil
}
