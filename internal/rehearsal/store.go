package rehearsal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/deckx/internal/shared"
)

// Session is one rehearsal run of a deck.
type Session struct {
	ID          string
	DeckPath    string
	DeckTitle   string
	TotalSlides int
	StartedAt   time.Time
	EndedAt     *time.Time
}

// Visit is one arrival on a slide.
type Visit struct {
	Sequence  int
	Slide     int
	Cause     string
	Direction string
	EnteredAt time.Time
}

// Store persists sessions and visits.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over a migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateSession inserts a new session with a generated ID.
func (s *Store) CreateSession(deckPath, deckTitle string, total int, startedAt time.Time) (*Session, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: total slides %d", shared.ErrInvalidInput, total)
	}

	session := &Session{
		ID:          shared.GenerateID(),
		DeckPath:    deckPath,
		DeckTitle:   deckTitle,
		TotalSlides: total,
		StartedAt:   startedAt.UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, deck_path, deck_title, total_slides, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.DeckPath, session.DeckTitle, session.TotalSlides, session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// EndSession stamps the end time of a session.
func (s *Store) EndSession(id string, endedAt time.Time) error {
	result, err := s.db.Exec("UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL", endedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}

// AddVisit appends a visit to a session, assigning the next sequence number.
func (s *Store) AddVisit(sessionID string, v Visit) (Visit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return v, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRow("SELECT COALESCE(MAX(sequence), 0) + 1 FROM visits WHERE session_id = ?", sessionID).Scan(&v.Sequence); err != nil {
		return v, fmt.Errorf("failed to get next sequence: %w", err)
	}

	v.EnteredAt = v.EnteredAt.UTC()
	_, err = tx.Exec(`
		INSERT INTO visits (session_id, sequence, slide, cause, direction, entered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, v.Sequence, v.Slide, v.Cause, v.Direction, v.EnteredAt)
	if err != nil {
		return v, fmt.Errorf("failed to insert visit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return v, fmt.Errorf("failed to commit visit: %w", err)
	}
	return v, nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	return s.scanSession(s.db.QueryRow(`
		SELECT id, deck_path, deck_title, total_slides, started_at, ended_at
		FROM sessions WHERE id = ?
	`, id), id)
}

// LatestSession returns the most recently started session.
func (s *Store) LatestSession() (*Session, error) {
	return s.scanSession(s.db.QueryRow(`
		SELECT id, deck_path, deck_title, total_slides, started_at, ended_at
		FROM sessions ORDER BY started_at DESC LIMIT 1
	`), "latest")
}

// ListSessions returns up to limit sessions, newest first.
func (s *Store) ListSessions(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, deck_path, deck_title, total_slides, started_at, ended_at
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSessionRow(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Visits returns the visits of a session in order.
func (s *Store) Visits(sessionID string) ([]Visit, error) {
	rows, err := s.db.Query(`
		SELECT sequence, slide, cause, direction, entered_at
		FROM visits WHERE session_id = ? ORDER BY sequence
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.Sequence, &v.Slide, &v.Cause, &v.Direction, &v.EnteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// DeleteSession removes a session and, through the foreign key, its visits.
func (s *Store) DeleteSession(id string) error {
	result, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanSession(row *sql.Row, key string) (*Session, error) {
	session, err := scanSessionRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, key)
	}
	return session, err
}

func scanSessionRow(row scanner) (*Session, error) {
	var session Session
	var endedAt sql.NullTime
	err := row.Scan(&session.ID, &session.DeckPath, &session.DeckTitle, &session.TotalSlides, &session.StartedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	return &session, nil
}
