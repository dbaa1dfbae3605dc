package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"atelier/internal/config"
	"atelier/internal/services"
)

// SQLiteStore persists entity records in SQLite under the data directory.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// OpenSQLite initializes or connects to the entity database.
func OpenSQLite(cfg *config.Config) (*SQLiteStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "atelier.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *SQLiteStore) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func encodeStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(data), nil
}

func decodeStrings(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	return values, nil
}

func encodeInts(values []int64) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode id list: %w", err)
	}
	return string(data), nil
}

func decodeInts(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var values []int64
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode id list: %w", err)
	}
	return values, nil
}

func (s *SQLiteStore) Children(ctx context.Context) ([]Child, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, date_of_birth, notes FROM children`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []Child
	for rows.Next() {
		var child Child
		if err := rows.Scan(&child.ID, &child.Name, &child.DateOfBirth, &child.Notes); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		out = append(out, child)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Child(ctx context.Context, id int64) (*Child, error) {
	var child Child
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, date_of_birth, notes FROM children WHERE id = ?`, id).
		Scan(&child.ID, &child.Name, &child.DateOfBirth, &child.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get child: %w", err)
	}
	return &child, nil
}

func (s *SQLiteStore) CreateChild(ctx context.Context, child Child) (*Child, error) {
	res, err := s.execWithRetry(ctx,
		`INSERT INTO children (name, date_of_birth, notes) VALUES (?, ?, ?)`,
		child.Name, child.DateOfBirth, child.Notes)
	if err != nil {
		return nil, fmt.Errorf("insert child: %w", err)
	}
	child.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("child id: %w", err)
	}
	return &child, nil
}

func (s *SQLiteStore) Workshops(ctx context.Context) ([]Workshop, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, learning_goals, materials, status, image_url FROM workshops`)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	defer rows.Close()

	var out []Workshop
	for rows.Next() {
		workshop, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *workshop)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkshop(row rowScanner) (*Workshop, error) {
	var workshop Workshop
	var goals, materials string
	if err := row.Scan(&workshop.ID, &workshop.Title, &workshop.Description, &goals, &materials, &workshop.Status, &workshop.ImageURL); err != nil {
		return nil, fmt.Errorf("scan workshop: %w", err)
	}
	var err error
	if workshop.LearningGoals, err = decodeStrings(goals); err != nil {
		return nil, err
	}
	if workshop.Materials, err = decodeStrings(materials); err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (s *SQLiteStore) Workshop(ctx context.Context, id int64) (*Workshop, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, learning_goals, materials, status, image_url FROM workshops WHERE id = ?`, id)
	workshop, err := scanWorkshop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return workshop, nil
}

func (s *SQLiteStore) CreateWorkshop(ctx context.Context, workshop Workshop) (*Workshop, error) {
	if workshop.Status == "" {
		workshop.Status = WorkshopActive
	}
	goals, err := encodeStrings(workshop.LearningGoals)
	if err != nil {
		return nil, err
	}
	materials, err := encodeStrings(workshop.Materials)
	if err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO workshops (title, description, learning_goals, materials, status, image_url) VALUES (?, ?, ?, ?, ?, ?)`,
		workshop.Title, workshop.Description, goals, materials, workshop.Status, workshop.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("insert workshop: %w", err)
	}
	if workshop.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("workshop id: %w", err)
	}
	return &workshop, nil
}

func (s *SQLiteStore) UpdateWorkshop(ctx context.Context, id int64, patch WorkshopPatch) (*Workshop, error) {
	workshop, err := s.Workshop(ctx, id)
	if err != nil {
		return nil, err
	}
	if workshop == nil {
		return nil, fmt.Errorf("%w: workshop %d", services.ErrNotFound, id)
	}
	if patch.Title != nil {
		workshop.Title = *patch.Title
	}
	if patch.Description != nil {
		workshop.Description = *patch.Description
	}
	if patch.LearningGoals != nil {
		workshop.LearningGoals = *patch.LearningGoals
	}
	if patch.Materials != nil {
		workshop.Materials = *patch.Materials
	}
	if patch.Status != nil {
		workshop.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		workshop.ImageURL = *patch.ImageURL
	}
	goals, err := encodeStrings(workshop.LearningGoals)
	if err != nil {
		return nil, err
	}
	materials, err := encodeStrings(workshop.Materials)
	if err != nil {
		return nil, err
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE workshops SET title = ?, description = ?, learning_goals = ?, materials = ?, status = ?, image_url = ? WHERE id = ?`,
		workshop.Title, workshop.Description, goals, materials, workshop.Status, workshop.ImageURL, id); err != nil {
		return nil, fmt.Errorf("update workshop: %w", err)
	}
	return workshop, nil
}

func (s *SQLiteStore) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workshop_id, date, notes, attendees, images, audio_url FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *session)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var attendees, images string
	if err := row.Scan(&session.ID, &session.WorkshopID, &session.Date, &session.Notes, &attendees, &images, &session.AudioURL); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	var err error
	if session.Attendees, err = decodeInts(attendees); err != nil {
		return nil, err
	}
	if session.Images, err = decodeStrings(images); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SQLiteStore) Session(ctx context.Context, id int64) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, workshop_id, date, notes, attendees, images, audio_url FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *SQLiteStore) CreateSession(ctx context.Context, session Session) (*Session, error) {
	attendees, err := encodeInts(session.Attendees)
	if err != nil {
		return nil, err
	}
	images, err := encodeStrings(session.Images)
	if err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO sessions (workshop_id, date, notes, attendees, images, audio_url) VALUES (?, ?, ?, ?, ?, ?)`,
		session.WorkshopID, session.Date, session.Notes, attendees, images, session.AudioURL)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	if session.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	return &session, nil
}

func (s *SQLiteStore) Observations(ctx context.Context) ([]Observation, error) {
	return s.observationsWhere(ctx, "", nil)
}

func (s *SQLiteStore) ObservationsByChild(ctx context.Context, childID int64) ([]Observation, error) {
	return s.observationsWhere(ctx, "WHERE child_id = ?", []any{childID})
}

func (s *SQLiteStore) observationsWhere(ctx context.Context, where string, args []any) ([]Observation, error) {
	query := `SELECT id, child_id, date, type, content, learning_goals, images, tagged_moment_id FROM observations ` + where
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		observation, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *observation)
	}
	return out, rows.Err()
}

func scanObservation(row rowScanner) (*Observation, error) {
	var observation Observation
	var goals, images string
	if err := row.Scan(&observation.ID, &observation.ChildID, &observation.Date, &observation.Type, &observation.Content, &goals, &images, &observation.TaggedMomentID); err != nil {
		return nil, fmt.Errorf("scan observation: %w", err)
	}
	var err error
	if observation.LearningGoals, err = decodeStrings(goals); err != nil {
		return nil, err
	}
	if observation.Images, err = decodeStrings(images); err != nil {
		return nil, err
	}
	return &observation, nil
}

func (s *SQLiteStore) Observation(ctx context.Context, id int64) (*Observation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, child_id, date, type, content, learning_goals, images, tagged_moment_id FROM observations WHERE id = ?`, id)
	observation, err := scanObservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return observation, nil
}

func (s *SQLiteStore) CreateObservation(ctx context.Context, observation Observation) (*Observation, error) {
	goals, err := encodeStrings(observation.LearningGoals)
	if err != nil {
		return nil, err
	}
	images, err := encodeStrings(observation.Images)
	if err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO observations (child_id, date, type, content, learning_goals, images, tagged_moment_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		observation.ChildID, observation.Date, observation.Type, observation.Content, goals, images, observation.TaggedMomentID)
	if err != nil {
		return nil, fmt.Errorf("insert observation: %w", err)
	}
	if observation.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("observation id: %w", err)
	}
	return &observation, nil
}

func (s *SQLiteStore) Recordings(ctx context.Context) ([]Recording, error) {
	return s.recordingsWhere(ctx, "", nil)
}

func (s *SQLiteStore) RecordingsBySession(ctx context.Context, sessionID int64) ([]Recording, error) {
	return s.recordingsWhere(ctx, "WHERE session_id = ?", []any{sessionID})
}

func (s *SQLiteStore) recordingsWhere(ctx context.Context, where string, args []any) ([]Recording, error) {
	query := `SELECT id, session_id, start_time, end_time, media_type, media_url, transcription, status FROM recordings ` + where
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		var recording Recording
		if err := rows.Scan(&recording.ID, &recording.SessionID, &recording.StartTime, &recording.EndTime, &recording.MediaType, &recording.MediaURL, &recording.Transcription, &recording.Status); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		out = append(out, recording)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Recording(ctx context.Context, id int64) (*Recording, error) {
	var recording Recording
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, start_time, end_time, media_type, media_url, transcription, status FROM recordings WHERE id = ?`, id).
		Scan(&recording.ID, &recording.SessionID, &recording.StartTime, &recording.EndTime, &recording.MediaType, &recording.MediaURL, &recording.Transcription, &recording.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return &recording, nil
}

func (s *SQLiteStore) CreateRecording(ctx context.Context, recording Recording) (*Recording, error) {
	if recording.Status == "" {
		recording.Status = RecordingInProgress
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO recordings (session_id, start_time, end_time, media_type, media_url, transcription, status) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		recording.SessionID, recording.StartTime, recording.EndTime, recording.MediaType, recording.MediaURL, recording.Transcription, recording.Status)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}
	if recording.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("recording id: %w", err)
	}
	return &recording, nil
}

func (s *SQLiteStore) UpdateRecording(ctx context.Context, id int64, patch RecordingPatch) (*Recording, error) {
	recording, err := s.Recording(ctx, id)
	if err != nil {
		return nil, err
	}
	if recording == nil {
		return nil, fmt.Errorf("%w: recording %d", services.ErrNotFound, id)
	}
	if patch.EndTime != nil {
		recording.EndTime = *patch.EndTime
	}
	if patch.MediaURL != nil {
		recording.MediaURL = *patch.MediaURL
	}
	if patch.Transcription != nil {
		recording.Transcription = *patch.Transcription
	}
	if patch.Status != nil {
		recording.Status = *patch.Status
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE recordings SET end_time = ?, media_url = ?, transcription = ?, status = ? WHERE id = ?`,
		recording.EndTime, recording.MediaURL, recording.Transcription, recording.Status, id); err != nil {
		return nil, fmt.Errorf("update recording: %w", err)
	}
	return recording, nil
}

func (s *SQLiteStore) Moments(ctx context.Context) ([]TaggedMoment, error) {
	return s.momentsWhere(ctx, "", nil)
}

func (s *SQLiteStore) MomentsByRecording(ctx context.Context, recordingID int64) ([]TaggedMoment, error) {
	return s.momentsWhere(ctx, "WHERE recording_id = ?", []any{recordingID})
}

func (s *SQLiteStore) momentsWhere(ctx context.Context, where string, args []any) ([]TaggedMoment, error) {
	query := `SELECT id, recording_id, timestamp, start_offset, end_offset, note, transcription, children_ids FROM tagged_moments ` + where
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list moments: %w", err)
	}
	defer rows.Close()

	var out []TaggedMoment
	for rows.Next() {
		moment, err := scanMoment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *moment)
	}
	return out, rows.Err()
}

func scanMoment(row rowScanner) (*TaggedMoment, error) {
	var moment TaggedMoment
	var children string
	if err := row.Scan(&moment.ID, &moment.RecordingID, &moment.Timestamp, &moment.StartOffset, &moment.EndOffset, &moment.Note, &moment.Transcription, &children); err != nil {
		return nil, fmt.Errorf("scan moment: %w", err)
	}
	var err error
	if moment.Children, err = decodeInts(children); err != nil {
		return nil, err
	}
	return &moment, nil
}

func (s *SQLiteStore) Moment(ctx context.Context, id int64) (*TaggedMoment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recording_id, timestamp, start_offset, end_offset, note, transcription, children_ids FROM tagged_moments WHERE id = ?`, id)
	moment, err := scanMoment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return moment, nil
}

func (s *SQLiteStore) CreateMoment(ctx context.Context, moment TaggedMoment) (*TaggedMoment, error) {
	children, err := encodeInts(moment.Children)
	if err != nil {
		return nil, err
	}
	res, err := s.execWithRetry(ctx,
		`INSERT INTO tagged_moments (recording_id, timestamp, start_offset, end_offset, note, transcription, children_ids) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		moment.RecordingID, moment.Timestamp, moment.StartOffset, moment.EndOffset, moment.Note, moment.Transcription, children)
	if err != nil {
		return nil, fmt.Errorf("insert moment: %w", err)
	}
	if moment.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("moment id: %w", err)
	}
	return &moment, nil
}

func (s *SQLiteStore) UpdateMoment(ctx context.Context, id int64, patch MomentPatch) (*TaggedMoment, error) {
	moment, err := s.Moment(ctx, id)
	if err != nil {
		return nil, err
	}
	if moment == nil {
		return nil, fmt.Errorf("%w: tagged moment %d", services.ErrNotFound, id)
	}
	if patch.StartOffset != nil {
		moment.StartOffset = *patch.StartOffset
	}
	if patch.EndOffset != nil {
		moment.EndOffset = *patch.EndOffset
	}
	if patch.Note != nil {
		moment.Note = *patch.Note
	}
	if patch.Transcription != nil {
		moment.Transcription = *patch.Transcription
	}
	if patch.Children != nil {
		moment.Children = *patch.Children
	}
	children, err := encodeInts(moment.Children)
	if err != nil {
		return nil, err
	}
	if _, err := s.execWithRetry(ctx,
		`UPDATE tagged_moments SET start_offset = ?, end_offset = ?, note = ?, transcription = ?, children_ids = ? WHERE id = ?`,
		moment.StartOffset, moment.EndOffset, moment.Note, moment.Transcription, children, id); err != nil {
		return nil, fmt.Errorf("update moment: %w", err)
	}
	return moment, nil
}

// Reset drops all records. The sqlite_sequence reset restarts id assignment,
// matching a fresh memory store.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	for _, table := range entityTables {
		if _, err := s.execWithRetry(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	if _, err := s.execWithRetry(ctx, `DELETE FROM sqlite_sequence`); err != nil {
		return fmt.Errorf("reset sequences: %w", err)
	}
	return nil
}
