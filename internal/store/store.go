package store

import (
	"context"
	"fmt"

	"atelier/internal/config"
)

// Store is the datastore contract shared by the memory and SQLite backends.
//
// Get-style methods return (nil, nil) when the id is unknown; only updates
// fail with services.ErrNotFound. Identifiers are positive, assigned at create
// in monotonically increasing order per entity kind, and never reused.
type Store interface {
	Children(ctx context.Context) ([]Child, error)
	Child(ctx context.Context, id int64) (*Child, error)
	CreateChild(ctx context.Context, child Child) (*Child, error)

	Workshops(ctx context.Context) ([]Workshop, error)
	Workshop(ctx context.Context, id int64) (*Workshop, error)
	CreateWorkshop(ctx context.Context, workshop Workshop) (*Workshop, error)
	UpdateWorkshop(ctx context.Context, id int64, patch WorkshopPatch) (*Workshop, error)

	Sessions(ctx context.Context) ([]Session, error)
	Session(ctx context.Context, id int64) (*Session, error)
	CreateSession(ctx context.Context, session Session) (*Session, error)

	Observations(ctx context.Context) ([]Observation, error)
	Observation(ctx context.Context, id int64) (*Observation, error)
	CreateObservation(ctx context.Context, observation Observation) (*Observation, error)
	ObservationsByChild(ctx context.Context, childID int64) ([]Observation, error)

	Recordings(ctx context.Context) ([]Recording, error)
	Recording(ctx context.Context, id int64) (*Recording, error)
	CreateRecording(ctx context.Context, recording Recording) (*Recording, error)
	UpdateRecording(ctx context.Context, id int64, patch RecordingPatch) (*Recording, error)
	RecordingsBySession(ctx context.Context, sessionID int64) ([]Recording, error)

	Moments(ctx context.Context) ([]TaggedMoment, error)
	Moment(ctx context.Context, id int64) (*TaggedMoment, error)
	CreateMoment(ctx context.Context, moment TaggedMoment) (*TaggedMoment, error)
	UpdateMoment(ctx context.Context, id int64, patch MomentPatch) (*TaggedMoment, error)
	MomentsByRecording(ctx context.Context, recordingID int64) ([]TaggedMoment, error)

	// Reset drops all records and restarts the id counters. Intended for test
	// isolation; the HTTP layer never exposes it.
	Reset(ctx context.Context) error
	Close() error
}

// Open constructs the store selected by config.
func Open(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return NewMemoryStore(), nil
	}
	switch cfg.Store.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg)
	default:
		return nil, fmt.Errorf("store backend: unsupported value %q", cfg.Store.Backend)
	}
}
