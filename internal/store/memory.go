package store

import (
	"context"
	"fmt"
	"sync"

	"atelier/internal/services"
)

// MemoryStore keeps all records in process memory. Counters restart with the
// process; there is no durability guarantee. All methods are safe for
// concurrent use.
type MemoryStore struct {
	mu sync.Mutex

	children     map[int64]Child
	workshops    map[int64]Workshop
	sessions     map[int64]Session
	observations map[int64]Observation
	recordings   map[int64]Recording
	moments      map[int64]TaggedMoment

	nextID map[string]int64
}

// NewMemoryStore constructs an empty memory store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.children = make(map[int64]Child)
	s.workshops = make(map[int64]Workshop)
	s.sessions = make(map[int64]Session)
	s.observations = make(map[int64]Observation)
	s.recordings = make(map[int64]Recording)
	s.moments = make(map[int64]TaggedMoment)
	s.nextID = map[string]int64{
		"children":     1,
		"workshops":    1,
		"sessions":     1,
		"observations": 1,
		"recordings":   1,
		"moments":      1,
	}
}

func (s *MemoryStore) take(kind string) int64 {
	id := s.nextID[kind]
	s.nextID[kind] = id + 1
	return id
}

func (s *MemoryStore) Children(ctx context.Context) ([]Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Child, 0, len(s.children))
	for _, child := range s.children {
		out = append(out, child.clone())
	}
	return out, nil
}

func (s *MemoryStore) Child(ctx context.Context, id int64) (*Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	child, ok := s.children[id]
	if !ok {
		return nil, nil
	}
	cp := child.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateChild(ctx context.Context, child Child) (*Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	child = child.clone()
	child.ID = s.take("children")
	s.children[child.ID] = child
	cp := child.clone()
	return &cp, nil
}

func (s *MemoryStore) Workshops(ctx context.Context) ([]Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Workshop, 0, len(s.workshops))
	for _, workshop := range s.workshops {
		out = append(out, workshop.clone())
	}
	return out, nil
}

func (s *MemoryStore) Workshop(ctx context.Context, id int64) (*Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workshop, ok := s.workshops[id]
	if !ok {
		return nil, nil
	}
	cp := workshop.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateWorkshop(ctx context.Context, workshop Workshop) (*Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workshop = workshop.clone()
	workshop.ID = s.take("workshops")
	if workshop.Status == "" {
		workshop.Status = WorkshopActive
	}
	s.workshops[workshop.ID] = workshop
	cp := workshop.clone()
	return &cp, nil
}

func (s *MemoryStore) UpdateWorkshop(ctx context.Context, id int64, patch WorkshopPatch) (*Workshop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workshop, ok := s.workshops[id]
	if !ok {
		return nil, fmt.Errorf("%w: workshop %d", services.ErrNotFound, id)
	}
	if patch.Title != nil {
		workshop.Title = *patch.Title
	}
	if patch.Description != nil {
		workshop.Description = *patch.Description
	}
	if patch.LearningGoals != nil {
		workshop.LearningGoals = cloneStrings(*patch.LearningGoals)
	}
	if patch.Materials != nil {
		workshop.Materials = cloneStrings(*patch.Materials)
	}
	if patch.Status != nil {
		workshop.Status = *patch.Status
	}
	if patch.ImageURL != nil {
		workshop.ImageURL = *patch.ImageURL
	}
	s.workshops[id] = workshop
	cp := workshop.clone()
	return &cp, nil
}

func (s *MemoryStore) Sessions(ctx context.Context) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.clone())
	}
	return out, nil
}

func (s *MemoryStore) Session(ctx context.Context, id int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := session.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateSession(ctx context.Context, session Session) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session = session.clone()
	session.ID = s.take("sessions")
	s.sessions[session.ID] = session
	cp := session.clone()
	return &cp, nil
}

func (s *MemoryStore) Observations(ctx context.Context) ([]Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Observation, 0, len(s.observations))
	for _, observation := range s.observations {
		out = append(out, observation.clone())
	}
	return out, nil
}

func (s *MemoryStore) Observation(ctx context.Context, id int64) (*Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	observation, ok := s.observations[id]
	if !ok {
		return nil, nil
	}
	cp := observation.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateObservation(ctx context.Context, observation Observation) (*Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	observation = observation.clone()
	observation.ID = s.take("observations")
	s.observations[observation.ID] = observation
	cp := observation.clone()
	return &cp, nil
}

func (s *MemoryStore) ObservationsByChild(ctx context.Context, childID int64) ([]Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Observation
	for _, observation := range s.observations {
		if observation.ChildID == childID {
			out = append(out, observation.clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Recordings(ctx context.Context) ([]Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recording, 0, len(s.recordings))
	for _, recording := range s.recordings {
		out = append(out, recording.clone())
	}
	return out, nil
}

func (s *MemoryStore) Recording(ctx context.Context, id int64) (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recording, ok := s.recordings[id]
	if !ok {
		return nil, nil
	}
	cp := recording.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateRecording(ctx context.Context, recording Recording) (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recording = recording.clone()
	recording.ID = s.take("recordings")
	if recording.Status == "" {
		recording.Status = RecordingInProgress
	}
	s.recordings[recording.ID] = recording
	cp := recording.clone()
	return &cp, nil
}

func (s *MemoryStore) UpdateRecording(ctx context.Context, id int64, patch RecordingPatch) (*Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recording, ok := s.recordings[id]
	if !ok {
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
	s.recordings[id] = recording
	cp := recording.clone()
	return &cp, nil
}

func (s *MemoryStore) RecordingsBySession(ctx context.Context, sessionID int64) ([]Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Recording
	for _, recording := range s.recordings {
		if recording.SessionID == sessionID {
			out = append(out, recording.clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Moments(ctx context.Context) ([]TaggedMoment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaggedMoment, 0, len(s.moments))
	for _, moment := range s.moments {
		out = append(out, moment.clone())
	}
	return out, nil
}

func (s *MemoryStore) Moment(ctx context.Context, id int64) (*TaggedMoment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moment, ok := s.moments[id]
	if !ok {
		return nil, nil
	}
	cp := moment.clone()
	return &cp, nil
}

func (s *MemoryStore) CreateMoment(ctx context.Context, moment TaggedMoment) (*TaggedMoment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moment = moment.clone()
	moment.ID = s.take("moments")
	s.moments[moment.ID] = moment
	cp := moment.clone()
	return &cp, nil
}

func (s *MemoryStore) UpdateMoment(ctx context.Context, id int64, patch MomentPatch) (*TaggedMoment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	moment, ok := s.moments[id]
	if !ok {
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
		moment.Children = cloneInts(*patch.Children)
	}
	s.moments[id] = moment
	cp := moment.clone()
	return &cp, nil
}

func (s *MemoryStore) MomentsByRecording(ctx context.Context, recordingID int64) ([]TaggedMoment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TaggedMoment
	for _, moment := range s.moments {
		if moment.RecordingID == recordingID {
			out = append(out, moment.clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
