package api

import (
	"context"
	"fmt"

	"atelier/internal/services"
	"atelier/internal/store"
)

// Service exposes the validated entity operations backed by a store.
type Service struct {
	store store.Store
}

// NewService constructs a Service around the provided store.
func NewService(st store.Store) *Service {
	if st == nil {
		return nil
	}
	return &Service{store: st}
}

func (s *Service) Children(ctx context.Context) ([]store.Child, error) {
	return s.store.Children(ctx)
}

func (s *Service) Child(ctx context.Context, id int64) (*store.Child, error) {
	return s.store.Child(ctx, id)
}

func (s *Service) CreateChild(ctx context.Context, payload ChildPayload) (*store.Child, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateChild(ctx, payload.model())
}

func (s *Service) ObservationsForChild(ctx context.Context, childID int64) ([]store.Observation, error) {
	return s.store.ObservationsByChild(ctx, childID)
}

func (s *Service) Workshops(ctx context.Context) ([]store.Workshop, error) {
	return s.store.Workshops(ctx)
}

func (s *Service) Workshop(ctx context.Context, id int64) (*store.Workshop, error) {
	return s.store.Workshop(ctx, id)
}

func (s *Service) CreateWorkshop(ctx context.Context, payload WorkshopPayload) (*store.Workshop, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateWorkshop(ctx, payload.model())
}

func (s *Service) PatchWorkshop(ctx context.Context, id int64, patch store.WorkshopPatch) (*store.Workshop, error) {
	if patch.Status != nil {
		if _, ok := store.ParseWorkshopStatus(string(*patch.Status)); !ok {
			return nil, fmt.Errorf("%w: unknown workshop status %q", services.ErrValidation, *patch.Status)
		}
	}
	return s.store.UpdateWorkshop(ctx, id, patch)
}

func (s *Service) Sessions(ctx context.Context) ([]store.Session, error) {
	return s.store.Sessions(ctx)
}

func (s *Service) Session(ctx context.Context, id int64) (*store.Session, error) {
	return s.store.Session(ctx, id)
}

func (s *Service) CreateSession(ctx context.Context, payload SessionPayload) (*store.Session, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateSession(ctx, payload.model())
}

func (s *Service) RecordingsForSession(ctx context.Context, sessionID int64) ([]store.Recording, error) {
	return s.store.RecordingsBySession(ctx, sessionID)
}

func (s *Service) Observations(ctx context.Context) ([]store.Observation, error) {
	return s.store.Observations(ctx)
}

func (s *Service) Observation(ctx context.Context, id int64) (*store.Observation, error) {
	return s.store.Observation(ctx, id)
}

func (s *Service) CreateObservation(ctx context.Context, payload ObservationPayload) (*store.Observation, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateObservation(ctx, payload.model())
}

func (s *Service) Recordings(ctx context.Context) ([]store.Recording, error) {
	return s.store.Recordings(ctx)
}

func (s *Service) Recording(ctx context.Context, id int64) (*store.Recording, error) {
	return s.store.Recording(ctx, id)
}

func (s *Service) CreateRecording(ctx context.Context, payload RecordingPayload) (*store.Recording, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateRecording(ctx, payload.model())
}

func (s *Service) PatchRecording(ctx context.Context, id int64, patch store.RecordingPatch) (*store.Recording, error) {
	if patch.Status != nil {
		if _, ok := store.ParseRecordingStatus(string(*patch.Status)); !ok {
			return nil, fmt.Errorf("%w: unknown recording status %q", services.ErrValidation, *patch.Status)
		}
	}
	return s.store.UpdateRecording(ctx, id, patch)
}

func (s *Service) MomentsForRecording(ctx context.Context, recordingID int64) ([]store.TaggedMoment, error) {
	return s.store.MomentsByRecording(ctx, recordingID)
}

func (s *Service) Moments(ctx context.Context) ([]store.TaggedMoment, error) {
	return s.store.Moments(ctx)
}

func (s *Service) Moment(ctx context.Context, id int64) (*store.TaggedMoment, error) {
	return s.store.Moment(ctx, id)
}

func (s *Service) CreateMoment(ctx context.Context, payload MomentPayload) (*store.TaggedMoment, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return s.store.CreateMoment(ctx, payload.model())
}

func (s *Service) PatchMoment(ctx context.Context, id int64, patch store.MomentPatch) (*store.TaggedMoment, error) {
	return s.store.UpdateMoment(ctx, id, patch)
}

// FinishUpload records a completed capture: the recording row pointing at the
// stored media file, plus one tagged moment per client tag. The recording is
// created first so tag persistence failures leave a usable recording behind.
func (s *Service) FinishUpload(ctx context.Context, fields UploadFields, mediaURL string) (*store.Recording, []store.TaggedMoment, error) {
	if err := fields.Validate(); err != nil {
		return nil, nil, err
	}
	mediaType, _ := store.ParseMediaType(fields.MediaType)
	recording := store.Recording{
		SessionID: fields.SessionID,
		StartTime: fields.StartTime,
		EndTime:   fields.EndTime,
		MediaType: mediaType,
		MediaURL:  mediaURL,
	}
	if fields.Status != "" {
		status, _ := store.ParseRecordingStatus(fields.Status)
		recording.Status = status
	}
	created, err := s.store.CreateRecording(ctx, recording)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrUpload, "api", "finish-upload", "failed to persist recording", err)
	}

	var moments []store.TaggedMoment
	for _, tag := range fields.Tags {
		moment, err := s.store.CreateMoment(ctx, store.TaggedMoment{
			RecordingID: created.ID,
			Timestamp:   tag.Timestamp,
			Note:        tag.Note,
		})
		if err != nil {
			return created, moments, services.Wrap(services.ErrUpload, "api", "finish-upload", "failed to persist tagged moment", err)
		}
		moments = append(moments, *moment)
	}
	return created, moments, nil
}
