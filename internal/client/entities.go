package client

import (
	"context"
	"fmt"
	"net/http"

	"atelier/internal/api"
	"atelier/internal/store"
)

func (c *Client) Children(ctx context.Context) ([]store.Child, error) {
	var children []store.Child
	if err := c.do(ctx, http.MethodGet, "/api/children", nil, &children); err != nil {
		return nil, err
	}
	return children, nil
}

func (c *Client) Child(ctx context.Context, id int64) (*store.Child, error) {
	var child store.Child
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/children/%d", id), nil, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func (c *Client) CreateChild(ctx context.Context, payload api.ChildPayload) (*store.Child, error) {
	var child store.Child
	if err := c.do(ctx, http.MethodPost, "/api/children", payload, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func (c *Client) ChildObservations(ctx context.Context, childID int64) ([]store.Observation, error) {
	var observations []store.Observation
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/children/%d/observations", childID), nil, &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

func (c *Client) Workshops(ctx context.Context) ([]store.Workshop, error) {
	var workshops []store.Workshop
	if err := c.do(ctx, http.MethodGet, "/api/workshops", nil, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}

func (c *Client) Workshop(ctx context.Context, id int64) (*store.Workshop, error) {
	var workshop store.Workshop
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/workshops/%d", id), nil, &workshop); err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (c *Client) CreateWorkshop(ctx context.Context, payload api.WorkshopPayload) (*store.Workshop, error) {
	var workshop store.Workshop
	if err := c.do(ctx, http.MethodPost, "/api/workshops", payload, &workshop); err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (c *Client) PatchWorkshop(ctx context.Context, id int64, patch store.WorkshopPatch) (*store.Workshop, error) {
	var workshop store.Workshop
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/workshops/%d", id), patch, &workshop); err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (c *Client) Sessions(ctx context.Context) ([]store.Session, error) {
	var sessions []store.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) Session(ctx context.Context, id int64) (*store.Session, error) {
	var session store.Session
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%d", id), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CreateSession(ctx context.Context, payload api.SessionPayload) (*store.Session, error) {
	var session store.Session
	if err := c.do(ctx, http.MethodPost, "/api/sessions", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Observations(ctx context.Context) ([]store.Observation, error) {
	var observations []store.Observation
	if err := c.do(ctx, http.MethodGet, "/api/observations", nil, &observations); err != nil {
		return nil, err
	}
	return observations, nil
}

func (c *Client) CreateObservation(ctx context.Context, payload api.ObservationPayload) (*store.Observation, error) {
	var observation store.Observation
	if err := c.do(ctx, http.MethodPost, "/api/observations", payload, &observation); err != nil {
		return nil, err
	}
	return &observation, nil
}

func (c *Client) Recordings(ctx context.Context) ([]store.Recording, error) {
	var recordings []store.Recording
	if err := c.do(ctx, http.MethodGet, "/api/recordings", nil, &recordings); err != nil {
		return nil, err
	}
	return recordings, nil
}

func (c *Client) Recording(ctx context.Context, id int64) (*store.Recording, error) {
	var recording store.Recording
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/recordings/%d", id), nil, &recording); err != nil {
		return nil, err
	}
	return &recording, nil
}

func (c *Client) CreateRecording(ctx context.Context, payload api.RecordingPayload) (*store.Recording, error) {
	var recording store.Recording
	if err := c.do(ctx, http.MethodPost, "/api/recordings", payload, &recording); err != nil {
		return nil, err
	}
	return &recording, nil
}

func (c *Client) PatchRecording(ctx context.Context, id int64, patch store.RecordingPatch) (*store.Recording, error) {
	var recording store.Recording
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/recordings/%d", id), patch, &recording); err != nil {
		return nil, err
	}
	return &recording, nil
}

func (c *Client) RecordingMoments(ctx context.Context, recordingID int64) ([]store.TaggedMoment, error) {
	var moments []store.TaggedMoment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/recordings/%d/moments", recordingID), nil, &moments); err != nil {
		return nil, err
	}
	return moments, nil
}

func (c *Client) Moments(ctx context.Context) ([]store.TaggedMoment, error) {
	var moments []store.TaggedMoment
	if err := c.do(ctx, http.MethodGet, "/api/moments", nil, &moments); err != nil {
		return nil, err
	}
	return moments, nil
}

func (c *Client) Moment(ctx context.Context, id int64) (*store.TaggedMoment, error) {
	var moment store.TaggedMoment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/moments/%d", id), nil, &moment); err != nil {
		return nil, err
	}
	return &moment, nil
}

func (c *Client) CreateMoment(ctx context.Context, payload api.MomentPayload) (*store.TaggedMoment, error) {
	var moment store.TaggedMoment
	if err := c.do(ctx, http.MethodPost, "/api/moments", payload, &moment); err != nil {
		return nil, err
	}
	return &moment, nil
}

func (c *Client) PatchMoment(ctx context.Context, id int64, patch store.MomentPatch) (*store.TaggedMoment, error) {
	var moment store.TaggedMoment
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/moments/%d", id), patch, &moment); err != nil {
		return nil, err
	}
	return &moment, nil
}
