package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"atelier/internal/services"
	"atelier/internal/store"
)

// Decode reads a JSON payload, rejecting unknown fields. Decode failures are
// classified as validation errors so they surface as HTTP 400.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return services.Wrap(services.ErrValidation, "api", "decode", "invalid JSON payload", err)
	}
	return nil
}

// ChildPayload is the create body for a child.
type ChildPayload struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Notes       string `json:"notes,omitempty"`
}

func (p ChildPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", services.ErrValidation)
	}
	if strings.TrimSpace(p.DateOfBirth) == "" {
		return fmt.Errorf("%w: dateOfBirth is required", services.ErrValidation)
	}
	return nil
}

func (p ChildPayload) model() store.Child {
	return store.Child{
		Name:        strings.TrimSpace(p.Name),
		DateOfBirth: strings.TrimSpace(p.DateOfBirth),
		Notes:       p.Notes,
	}
}

// WorkshopPayload is the create body for a workshop.
type WorkshopPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	LearningGoals []string `json:"learningGoals,omitempty"`
	Materials     []string `json:"materials,omitempty"`
	Status        string   `json:"status,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

func (p WorkshopPayload) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", services.ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description is required", services.ErrValidation)
	}
	if p.Status != "" {
		if _, ok := store.ParseWorkshopStatus(p.Status); !ok {
			return fmt.Errorf("%w: unknown workshop status %q", services.ErrValidation, p.Status)
		}
	}
	return nil
}

func (p WorkshopPayload) model() store.Workshop {
	workshop := store.Workshop{
		Title:         strings.TrimSpace(p.Title),
		Description:   strings.TrimSpace(p.Description),
		LearningGoals: p.LearningGoals,
		Materials:     p.Materials,
		ImageURL:      p.ImageURL,
	}
	if p.Status != "" {
		status, _ := store.ParseWorkshopStatus(p.Status)
		workshop.Status = status
	}
	return workshop
}

// SessionPayload is the create body for a session.
type SessionPayload struct {
	WorkshopID int64    `json:"workshopId"`
	Date       string   `json:"date"`
	Notes      string   `json:"notes,omitempty"`
	Attendees  []int64  `json:"attendees,omitempty"`
	Images     []string `json:"images,omitempty"`
	AudioURL   string   `json:"audioUrl,omitempty"`
}

func (p SessionPayload) Validate() error {
	if p.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshopId is required", services.ErrValidation)
	}
	if strings.TrimSpace(p.Date) == "" {
		return fmt.Errorf("%w: date is required", services.ErrValidation)
	}
	return nil
}

func (p SessionPayload) model() store.Session {
	return store.Session{
		WorkshopID: p.WorkshopID,
		Date:       strings.TrimSpace(p.Date),
		Notes:      p.Notes,
		Attendees:  p.Attendees,
		Images:     p.Images,
		AudioURL:   p.AudioURL,
	}
}

// ObservationPayload is the create body for an observation.
type ObservationPayload struct {
	ChildID        int64    `json:"childId"`
	Date           string   `json:"date"`
	Type           string   `json:"type"`
	Content        string   `json:"content"`
	LearningGoals  []string `json:"learningGoals,omitempty"`
	Images         []string `json:"images,omitempty"`
	TaggedMomentID int64    `json:"taggedMomentId,omitempty"`
}

func (p ObservationPayload) Validate() error {
	if p.ChildID <= 0 {
		return fmt.Errorf("%w: childId is required", services.ErrValidation)
	}
	if strings.TrimSpace(p.Date) == "" {
		return fmt.Errorf("%w: date is required", services.ErrValidation)
	}
	if _, ok := store.ParseObservationType(p.Type); !ok {
		return fmt.Errorf("%w: unknown observation type %q", services.ErrValidation, p.Type)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content is required", services.ErrValidation)
	}
	return nil
}

func (p ObservationPayload) model() store.Observation {
	obsType, _ := store.ParseObservationType(p.Type)
	return store.Observation{
		ChildID:        p.ChildID,
		Date:           strings.TrimSpace(p.Date),
		Type:           obsType,
		Content:        strings.TrimSpace(p.Content),
		LearningGoals:  p.LearningGoals,
		Images:         p.Images,
		TaggedMomentID: p.TaggedMomentID,
	}
}

// RecordingPayload is the create body for a recording.
type RecordingPayload struct {
	SessionID     int64  `json:"sessionId"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime,omitempty"`
	MediaType     string `json:"mediaType"`
	MediaURL      string `json:"mediaUrl,omitempty"`
	Transcription string `json:"transcription,omitempty"`
	Status        string `json:"status,omitempty"`
}

func (p RecordingPayload) Validate() error {
	if p.SessionID <= 0 {
		return fmt.Errorf("%w: sessionId is required", services.ErrValidation)
	}
	if strings.TrimSpace(p.StartTime) == "" {
		return fmt.Errorf("%w: startTime is required", services.ErrValidation)
	}
	if _, ok := store.ParseMediaType(p.MediaType); !ok {
		return fmt.Errorf("%w: unknown media type %q", services.ErrValidation, p.MediaType)
	}
	if p.Status != "" {
		if _, ok := store.ParseRecordingStatus(p.Status); !ok {
			return fmt.Errorf("%w: unknown recording status %q", services.ErrValidation, p.Status)
		}
	}
	return nil
}

func (p RecordingPayload) model() store.Recording {
	mediaType, _ := store.ParseMediaType(p.MediaType)
	recording := store.Recording{
		SessionID:     p.SessionID,
		StartTime:     strings.TrimSpace(p.StartTime),
		EndTime:       p.EndTime,
		MediaType:     mediaType,
		MediaURL:      p.MediaURL,
		Transcription: p.Transcription,
	}
	if p.Status != "" {
		status, _ := store.ParseRecordingStatus(p.Status)
		recording.Status = status
	}
	return recording
}

// MomentPayload is the create body for a tagged moment. Timestamp is a pointer
// so a tag at second zero is distinguishable from an absent field.
type MomentPayload struct {
	RecordingID   int64   `json:"recordingId"`
	Timestamp     *int64  `json:"timestamp"`
	StartOffset   int64   `json:"startOffset,omitempty"`
	EndOffset     int64   `json:"endOffset,omitempty"`
	Note          string  `json:"note,omitempty"`
	Transcription string  `json:"transcription,omitempty"`
	Children      []int64 `json:"children,omitempty"`
}

func (p MomentPayload) Validate() error {
	if p.RecordingID <= 0 {
		return fmt.Errorf("%w: recordingId is required", services.ErrValidation)
	}
	if p.Timestamp == nil {
		return fmt.Errorf("%w: timestamp is required", services.ErrValidation)
	}
	if *p.Timestamp < 0 {
		return fmt.Errorf("%w: timestamp must not be negative", services.ErrValidation)
	}
	return nil
}

func (p MomentPayload) model() store.TaggedMoment {
	return store.TaggedMoment{
		RecordingID:   p.RecordingID,
		Timestamp:     *p.Timestamp,
		StartOffset:   p.StartOffset,
		EndOffset:     p.EndOffset,
		Note:          p.Note,
		Transcription: p.Transcription,
		Children:      p.Children,
	}
}

// TagPayload is one client-side tag serialized into the upload form. IDs are
// client uuids; only the timestamp survives into the persisted moment.
type TagPayload struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	CreatedAt  string `json:"createdAt,omitempty"`
	Note       string `json:"note,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// UploadFields are the non-file fields of the multipart upload form.
type UploadFields struct {
	SessionID int64
	StartTime string
	EndTime   string
	MediaType string
	Status    string
	Tags      []TagPayload
}

func (f UploadFields) Validate() error {
	if f.SessionID <= 0 {
		return fmt.Errorf("%w: sessionId is required", services.ErrValidation)
	}
	if strings.TrimSpace(f.StartTime) == "" {
		return fmt.Errorf("%w: startTime is required", services.ErrValidation)
	}
	if _, ok := store.ParseMediaType(f.MediaType); !ok {
		return fmt.Errorf("%w: unknown media type %q", services.ErrValidation, f.MediaType)
	}
	if f.Status != "" {
		if _, ok := store.ParseRecordingStatus(f.Status); !ok {
			return fmt.Errorf("%w: unknown recording status %q", services.ErrValidation, f.Status)
		}
	}
	for _, tag := range f.Tags {
		if tag.Timestamp < 0 {
			return fmt.Errorf("%w: tag timestamp must not be negative", services.ErrValidation)
		}
	}
	return nil
}

// ParseTags decodes the optional serialized tag array from the upload form.
func ParseTags(raw string) ([]TagPayload, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var tags []TagPayload
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, services.Wrap(services.ErrValidation, "api", "parse-tags", "invalid tags payload", err)
	}
	return tags, nil
}
