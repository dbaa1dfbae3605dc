package store

import "strings"

// WorkshopStatus represents the lifecycle of a workshop.
type WorkshopStatus string

const (
	WorkshopActive    WorkshopStatus = "active"
	WorkshopCompleted WorkshopStatus = "completed"
)

// RecordingStatus represents the lifecycle of a recording.
type RecordingStatus string

const (
	RecordingInProgress RecordingStatus = "recording"
	RecordingProcessing RecordingStatus = "processing"
	RecordingReady      RecordingStatus = "ready"
	RecordingCompleted  RecordingStatus = "completed"
)

// MediaType distinguishes audio-only from audio+video captures.
type MediaType string

const (
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// ObservationType is one of the five observation categories used by the
// workshop organization. Values are the Dutch labels shown in forms.
type ObservationType string

const (
	ObservationSocialEmotional ObservationType = "Sociaal-emotioneel"
	ObservationMotorSkills     ObservationType = "Motoriek"
	ObservationLanguage        ObservationType = "Taal"
	ObservationCognitive       ObservationType = "Cognitief"
	ObservationCreativity      ObservationType = "Creativiteit"
)

var workshopStatuses = map[WorkshopStatus]struct{}{
	WorkshopActive:    {},
	WorkshopCompleted: {},
}

var recordingStatuses = map[RecordingStatus]struct{}{
	RecordingInProgress: {},
	RecordingProcessing: {},
	RecordingReady:      {},
	RecordingCompleted:  {},
}

var mediaTypes = map[MediaType]struct{}{
	MediaAudio: {},
	MediaVideo: {},
}

var observationTypes = map[ObservationType]struct{}{
	ObservationSocialEmotional: {},
	ObservationMotorSkills:     {},
	ObservationLanguage:        {},
	ObservationCognitive:       {},
	ObservationCreativity:      {},
}

// ParseWorkshopStatus converts a string into a known WorkshopStatus.
func ParseWorkshopStatus(value string) (WorkshopStatus, bool) {
	status := WorkshopStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := workshopStatuses[status]
	return status, ok
}

// ParseRecordingStatus converts a string into a known RecordingStatus.
func ParseRecordingStatus(value string) (RecordingStatus, bool) {
	status := RecordingStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := recordingStatuses[status]
	return status, ok
}

// ParseMediaType converts a string into a known MediaType.
func ParseMediaType(value string) (MediaType, bool) {
	mediaType := MediaType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := mediaTypes[mediaType]
	return mediaType, ok
}

// ParseObservationType converts a string into a known ObservationType.
// Matching is case-insensitive; the canonical label is returned.
func ParseObservationType(value string) (ObservationType, bool) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for known := range observationTypes {
		if strings.ToLower(string(known)) == needle {
			return known, true
		}
	}
	return "", false
}

// ObservationTypes returns the known observation categories.
func ObservationTypes() []ObservationType {
	return []ObservationType{
		ObservationSocialEmotional,
		ObservationMotorSkills,
		ObservationLanguage,
		ObservationCognitive,
		ObservationCreativity,
	}
}

// Child is a tracked child. Immutable after creation in the current scope.
type Child struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
	Notes       string `json:"notes,omitempty"`
}

// Workshop is a reusable workshop definition.
type Workshop struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	LearningGoals []string       `json:"learningGoals,omitempty"`
	Materials     []string       `json:"materials,omitempty"`
	Status        WorkshopStatus `json:"status"`
	ImageURL      string         `json:"imageUrl,omitempty"`
}

// Session is a single dated occurrence of a workshop, the parent scope for
// recordings.
type Session struct {
	ID         int64    `json:"id"`
	WorkshopID int64    `json:"workshopId"`
	Date       string   `json:"date"`
	Notes      string   `json:"notes,omitempty"`
	Attendees  []int64  `json:"attendees,omitempty"`
	Images     []string `json:"images,omitempty"`
	AudioURL   string   `json:"audioUrl,omitempty"`
}

// Observation is a free-text observation about a child, optionally linked to a
// tagged moment in a recording.
type Observation struct {
	ID             int64           `json:"id"`
	ChildID        int64           `json:"childId"`
	Date           string          `json:"date"`
	Type           ObservationType `json:"type"`
	Content        string          `json:"content"`
	LearningGoals  []string        `json:"learningGoals,omitempty"`
	Images         []string        `json:"images,omitempty"`
	TaggedMomentID int64           `json:"taggedMomentId,omitempty"`
}

// Recording is one finished audio or video capture tied to a session.
type Recording struct {
	ID            int64           `json:"id"`
	SessionID     int64           `json:"sessionId"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime,omitempty"`
	MediaType     MediaType       `json:"mediaType"`
	MediaURL      string          `json:"mediaUrl,omitempty"`
	Transcription string          `json:"transcription,omitempty"`
	Status        RecordingStatus `json:"status"`
}

// TaggedMoment is a user-marked timestamp within a recording. Timestamp is in
// elapsed seconds from capture start.
type TaggedMoment struct {
	ID            int64   `json:"id"`
	RecordingID   int64   `json:"recordingId"`
	Timestamp     int64   `json:"timestamp"`
	StartOffset   int64   `json:"startOffset,omitempty"`
	EndOffset     int64   `json:"endOffset,omitempty"`
	Note          string  `json:"note,omitempty"`
	Transcription string  `json:"transcription,omitempty"`
	Children      []int64 `json:"children,omitempty"`
}

// WorkshopPatch enumerates the workshop fields that may be updated. Nil fields
// are left untouched.
type WorkshopPatch struct {
	Title         *string         `json:"title,omitempty"`
	Description   *string         `json:"description,omitempty"`
	LearningGoals *[]string       `json:"learningGoals,omitempty"`
	Materials     *[]string       `json:"materials,omitempty"`
	Status        *WorkshopStatus `json:"status,omitempty"`
	ImageURL      *string         `json:"imageUrl,omitempty"`
}

// RecordingPatch enumerates the recording fields that may be updated.
type RecordingPatch struct {
	EndTime       *string          `json:"endTime,omitempty"`
	MediaURL      *string          `json:"mediaUrl,omitempty"`
	Transcription *string          `json:"transcription,omitempty"`
	Status        *RecordingStatus `json:"status,omitempty"`
}

// MomentPatch enumerates the tagged-moment fields that may be updated.
type MomentPatch struct {
	StartOffset   *int64   `json:"startOffset,omitempty"`
	EndOffset     *int64   `json:"endOffset,omitempty"`
	Note          *string  `json:"note,omitempty"`
	Transcription *string  `json:"transcription,omitempty"`
	Children      *[]int64 `json:"children,omitempty"`
}

func (c Child) clone() Child {
	return c
}

func (w Workshop) clone() Workshop {
	w.LearningGoals = cloneStrings(w.LearningGoals)
	w.Materials = cloneStrings(w.Materials)
	return w
}

func (s Session) clone() Session {
	s.Attendees = cloneInts(s.Attendees)
	s.Images = cloneStrings(s.Images)
	return s
}

func (o Observation) clone() Observation {
	o.LearningGoals = cloneStrings(o.LearningGoals)
	o.Images = cloneStrings(o.Images)
	return o
}

func (r Recording) clone() Recording {
	return r
}

func (m TaggedMoment) clone() TaggedMoment {
	m.Children = cloneInts(m.Children)
	return m
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cp := make([]string, len(values))
	copy(cp, values)
	return cp
}

func cloneInts(values []int64) []int64 {
	if values == nil {
		return nil
	}
	cp := make([]int64, len(values))
	copy(cp, values)
	return cp
}
