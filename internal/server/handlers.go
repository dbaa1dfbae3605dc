package server

import (
	"net/http"
	"strconv"

	"atelier/internal/api"
	"atelier/internal/dutch"
	"atelier/internal/store"
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// listJSON never returns null for an empty collection.
func listJSON[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.writeJSON(w, http.StatusOK, map[string]bool{"running": true})
		return
	}
	s.writeJSON(w, http.StatusOK, s.status(r.Context()))
}

func (s *Server) handleListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := s.svc.Children(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindChildNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(children))
}

func (s *Server) handleGetChild(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	child, err := s.svc.Child(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindChildNotFound)
		return
	}
	if child == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindChildNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, child)
}

func (s *Server) handleCreateChild(w http.ResponseWriter, r *http.Request) {
	var payload api.ChildPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	child, err := s.svc.CreateChild(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindChildNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, child)
}

func (s *Server) handleChildObservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	observations, err := s.svc.ObservationsForChild(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindChildNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(observations))
}

func (s *Server) handleListWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := s.svc.Workshops(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindWorkshopNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(workshops))
}

func (s *Server) handleGetWorkshop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	workshop, err := s.svc.Workshop(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindWorkshopNotFound)
		return
	}
	if workshop == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindWorkshopNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, workshop)
}

func (s *Server) handleCreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var payload api.WorkshopPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	workshop, err := s.svc.CreateWorkshop(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindWorkshopNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, workshop)
}

func (s *Server) handlePatchWorkshop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	var patch store.WorkshopPatch
	if err := api.Decode(r.Body, &patch); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	workshop, err := s.svc.PatchWorkshop(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindWorkshopNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, workshop)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.svc.Sessions(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(sessions))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	session, err := s.svc.Session(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindSessionNotFound)
		return
	}
	if session == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload api.SessionPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	session, err := s.svc.CreateSession(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSessionRecordings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	recordings, err := s.svc.RecordingsForSession(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(recordings))
}

func (s *Server) handleListObservations(w http.ResponseWriter, r *http.Request) {
	observations, err := s.svc.Observations(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindObservationNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(observations))
}

func (s *Server) handleGetObservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	observation, err := s.svc.Observation(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindObservationNotFound)
		return
	}
	if observation == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindObservationNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, observation)
}

func (s *Server) handleCreateObservation(w http.ResponseWriter, r *http.Request) {
	var payload api.ObservationPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	observation, err := s.svc.CreateObservation(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindObservationNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, observation)
}

func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	recordings, err := s.svc.Recordings(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindRecordingNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(recordings))
}

func (s *Server) handleGetRecording(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	recording, err := s.svc.Recording(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindRecordingNotFound)
		return
	}
	if recording == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindRecordingNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, recording)
}

func (s *Server) handleCreateRecording(w http.ResponseWriter, r *http.Request) {
	var payload api.RecordingPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	recording, err := s.svc.CreateRecording(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindRecordingNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, recording)
}

func (s *Server) handlePatchRecording(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	var patch store.RecordingPatch
	if err := api.Decode(r.Body, &patch); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	recording, err := s.svc.PatchRecording(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindRecordingNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, recording)
}

func (s *Server) handleRecordingMoments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	moments, err := s.svc.MomentsForRecording(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindRecordingNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(moments))
}

func (s *Server) handleListMoments(w http.ResponseWriter, r *http.Request) {
	moments, err := s.svc.Moments(r.Context())
	if err != nil {
		s.writeServiceError(w, err, dutch.KindMomentNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, listJSON(moments))
}

func (s *Server) handleGetMoment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	moment, err := s.svc.Moment(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindMomentNotFound)
		return
	}
	if moment == nil {
		s.writeKind(w, http.StatusNotFound, dutch.KindMomentNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, moment)
}

func (s *Server) handleCreateMoment(w http.ResponseWriter, r *http.Request) {
	var payload api.MomentPayload
	if err := api.Decode(r.Body, &payload); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	moment, err := s.svc.CreateMoment(r.Context(), payload)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindMomentNotFound)
		return
	}
	s.writeJSON(w, http.StatusCreated, moment)
}

func (s *Server) handlePatchMoment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	var patch store.MomentPatch
	if err := api.Decode(r.Body, &patch); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	moment, err := s.svc.PatchMoment(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, err, dutch.KindMomentNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, moment)
}
