package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"atelier/internal/api"
	"atelier/internal/dutch"
	"atelier/internal/fileutil"
	"atelier/internal/logging"
)

const multipartMemoryLimit = 32 << 20

// handleUpload accepts a finished capture: one media file plus the recording
// fields and optional serialized tags. All validation runs before anything is
// written to disk or the store.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("media")
	if err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindNoFile)
		return
	}
	defer file.Close()

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if !s.cfg.AllowsMediaType(contentType) {
		s.writeKind(w, http.StatusBadRequest, dutch.KindBadMediaType)
		return
	}

	sessionID, _ := strconv.ParseInt(r.FormValue("sessionId"), 10, 64)
	tags, err := api.ParseTags(r.FormValue("tags"))
	if err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}
	fields := api.UploadFields{
		SessionID: sessionID,
		StartTime: r.FormValue("startTime"),
		EndTime:   r.FormValue("endTime"),
		MediaType: r.FormValue("mediaType"),
		Status:    r.FormValue("status"),
		Tags:      tags,
	}
	if err := fields.Validate(); err != nil {
		s.writeKind(w, http.StatusBadRequest, dutch.KindInvalidPayload)
		return
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileutil.SanitizeName(header.Filename, "opname.webm"))
	target := filepath.Join(s.cfg.Paths.UploadDir, name)
	if err := fileutil.WriteAtomic(target, file); err != nil {
		s.log().Error("failed to store upload", logging.String("file", name), logging.Error(err))
		s.writeKind(w, http.StatusInternalServerError, dutch.KindUploadFailed)
		return
	}

	recording, _, err := s.svc.FinishUpload(r.Context(), fields, "/uploads/"+name)
	if err != nil {
		_ = os.Remove(target)
		s.log().Error("failed to persist upload", logging.Int64(logging.FieldSessionID, sessionID), logging.Error(err))
		s.writeServiceError(w, err, dutch.KindSessionNotFound)
		return
	}

	s.log().Info("recording uploaded",
		logging.Int64(logging.FieldSessionID, sessionID),
		logging.Int64(logging.FieldRecordingID, recording.ID),
		logging.String("file", name),
		logging.Int("tags", len(tags)))
	s.writeJSON(w, http.StatusCreated, recording)
}
