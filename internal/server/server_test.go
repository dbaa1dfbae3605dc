package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atelier/internal/store"
	"atelier/internal/testsupport"
)

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func message(t *testing.T, resp *http.Response) string {
	t.Helper()
	var payload map[string]string
	decodeBody(t, resp, &payload)
	return payload["message"]
}

func TestWorkshopCreateAndList(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/workshops",
		`{"title":"Houtbewerking","description":"Zagen en schuren","learningGoals":["fijne motoriek"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created store.Workshop
	decodeBody(t, resp, &created)
	if created.ID != 1 || created.Status != store.WorkshopActive {
		t.Fatalf("unexpected created workshop: %#v", created)
	}

	listResp, err := http.Get(ts.URL + "/api/workshops")
	if err != nil {
		t.Fatalf("GET workshops: %v", err)
	}
	var workshops []store.Workshop
	decodeBody(t, listResp, &workshops)
	if len(workshops) != 1 || workshops[0].Title != "Houtbewerking" {
		t.Fatalf("unexpected workshop list: %#v", workshops)
	}
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/children",
		`{"name":"Noor","dateOfBirth":"2020-01-15","favoriteColor":"blauw"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := message(t, resp); got != "Ongeldige gegevens" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetUnknownEntityReturnsDutchMessage(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	cases := []struct {
		path    string
		message string
	}{
		{"/api/children/999", "Kind niet gevonden"},
		{"/api/workshops/999", "Workshop niet gevonden"},
		{"/api/sessions/999", "Sessie niet gevonden"},
		{"/api/observations/999", "Observatie niet gevonden"},
		{"/api/recordings/999", "Opname niet gevonden"},
		{"/api/moments/999", "Gemarkeerd moment niet gevonden"},
	}
	for _, tc := range cases {
		resp, err := http.Get(ts.URL + tc.path)
		if err != nil {
			t.Fatalf("GET %s: %v", tc.path, err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", tc.path, resp.StatusCode)
		}
		if got := message(t, resp); got != tc.message {
			t.Fatalf("%s: unexpected message %q", tc.path, got)
		}
	}
}

func TestPatchUnknownWorkshop(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/api/workshops/999",
		strings.NewReader(`{"status":"completed"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if got := message(t, resp); got != "Workshop niet gevonden" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestPatchWorkshopMergesFields(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/workshops", `{"title":"Klei","description":"Werken met klei"}`)
	var created store.Workshop
	decodeBody(t, resp, &created)

	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/workshops/%d", ts.URL, created.ID),
		strings.NewReader(`{"status":"completed","imageUrl":"/uploads/klei.jpg"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	patchResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	if patchResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", patchResp.StatusCode)
	}
	var updated store.Workshop
	decodeBody(t, patchResp, &updated)
	if updated.Status != store.WorkshopCompleted || updated.ImageURL != "/uploads/klei.jpg" {
		t.Fatalf("patch not applied: %#v", updated)
	}
	if updated.Title != "Klei" {
		t.Fatalf("untouched field changed: %#v", updated)
	}
}

func buildUpload(t *testing.T, contentType string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="opname.webm"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("webm-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestUploadCreatesRecordingAndMoments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ts, st := testsupport.StartServer(t, cfg)

	body, contentType := buildUpload(t, "video/webm", map[string]string{
		"sessionId": "1",
		"startTime": "2026-05-01T10:00:00Z",
		"endTime":   "2026-05-01T10:12:00Z",
		"mediaType": "video",
		"status":    "completed",
		"tags":      `[{"id":"u1","timestamp":4,"note":"samenwerking"},{"id":"u2","timestamp":9}]`,
	})
	resp, err := http.Post(ts.URL+"/api/recordings/upload", contentType, body)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}
	var recording store.Recording
	decodeBody(t, resp, &recording)
	if recording.Status != store.RecordingCompleted {
		t.Fatalf("expected completed recording, got %s", recording.Status)
	}
	if !strings.HasPrefix(recording.MediaURL, "/uploads/") || !strings.HasSuffix(recording.MediaURL, "-opname.webm") {
		t.Fatalf("unexpected media url %q", recording.MediaURL)
	}

	stored := filepath.Join(cfg.Paths.UploadDir, strings.TrimPrefix(recording.MediaURL, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "webm-bytes" {
		t.Fatalf("unexpected stored bytes %q", data)
	}

	moments, err := st.MomentsByRecording(context.Background(), recording.ID)
	if err != nil {
		t.Fatalf("MomentsByRecording: %v", err)
	}
	if len(moments) != 2 {
		t.Fatalf("expected 2 moments, got %d", len(moments))
	}

	fileResp, err := http.Get(ts.URL + recording.MediaURL)
	if err != nil {
		t.Fatalf("GET media: %v", err)
	}
	defer fileResp.Body.Close()
	if fileResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 serving media, got %d", fileResp.StatusCode)
	}
}

func TestUploadRejectsBadMediaTypeBeforeStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ts, st := testsupport.StartServer(t, cfg)

	body, contentType := buildUpload(t, "image/png", map[string]string{
		"sessionId": "1",
		"startTime": "2026-05-01T10:00:00Z",
		"mediaType": "video",
	})
	resp, err := http.Post(ts.URL+"/api/recordings/upload", contentType, body)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := message(t, resp); got != "Ongeldig bestandstype" {
		t.Fatalf("unexpected message %q", got)
	}

	recordings, err := st.Recordings(context.Background())
	if err != nil {
		t.Fatalf("Recordings: %v", err)
	}
	if len(recordings) != 0 {
		t.Fatalf("expected no recordings after rejected upload, got %d", len(recordings))
	}
	entries, err := os.ReadDir(cfg.Paths.UploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty upload dir, got %d entries", len(entries))
	}
}

func TestUploadRejectsOversizeBody(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxUpload(1))
	ts, st := testsupport.StartServer(t, cfg)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="opname.webm"`)
	header.Set("Content-Type", "video/webm")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), 2<<20)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp, err := http.Post(ts.URL+"/api/recordings/upload", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	recordings, err := st.Recordings(context.Background())
	if err != nil {
		t.Fatalf("Recordings: %v", err)
	}
	if len(recordings) != 0 {
		t.Fatalf("expected no recordings after oversize upload, got %d", len(recordings))
	}
}

func TestUploadWithoutFile(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("sessionId", "1"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	resp, err := http.Post(ts.URL+"/api/recordings/upload", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := message(t, resp); got != "Geen bestand ontvangen" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestChildObservationsFiltered(t *testing.T) {
	ts, st := testsupport.StartServer(t, nil)
	ctx := context.Background()

	child := testsupport.NewChild(t, st, "Noor", "2020-01-15")
	other := testsupport.NewChild(t, st, "Jip", "2019-11-02")
	if _, err := st.CreateObservation(ctx, store.Observation{ChildID: child.ID, Date: "2026-05-01", Type: store.ObservationLanguage, Content: "vertelt"}); err != nil {
		t.Fatalf("CreateObservation: %v", err)
	}
	if _, err := st.CreateObservation(ctx, store.Observation{ChildID: other.ID, Date: "2026-05-01", Type: store.ObservationCognitive, Content: "telt"}); err != nil {
		t.Fatalf("CreateObservation: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("%s/api/children/%d/observations", ts.URL, child.ID))
	if err != nil {
		t.Fatalf("GET observations: %v", err)
	}
	var observations []store.Observation
	decodeBody(t, resp, &observations)
	if len(observations) != 1 || observations[0].ChildID != child.ID {
		t.Fatalf("unexpected observations: %#v", observations)
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts, _ := testsupport.StartServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/children")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
