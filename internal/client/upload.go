package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"atelier/internal/api"
	"atelier/internal/store"
)

// UploadRequest is a finished capture ready to be posted to the daemon.
type UploadRequest struct {
	SessionID   int64
	StartTime   string
	EndTime     string
	MediaType   store.MediaType
	Status      store.RecordingStatus
	Filename    string
	ContentType string
	Media       io.Reader
	Tags        []api.TagPayload
}

// Upload posts the capture as multipart form data. On success the cached
// recording list for the session is invalidated so the next read sees the new
// recording.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*store.Recording, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, req.Filename))
	header.Set("Content-Type", req.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create media part: %w", err)
	}
	if _, err := io.Copy(part, req.Media); err != nil {
		return nil, fmt.Errorf("copy media: %w", err)
	}

	fields := map[string]string{
		"sessionId": strconv.FormatInt(req.SessionID, 10),
		"startTime": req.StartTime,
		"endTime":   req.EndTime,
		"mediaType": string(req.MediaType),
		"status":    string(req.Status),
	}
	if len(req.Tags) > 0 {
		encoded, err := json.Marshal(req.Tags)
		if err != nil {
			return nil, fmt.Errorf("encode tags: %w", err)
		}
		fields["tags"] = string(encoded)
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := mw.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recordings/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	var recording store.Recording
	if err := json.NewDecoder(resp.Body).Decode(&recording); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.InvalidateRecordings(req.SessionID)
	return &recording, nil
}
