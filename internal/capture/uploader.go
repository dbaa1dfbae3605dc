package capture

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"atelier/internal/api"
	"atelier/internal/client"
	"atelier/internal/store"
)

// Uploader turns finished captures into daemon uploads.
func Uploader(c *client.Client) FinalizeFunc {
	return func(ctx context.Context, result Result, tags []Tag) error {
		payloadTags := make([]api.TagPayload, 0, len(tags))
		for _, tag := range tags {
			payloadTags = append(payloadTags, api.TagPayload{
				ID:         tag.ID,
				Timestamp:  tag.Timestamp,
				CreatedAt:  tag.CreatedAt.Format(time.RFC3339Nano),
				Note:       tag.Note,
				Screenshot: tag.Screenshot,
			})
		}
		contentType := "video/webm"
		if result.Mode == store.MediaAudio {
			contentType = "audio/webm"
		}
		_, err := c.Upload(ctx, client.UploadRequest{
			SessionID:   result.SessionID,
			StartTime:   result.StartedAt.UTC().Format(time.RFC3339),
			EndTime:     result.EndedAt.UTC().Format(time.RFC3339),
			MediaType:   result.Mode,
			Status:      store.RecordingCompleted,
			Filename:    fmt.Sprintf("opname-%d.webm", result.StartedAt.UnixMilli()),
			ContentType: contentType,
			Media:       bytes.NewReader(result.Blob),
			Tags:        payloadTags,
		})
		return err
	}
}
