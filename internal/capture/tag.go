package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"time"
)

// Tag is a moment marked during an active recording. Timestamp is whole
// elapsed seconds since capture start; Screenshot is a base64 JPEG grabbed
// from the live stream in video mode.
type Tag struct {
	ID         string    `json:"id"`
	Timestamp  int64     `json:"timestamp"`
	CreatedAt  time.Time `json:"createdAt"`
	Note       string    `json:"note,omitempty"`
	Screenshot string    `json:"screenshot,omitempty"`
}

func encodeFrame(frame image.Image, quality int) (string, error) {
	if frame == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
