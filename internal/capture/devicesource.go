package capture

import (
	"context"
	"errors"
	"image"
	"os"

	"atelier/internal/store"
)

// DeviceSource opens capture device nodes directly. It is the default source
// on Linux hosts; tests substitute their own Source.
type DeviceSource struct {
	VideoDevice string
	AudioDevice string
}

// NewDeviceSource uses the conventional first video and audio device nodes.
func NewDeviceSource() *DeviceSource {
	return &DeviceSource{
		VideoDevice: "/dev/video0",
		AudioDevice: "/dev/snd/pcmC0D0c",
	}
}

func (s *DeviceSource) Open(ctx context.Context, mode Mode) (Stream, error) {
	path := s.VideoDevice
	if mode == store.MediaAudio {
		path = s.AudioDevice
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &deviceStream{file: f}, nil
}

type deviceStream struct {
	file *os.File
}

func (d *deviceStream) Read(p []byte) (int, error) {
	return d.file.Read(p)
}

// Frame is unavailable when reading the raw device node; tags degrade to
// screenshot-less entries.
func (d *deviceStream) Frame() (image.Image, error) {
	return nil, errors.New("frame capture not supported on raw device stream")
}

func (d *deviceStream) Close() error {
	return d.file.Close()
}
