package capture

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"strings"
	"syscall"

	"atelier/internal/dutch"
	"atelier/internal/services"
	"atelier/internal/store"
)

// State is the capture lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StatePreviewing State = "previewing"
	StateRecording  State = "recording"
	StateUploading  State = "uploading"
)

// Mode selects audio-only or audio+video capture.
type Mode = store.MediaType

// Stream is one live device acquisition. Read returns encoded media bytes;
// Frame returns a still image in video mode. Close releases every track the
// stream holds.
type Stream interface {
	Read(p []byte) (int, error)
	Frame() (image.Image, error)
	Close() error
}

// Source abstracts the device layer behind the recorder.
type Source interface {
	Open(ctx context.Context, mode Mode) (Stream, error)
}

// OpenKind categorizes a device open failure into the message kind shown to
// the user. Unrecognized failures map onto the missing-device message.
func OpenKind(err error) dutch.Kind {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return dutch.KindPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return dutch.KindDeviceMissing
	case errors.Is(err, syscall.EBUSY) || strings.Contains(err.Error(), "busy"):
		return dutch.KindDeviceBusy
	default:
		return dutch.KindDeviceMissing
	}
}

func wrapOpen(err error) error {
	return services.Wrap(services.ErrDeviceAccess, "capture", "open-device", string(OpenKind(err)), err)
}
