package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

// Result describes one finished capture handed to the finalize callback.
type Result struct {
	SessionID int64
	Mode      Mode
	StartedAt time.Time
	EndedAt   time.Time
	Blob      []byte
}

// FinalizeFunc delivers a finished capture, typically by uploading it. The
// tags argument is read from the recorder's live tag list at call time, so
// tags added up to the moment of finalize are always included.
type FinalizeFunc func(ctx context.Context, result Result, tags []Tag) error

// Option customizes a Recorder.
type Option func(*Recorder)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// Recorder is the capture state machine. All exported methods are safe for
// concurrent use.
type Recorder struct {
	source       Source
	finalize     FinalizeFunc
	logger       *slog.Logger
	interval     time.Duration
	frameQuality int
	now          func() time.Time

	mu        sync.Mutex
	state     State
	mode      Mode
	stream    Stream
	sessionID int64
	startedAt time.Time
	chunks    [][]byte
	tags      []Tag
	lastTagAt time.Time
	pending   *Result
	lastErr   error
	stopCh    chan struct{}
	uploaded  chan struct{}
}

// NewRecorder builds a recorder around a device source and finalize callback.
func NewRecorder(cfg *config.Config, source Source, finalize FinalizeFunc, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		source:       source,
		finalize:     finalize,
		logger:       logging.NewComponentLogger(logger, "capture"),
		interval:     cfg.ChunkInterval(),
		frameQuality: cfg.Capture.FrameQuality,
		now:          time.Now,
		state:        StateIdle,
		mode:         store.MediaVideo,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Mode returns the selected capture mode.
func (r *Recorder) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Tags returns a copy of the tags marked in the current capture.
func (r *Recorder) Tags() []Tag {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Err returns the failure of the most recent upload attempt, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Elapsed reports time since recording started, zero outside a recording.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return 0
	}
	return r.now().Sub(r.startedAt)
}

// Preview acquires the device stream. On failure the state stays idle and the
// error is classified for user display.
func (r *Recorder) Preview(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return fmt.Errorf("preview not allowed in state %s", r.state)
	}
	mode := r.mode
	r.mu.Unlock()

	stream, err := r.source.Open(ctx, mode)
	if err != nil {
		return wrapOpen(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		_ = stream.Close()
		return fmt.Errorf("preview not allowed in state %s", r.state)
	}
	r.stream = stream
	r.state = StatePreviewing
	return nil
}

// SetMode switches between audio and video capture. The current stream is
// closed before a replacement is opened so device handles never leak. Mode
// changes are rejected during recording and upload.
func (r *Recorder) SetMode(ctx context.Context, mode Mode) error {
	r.mu.Lock()
	if r.state == StateRecording || r.state == StateUploading {
		r.mu.Unlock()
		return fmt.Errorf("mode change not allowed in state %s", r.state)
	}
	if r.mode == mode {
		r.mu.Unlock()
		return nil
	}
	previewing := r.state == StatePreviewing
	stream := r.stream
	r.stream = nil
	r.mode = mode
	if previewing {
		r.state = StateIdle
	}
	r.mu.Unlock()

	if stream != nil {
		if err := stream.Close(); err != nil {
			r.logger.Warn("failed to close stream on mode switch", logging.Error(err))
		}
	}
	if previewing {
		return r.Preview(ctx)
	}
	return nil
}

// Start begins recording for a session. Tags and chunks from any previous
// capture are discarded.
func (r *Recorder) Start(ctx context.Context, sessionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePreviewing {
		return fmt.Errorf("start not allowed in state %s", r.state)
	}
	r.sessionID = sessionID
	r.startedAt = r.now()
	r.chunks = nil
	r.tags = nil
	r.lastTagAt = time.Time{}
	r.pending = nil
	r.lastErr = nil
	r.stopCh = make(chan struct{})
	r.uploaded = make(chan struct{})
	r.state = StateRecording

	go r.chunkLoop(ctx, r.stream, r.stopCh)
	r.logger.Info("recording started",
		logging.Int64(logging.FieldSessionID, sessionID),
		logging.String("mode", string(r.mode)))
	return nil
}

// Tag marks the current moment. Valid only while recording. In video mode a
// frame is grabbed synchronously from the live stream; frame failures degrade
// to a tag without screenshot.
func (r *Recorder) Tag(note string) (*Tag, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil, fmt.Errorf("tag not allowed in state %s", r.state)
	}
	stream := r.stream
	mode := r.mode
	now := r.now()
	if !now.After(r.lastTagAt) {
		now = r.lastTagAt.Add(time.Nanosecond)
	}
	r.lastTagAt = now
	elapsed := int64(now.Sub(r.startedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	r.mu.Unlock()

	tag := Tag{
		ID:        uuid.NewString(),
		Timestamp: elapsed,
		CreatedAt: now,
		Note:      note,
	}
	if mode == store.MediaVideo && stream != nil {
		frame, err := stream.Frame()
		if err != nil {
			r.logger.Warn("frame grab failed", logging.Error(err))
		} else if frame != nil {
			screenshot, err := encodeFrame(frame, r.frameQuality)
			if err != nil {
				r.logger.Warn("frame encode failed", logging.Error(err))
			} else {
				tag.Screenshot = screenshot
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return nil, fmt.Errorf("tag not allowed in state %s", r.state)
	}
	// The frame grab runs unlocked, so a concurrent tag with a later
	// CreatedAt can get here first. Insert at the slot the reserved
	// timestamp dictates to keep the list in CreatedAt order.
	i := len(r.tags)
	for i > 0 && r.tags[i-1].CreatedAt.After(tag.CreatedAt) {
		i--
	}
	r.tags = append(r.tags, Tag{})
	copy(r.tags[i+1:], r.tags[i:])
	r.tags[i] = tag
	return &tag, nil
}

// Stop signals the chunk loop to drain and finalize. It returns immediately;
// the upload runs asynchronously. Use WaitUpload to observe the outcome. The
// state stays recording until the drain completes, so a second Stop in that
// window is rejected rather than signalled twice.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording || r.stopCh == nil {
		return fmt.Errorf("stop not allowed in state %s", r.state)
	}
	close(r.stopCh)
	r.stopCh = nil
	return nil
}

// WaitUpload blocks until the in-flight upload settles and returns its error.
func (r *Recorder) WaitUpload(ctx context.Context) error {
	r.mu.Lock()
	done := r.uploaded
	r.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Retry re-attempts the upload of a failed capture. The blob and the tag list
// are the ones retained from the failed attempt.
func (r *Recorder) Retry(ctx context.Context) error {
	r.mu.Lock()
	if r.pending == nil {
		r.mu.Unlock()
		return errors.New("no failed upload to retry")
	}
	if r.state == StateRecording || r.state == StateUploading {
		r.mu.Unlock()
		return fmt.Errorf("retry not allowed in state %s", r.state)
	}
	result := *r.pending
	r.state = StateUploading
	r.uploaded = make(chan struct{})
	r.mu.Unlock()

	r.runFinalize(ctx, result)
	return r.WaitUpload(ctx)
}

// Close releases the stream and returns the recorder to idle, whatever the
// current state.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
	stream := r.stream
	r.stream = nil
	r.state = StateIdle
	r.mu.Unlock()

	if stream != nil {
		return stream.Close()
	}
	return nil
}

func (r *Recorder) chunkLoop(ctx context.Context, stream Stream, stopCh <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	buf := make([]byte, 64*1024)

	for {
		select {
		case <-ticker.C:
			r.readChunk(stream, buf)
		case <-stopCh:
			// Final drain so bytes produced since the last tick make the blob.
			r.readChunk(stream, buf)
			r.finishRecording(ctx)
			return
		case <-ctx.Done():
			r.finishRecording(ctx)
			return
		}
	}
}

func (r *Recorder) readChunk(stream Stream, buf []byte) {
	n, err := stream.Read(buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		r.mu.Lock()
		r.chunks = append(r.chunks, chunk)
		r.mu.Unlock()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		r.logger.Warn("stream read failed", logging.Error(err))
	}
}

func (r *Recorder) finishRecording(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return
	}
	result := Result{
		SessionID: r.sessionID,
		Mode:      r.mode,
		StartedAt: r.startedAt,
		EndedAt:   r.now(),
		Blob:      bytes.Join(r.chunks, nil),
	}
	r.state = StateUploading
	r.mu.Unlock()

	go r.runFinalize(ctx, result)
}

// runFinalize reads the tag list from the recorder's own field at call time
// rather than a snapshot taken at Stop, so tags landing in the stop tick are
// never dropped.
func (r *Recorder) runFinalize(ctx context.Context, result Result) {
	r.mu.Lock()
	tags := make([]Tag, len(r.tags))
	copy(tags, r.tags)
	done := r.uploaded
	r.mu.Unlock()

	err := r.finalize(ctx, result, tags)

	r.mu.Lock()
	if err != nil {
		r.pending = &result
		r.lastErr = services.Wrap(services.ErrUpload, "capture", "finalize", "upload failed", err)
		r.logger.Warn("upload failed, capture retained",
			logging.Int64(logging.FieldSessionID, result.SessionID),
			logging.Error(err))
	} else {
		r.pending = nil
		r.lastErr = nil
		r.tags = nil
		r.chunks = nil
		r.logger.Info("capture uploaded",
			logging.Int64(logging.FieldSessionID, result.SessionID),
			logging.Int("bytes", len(result.Blob)),
			logging.Int("tags", len(tags)))
	}
	if r.stream != nil {
		r.state = StatePreviewing
	} else {
		r.state = StateIdle
	}
	r.mu.Unlock()

	if done != nil {
		close(done)
	}
}
