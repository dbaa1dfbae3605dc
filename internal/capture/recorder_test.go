package capture_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strings"
	"sync"
	"testing"
	"time"

	"atelier/internal/capture"
	"atelier/internal/config"
	"atelier/internal/dutch"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/testsupport"
)

type fakeStream struct {
	mu         sync.Mutex
	reads      int
	frameErr   error
	frameDelay time.Duration
	closed     bool
}

func (s *fakeStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	chunk := fmt.Sprintf("chunk-%d;", s.reads)
	return copy(p, chunk), nil
}

func (s *fakeStream) Frame() (image.Image, error) {
	s.mu.Lock()
	err := s.frameErr
	delay := s.frameDelay
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	return img, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type fakeSource struct {
	mu      sync.Mutex
	openErr error
	streams []*fakeStream
	modes   []capture.Mode
}

func (s *fakeSource) Open(ctx context.Context, mode capture.Mode) (capture.Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	stream := &fakeStream{}
	s.streams = append(s.streams, stream)
	s.modes = append(s.modes, mode)
	return stream, nil
}

type stepClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

type captureSink struct {
	mu      sync.Mutex
	fail    bool
	results []capture.Result
	tags    [][]capture.Tag
}

func (s *captureSink) finalize(ctx context.Context, result capture.Result, tags []capture.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("daemon unreachable")
	}
	s.results = append(s.results, result)
	s.tags = append(s.tags, tags)
	return nil
}

func (s *captureSink) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *captureSink) lastTags(t *testing.T) []capture.Tag {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tags) == 0 {
		t.Fatal("no finalized capture")
	}
	return s.tags[len(s.tags)-1]
}

func newRecorder(t *testing.T, source capture.Source, sink *captureSink, opts ...capture.Option) (*capture.Recorder, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Capture.ChunkIntervalMS = 10
	rec := capture.NewRecorder(cfg, source, sink.finalize, logging.NewNop(), opts...)
	t.Cleanup(func() {
		_ = rec.Close()
	})
	return rec, cfg
}

func TestPreviewOpenErrorKeepsIdle(t *testing.T) {
	source := &fakeSource{openErr: fs.ErrPermission}
	rec, _ := newRecorder(t, source, &captureSink{})

	err := rec.Preview(context.Background())
	if err == nil {
		t.Fatal("expected open error")
	}
	if !errors.Is(err, services.ErrDeviceAccess) {
		t.Fatalf("expected device access classification, got %v", err)
	}
	if kind := capture.OpenKind(fs.ErrPermission); kind != dutch.KindPermissionDenied {
		t.Fatalf("expected permission kind, got %s", kind)
	}
	if rec.State() != capture.StateIdle {
		t.Fatalf("expected idle state, got %s", rec.State())
	}
}

func TestSetModeReleasesPreviousStream(t *testing.T) {
	source := &fakeSource{}
	rec, _ := newRecorder(t, source, &captureSink{})
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.SetMode(ctx, store.MediaAudio); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if len(source.streams) != 2 {
		t.Fatalf("expected second stream opened, got %d", len(source.streams))
	}
	if !source.streams[0].isClosed() {
		t.Fatal("expected first stream closed before reacquisition")
	}
	if source.modes[1] != store.MediaAudio {
		t.Fatalf("expected audio mode open, got %s", source.modes[1])
	}
	if rec.State() != capture.StatePreviewing {
		t.Fatalf("expected previewing, got %s", rec.State())
	}
}

func TestSetModeRejectedWhileRecording(t *testing.T) {
	source := &fakeSource{}
	rec, _ := newRecorder(t, source, &captureSink{})
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := rec.SetMode(ctx, store.MediaAudio); err == nil {
		t.Fatal("expected mode change rejection while recording")
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
}

func TestTagsDistinctWithMonotonicTimestamps(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	clock := &stepClock{at: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	rec, _ := newRecorder(t, source, sink, capture.WithClock(clock.Now))
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 7); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	steps := []time.Duration{0, 0, time.Second, 500 * time.Millisecond, 3 * time.Second}
	for i, step := range steps {
		clock.Advance(step)
		if _, err := rec.Tag(fmt.Sprintf("moment %d", i)); err != nil {
			t.Fatalf("Tag %d failed: %v", i, err)
		}
	}

	tags := rec.Tags()
	if len(tags) != len(steps) {
		t.Fatalf("expected %d tags, got %d", len(steps), len(tags))
	}
	seen := make(map[string]struct{})
	for i, tag := range tags {
		if _, dup := seen[tag.ID]; dup {
			t.Fatalf("duplicate tag id %s", tag.ID)
		}
		seen[tag.ID] = struct{}{}
		if i > 0 {
			if tag.Timestamp < tags[i-1].Timestamp {
				t.Fatalf("timestamps decreased: %d after %d", tag.Timestamp, tags[i-1].Timestamp)
			}
			if !tag.CreatedAt.After(tags[i-1].CreatedAt) {
				t.Fatalf("createdAt not strictly increasing at index %d", i)
			}
		}
	}
	if tags[2].Timestamp != 1 || tags[4].Timestamp != 4 {
		t.Fatalf("unexpected elapsed seconds: %d, %d", tags[2].Timestamp, tags[4].Timestamp)
	}

	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
}

func TestStopTwiceRejectsSecondCall(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 2); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	// The drain may still be running, so the state can read as recording
	// here. A second stop must be refused, not signalled again.
	if err := rec.Stop(); err == nil {
		t.Fatal("expected second stop rejection")
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
	sink.mu.Lock()
	finalized := len(sink.results)
	sink.mu.Unlock()
	if finalized != 1 {
		t.Fatalf("expected single finalized capture, got %d", finalized)
	}
}

func TestConcurrentTagsStoredInCreatedAtOrder(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// Slow frame grabs let taggers overtake each other between reserving a
	// timestamp and storing the tag.
	stream := source.streams[0]
	stream.mu.Lock()
	stream.frameDelay = 2 * time.Millisecond
	stream.mu.Unlock()
	if err := rec.Start(ctx, 4); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := rec.Tag(fmt.Sprintf("tegelijk %d", i)); err != nil {
				t.Errorf("Tag %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	tags := rec.Tags()
	if len(tags) != 24 {
		t.Fatalf("expected 24 tags, got %d", len(tags))
	}
	for i := 1; i < len(tags); i++ {
		if !tags[i].CreatedAt.After(tags[i-1].CreatedAt) {
			t.Fatalf("createdAt not strictly increasing at index %d", i)
		}
		if tags[i].Timestamp < tags[i-1].Timestamp {
			t.Fatalf("timestamps decreased at index %d", i)
		}
	}

	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
}

func TestStopTickTagIncludedInUpload(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 3); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := rec.Tag("vlak voor stop"); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}

	tags := sink.lastTags(t)
	if len(tags) != 1 || tags[0].Note != "vlak voor stop" {
		t.Fatalf("tag dropped from upload: %#v", tags)
	}
	sink.mu.Lock()
	result := sink.results[len(sink.results)-1]
	sink.mu.Unlock()
	if result.SessionID != 3 {
		t.Fatalf("unexpected session id %d", result.SessionID)
	}
	if !strings.Contains(string(result.Blob), "chunk-") {
		t.Fatalf("expected drained chunk bytes in blob, got %q", result.Blob)
	}
	if rec.State() != capture.StatePreviewing {
		t.Fatalf("expected previewing after upload, got %s", rec.State())
	}
}

func TestRetryAfterFailedUpload(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{fail: true}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 5); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := rec.Tag("bewaren"); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); !errors.Is(err, services.ErrUpload) {
		t.Fatalf("expected upload failure, got %v", err)
	}
	if len(rec.Tags()) != 1 {
		t.Fatal("expected tags retained after failed upload")
	}

	sink.setFail(false)
	if err := rec.Retry(ctx); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	tags := sink.lastTags(t)
	if len(tags) != 1 || tags[0].Note != "bewaren" {
		t.Fatalf("retained tags not re-uploaded: %#v", tags)
	}
	if rec.Err() != nil {
		t.Fatalf("expected cleared error, got %v", rec.Err())
	}
	if err := rec.Retry(ctx); err == nil {
		t.Fatal("expected error retrying with nothing pending")
	}
}

func TestVideoTagCarriesScreenshot(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	tag, err := rec.Tag("met beeld")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if !strings.HasPrefix(tag.Screenshot, "data:image/jpeg;base64,") {
		t.Fatalf("expected JPEG screenshot, got %q", tag.Screenshot)
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
}

func TestAudioTagSkipsScreenshot(t *testing.T) {
	source := &fakeSource{}
	sink := &captureSink{}
	rec, _ := newRecorder(t, source, sink)
	ctx := context.Background()

	if err := rec.SetMode(ctx, store.MediaAudio); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if err := rec.Preview(ctx); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := rec.Start(ctx, 1); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	tag, err := rec.Tag("alleen audio")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if tag.Screenshot != "" {
		t.Fatalf("expected no screenshot in audio mode, got %q", tag.Screenshot)
	}
	if err := rec.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := rec.WaitUpload(ctx); err != nil {
		t.Fatalf("WaitUpload failed: %v", err)
	}
}
