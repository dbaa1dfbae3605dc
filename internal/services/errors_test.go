package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"atelier/internal/services"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrValidation, "api", "create child", "bad payload", base)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "capture", "upload", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.Wrap(services.ErrValidation, "api", "", "", nil), http.StatusBadRequest},
		{"unsupported media", services.Wrap(services.ErrUnsupportedMedia, "api", "", "", nil), http.StatusBadRequest},
		{"not found", services.Wrap(services.ErrNotFound, "api", "", "", nil), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestContextRoundTrips(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "req-1")
	ctx = services.WithSessionID(ctx, 7)
	ctx = services.WithRecordingID(ctx, 9)

	if id, ok := services.RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("request id: got %q, %v", id, ok)
	}
	if id, ok := services.SessionIDFromContext(ctx); !ok || id != 7 {
		t.Fatalf("session id: got %d, %v", id, ok)
	}
	if id, ok := services.RecordingIDFromContext(ctx); !ok || id != 9 {
		t.Fatalf("recording id: got %d, %v", id, ok)
	}
}
