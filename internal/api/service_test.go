package api_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"atelier/internal/api"
	"atelier/internal/services"
	"atelier/internal/store"
	"atelier/internal/testsupport"
)

func newService(t *testing.T) *api.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return api.NewService(testsupport.MustOpenStore(t, cfg))
}

func TestCreateChildValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		payload api.ChildPayload
		valid   bool
	}{
		{"complete", api.ChildPayload{Name: "Noor", DateOfBirth: "2020-01-15"}, true},
		{"missing name", api.ChildPayload{DateOfBirth: "2020-01-15"}, false},
		{"blank name", api.ChildPayload{Name: "   ", DateOfBirth: "2020-01-15"}, false},
		{"missing birth date", api.ChildPayload{Name: "Noor"}, false},
	}
	for _, tc := range cases {
		child, err := svc.CreateChild(ctx, tc.payload)
		if tc.valid {
			if err != nil {
				t.Fatalf("%s: CreateChild failed: %v", tc.name, err)
			}
			if child.ID == 0 {
				t.Fatalf("%s: expected id assigned", tc.name)
			}
			continue
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateObservationRequiresKnownType(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	child, err := svc.CreateChild(ctx, api.ChildPayload{Name: "Jip", DateOfBirth: "2019-11-02"})
	if err != nil {
		t.Fatalf("CreateChild failed: %v", err)
	}

	if _, err := svc.CreateObservation(ctx, api.ObservationPayload{
		ChildID: child.ID,
		Date:    "2026-05-01",
		Type:    "Rekenen",
		Content: "telt tot tien",
	}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}

	obs, err := svc.CreateObservation(ctx, api.ObservationPayload{
		ChildID: child.ID,
		Date:    "2026-05-01",
		Type:    "taal",
		Content: "Vertelde een verhaal",
	})
	if err != nil {
		t.Fatalf("CreateObservation failed: %v", err)
	}
	if obs.Type != store.ObservationLanguage {
		t.Fatalf("expected canonical type label, got %q", obs.Type)
	}
}

func TestPatchWorkshopValidatesStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	workshop, err := svc.CreateWorkshop(ctx, api.WorkshopPayload{Title: "Klei", Description: "Werken met klei"})
	if err != nil {
		t.Fatalf("CreateWorkshop failed: %v", err)
	}

	bogus := store.WorkshopStatus("archived")
	if _, err := svc.PatchWorkshop(ctx, workshop.ID, store.WorkshopPatch{Status: &bogus}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	done := store.WorkshopCompleted
	updated, err := svc.PatchWorkshop(ctx, workshop.ID, store.WorkshopPatch{Status: &done})
	if err != nil {
		t.Fatalf("PatchWorkshop failed: %v", err)
	}
	if updated.Status != store.WorkshopCompleted {
		t.Fatalf("expected completed status, got %s", updated.Status)
	}

	if _, err := svc.PatchWorkshop(ctx, 999, store.WorkshopPatch{Status: &done}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateMomentRequiresTimestamp(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.CreateMoment(ctx, api.MomentPayload{RecordingID: 1}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for nil timestamp, got %v", err)
	}

	zero := int64(0)
	moment, err := svc.CreateMoment(ctx, api.MomentPayload{RecordingID: 1, Timestamp: &zero})
	if err != nil {
		t.Fatalf("CreateMoment failed: %v", err)
	}
	if moment.Timestamp != 0 {
		t.Fatalf("expected timestamp 0, got %d", moment.Timestamp)
	}

	negative := int64(-3)
	if _, err := svc.CreateMoment(ctx, api.MomentPayload{RecordingID: 1, Timestamp: &negative}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for negative timestamp, got %v", err)
	}
}

func TestFinishUploadPersistsRecordingAndTags(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	fields := api.UploadFields{
		SessionID: 1,
		StartTime: "2026-05-01T10:00:00Z",
		EndTime:   "2026-05-01T10:12:00Z",
		MediaType: "video",
		Status:    "completed",
		Tags: []api.TagPayload{
			{ID: "a-uuid", Timestamp: 4, Note: "samenwerking"},
			{ID: "b-uuid", Timestamp: 9},
		},
	}
	recording, moments, err := svc.FinishUpload(ctx, fields, "/uploads/1746093120000-opname.webm")
	if err != nil {
		t.Fatalf("FinishUpload failed: %v", err)
	}
	if recording.Status != store.RecordingCompleted {
		t.Fatalf("expected completed recording, got %s", recording.Status)
	}
	if recording.MediaURL != "/uploads/1746093120000-opname.webm" {
		t.Fatalf("unexpected media url %q", recording.MediaURL)
	}
	if len(moments) != 2 {
		t.Fatalf("expected 2 persisted moments, got %d", len(moments))
	}
	for _, moment := range moments {
		if moment.RecordingID != recording.ID {
			t.Fatalf("moment not linked to recording: %#v", moment)
		}
	}

	stored, err := svc.MomentsForRecording(ctx, recording.ID)
	if err != nil {
		t.Fatalf("MomentsForRecording failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored moments, got %d", len(stored))
	}
}

func TestFinishUploadRejectsBadMediaType(t *testing.T) {
	svc := newService(t)
	fields := api.UploadFields{SessionID: 1, StartTime: "2026-05-01T10:00:00Z", MediaType: "image"}
	if _, _, err := svc.FinishUpload(context.Background(), fields, "/uploads/x.png"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var payload api.ChildPayload
	err := api.Decode(strings.NewReader(`{"name":"Noor","dateOfBirth":"2020-01-15","favorite":"blauw"}`), &payload)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
	if err := api.Decode(strings.NewReader(`{"name":"Noor","dateOfBirth":"2020-01-15"}`), &payload); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
}

func TestParseTags(t *testing.T) {
	tags, err := api.ParseTags(`[{"id":"u1","timestamp":3,"note":"mooi"}]`)
	if err != nil {
		t.Fatalf("ParseTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Timestamp != 3 || tags[0].Note != "mooi" {
		t.Fatalf("unexpected tags: %#v", tags)
	}
	if tags, err := api.ParseTags("  "); err != nil || tags != nil {
		t.Fatalf("expected empty result for blank input, got %#v, %v", tags, err)
	}
	if _, err := api.ParseTags("{not json"); err == nil {
		t.Fatal("expected error for malformed tags")
	}
}
