package dutch_test

import (
	"testing"

	"atelier/internal/dutch"
)

func TestMessageLookup(t *testing.T) {
	cases := []struct {
		kind dutch.Kind
		want string
	}{
		{dutch.KindInvalidPayload, "Ongeldige gegevens"},
		{dutch.KindWorkshopNotFound, "Workshop niet gevonden"},
		{dutch.KindMomentNotFound, "Gemarkeerd moment niet gevonden"},
		{dutch.KindUploadFailed, "Er is een fout opgetreden bij het opslaan van de opname"},
	}
	for _, tc := range cases {
		if got := dutch.Message(tc.kind); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.kind, tc.want, got)
		}
	}
}

func TestUnknownKindFallsBackToInternal(t *testing.T) {
	if dutch.Known("nope") {
		t.Fatal("expected kind to be unknown")
	}
	if got := dutch.Message("nope"); got != dutch.Message(dutch.KindInternal) {
		t.Fatalf("expected internal fallback, got %q", got)
	}
}
