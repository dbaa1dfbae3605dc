package dutch

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Kind identifies a user-facing condition independently of its wording.
// Handlers and the capture component reference kinds; the catalog below owns
// the actual Dutch strings shown to users.
type Kind string

const (
	KindInvalidPayload      Kind = "invalid_payload"
	KindChildNotFound       Kind = "child_not_found"
	KindWorkshopNotFound    Kind = "workshop_not_found"
	KindSessionNotFound     Kind = "session_not_found"
	KindObservationNotFound Kind = "observation_not_found"
	KindRecordingNotFound   Kind = "recording_not_found"
	KindMomentNotFound      Kind = "moment_not_found"
	KindNoFile              Kind = "no_file"
	KindBadMediaType        Kind = "bad_media_type"
	KindUploadFailed        Kind = "upload_failed"
	KindInternal            Kind = "internal"
	KindPermissionDenied    Kind = "permission_denied"
	KindDeviceMissing       Kind = "device_missing"
	KindDeviceBusy          Kind = "device_busy"
	KindRecordingSaved      Kind = "recording_saved"
)

var translations = map[Kind]string{
	KindInvalidPayload:      "Ongeldige gegevens",
	KindChildNotFound:       "Kind niet gevonden",
	KindWorkshopNotFound:    "Workshop niet gevonden",
	KindSessionNotFound:     "Sessie niet gevonden",
	KindObservationNotFound: "Observatie niet gevonden",
	KindRecordingNotFound:   "Opname niet gevonden",
	KindMomentNotFound:      "Gemarkeerd moment niet gevonden",
	KindNoFile:              "Geen bestand ontvangen",
	KindBadMediaType:        "Ongeldig bestandstype",
	KindUploadFailed:        "Er is een fout opgetreden bij het opslaan van de opname",
	KindInternal:            "Er is een interne fout opgetreden",
	KindPermissionDenied:    "Toegang tot camera of microfoon geweigerd",
	KindDeviceMissing:       "Geen camera of microfoon gevonden",
	KindDeviceBusy:          "Camera of microfoon is al in gebruik",
	KindRecordingSaved:      "De opname is succesvol opgeslagen",
}

var printer = newPrinter()

func newPrinter() *message.Printer {
	builder := catalog.NewBuilder(catalog.Fallback(language.Dutch))
	for kind, text := range translations {
		if err := builder.SetString(language.Dutch, string(kind), text); err != nil {
			panic(err)
		}
	}
	return message.NewPrinter(language.Dutch, message.Catalog(builder))
}

// Message returns the Dutch text for a kind. Unknown kinds fall back to the
// internal-error message so callers never render a raw kind string.
func Message(kind Kind) string {
	if _, ok := translations[kind]; !ok {
		kind = KindInternal
	}
	return printer.Sprintf(string(kind))
}

// Known reports whether the kind has a catalog entry.
func Known(kind Kind) bool {
	_, ok := translations[kind]
	return ok
}
