// Package capture implements the recording side of the application: a state
// machine that previews a capture device, records chunked media, lets the
// operator tag moments while recording, and uploads the finished blob to the
// daemon. The device layer sits behind the Source interface so tests and
// alternative backends can supply their own streams.
package capture
