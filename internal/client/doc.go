// Package client is the typed HTTP client used by the CLI to talk to a
// running daemon. It decodes the Dutch error messages the API returns and
// keeps a small per-session cache of recording lists that uploads invalidate.
package client
