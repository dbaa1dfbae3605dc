// Package server hosts the HTTP API and uploaded media files, and owns the
// daemon lifecycle around them: single-instance locking, startup, graceful
// shutdown. Handlers translate between HTTP and the api.Service; user-facing
// failure text comes from the dutch catalog.
package server
