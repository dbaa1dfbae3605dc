// Package services defines the shared error taxonomy and context helpers used
// across the API, store, and capture layers.
//
// Errors are classified by wrapping one of the exported sentinels; HTTPStatus
// turns a classified error into a response code without the handler inspecting
// error strings.
package services
