// Package api validates inbound payloads and mediates between the HTTP layer
// and the store. Handlers decode into the payload types here and call the
// Service; all required-field and enum checks live in this package so the
// server stays thin.
package api
