package testsupport

import (
	"net/http/httptest"
	"testing"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/server"
	"atelier/internal/store"
)

// StartServer wires a store and HTTP server for handler tests and returns the
// httptest server plus the backing store for direct assertions.
func StartServer(t testing.TB, cfg *config.Config) (*httptest.Server, store.Store) {
	t.Helper()

	if cfg == nil {
		cfg = NewConfig(t)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	st := MustOpenStore(t, cfg)
	srv, err := server.New(cfg, st, logging.NewNop(), nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}
