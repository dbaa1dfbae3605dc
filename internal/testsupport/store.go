package testsupport

import (
	"context"
	"testing"

	"atelier/internal/config"
	"atelier/internal/store"
)

// MustOpenStore opens the configured store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewChild creates a child record for tests using the provided store.
func NewChild(t testing.TB, st store.Store, name, dateOfBirth string) *store.Child {
	t.Helper()

	child, err := st.CreateChild(context.Background(), store.Child{Name: name, DateOfBirth: dateOfBirth})
	if err != nil {
		t.Fatalf("store.CreateChild: %v", err)
	}
	return child
}

// NewSessionChain creates a workshop and one session under it, returning both.
func NewSessionChain(t testing.TB, st store.Store, title, date string) (*store.Workshop, *store.Session) {
	t.Helper()

	ctx := context.Background()
	workshop, err := st.CreateWorkshop(ctx, store.Workshop{Title: title, Description: title + " beschrijving"})
	if err != nil {
		t.Fatalf("store.CreateWorkshop: %v", err)
	}
	session, err := st.CreateSession(ctx, store.Session{WorkshopID: workshop.ID, Date: date})
	if err != nil {
		t.Fatalf("store.CreateSession: %v", err)
	}
	return workshop, session
}
