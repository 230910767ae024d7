// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package store

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *SavedQueryStore {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSavedQueryStore_CRUD(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create("eligible", "SELECT ?s WHERE { ?s ?p ?o }")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("Create did not assign an ID")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("timestamps = %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "eligible" || got.Query != created.Query {
		t.Errorf("Get = %+v", got)
	}

	updated, err := s.Update(created.ID, "eligible courses", "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "eligible courses" {
		t.Errorf("Name = %q", updated.Name)
	}
	if updated.Query != created.Query {
		t.Error("empty query overwrote stored query")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Errorf("UpdatedAt = %v before CreatedAt = %v", updated.UpdatedAt, updated.CreatedAt)
	}

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double Delete = %v, want ErrNotFound", err)
	}
}

func TestSavedQueryStore_ListSorted(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := s.Create(name, "SELECT * WHERE { ?s ?p ?o }"); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List = %d entries, want 3", len(list))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, sq := range list {
		if sq.Name != want[i] {
			t.Errorf("List[%d] = %q, want %q", i, sq.Name, want[i])
		}
	}
}

func TestSavedQueryStore_Validation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Create("", "SELECT * WHERE { ?s ?p ?o }"); err == nil {
		t.Error("Create with empty name succeeded")
	}
	if _, err := s.Create("x", "   "); err == nil {
		t.Error("Create with blank query succeeded")
	}
	if _, err := s.Update("no-such-id", "n", "q"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing = %v, want ErrNotFound", err)
	}
}
