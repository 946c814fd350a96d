package heap

import (
	"errors"
	"testing"

	"able/heap10-go/pkg/runtime"
)

func str(s string) runtime.Value {
	return runtime.StringValue{Val: s}
}

func structOf(refs ...runtime.ObjID) runtime.Value {
	fields := make(map[string]runtime.Value, len(refs))
	for i, id := range refs {
		fields[fieldName(i)] = runtime.RefValue{Target: id}
	}
	return &runtime.StructInstanceValue{TypeName: "Node", Fields: fields}
}

func fieldName(i int) string {
	return string(rune('a' + i))
}

func mustRefCount(t *testing.T, s *Store, id runtime.ObjID) uint64 {
	t.Helper()
	count, err := s.RefCount(id)
	if err != nil {
		t.Fatalf("RefCount(%d): %v", id, err)
	}
	return count
}

func TestInsertGetRoundTrip(t *testing.T) {
	s := NewStore()
	id, err := s.Insert(str("hello"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	payload, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, ok := payload.(runtime.StringValue)
	if !ok || got.Val != "hello" {
		t.Fatalf("unexpected payload %#v", payload)
	}
	if count := mustRefCount(t, s, id); count != 1 {
		t.Fatalf("fresh object refCount = %d, want 1", count)
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Remove(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Remove, got %v", err)
	}
}

func TestIdsAreNeverReused(t *testing.T) {
	s := NewStore()
	first, err := s.Insert(str("first"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Remove(first); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	second, err := s.Insert(str("second"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if second <= first {
		t.Fatalf("id %d issued after removing %d; ids must stay strictly increasing", second, first)
	}
}

func TestInsertCountsEmbeddedRefs(t *testing.T) {
	s := NewStore()
	target, err := s.Insert(str("target"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	holder, err := s.Insert(structOf(target))
	if err != nil {
		t.Fatalf("Insert holder: %v", err)
	}
	if count := mustRefCount(t, s, target); count != 2 {
		t.Fatalf("target refCount = %d, want 2 (one handle unit, one edge)", count)
	}
	if count := mustRefCount(t, s, holder); count != 1 {
		t.Fatalf("holder refCount = %d, want 1", count)
	}
}

func TestInsertRejectsDanglingRefs(t *testing.T) {
	s := NewStore()
	if _, err := s.Insert(structOf(99)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling edge, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed insert must not leave objects behind, have %d", s.Len())
	}
}

func TestRemoveReleasesOutgoingEdges(t *testing.T) {
	s := NewStore()
	target, err := s.Insert(str("target"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	holder, err := s.Insert(structOf(target))
	if err != nil {
		t.Fatalf("Insert holder: %v", err)
	}
	if err := s.Remove(holder); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if count := mustRefCount(t, s, target); count != 1 {
		t.Fatalf("target refCount = %d after holder removal, want 1", count)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	s := NewStore()
	if err := s.Update(7, str("x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
