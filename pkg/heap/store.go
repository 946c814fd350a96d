package heap

import (
	"sync"

	"able/heap10-go/pkg/runtime"
)

// Store is the authoritative table of heap objects for one interpreter
// instance. Every public operation takes the store mutex for its whole
// duration, so callers never observe a partially-updated record. The
// store is safe for use from multiple interpreter workers.
type Store struct {
	mu         sync.Mutex
	objects    map[runtime.ObjID]*object
	candidates map[runtime.ObjID]struct{}
	nextID     runtime.ObjID
	stats      Stats
}

// NewStore creates an empty heap. One store is owned per interpreter
// session; there is no process-wide instance.
func NewStore() *Store {
	return &Store{
		objects:    make(map[runtime.ObjID]*object),
		candidates: make(map[runtime.ObjID]struct{}),
		nextID:     1,
	}
}

// Insert adds a payload to the store and returns its id. Ids come from
// a monotonic counter and are never reused, even after removal; a
// counter derived from live-object arithmetic would hand a freed id to
// a new object while stale references still point at the old one.
//
// The new object starts with refCount 1, accounting for the handle the
// caller is about to hold. Ids embedded in the payload become outgoing
// edges immediately, so the count invariants hold from birth; an edge
// to an absent id fails with ErrNotFound before anything is mutated.
func (s *Store) Insert(payload runtime.Value) (runtime.ObjID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := runtime.CollectRefs(payload)
	for target := range refs {
		if _, ok := s.objects[target]; !ok {
			return 0, notFound(target)
		}
	}

	id := s.nextID
	s.nextID++
	s.objects[id] = &object{
		id:       id,
		payload:  payload,
		outgoing: refs,
		refCount: 1,
	}
	if runtime.IsComposite(payload) {
		s.candidates[id] = struct{}{}
	}
	for target := range refs {
		s.objects[target].refCount++
	}
	s.stats.Allocations++
	return id, nil
}

// Get returns the payload stored under id, or ErrNotFound.
func (s *Store) Get(id runtime.ObjID) (runtime.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return nil, notFound(id)
	}
	return obj.payload, nil
}

// Remove deletes an object outright, releasing its outgoing edges.
// Collect is the normal path to removal; Remove exists for the
// evaluator's teardown paths and fails with ErrNotFound when the id is
// already gone.
func (s *Store) Remove(id runtime.ObjID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	s.removeLocked(obj)
	return nil
}

// Update replaces an object's payload and re-derives its outgoing edge
// set in one critical section, so a concurrent Collect never observes
// the new payload with the old counts or vice versa.
func (s *Store) Update(id runtime.ObjID, payload runtime.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	if err := s.applyOutgoingLocked(obj, runtime.CollectRefs(payload)); err != nil {
		return err
	}
	obj.payload = payload
	if runtime.IsComposite(payload) {
		s.candidates[id] = struct{}{}
	} else {
		delete(s.candidates, id)
	}
	return nil
}

// UpdateReferences replaces id's outgoing edge set with newOutgoing and
// adjusts neighbour counts: targets dropped from the set are
// decremented, targets added are incremented. Self-edges are counted
// like any other edge. The diff and both count passes run under one
// lock acquisition; splitting them would let a concurrent Collect see
// a transiently inconsistent count.
func (s *Store) UpdateReferences(id runtime.ObjID, newOutgoing map[runtime.ObjID]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return notFound(id)
	}
	return s.applyOutgoingLocked(obj, newOutgoing)
}

func (s *Store) applyOutgoingLocked(obj *object, newOutgoing map[runtime.ObjID]struct{}) error {
	for target := range newOutgoing {
		if _, ok := s.objects[target]; !ok {
			return notFound(target)
		}
	}
	old := obj.outgoing
	obj.outgoing = newOutgoing
	for target := range old {
		if _, kept := newOutgoing[target]; !kept {
			s.decRefLocked(target)
		}
	}
	for target := range newOutgoing {
		if _, had := old[target]; !had {
			s.objects[target].refCount++
		}
	}
	return nil
}

// removeLocked drops an object and releases its outgoing references
// (cascading release). Neighbour deletion is left to the collector;
// only counts move here.
func (s *Store) removeLocked(obj *object) {
	delete(s.objects, obj.id)
	delete(s.candidates, obj.id)
	s.stats.Deallocations++
	for target := range obj.outgoing {
		s.decRefLocked(target)
	}
}

// decRefLocked decrements saturating at zero and tolerates neighbours
// that are already gone.
func (s *Store) decRefLocked(id runtime.ObjID) {
	if obj, ok := s.objects[id]; ok && obj.refCount > 0 {
		obj.refCount--
	}
}

// Len reports the number of live objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Contains reports whether id is currently present.
func (s *Store) Contains(id runtime.ObjID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[id]
	return ok
}

// RefCount exposes an object's current count for diagnostics and tests.
func (s *Store) RefCount(id runtime.ObjID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return 0, notFound(id)
	}
	return obj.refCount, nil
}
