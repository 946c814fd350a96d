package heap

import (
	"sync"

	"able/heap10-go/pkg/runtime"
)

// Handle is the evaluator-facing capability over one heap object. Each
// live handle contributes exactly one unit to its target's count;
// disposing it gives that unit back. Handles never delete anything
// themselves: physical removal happens only inside Collect.
type Handle struct {
	store *Store
	id    runtime.ObjID

	mu       sync.Mutex
	disposed bool
}

// Allocate stores a payload and returns a handle to it. The returned
// handle owns the object's initial count unit.
func (s *Store) Allocate(payload runtime.Value) (*Handle, error) {
	id, err := s.Insert(payload)
	if err != nil {
		return nil, err
	}
	return &Handle{store: s, id: id}, nil
}

// ID returns the id this handle is bound to. The id stays meaningful
// after disposal; it just no longer pins the object.
func (h *Handle) ID() runtime.ObjID {
	return h.id
}

// Ref returns the payload-embeddable reference to this handle's
// object, for wiring objects to each other through Set.
func (h *Handle) Ref() runtime.RefValue {
	return runtime.RefValue{Target: h.id}
}

// Get returns a deep clone of the current payload, so the caller can
// mutate the result freely before handing it back through Set.
func (h *Handle) Get() (runtime.Value, error) {
	if err := h.live(); err != nil {
		return nil, err
	}
	payload, err := h.store.Get(h.id)
	if err != nil {
		return nil, err
	}
	return runtime.CloneValue(payload), nil
}

// Set replaces the payload and re-points the object's outgoing edges
// at whatever ids the new payload embeds, nested composites included.
func (h *Handle) Set(payload runtime.Value) error {
	if err := h.live(); err != nil {
		return err
	}
	return h.store.Update(h.id, payload)
}

// Clone mints an independent handle to the same object, adding one
// unit to its count. Each clone is disposed separately.
func (h *Handle) Clone() (*Handle, error) {
	if err := h.live(); err != nil {
		return nil, err
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	obj, ok := h.store.objects[h.id]
	if !ok {
		return nil, notFound(h.id)
	}
	obj.refCount++
	return &Handle{store: h.store, id: h.id}, nil
}

// Dispose releases this handle's count unit. Safe to call more than
// once; only the first call decrements. The object itself stays in the
// store until the next Collect.
func (h *Handle) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.mu.Unlock()

	h.store.mu.Lock()
	h.store.decRefLocked(h.id)
	h.store.mu.Unlock()
}

func (h *Handle) live() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed {
		return ErrDisposed
	}
	return nil
}
