package heap

import "able/heap10-go/pkg/runtime"

// Scope collects the handles acquired while a call frame runs and
// releases them together when the frame is popped. It stands in for
// scope-exit disposal in evaluators that have no destructor hook:
// allocate through the scope, Close it on every exit path.
type Scope struct {
	store   *Store
	parent  *Scope
	handles []*Handle
}

// NewScope creates a scope over a store, optionally nested under a
// parent frame's scope.
func NewScope(store *Store, parent *Scope) *Scope {
	return &Scope{store: store, parent: parent}
}

// Parent exposes the enclosing frame's scope (nil at the outermost).
func (sc *Scope) Parent() *Scope {
	return sc.parent
}

// Extend opens a child scope for a nested frame.
func (sc *Scope) Extend() *Scope {
	return NewScope(sc.store, sc)
}

// Allocate stores a payload and tracks the resulting handle for
// disposal at Close.
func (sc *Scope) Allocate(payload runtime.Value) (*Handle, error) {
	h, err := sc.store.Allocate(payload)
	if err != nil {
		return nil, err
	}
	sc.handles = append(sc.handles, h)
	return h, nil
}

// Track adopts an existing handle into this scope and returns it.
func (sc *Scope) Track(h *Handle) *Handle {
	sc.handles = append(sc.handles, h)
	return h
}

// Close disposes every tracked handle, most recent first. Closing a
// scope does not touch its parent.
func (sc *Scope) Close() {
	for i := len(sc.handles) - 1; i >= 0; i-- {
		sc.handles[i].Dispose()
	}
	sc.handles = nil
}
