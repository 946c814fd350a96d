package heap

import (
	"errors"
	"fmt"

	"able/heap10-go/pkg/runtime"
)

// ErrNotFound reports an operation against an id that is absent from
// the store. Under handle discipline this is defensive only: objects
// are removed solely inside Collect, never while a live handle still
// points at them.
var ErrNotFound = errors.New("heap object not found")

func notFound(id runtime.ObjID) error {
	return fmt.Errorf("object %d: %w", id, ErrNotFound)
}

// ErrDisposed reports use of a handle after it has been disposed.
var ErrDisposed = errors.New("handle already disposed")
