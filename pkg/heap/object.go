package heap

import "able/heap10-go/pkg/runtime"

// object is one managed heap record. Every field is guarded by the
// owning Store's mutex; nothing outside the store package sees one.
type object struct {
	id       runtime.ObjID
	payload  runtime.Value
	outgoing map[runtime.ObjID]struct{}
	refCount uint64
	marked   bool
}
