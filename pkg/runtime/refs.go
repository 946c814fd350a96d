package runtime

// ObjID names one heap object. Ids are issued by the heap store from a
// monotonic counter and are never reused within a process lifetime.
type ObjID uint64

// RefValue is the reserved value variant that embeds a heap id inside a
// payload. It is the only way a value can point at another heap object;
// everything else nests by copy.
type RefValue struct {
	Target ObjID
}

func (v RefValue) Kind() Kind { return KindRef }

// IsComposite reports whether a value's kind can hold references and
// therefore belongs in the cycle-candidate registry.
func IsComposite(v Value) bool {
	switch v.Kind() {
	case KindArray, KindStructInstance:
		return true
	default:
		return false
	}
}

// CollectRefs extracts every heap id embedded in a payload, walking
// nested composites recursively. The result is a set: an id referenced
// from several fields appears once.
func CollectRefs(v Value) map[ObjID]struct{} {
	out := make(map[ObjID]struct{})
	collectRefs(v, out)
	return out
}

func collectRefs(v Value, out map[ObjID]struct{}) {
	switch val := v.(type) {
	case RefValue:
		out[val.Target] = struct{}{}
	case *ArrayValue:
		for _, e := range val.Elements {
			collectRefs(e, out)
		}
	case *StructInstanceValue:
		for _, field := range val.Fields {
			collectRefs(field, out)
		}
		for _, field := range val.Positional {
			collectRefs(field, out)
		}
	}
}
