package heap

import "able/heap10-go/pkg/runtime"

// Collect reclaims dead objects in two phases: a zero-count sweep run
// to a fixed point, then a mark-sweep over the object graph that
// catches reference cycles ordinary counting cannot free. The whole
// collection holds the store lock, so from the heap's perspective it
// is a stop-the-world pause. Collect is total: it never fails and
// never frees a reachable object.
func (s *Store) Collect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepZeroCountLocked()
	if len(s.candidates) > 0 {
		s.sweepCyclesLocked()
	}
	s.stats.Collections++
}

// sweepZeroCountLocked removes every object whose count has reached
// zero. Each removal releases the object's outgoing edges, which can
// drive further counts to zero, so the sweep repeats until a pass
// removes nothing; an acyclic chain of any length dies in one Collect.
func (s *Store) sweepZeroCountLocked() {
	for {
		var dead []*object
		for _, obj := range s.objects {
			if obj.refCount == 0 {
				dead = append(dead, obj)
			}
		}
		if len(dead) == 0 {
			return
		}
		for _, obj := range dead {
			s.removeLocked(obj)
		}
	}
}

// sweepCyclesLocked marks everything reachable from the roots and
// removes the rest. After the zero-count sweep every survivor has
// refCount > 0, so cycle members cannot be told apart from live
// objects by their raw counts: each keeps the other's count up. The
// roots are instead the objects whose count exceeds their incoming
// edges from inside the heap, i.e. those still held by at least one
// external handle. Anything unreachable from such an object is
// garbage, cycles included.
func (s *Store) sweepCyclesLocked() {
	internal := make(map[runtime.ObjID]uint64, len(s.objects))
	for _, obj := range s.objects {
		obj.marked = false
		for target := range obj.outgoing {
			internal[target]++
		}
	}

	var stack []*object
	for _, obj := range s.objects {
		if obj.refCount > internal[obj.id] {
			obj.marked = true
			stack = append(stack, obj)
		}
	}
	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for target := range obj.outgoing {
			next, ok := s.objects[target]
			if !ok || next.marked {
				continue
			}
			next.marked = true
			stack = append(stack, next)
		}
	}

	var dead []*object
	for _, obj := range s.objects {
		if !obj.marked {
			dead = append(dead, obj)
		}
	}
	for _, obj := range dead {
		s.removeLocked(obj)
		s.stats.CyclesDetected++
	}
}
