package heap

// Stats reports the heap's monotonic counters. Purely informational:
// no invariant depends on them.
type Stats struct {
	Allocations    uint64 `yaml:"allocations"`
	Deallocations  uint64 `yaml:"deallocations"`
	CyclesDetected uint64 `yaml:"cycles_detected"`
	Collections    uint64 `yaml:"collections"`
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
