package workload

import (
	"fmt"

	"able/heap10-go/pkg/heap"
	"able/heap10-go/pkg/runtime"
)

// Report summarises one workload run for diagnostics output.
type Report struct {
	Workload string     `yaml:"workload"`
	Steps    int        `yaml:"steps"`
	Live     int        `yaml:"live_objects"`
	Stats    heap.Stats `yaml:"stats"`
	Notes    []string   `yaml:"notes,omitempty"`
}

// Runner executes workloads against one heap store, playing the role
// of the evaluator at the heap's interface boundary.
type Runner struct {
	store   *heap.Store
	handles map[string]*heap.Handle
}

// NewRunner creates a runner over a fresh or shared store.
func NewRunner(store *heap.Store) *Runner {
	return &Runner{
		store:   store,
		handles: make(map[string]*heap.Handle),
	}
}

// Run executes every step in order. Expectation failures and step
// errors abort the run; the heap is left as the failing step left it.
func (r *Runner) Run(w *Workload) (*Report, error) {
	report := &Report{Workload: w.Name}
	for i, step := range w.Steps {
		if err := r.runStep(step, report); err != nil {
			return nil, fmt.Errorf("workload %s: steps[%d]: %w", w.Name, i, err)
		}
		report.Steps++
	}
	report.Live = r.store.Len()
	report.Stats = r.store.Stats()
	return report, nil
}

// Close disposes every handle the runner still holds.
func (r *Runner) Close() {
	for name, h := range r.handles {
		h.Dispose()
		delete(r.handles, name)
	}
}

func (r *Runner) runStep(step Step, report *Report) error {
	switch {
	case step.Allocate != nil:
		return r.allocate(step.Allocate, report)
	case step.Mutate != nil:
		return r.mutate(step.Mutate)
	case step.Drop != nil:
		return r.drop(step.Drop)
	case step.Collect != nil:
		repeat := step.Collect.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			r.store.Collect()
		}
		return nil
	case step.Expect != nil:
		return r.expect(step.Expect)
	default:
		return fmt.Errorf("empty step")
	}
}

func (r *Runner) allocate(step *AllocateStep, report *Report) error {
	var entry *heap.Handle
	var err error
	switch step.Shape {
	case ShapeScalar:
		entry, err = r.store.Allocate(runtime.StringValue{Val: step.Name})
	case ShapeChain:
		entry, err = r.allocateChain(step.Length)
	case ShapeCycle:
		entry, err = r.allocateCycle(step.Length)
	default:
		return fmt.Errorf("unsupported shape %q", step.Shape)
	}
	if err != nil {
		return err
	}
	r.handles[step.Name] = entry
	report.Notes = append(report.Notes, fmt.Sprintf("allocated %s %q (object %d)", step.Shape, step.Name, entry.ID()))
	return nil
}

// allocateChain links length objects head to tail and hands back the
// head. Interior members live through edges alone, so dropping the
// head handle dooms the whole chain.
func (r *Runner) allocateChain(length int) (*heap.Handle, error) {
	var next *heap.Handle
	for i := 0; i < length; i++ {
		node := &runtime.StructInstanceValue{TypeName: "ChainNode"}
		if next != nil {
			node.Fields = map[string]runtime.Value{"next": next.Ref()}
		}
		h, err := r.store.Allocate(node)
		if err != nil {
			return nil, err
		}
		if next != nil {
			next.Dispose()
		}
		next = h
	}
	return next, nil
}

// allocateCycle builds a ring: each member references the next and the
// last one closes back on the first. Only the first member keeps a
// handle.
func (r *Runner) allocateCycle(length int) (*heap.Handle, error) {
	members := make([]*heap.Handle, 0, length)
	for i := 0; i < length; i++ {
		h, err := r.store.Allocate(&runtime.StructInstanceValue{TypeName: "CycleNode"})
		if err != nil {
			return nil, err
		}
		members = append(members, h)
	}
	for i, h := range members {
		next := members[(i+1)%length]
		payload := &runtime.StructInstanceValue{
			TypeName: "CycleNode",
			Fields:   map[string]runtime.Value{"next": next.Ref()},
		}
		if err := h.Set(payload); err != nil {
			return nil, err
		}
	}
	for _, h := range members[1:] {
		h.Dispose()
	}
	return members[0], nil
}

func (r *Runner) mutate(step *MutateStep) error {
	target, ok := r.handles[step.Target]
	if !ok {
		return fmt.Errorf("unknown handle %q", step.Target)
	}
	fields := make(map[string]runtime.Value, len(step.Refs))
	for _, name := range step.Refs {
		ref, ok := r.handles[name]
		if !ok {
			return fmt.Errorf("unknown handle %q in refs", name)
		}
		fields[name] = ref.Ref()
	}
	return target.Set(&runtime.StructInstanceValue{TypeName: "Mutation", Fields: fields})
}

func (r *Runner) drop(names []string) error {
	for _, name := range names {
		h, ok := r.handles[name]
		if !ok {
			return fmt.Errorf("unknown handle %q", name)
		}
		h.Dispose()
		delete(r.handles, name)
	}
	return nil
}

func (r *Runner) expect(step *ExpectStep) error {
	if step.Live != nil {
		if live := r.store.Len(); live != *step.Live {
			return fmt.Errorf("expected %d live objects, have %d", *step.Live, live)
		}
	}
	stats := r.store.Stats()
	if step.MinDeallocations != nil && stats.Deallocations < *step.MinDeallocations {
		return fmt.Errorf("expected at least %d deallocations, have %d", *step.MinDeallocations, stats.Deallocations)
	}
	if step.MinCyclesDetected != nil && stats.CyclesDetected < *step.MinCyclesDetected {
		return fmt.Errorf("expected at least %d detected cycle members, have %d", *step.MinCyclesDetected, stats.CyclesDetected)
	}
	return nil
}
