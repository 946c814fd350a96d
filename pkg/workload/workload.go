// Package workload loads declarative heap exercise scenarios. A
// workload names a sequence of allocation, mutation, drop and collect
// steps plus the state the heap must be in afterwards; the CLI harness
// and soak tests run them against a live store.
package workload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Workload is the parsed contents of one scenario file.
type Workload struct {
	Path  string `yaml:"-"`
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one of the step variants.
type Step struct {
	Allocate *AllocateStep `yaml:"allocate,omitempty"`
	Mutate   *MutateStep   `yaml:"mutate,omitempty"`
	Drop     []string      `yaml:"drop,omitempty"`
	Collect  *CollectStep  `yaml:"collect,omitempty"`
	Expect   *ExpectStep   `yaml:"expect,omitempty"`
}

// Shape names the object graph an allocate step builds.
type Shape string

const (
	ShapeScalar Shape = "scalar"
	ShapeChain  Shape = "chain"
	ShapeCycle  Shape = "cycle"
)

// IsValid reports whether the shape is recognised.
func (s Shape) IsValid() bool {
	switch s {
	case ShapeScalar, ShapeChain, ShapeCycle:
		return true
	default:
		return false
	}
}

// NeedsLength reports whether the shape takes a member count.
func (s Shape) NeedsLength() bool {
	return s == ShapeChain || s == ShapeCycle
}

// AllocateStep builds a graph and binds a handle to its entry object
// under Name. Chain members beyond the head and cycle members beyond
// the first are held only by edges, never by handles.
type AllocateStep struct {
	Name   string `yaml:"name"`
	Shape  Shape  `yaml:"shape"`
	Length int    `yaml:"length,omitempty"`
}

// MutateStep points Target's payload at the named handles' objects.
type MutateStep struct {
	Target string   `yaml:"target"`
	Refs   []string `yaml:"refs"`
}

// CollectStep triggers collection, optionally several times in a row.
type CollectStep struct {
	Repeat int `yaml:"repeat,omitempty"`
}

// ExpectStep asserts on the heap after the preceding steps. Nil fields
// are not checked.
type ExpectStep struct {
	Live              *int    `yaml:"live,omitempty"`
	MinDeallocations  *uint64 `yaml:"min_deallocations,omitempty"`
	MinCyclesDetected *uint64 `yaml:"min_cycles_detected,omitempty"`
}

// ValidationError aggregates workload validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "workload: invalid scenario"
	}
	var b strings.Builder
	b.WriteString("workload validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load parses and validates a workload file.
func Load(path string) (*Workload, error) {
	if path == "" {
		return nil, fmt.Errorf("workload: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("workload: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("workload: open %s: %w", absPath, err)
	}
	defer file.Close()

	w, err := Parse(file)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("workload: %s is empty", absPath)
		}
		return nil, fmt.Errorf("workload: parse %s: %w", absPath, err)
	}
	w.Path = absPath
	return w, nil
}

// Parse reads one workload document from r and validates it.
func Parse(r io.Reader) (*Workload, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var w Workload
	if err := decoder.Decode(&w); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

func (w *Workload) validate() error {
	var errs ValidationError
	if w.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if len(w.Steps) == 0 {
		errs.Issues = append(errs.Issues, "at least one step is required")
	}

	defined := make(map[string]bool)
	for i, step := range w.Steps {
		variants := 0
		if step.Allocate != nil {
			variants++
			a := step.Allocate
			if a.Name == "" {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].allocate: name must be provided", i))
			} else if defined[a.Name] {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].allocate: handle %q already defined", i, a.Name))
			} else {
				defined[a.Name] = true
			}
			if !a.Shape.IsValid() {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].allocate: unsupported shape %q", i, a.Shape))
			} else if a.Shape.NeedsLength() && a.Length < 1 {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].allocate: shape %q needs length >= 1", i, a.Shape))
			}
		}
		if step.Mutate != nil {
			variants++
			m := step.Mutate
			if m.Target == "" {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].mutate: target must be provided", i))
			} else if !defined[m.Target] {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].mutate: unknown handle %q", i, m.Target))
			}
			for _, ref := range m.Refs {
				if !defined[ref] {
					errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].mutate: unknown handle %q in refs", i, ref))
				}
			}
		}
		if step.Drop != nil {
			variants++
			for _, name := range step.Drop {
				if !defined[name] {
					errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].drop: unknown handle %q", i, name))
				} else {
					defined[name] = false
				}
			}
		}
		if step.Collect != nil {
			variants++
			if step.Collect.Repeat < 0 {
				errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d].collect: repeat must not be negative", i))
			}
		}
		if step.Expect != nil {
			variants++
		}
		if variants != 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("steps[%d]: exactly one step variant required, have %d", i, variants))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
