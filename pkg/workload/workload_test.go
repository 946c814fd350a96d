package workload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func parseString(t *testing.T, doc string) (*Workload, error) {
	t.Helper()
	return Parse(strings.NewReader(strings.TrimSpace(doc) + "\n"))
}

func TestParseValidWorkload(t *testing.T) {
	w, err := parseString(t, `
name: churn
steps:
  - allocate: {name: head, shape: chain, length: 3}
  - allocate: {name: ring, shape: cycle, length: 2}
  - mutate: {target: head, refs: [ring]}
  - drop: [ring]
  - collect: {repeat: 2}
  - expect: {live: 5}
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if w.Name != "churn" || len(w.Steps) != 6 {
		t.Fatalf("unexpected workload %#v", w)
	}
	if w.Steps[0].Allocate == nil || w.Steps[0].Allocate.Shape != ShapeChain {
		t.Fatalf("unexpected first step %#v", w.Steps[0])
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := parseString(t, `
name: bad
steps:
  - allocate: {name: a, shape: scalar, size: 12}
`)
	if err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestValidateAggregatesIssues(t *testing.T) {
	_, err := parseString(t, `
name: ""
steps:
  - allocate: {name: a, shape: blob}
  - mutate: {target: missing, refs: [ghost]}
  - allocate: {name: a, shape: scalar}
`)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	for _, want := range []string{
		"name must be provided",
		`unsupported shape "blob"`,
		`unknown handle "missing"`,
		`unknown handle "ghost"`,
		`handle "a" already defined`,
	} {
		if !strings.Contains(verr.Error(), want) {
			t.Fatalf("missing issue %q in %q", want, verr.Error())
		}
	}
}

func TestValidateRejectsUseAfterDrop(t *testing.T) {
	_, err := parseString(t, `
name: stale
steps:
  - allocate: {name: a, shape: scalar}
  - drop: [a]
  - mutate: {target: a, refs: []}
`)
	if err == nil {
		t.Fatalf("expected validation error for mutating a dropped handle")
	}
}

func TestValidateRejectsChainWithoutLength(t *testing.T) {
	_, err := parseString(t, `
name: short
steps:
  - allocate: {name: a, shape: chain}
`)
	if err == nil {
		t.Fatalf("expected validation error for missing length")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yml")
	doc := "name: from-file\nsteps:\n  - allocate: {name: a, shape: scalar}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if w.Name != "from-file" || w.Path == "" {
		t.Fatalf("unexpected workload %#v", w)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
