package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const suiteCacheDir = ".heapstress/suites"

// runFetch clones a workload-suite repository into the local cache so
// shared soak suites can be pinned by commit and replayed with
// `heapstress run`.
func runFetch(args []string) int {
	if len(args) == 0 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "heapstress fetch requires a git url and an optional rev")
		return 1
	}
	url := args[0]
	rev := ""
	if len(args) == 2 {
		rev = args[1]
	}

	dest := filepath.Join(suiteCacheDir, suiteDirName(url))
	if err := fetchSuite(url, rev, dest); err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch %s: %v\n", url, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "fetched %s into %s\n", url, dest)
	return 0
}

func fetchSuite(url, rev, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("clear %s: %w", dest, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	repo, err := git.PlainClone(dest, false, &git.CloneOptions{URL: url})
	if err != nil {
		return fmt.Errorf("clone: %w", err)
	}
	if rev == "" {
		return nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(rev)}); err != nil {
		return fmt.Errorf("checkout %s: %w", rev, err)
	}
	return nil
}

// suiteDirName derives a filesystem-friendly cache entry from a url.
func suiteDirName(url string) string {
	name := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		name = "suite"
	}
	return name
}
