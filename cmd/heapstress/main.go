package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"able/heap10-go/pkg/heap"
	"able/heap10-go/pkg/workload"
	"gopkg.in/yaml.v3"
)

const cliToolVersion = "heapstress 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runWorkloads(args[1:])
	case "fetch":
		return runFetch(args[1:])
	default:
		return runWorkloads(args)
	}
}

func runWorkloads(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "heapstress run requires at least one workload file or directory")
		return 1
	}

	paths, err := expandWorkloadPaths(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve workloads: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no workload files found")
		return 1
	}

	var reports []*workload.Report
	for _, path := range paths {
		w, err := workload.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		// Each workload gets a fresh heap so scenarios stay independent.
		runner := workload.NewRunner(heap.NewStore())
		report, err := runner.Run(w)
		runner.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 1
		}
		reports = append(reports, report)
	}

	out, err := yaml.Marshal(reports)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
		return 1
	}
	fmt.Fprint(os.Stdout, string(out))
	return 0
}

// expandWorkloadPaths turns file and directory arguments into a sorted
// list of workload files. Directories contribute their *.yml and
// *.yaml entries, non-recursively.
func expandWorkloadPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
				paths = append(paths, filepath.Join(arg, name))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  heapstress run <workload.yml | dir> ...")
	fmt.Fprintln(os.Stderr, "  heapstress <workload.yml | dir> ...")
	fmt.Fprintln(os.Stderr, "  heapstress fetch <git-url> [rev]")
	fmt.Fprintln(os.Stderr, "  heapstress version")
}
