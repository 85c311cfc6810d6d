// Package model holds the data types shared by the scanner, registry,
// cache, protection gate and deletion executor: Project, Artifact,
// ProjectKind and the config/result types that flow between them.
package model

import (
	"sort"
	"time"
)

// ProjectKind identifies a language/build-system family. It is a closed
// set: new kinds are added to the built-in plugin list in
// internal/registry/builtins.go, never constructed ad hoc.
type ProjectKind struct {
	ID            string   // stable identifier, e.g. "nodejs"
	DisplayName   string   // e.g. "Node.js"
	Icon          string   // short glyph for CLI rendering
	MarkerFiles   []string // ordered priority; first match wins at the plugin level
	CleanableDirs []string // conventionally relative to the project root, e.g. "node_modules"
}

// ArtifactKind classifies what an Artifact represents.
type ArtifactKind int

const (
	DependencyDir ArtifactKind = iota
	BuildOutput
	Cache
	Log
	TempFile
)

func (k ArtifactKind) String() string {
	switch k {
	case DependencyDir:
		return "dependency"
	case BuildOutput:
		return "build-output"
	case Cache:
		return "cache"
	case Log:
		return "log"
	case TempFile:
		return "temp-file"
	default:
		return "unknown"
	}
}

// Artifact is a single cleanable path inside a project's tree.
type Artifact struct {
	Path string
	Kind ArtifactKind
	Size int64
	Name string
}

// GitStatus is the optional, on-demand enrichment a Project can carry.
// Unknown is distinct from the zero value: it records that the oracle
// tried and failed, rather than that enrichment was never attempted.
type GitStatus struct {
	Dirty              bool
	Unpushed           bool
	Stashes            uint32
	Branch             string
	UntrackedImportant bool
	Unknown            bool
}

// Project is a detected project: a root directory matching one
// ProjectKind's markers, with its cleanable artifacts.
type Project struct {
	Root          string
	Name          string
	Kind          ProjectKind
	Artifacts     []Artifact
	CleanableSize int64
	GitStatus     *GitStatus
	LastModified  time.Time
}

// RecomputeCleanableSize sums Artifacts into CleanableSize. Callers that
// build a Project incrementally must call this before relying on the
// field; it is not kept live automatically (see invariant 1 in spec.md §8).
func (p *Project) RecomputeCleanableSize() {
	var total int64
	for _, a := range p.Artifacts {
		total += a.Size
	}
	p.CleanableSize = total
}

// SortProjects orders largest-first by CleanableSize, tie-broken
// lexicographically by Root (spec.md §4.2 "Ordering").
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].CleanableSize != projects[j].CleanableSize {
			return projects[i].CleanableSize > projects[j].CleanableSize
		}
		return projects[i].Root < projects[j].Root
	})
}

// ScanConfig controls a single Scan invocation.
type ScanConfig struct {
	Roots           []string
	MaxDepth        int // 0 = only inspect the root itself (applied only when MaxDepthEnabled)
	MinSize         int64
	FollowSymlinks  bool
	ExcludedPaths   []string
	Workers         int // 0 = cmd/devclean fills in the logical core count; scanner.New uses 4 for workers <= 0
	MaxDepthEnabled bool
}

// ScanResult is the outcome of a Scan.
type ScanResult struct {
	Projects           []Project
	DirectoriesScanned int64
	Duration           time.Duration
	ErrorsEncountered  []ScanError
	Cancelled          bool
}

// ScanError records a recoverable per-directory failure encountered
// during a scan (spec.md §7 propagation policy: the scan never aborts
// for these).
type ScanError struct {
	Path string
	Err  error
}
