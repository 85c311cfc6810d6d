// Package registry holds the Plugin Registry and Project Detection
// Engine (spec.md §4.1): a capability-based classifier that turns a
// directory's marker files into a ProjectKind, the way the teacher's
// internal/cleaner package enumerates per-ecosystem caches, but
// generalized into a declarative, closed-set-of-plugins form.
package registry

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arjunvg/devclean/internal/model"
)

// Plugin is the capability interface every built-in project kind
// implements. DESIGN NOTES in spec.md §9 leave the encoding open; this
// is a closed, compile-time set (builtins.go), which keeps Detect cheap
// and avoids a vtable/plugin-loading subsystem the spec never asks for.
type Plugin interface {
	ID() string
	Name() string
	Kind() model.ProjectKind
	MarkerFiles() []string
	CleanableDirs() []string
	// Detect performs any lightweight content inspection needed to
	// disambiguate this plugin from a sibling that shares a marker
	// file naming convention (e.g. Poetry vs. plain setup.py Python).
	// dirEntries are the direct children of the candidate directory.
	// Returning false means "marker present but not actually a match".
	Detect(dir string, dirEntries []os.DirEntry) bool
}

// Registry holds an ordered list of plugins and answers classification
// queries. Order matters only for documentation/priority purposes
// within MarkerFiles; Classify always returns every matching plugin so
// polyglot directories are visible to the caller (spec.md §4.2).
type Registry struct {
	plugins []Plugin
}

// New returns an empty Registry. Use WithBuiltins for the default set.
func New() *Registry {
	return &Registry{}
}

// WithBuiltins returns a Registry pre-loaded with the ~30 built-in
// plugins defined in builtins.go.
func WithBuiltins() *Registry {
	r := New()
	r.Register(builtinPlugins()...)
	return r
}

// Register appends plugins to the registry. Appending never removes or
// reorders a match a directory already had under the prior plugins,
// because Classify evaluates plugins in registration order and only
// ever adds matches; a directory that matched no prior plugin can gain
// a match from a newly registered one.
func (r *Registry) Register(plugins ...Plugin) {
	r.plugins = append(r.plugins, plugins...)
}

// Plugins returns the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	out := make([]Plugin, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// Classify returns every plugin whose marker file is present as a
// direct child of dir, confirmed by that plugin's Detect. Zero results
// means "not a project". More than one result means a polyglot
// directory (spec.md glossary); the scanner materializes a Project per
// match.
func (r *Registry) Classify(dir string) ([]Plugin, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}

	var matches []Plugin
	for _, p := range r.plugins {
		if !hasAnyMarker(names, p.MarkerFiles()) {
			continue
		}
		if p.Detect(dir, entries) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// hasAnyMarker reports whether any direct child name matches any marker
// pattern. Markers are usually literal filenames ("package.json") but
// may be glob patterns ("*.xcodeproj", "*.csproj") for ecosystems that
// don't have a single canonical manifest name.
func hasAnyMarker(names []string, markers []string) bool {
	for _, m := range markers {
		for _, n := range names {
			if n == m {
				return true
			}
			if ok, _ := doublestar.Match(m, n); ok {
				return true
			}
		}
	}
	return false
}

// MatchesCleanable reports whether relPath (relative to a project
// root) matches one of a plugin's cleanable-dir patterns. Patterns are
// doublestar globs so a kind can declare nested conventions like
// "target/debug" or "**/__pycache__" without the registry needing
// special-case path joining logic.
func MatchesCleanable(p Plugin, relPath string) bool {
	for _, pattern := range p.CleanableDirs() {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		// Also match the pattern as a direct child name, so plain
		// entries like "node_modules" keep working without glob syntax.
		if pattern == relPath {
			return true
		}
	}
	return false
}

// ExcludedByPattern reports whether path matches any of the
// doublestar-style exclusion patterns in excluded, matched against
// both the full path and its base name.
func ExcludedByPattern(path string, excluded []string) bool {
	base := filepath.Base(path)
	for _, pattern := range excluded {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
