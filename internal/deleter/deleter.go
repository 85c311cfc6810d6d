// Package deleter is the Deletion Executor (spec.md §4.6, component I):
// the pluggable backend that actually removes a project's artifacts,
// after the Protection Gate has cleared them.
//
// The CleanResult{Success, BytesFreed, Error} shape and the
// dry-run-short-circuits-before-any-mutation pattern are grounded on
// the teacher's cleaner.CleanResult and utils.SafeRemove; Permanent
// generalizes SafeRemove's single os.RemoveAll call into a manual
// per-entry walk so a failure partway through is aggregated rather than
// abandoning the whole subtree.
package deleter

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/pkg/fsutil"
)

// Method selects the deletion backend (spec.md §4.6).
type Method int

const (
	Trash Method = iota
	Permanent
	DryRun
)

func (m Method) String() string {
	switch m {
	case Trash:
		return "trash"
	case Permanent:
		return "permanent"
	case DryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single DeletePath call.
type Result struct {
	Success    bool
	BytesFreed int64
	Error      error
}

// Guard carries the protected-path set deletion is validated against:
// the user's home, filesystem roots, the current working directory,
// and every root the scan was asked to cover (spec.md §4.6 "Safety
// invariants", invariant 2).
type Guard struct {
	protected []string
}

// NewGuard builds a Guard from the scan roots active in the current
// session, adding the fixed system paths the spec always protects.
func NewGuard(scanRoots []string) Guard {
	fixed := []string{"/", "/usr", "/System", "/Applications"}

	g := Guard{}
	for _, p := range fixed {
		g.protected = append(g.protected, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		g.protected = append(g.protected, canonOrSelf(home))
	}
	if cwd, err := os.Getwd(); err == nil {
		g.protected = append(g.protected, canonOrSelf(cwd))
	}
	for _, r := range scanRoots {
		g.protected = append(g.protected, canonOrSelf(r))
	}
	return g
}

func canonOrSelf(p string) string {
	if c, err := fsutil.Canonicalize(p); err == nil {
		return c
	}
	return filepath.Clean(p)
}

// violatesSafety implements invariant 2: path must not equal or be an
// ancestor of any protected path.
func (g Guard) violatesSafety(path string) bool {
	for _, p := range g.protected {
		if fsutil.IsAncestorOrEqual(path, p) {
			return true
		}
	}
	return false
}

// DeletePath validates path against the safety invariants and then
// dispatches to the requested method. size is the caller's
// already-computed artifact size (from the Scanner), reported back as
// BytesFreed on success rather than recomputed.
func DeletePath(path string, size int64, method Method, guard Guard) Result {
	canon, err := fsutil.Canonicalize(path)
	if err != nil {
		return Result{Error: model.NewError(model.ErrPathNotFound, path, err)}
	}

	if guard.violatesSafety(canon) {
		return Result{Error: model.NewError(model.ErrPermissionDenied, canon, errProtectedPath)}
	}

	info, err := os.Lstat(canon)
	if err != nil {
		return Result{Error: model.NewError(model.ErrPathNotFound, canon, err)}
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return Result{Error: model.NewError(model.ErrIO, canon, errUnsupportedType)}
	}

	switch method {
	case DryRun:
		return Result{Success: true, BytesFreed: size}
	case Trash:
		return doTrash(canon, size)
	case Permanent:
		return doPermanent(canon, size)
	default:
		return Result{Error: model.NewError(model.ErrCleanFailed, canon, errUnknownMethod)}
	}
}

// doPermanent recursively unlinks path. It continues past per-entry
// failures (a locked file, a permission error) and aggregates the last
// one, rather than abandoning the whole subtree (spec.md §4.6
// "Best-effort continuation on per-entry failure, aggregating the last
// error").
func doPermanent(path string, size int64) Result {
	info, err := os.Lstat(path)
	if err != nil {
		return Result{Error: model.NewError(model.ErrPathNotFound, path, err)}
	}
	if !info.IsDir() {
		if err := os.Remove(path); err != nil {
			return Result{Error: model.NewError(model.ErrCleanFailed, path, err)}
		}
		return Result{Success: true, BytesFreed: size}
	}

	var lastErr error
	var entries []string
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			lastErr = err
			return nil
		}
		entries = append(entries, p)
		return nil
	})

	// Remove deepest-first so directories are empty by the time we try
	// to unlink them.
	for i := len(entries) - 1; i >= 0; i-- {
		if err := os.Remove(entries[i]); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}

	if lastErr != nil {
		if fsutil.PathExists(path) {
			return Result{Success: false, Error: model.NewError(model.ErrCleanFailed, path, lastErr)}
		}
	}
	return Result{Success: true, BytesFreed: size}
}
