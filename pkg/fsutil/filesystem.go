// Package fsutil holds the small, allocation-cheap path predicates and
// size helpers every other package needs (spec.md component A). It is
// the generalized descendant of the teacher's pkg/utils/filesystem.go:
// the same PathExists/GetDirSize shape, plus the ancestor/canonical
// checks the Deletion Executor's safety invariants require.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PathExists reports whether path exists on the filesystem (any error,
// including permission denied, is treated as "does not exist" for the
// caller's purposes — callers that need to distinguish permission
// errors inspect os.Stat directly).
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandHome expands a leading "~" to the current user's home
// directory. A bare "~path" with no separator (no user the library
// resolves) is returned unchanged, matching the teacher's behavior.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Canonicalize resolves path to an absolute, symlink-evaluated form.
// Scan Cache entries and Deletion Executor targets are required to be
// canonical (spec.md §3, §4.6 invariant 1).
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The path may not exist yet (e.g. a cache entry for a project
		// root that was deleted externally); fall back to the absolute,
		// non-symlink-resolved form rather than failing outright.
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", err
	}
	return resolved, nil
}

// IsAncestorOrEqual reports whether ancestor is path itself, or a
// directory strictly containing it, comparing clean path components
// rather than raw string prefixes.
func IsAncestorOrEqual(ancestor, path string) bool {
	ancestor = filepath.Clean(ancestor)
	path = filepath.Clean(path)
	if ancestor == path {
		return true
	}
	rel, err := filepath.Rel(ancestor, path)
	if err != nil {
		return false
	}
	return filepath.IsLocal(rel)
}

// DirSize recursively sums the sizes of all regular files under path.
// followSymlinks controls whether a symlink's target is counted at all:
// when false a symlink is skipped outright (neither sized nor descended
// into); when true a symlinked file is sized and a symlinked directory
// is recursed into, so "follow_symlinks affects both traversal and
// sizing" (spec.md §3) holds for DirSize the same way it holds for the
// scanner's own directory-by-directory traversal. Permission and I/O
// errors on individual entries are swallowed so a single unreadable
// subtree doesn't zero out the whole measurement — the caller sees a
// partial, best-effort size, matching the teacher's GetDirSize behavior.
func DirSize(path string, followSymlinks bool) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			if !followSymlinks {
				return nil
			}
			info, statErr := os.Stat(p)
			if statErr != nil {
				return nil
			}
			if info.IsDir() {
				sub, subErr := DirSize(p, followSymlinks)
				if subErr == nil {
					size += sub
				}
				return nil
			}
			size += info.Size()
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size += info.Size()
		return nil
	})
	return size, err
}

// IsWritable reports whether the current process can write to path. For
// a directory it attempts to create and remove a probe file; for a
// regular file it defers to the containing directory, since that is
// what governs whether the Deletion Executor could actually remove it.
func IsWritable(path string) bool {
	if !PathExists(path) {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		probe := filepath.Join(path, ".devclean_write_probe")
		f, err := os.Create(probe)
		if err != nil {
			return false
		}
		f.Close()
		os.Remove(probe)
		return true
	}
	return IsWritable(filepath.Dir(path))
}
