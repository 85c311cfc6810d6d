//go:build darwin

package deleter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunvg/devclean/internal/model"
)

// doTrash moves path into the user's ~/.Trash, the same destination
// the teacher's TrashCleaner reports the size of (system.go scanTrash).
// A rename collision (a file of the same name already trashed) is
// resolved by appending a numeric suffix, mirroring Finder's behavior.
func doTrash(path string, size int64) Result {
	home, err := os.UserHomeDir()
	if err != nil {
		return Result{Error: model.NewError(model.ErrIO, path, err)}
	}
	trashDir := filepath.Join(home, ".Trash")
	if err := os.MkdirAll(trashDir, 0o700); err != nil {
		return Result{Error: model.NewError(model.ErrIO, trashDir, err)}
	}

	dest := filepath.Join(trashDir, filepath.Base(path))
	dest = uniqueDest(dest)

	if err := os.Rename(path, dest); err != nil {
		// Cross-device rename failure falls through to an error rather
		// than silently promoting to Permanent (spec.md §4.6 invariant 4).
		return Result{Error: model.NewError(model.ErrCleanFailed, path, err)}
	}
	return Result{Success: true, BytesFreed: size}
}

func uniqueDest(dest string) string {
	if _, err := os.Lstat(dest); os.IsNotExist(err) {
		return dest
	}
	ext := filepath.Ext(dest)
	base := dest[:len(dest)-len(ext)]
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s %d%s", base, i, ext)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
