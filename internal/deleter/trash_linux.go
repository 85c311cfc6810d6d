//go:build linux

package deleter

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/arjunvg/devclean/internal/model"
)

// doTrash implements the freedesktop.org trash specification's home
// trash can: $XDG_DATA_HOME/Trash/{files,info}, with one .trashinfo
// sidecar per trashed entry recording its original path and deletion
// time. No library in the retrieval pack implements this spec (see
// DESIGN.md), so it is hand-rolled directly against the format.
func doTrash(path string, size int64) Result {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Result{Error: model.NewError(model.ErrIO, path, err)}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	trashDir := filepath.Join(dataHome, "Trash")
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	if err := os.MkdirAll(filesDir, 0o700); err != nil {
		return Result{Error: model.NewError(model.ErrIO, filesDir, err)}
	}
	if err := os.MkdirAll(infoDir, 0o700); err != nil {
		return Result{Error: model.NewError(model.ErrIO, infoDir, err)}
	}

	name := uniqueTrashName(filesDir, filepath.Base(path))
	dest := filepath.Join(filesDir, name)
	infoPath := filepath.Join(infoDir, name+".trashinfo")

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: path}).EscapedPath(), time.Now().Format("2006-01-02T15:04:05"))
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return Result{Error: model.NewError(model.ErrIO, infoPath, err)}
	}

	if err := os.Rename(path, dest); err != nil {
		os.Remove(infoPath)
		// Cross-device rename failure falls through to an error rather
		// than silently promoting to Permanent (spec.md §4.6 invariant 4).
		return Result{Error: model.NewError(model.ErrCleanFailed, path, err)}
	}
	return Result{Success: true, BytesFreed: size}
}

func uniqueTrashName(filesDir, base string) string {
	candidate := base
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(filesDir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s.%d", base, i)
	}
}
