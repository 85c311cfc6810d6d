//go:build !linux && !darwin

package deleter

import "github.com/arjunvg/devclean/internal/model"

// doTrash has no supported backend on this platform. Per spec.md §4.6
// invariant 4, a Trash failure is always an error — it never silently
// falls back to Permanent deletion.
func doTrash(path string, size int64) Result {
	return Result{Error: model.NewError(model.ErrCleanFailed, path, errTrashUnsupported)}
}
