package deleter

import "errors"

var (
	errProtectedPath    = errors.New("path equals or is an ancestor of a protected path")
	errUnsupportedType  = errors.New("path is not a regular file or directory")
	errUnknownMethod    = errors.New("unknown deletion method")
	errTrashUnsupported = errors.New("no trash facility available on this platform")
)
