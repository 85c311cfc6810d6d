package deleter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arjunvg/devclean/internal/model"
)

func mkFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDeletePath_DryRunNeverMutates(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "node_modules")
	mkFile(t, filepath.Join(target, "a.js"), "12345")

	guard := NewGuard([]string{dir})
	res := DeletePath(target, 5, DryRun, guard)

	if !res.Success || res.BytesFreed != 5 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := os.Stat(target); err != nil {
		t.Error("DryRun must not remove the path")
	}
}

func TestDeletePath_PermanentRemovesSubtree(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "node_modules")
	mkFile(t, filepath.Join(target, "pkg", "a.js"), "12345")
	mkFile(t, filepath.Join(target, "pkg", "b.js"), "67890")

	guard := NewGuard([]string{dir})
	res := DeletePath(target, 10, Permanent, guard)

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("expected target to be fully removed")
	}
}

func TestDeletePath_PermanentOnRegularFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.cache")
	mkFile(t, target, "xyz")

	guard := NewGuard([]string{dir})
	res := DeletePath(target, 3, Permanent, guard)
	if !res.Success {
		t.Fatalf("expected success removing a plain file, got %+v", res)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestDeletePath_RejectsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	guard := NewGuard(nil)
	res := DeletePath(home, 0, Permanent, guard)
	if res.Success || res.Error == nil {
		t.Error("expected deletion of the home directory to be rejected")
	}
	if _, err := os.Stat(home); err != nil {
		t.Fatal("home directory must still exist")
	}
}

func TestDeletePath_RejectsRoot(t *testing.T) {
	guard := NewGuard(nil)
	res := DeletePath("/", 0, Permanent, guard)
	if res.Success || res.Error == nil {
		t.Error("expected deletion of / to be rejected")
	}
}

func TestDeletePath_RejectsScanRoot(t *testing.T) {
	dir := t.TempDir()
	guard := NewGuard([]string{dir})
	res := DeletePath(dir, 0, Permanent, guard)
	if res.Success || res.Error == nil {
		t.Error("expected deletion of a scan root itself to be rejected")
	}
	var merr *model.Error
	if !errors.As(res.Error, &merr) || merr.Kind != model.ErrPermissionDenied {
		t.Errorf("expected a PermissionDenied-class safety error, got %v", res.Error)
	}
}

func TestDeletePath_AllowsDescendantOfScanRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	mkFile(t, filepath.Join(target, "f"), "x")

	guard := NewGuard([]string{dir})
	res := DeletePath(target, 1, Permanent, guard)
	if !res.Success {
		t.Errorf("expected a descendant of a scan root to be deletable, got %+v", res)
	}
}

func TestDeletePath_NonexistentPath(t *testing.T) {
	dir := t.TempDir()
	guard := NewGuard([]string{dir})
	res := DeletePath(filepath.Join(dir, "missing"), 0, Permanent, guard)
	if res.Success || res.Error == nil {
		t.Error("expected deleting a nonexistent path to fail")
	}
}
