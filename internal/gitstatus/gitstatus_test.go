package gitstatus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/arjunvg/devclean/internal/model"
)

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sig := &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)}
	if _, err := wt.Commit("initial", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return dir
}

func TestStatus_NoGitRepo(t *testing.T) {
	dir := t.TempDir()
	o := NewDefault()
	s := o.Status(context.Background(), dir)
	if s.Unknown {
		t.Error("expected Unknown=false for a plain directory")
	}
	if s.Branch != "" {
		t.Errorf("expected no branch for a non-repo, got %q", s.Branch)
	}
}

func TestStatus_CleanRepoNoUpstream(t *testing.T) {
	dir := initRepoWithCommit(t)
	o := NewDefault()
	s := o.Status(context.Background(), dir)

	if s.Unknown {
		t.Fatal("expected Unknown=false for a valid repo")
	}
	if s.Dirty {
		t.Error("expected Dirty=false right after a commit with no further changes")
	}
	if !s.Unpushed {
		t.Error("expected Unpushed=true: no upstream configured is treated as unpushed for safety")
	}
}

func TestStatus_DirtyRepo(t *testing.T) {
	dir := initRepoWithCommit(t)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	o := NewDefault()
	s := o.Status(context.Background(), dir)
	if !s.Dirty {
		t.Error("expected Dirty=true after modifying a tracked file")
	}
}

func TestStatus_UntrackedArtifactNotImportant(t *testing.T) {
	dir := initRepoWithCommit(t)
	if err := os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "x.js"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	o := NewDefault()
	s := o.Status(context.Background(), dir)
	if s.UntrackedImportant {
		t.Error("expected untracked files under node_modules to not count as important")
	}
}

func TestStatus_UntrackedSourceFileIsImportant(t *testing.T) {
	dir := initRepoWithCommit(t)
	if err := os.WriteFile(filepath.Join(dir, "new_feature.go"), []byte("package x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	o := NewDefault()
	s := o.Status(context.Background(), dir)
	if !s.UntrackedImportant {
		t.Error("expected an untracked source file outside artifact dirs to count as important")
	}
}

func TestStashCount_NoStashFile(t *testing.T) {
	dir := initRepoWithCommit(t)
	if got := stashCount(dir); got != 0 {
		t.Errorf("stashCount = %d, want 0 for a repo that never stashed", got)
	}
}

func TestStashCount_ReadsReflog(t *testing.T) {
	dir := initRepoWithCommit(t)
	logsDir := filepath.Join(dir, ".git", "logs", "refs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "aaa bbb author 0 +0000\tWIP on main\nccc ddd author 1 +0000\tWIP on main\n"
	if err := os.WriteFile(filepath.Join(logsDir, "stash"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if got := stashCount(dir); got != 2 {
		t.Errorf("stashCount = %d, want 2", got)
	}
}

func TestEnrichAll_SingleWritePerProject(t *testing.T) {
	dir := initRepoWithCommit(t)
	projects := []model.Project{{Root: dir, Name: filepath.Base(dir)}}

	o := NewDefault()
	o.EnrichAll(context.Background(), projects)

	if projects[0].GitStatus == nil {
		t.Fatal("expected EnrichAll to populate GitStatus")
	}
	if projects[0].GitStatus.Unknown {
		t.Error("expected a clean repo to resolve with Unknown=false")
	}
}
