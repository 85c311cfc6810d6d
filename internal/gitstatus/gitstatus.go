// Package gitstatus is the Git Status Oracle (spec.md §4.4, component
// G): a read-only, bounded-latency enrichment step that determines
// whether a project root (or a dominating ancestor) is a
// version-controlled repository and, if so, its dirty/unpushed/stash
// state.
//
// go-git usage here — PlainOpenWithOptions with upward .git detection,
// Worktree.Status for dirtiness, walking repo.Log to compare HEAD
// against a remote-tracking ref — follows the same library the
// retrieval pack's arch-unit git package uses for repository
// inspection, narrowed from that package's clone/fetch/worktree
// management down to this oracle's read-only status questions.
package gitstatus

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"golang.org/x/time/rate"

	"github.com/arjunvg/devclean/internal/model"
)

// perRepoTimeout is the bounded-latency contract from spec.md §4.4:
// "read-only, bounded latency (<= 2s per repo)".
const perRepoTimeout = 2 * time.Second

// aheadSearchDepth bounds how many commits the oracle walks back from
// HEAD while looking for the upstream tip, so a repository with a huge
// unpushed history can't blow past the latency budget.
const aheadSearchDepth = 500

// Oracle answers git-status queries for project roots. It never
// mutates the repositories it inspects.
type Oracle struct {
	limiter *rate.Limiter
}

// New returns an Oracle that allows at most rps status checks per
// second (burst concurrent checks up to burst), so enriching a large
// scan result doesn't open hundreds of repositories at once.
func New(rps float64, burst int) *Oracle {
	return &Oracle{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// NewDefault returns an Oracle with a sensible default rate (10/s,
// burst 10) for interactive use.
func NewDefault() *Oracle {
	return New(10, 10)
}

// EnrichAll populates GitStatus on every project, one at a time (the
// oracle is invoked from a single caller thread after the scan
// completes, per spec.md §5 "Cache and oracle"). Each project's
// GitStatus is written exactly once.
func (o *Oracle) EnrichAll(ctx context.Context, projects []model.Project) {
	for i := range projects {
		projects[i].GitStatus = o.status(ctx, projects[i].Root)
	}
}

// Status returns the git status for a single root.
func (o *Oracle) Status(ctx context.Context, root string) model.GitStatus {
	return *o.status(ctx, root)
}

func (o *Oracle) status(ctx context.Context, root string) *model.GitStatus {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return &model.GitStatus{Unknown: true}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, perRepoTimeout)
	defer cancel()

	result := make(chan model.GitStatus, 1)
	go func() { result <- compute(root) }()

	select {
	case s := <-result:
		return &s
	case <-ctx.Done():
		return &model.GitStatus{Unknown: true}
	}
}

func compute(root string) model.GitStatus {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		// Not a repository at all (spec.md §4.5 "no-git" case is
		// distinct from "unknown": callers recognise it by the zero
		// value, Unknown == false and Branch == "").
		return model.GitStatus{}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return model.GitStatus{Unknown: true}
	}
	st, err := wt.Status()
	if err != nil {
		return model.GitStatus{Unknown: true}
	}

	dirty := !st.IsClean()
	untrackedImportant := hasImportantUntracked(st)

	head, err := repo.Head()
	if err != nil {
		// An unborn HEAD (no commit yet) still counts as "has a repo",
		// but we can't resolve a branch name or upstream comparison. A
		// detached HEAD does resolve and is reported with Branch "HEAD".
		return model.GitStatus{Dirty: dirty, Unpushed: true, UntrackedImportant: untrackedImportant}
	}

	branch := head.Name().Short()
	unpushed, stashCount := unpushedAndStashes(repo, root, branch, head.Hash())

	return model.GitStatus{
		Dirty:              dirty,
		Unpushed:           unpushed,
		Stashes:            stashCount,
		Branch:             branch,
		UntrackedImportant: untrackedImportant,
	}
}

func hasImportantUntracked(st git.Status) bool {
	for path, s := range st {
		if s.Worktree != git.Untracked {
			continue
		}
		if looksLikeArtifact(path) {
			continue
		}
		return true
	}
	return false
}

// looksLikeArtifact filters out untracked paths under conventional
// build/cache directory names, so a freshly populated node_modules
// doesn't masquerade as "important" unstaged work.
func looksLikeArtifact(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		switch seg {
		case "node_modules", "target", "build", "dist", "__pycache__", ".venv", "vendor", "bin", "obj":
			return true
		}
	}
	return false
}

// unpushedAndStashes determines whether HEAD is ahead of (or lacks) its
// upstream, and counts stash entries by reading the stash reflog
// directly — go-git has no stash API, and the spec explicitly allows
// "parse the repository format directly" as an implementation strategy.
func unpushedAndStashes(repo *git.Repository, root, branch string, headHash plumbing.Hash) (bool, uint32) {
	unpushed := true

	cfg, err := repo.Config()
	if err == nil {
		if b, ok := cfg.Branches[branch]; ok && b.Remote != "" {
			remoteBranch := branch
			if b.Merge != "" {
				remoteBranch = b.Merge.Short()
			}
			remoteRefName := plumbing.NewRemoteReferenceName(b.Remote, remoteBranch)
			if remoteRef, err := repo.Reference(remoteRefName, true); err == nil {
				unpushed = isAhead(repo, headHash, remoteRef.Hash())
			}
		}
	}

	return unpushed, stashCount(root)
}

// isAhead reports whether headHash is strictly ahead of upstreamHash:
// upstreamHash is not reachable by walking back from headHash, or it
// is reachable only after at least one other commit.
func isAhead(repo *git.Repository, headHash, upstreamHash plumbing.Hash) bool {
	if headHash == upstreamHash {
		return false
	}
	iter, err := repo.Log(&git.LogOptions{From: headHash})
	if err != nil {
		return true
	}
	defer iter.Close()

	depth := 0
	found := false
	_ = iter.ForEach(func(c *object.Commit) error {
		depth++
		if c.Hash == upstreamHash {
			found = true
			return storer.ErrStop
		}
		if depth >= aheadSearchDepth {
			return storer.ErrStop
		}
		return nil
	})
	if !found {
		return true
	}
	return depth > 1
}

// stashCount reads .git/logs/refs/stash and counts entries (one per
// line), returning 0 if the repository has never had a stash.
func stashCount(root string) uint32 {
	gitDir := findGitDir(root)
	if gitDir == "" {
		return 0
	}
	f, err := os.Open(filepath.Join(gitDir, "logs", "refs", "stash"))
	if err != nil {
		return 0
	}
	defer f.Close()

	var count uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() != "" {
			count++
		}
	}
	return count
}

// findGitDir walks upward from root looking for a .git entry (directory
// for a normal repo, or a gitlink file for a worktree/submodule),
// mirroring go-git's own upward detection so stash lookups target the
// same repository PlainOpenWithOptions resolved.
func findGitDir(root string) string {
	dir := root
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate
			}
			return resolveGitlink(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolveGitlink reads a "gitdir: <path>" worktree/submodule pointer
// file and returns the real git directory it references.
func resolveGitlink(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	const prefix = "gitdir: "
	s := string(data)
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		target := s[len(prefix):]
		for len(target) > 0 && (target[len(target)-1] == '\n' || target[len(target)-1] == '\r') {
			target = target[:len(target)-1]
		}
		if filepath.IsAbs(target) {
			return target
		}
		return filepath.Join(filepath.Dir(path), target)
	}
	return ""
}
