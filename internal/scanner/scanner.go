// Package scanner is the Parallel Scanner (spec.md §4.2, component D):
// a bounded-pool, fan-out/fan-in directory walk that asks the Plugin
// Registry to classify each directory, sizes the resulting artifacts,
// and streams progress through a Reporter.
//
// The concurrency shape — one goroutine per directory, gated by a
// semaphore, fanning results into a single collector goroutine — keeps
// the teacher's own FindByPattern walk-and-size approach but replaces
// its single-pattern filepath.Match traversal with registry-driven
// classification and parallel fan-out per directory, in the style of
// the bounded walker/collector split used elsewhere in the retrieval
// pack for filesystem scans.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"

	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/internal/progress"
	"github.com/arjunvg/devclean/internal/registry"
	"github.com/arjunvg/devclean/pkg/fsutil"
)

// Scanner walks one or more roots and classifies them via a Registry.
// A Scanner is safe to reuse across multiple Scan calls; each call gets
// its own worker pool and progress reporter.
type Scanner struct {
	reg     *registry.Registry
	workers int
}

// New returns a Scanner backed by reg. workers <= 0 falls back to a
// small fixed pool; callers typically size this via gopsutil's logical
// core count (see cmd/devclean), keeping that dependency out of this
// package so it stays a pure concurrency primitive.
func New(reg *registry.Registry, workers int) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{reg: reg, workers: workers}
}

// Scan walks cfg.Roots and returns a ScanResult. reporter may be nil;
// a fresh, unregistered one is created in that case. Reporter reaches
// IsComplete=true when Scan returns a result, whether by completion or
// cancellation; it is left unset when Scan fails on a nonexistent root.
func (s *Scanner) Scan(ctx context.Context, cfg model.ScanConfig, reporter *progress.Reporter) (model.ScanResult, error) {
	if reporter == nil {
		reporter = progress.New()
	}
	start := time.Now()

	for _, root := range cfg.Roots {
		if !fsutil.PathExists(root) {
			return model.ScanResult{}, model.NewError(model.ErrPathNotFound, root, os.ErrNotExist)
		}
	}

	w := &walk{
		reg:      s.reg,
		cfg:      cfg,
		reporter: reporter,
		sem:      make(chan struct{}, s.workers),
		resultCh: make(chan model.Project, 64),
	}

	var collected []model.Project
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for p := range w.resultCh {
			collected = append(collected, p)
		}
	}()

	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			w.recordError(root, err)
			continue
		}
		w.spawn(ctx, abs, 0)
	}

	w.wg.Wait()
	close(w.resultCh)
	collectorWg.Wait()

	reporter.MarkComplete()

	projects := reconcile(collected)
	projects = filterMinSize(projects, cfg.MinSize)
	model.SortProjects(projects)

	return model.ScanResult{
		Projects:           projects,
		DirectoriesScanned: reporter.Snapshot().DirectoriesScanned,
		Duration:           time.Since(start),
		ErrorsEncountered:  w.errors(),
		Cancelled:          ctx.Err() != nil,
	}, nil
}

// walk holds per-Scan runtime state. cfg is read-only after
// construction; everything else is either atomic (via reporter),
// channel-based, or protected by errMu — no locks are ever held across
// a filesystem syscall (spec.md §5 "workers must not hold locks across
// syscalls").
type walk struct {
	reg      *registry.Registry
	cfg      model.ScanConfig
	reporter *progress.Reporter

	sem      chan struct{}
	resultCh chan model.Project
	wg       sync.WaitGroup

	errMu  sync.Mutex
	errsCh []model.ScanError
}

func (w *walk) recordError(path string, err error) {
	w.errMu.Lock()
	w.errsCh = append(w.errsCh, model.ScanError{Path: path, Err: err})
	w.errMu.Unlock()
}

func (w *walk) errors() []model.ScanError {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	out := make([]model.ScanError, len(w.errsCh))
	copy(out, w.errsCh)
	return out
}

// spawn fans out a goroutine for one directory at the given depth.
// wg.Add happens before the goroutine starts so Wait() can never race
// an about-to-start walker.
func (w *walk) spawn(ctx context.Context, dir string, depth int) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.visit(ctx, dir, depth)
	}()
}

// visit processes one directory: classify, size artifacts, emit
// Projects, then fan out into the children the pruning rule allows.
func (w *walk) visit(ctx context.Context, dir string, depth int) {
	if ctx.Err() != nil {
		return
	}
	if registry.ExcludedByPattern(dir, w.cfg.ExcludedPaths) {
		return
	}

	w.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-w.sem
	if err != nil {
		w.recordError(dir, err)
		w.reporter.IncDirectoriesScanned()
		return
	}

	matches, err := w.reg.Classify(dir)
	if err != nil {
		w.recordError(dir, err)
	}

	var projectsEmitted, sizeEmitted int64
	for _, plugin := range matches {
		if ctx.Err() != nil {
			break
		}
		proj := w.materialize(ctx, dir, plugin)
		if proj == nil {
			continue
		}
		projectsEmitted++
		sizeEmitted += proj.CleanableSize
		w.resultCh <- *proj
	}

	w.reporter.IncDirectoriesScanned()
	w.reporter.AddProjectsFound(projectsEmitted)
	w.reporter.AddSizeFound(sizeEmitted)

	if w.cfg.MaxDepthEnabled && depth >= w.cfg.MaxDepth {
		return
	}

	for _, child := range w.children(dir, entries, matches) {
		w.spawn(ctx, child, depth+1)
	}
}

// materialize computes a provisional Project for one plugin match:
// enumerate every cleanable-dir pattern to concrete existing paths and
// size each one. A Project with no surviving artifacts is dropped
// (spec.md §4.2 step 3).
func (w *walk) materialize(ctx context.Context, dir string, plugin registry.Plugin) *model.Project {
	var artifacts []model.Artifact
	var lastMod time.Time

	for _, pattern := range plugin.CleanableDirs() {
		if ctx.Err() != nil {
			break
		}
		for _, p := range w.expandCleanablePattern(dir, pattern) {
			size, err := fsutil.DirSize(p, w.cfg.FollowSymlinks)
			if err != nil {
				w.recordError(p, err)
				continue
			}
			if size == 0 {
				continue
			}
			if info, statErr := os.Stat(p); statErr == nil && info.ModTime().After(lastMod) {
				lastMod = info.ModTime()
			}
			artifacts = append(artifacts, model.Artifact{
				Path: p,
				Kind: classifyArtifactKind(pattern),
				Size: size,
				Name: filepath.Base(p),
			})
		}
	}

	if len(artifacts) == 0 {
		return nil
	}

	proj := &model.Project{
		Root:         dir,
		Name:         filepath.Base(dir),
		Kind:         plugin.Kind(),
		Artifacts:    artifacts,
		LastModified: lastMod,
	}
	proj.RecomputeCleanableSize()
	return proj
}

// expandCleanablePattern resolves a cleanable-dir declaration (a plain
// relative name or a doublestar glob) against dir, returning only paths
// that currently exist — "skipping any entry that does not exist"
// (spec.md §4.2 step 3).
func (w *walk) expandCleanablePattern(dir, pattern string) []string {
	if !strings.ContainsAny(pattern, "*?[") {
		p := filepath.Join(dir, pattern)
		if fsutil.PathExists(p) {
			return []string{p}
		}
		return nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(dir, m))
	}
	return out
}

func classifyArtifactKind(pattern string) model.ArtifactKind {
	base := strings.ToLower(filepath.Base(pattern))
	switch {
	case strings.Contains(base, "node_modules") || strings.Contains(base, "vendor") ||
		strings.Contains(base, "deps") || strings.Contains(base, "pods"):
		return model.DependencyDir
	case strings.Contains(base, "cache"):
		return model.Cache
	case strings.Contains(base, "log"):
		return model.Log
	case strings.Contains(base, "tmp") || strings.Contains(base, "temp"):
		return model.TempFile
	default:
		return model.BuildOutput
	}
}

// children computes which direct children of dir the walk should
// descend into, applying the pruning rule from spec.md §4.2 steps 4-5:
// classified directories don't descend into their own cleanable-dir
// leaves, but do descend into other children (nested projects are
// supported); hidden directories (including .git) are never descended
// into; symlinked directories are only descended into when
// FollowSymlinks is set.
func (w *walk) children(dir string, entries []os.DirEntry, matches []registry.Plugin) []string {
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if isPrunedChild(matches, name) {
			continue
		}
		if !w.cfg.FollowSymlinks {
			if info, err := e.Info(); err == nil && info.Mode()&os.ModeSymlink != 0 {
				continue
			}
		}
		out = append(out, filepath.Join(dir, name))
	}
	return out
}

// isPrunedChild reports whether name is a cleanable-dir leaf of any
// matched plugin, via the registry's own glob-aware matcher.
func isPrunedChild(matches []registry.Plugin, name string) bool {
	for _, p := range matches {
		if registry.MatchesCleanable(p, name) {
			return true
		}
	}
	return false
}

// reconcile drops any project whose root is a strict ancestor of
// another project's root, keeping only the deepest project along each
// chain. This both enforces "no project root is an ancestor of
// another's" (spec.md §8 invariant 3) and resolves overlapping-artifact
// claims between a monorepo root and a nested sub-package in one step,
// since the shallower project (and every artifact path it claimed) is
// dropped wholesale rather than reconciled path-by-path.
func reconcile(projects []model.Project) []model.Project {
	isAncestorOfAnother := make(map[string]bool, len(projects))
	for i := range projects {
		for j := range projects {
			if i == j {
				continue
			}
			if projects[i].Root != projects[j].Root && fsutil.IsAncestorOrEqual(projects[i].Root, projects[j].Root) {
				isAncestorOfAnother[projects[i].Root] = true
			}
		}
	}
	return lo.Filter(projects, func(p model.Project, _ int) bool {
		return !isAncestorOfAnother[p.Root]
	})
}

func filterMinSize(projects []model.Project, minSize int64) []model.Project {
	if minSize <= 0 {
		return projects
	}
	return lo.Filter(projects, func(p model.Project, _ int) bool {
		return p.CleanableSize >= minSize
	})
}
