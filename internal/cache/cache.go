// Package cache is the Scan Cache (spec.md §4.3, component F): a
// persisted, version-tagged index of past scan results with
// mtime-based per-entry validity and scope-restricted reuse.
//
// The atomic temp-file-then-rename write and "unknown version/any read
// error → empty" tolerance are grounded on the discovery cache in the
// retrieval pack's workspace package, adapted from JSON to yaml.v3 (the
// registry's serialization library of choice) and from a flat
// TTL-by-whole-cache check to the spec's per-entry mtime validity plus
// a 7-day whole-cache staleness bound.
package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arjunvg/devclean/internal/model"
	"github.com/arjunvg/devclean/pkg/fsutil"
)

// SchemaVersion is bumped whenever the on-disk format changes in a way
// that is not safely forward-compatible. A cache file written under a
// prior version is treated as absent (spec.md §4.3 "is_valid").
const SchemaVersion = 1

// maxAge is the whole-cache staleness bound from spec.md §4.3
// "is_valid(): ... last_touched <= 7 days old".
const maxAge = 7 * 24 * time.Hour

// CachedProject is one persisted scan result, stamped with the state it
// was observed under so later reads can detect drift.
type CachedProject struct {
	Project     model.Project `yaml:"project"`
	MtimeAtScan time.Time     `yaml:"mtime_at_scan"`
	ScannedAt   time.Time     `yaml:"scanned_at"`
}

// Valid reports whether this entry's validity predicate still holds:
// the project root's mtime has not advanced past what was observed at
// scan time, and every artifact path still exists.
func (c CachedProject) Valid() bool {
	info, err := os.Stat(c.Project.Root)
	if err != nil {
		return false
	}
	if info.ModTime().After(c.MtimeAtScan) {
		return false
	}
	for _, a := range c.Project.Artifacts {
		if !fsutil.PathExists(a.Path) {
			return false
		}
	}
	return true
}

// diskFormat is the serialized shape, kept separate from ScanCache so
// the in-memory map representation never leaks unknown-field handling
// concerns into callers.
type diskFormat struct {
	Version     int                      `yaml:"version"`
	LastTouched time.Time                `yaml:"last_touched"`
	Projects    map[string]CachedProject `yaml:"projects"`
}

// ScanCache is the in-memory representation: canonical project root →
// CachedProject, plus the schema version and last-touched timestamp
// that govern the whole-cache validity predicate.
type ScanCache struct {
	Version     int
	LastTouched time.Time
	Projects    map[string]CachedProject

	path string
}

// New returns an empty ScanCache backed by the default path (user cache
// directory / "null-e" / scan_cache.<version>, spec.md §6 "Persisted
// state").
func New() *ScanCache {
	return &ScanCache{
		Version:     SchemaVersion,
		LastTouched: time.Time{},
		Projects:    make(map[string]CachedProject),
		path:        defaultPath(),
	}
}

func defaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "null-e", "scan_cache."+strconv.Itoa(SchemaVersion))
}

// Load reads the serialized cache from its well-known location,
// returning an empty ScanCache on any failure (missing file, unreadable
// YAML, or a schema version mismatch) — spec.md §4.3 "load(): returns
// empty on any failure" and §7 "CacheCorrupt — silent; load returns
// empty".
func Load() *ScanCache {
	return loadPath(defaultPath())
}

func loadPath(path string) *ScanCache {
	c := New()
	c.path = path
	data, err := os.ReadFile(c.path)
	if err != nil {
		return c
	}

	var disk diskFormat
	if err := yaml.Unmarshal(data, &disk); err != nil {
		return c
	}
	if disk.Version != SchemaVersion {
		return c
	}

	c.Version = disk.Version
	c.LastTouched = disk.LastTouched
	if disk.Projects != nil {
		c.Projects = disk.Projects
	}
	return c
}

// Save atomically writes the cache via a temp file + rename, so a
// concurrent reader never observes a partially written file.
func (c *ScanCache) Save() error {
	disk := diskFormat{
		Version:     c.Version,
		LastTouched: c.LastTouched,
		Projects:    c.Projects,
	}
	data, err := yaml.Marshal(disk)
	if err != nil {
		return model.NewError(model.ErrCacheCorrupt, c.path, err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return model.NewError(model.ErrIO, dir, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return model.NewError(model.ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return model.NewError(model.ErrIO, c.path, err)
	}
	return nil
}

// CacheProject inserts or replaces the entry for p.Root, stamping
// scanned_at = now and mtime_at_scan = mtime(root).
func (c *ScanCache) CacheProject(p model.Project) error {
	canon, err := fsutil.Canonicalize(p.Root)
	if err != nil {
		return model.NewError(model.ErrPathNotFound, p.Root, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return model.NewError(model.ErrPathNotFound, canon, err)
	}
	p.Root = canon
	c.Projects[canon] = CachedProject{
		Project:     p,
		MtimeAtScan: info.ModTime(),
		ScannedAt:   time.Now(),
	}
	return nil
}

// GetAllValidProjects returns every entry passing the per-entry
// validity predicate.
func (c *ScanCache) GetAllValidProjects() []model.Project {
	var out []model.Project
	for _, entry := range c.Projects {
		if entry.Valid() {
			out = append(out, entry.Project)
		}
	}
	model.SortProjects(out)
	return out
}

// IsValid reports whole-cache validity: schema version matches and
// last_touched is within the 7-day staleness bound.
func (c *ScanCache) IsValid() bool {
	if c.Version != SchemaVersion {
		return false
	}
	if c.LastTouched.IsZero() {
		return false
	}
	return time.Since(c.LastTouched) <= maxAge
}

// Touch updates last_touched to now.
func (c *ScanCache) Touch() {
	c.LastTouched = time.Now()
}

// ReuseForRoot implements the single-root reuse policy (spec.md §4.3
// "Reuse policy"): if the cache is valid and at least one cached
// project's root is a descendant of root, return that filtered subset;
// otherwise return (nil, false) so the caller falls back to a fresh
// scan.
func (c *ScanCache) ReuseForRoot(root string) ([]model.Project, bool) {
	if !c.IsValid() {
		return nil, false
	}
	canonRoot, err := fsutil.Canonicalize(root)
	if err != nil {
		return nil, false
	}

	var matched []model.Project
	for _, entry := range c.Projects {
		if !entry.Valid() {
			continue
		}
		if fsutil.IsAncestorOrEqual(canonRoot, entry.Project.Root) {
			matched = append(matched, entry.Project)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	model.SortProjects(matched)
	return matched, true
}
