// Package progress is the Progress Reporter (spec.md §4.2 "Progress",
// §5 shared state item 1): three atomic counters ticked by the
// scanner's workers, exposed as a value-semantic snapshot plus an
// is_complete flag, and mirrored into a Prometheus registry the way
// the gitserver janitor in the retrieval pack exposes its own
// promauto counters/gauges alongside plain in-process state.
package progress

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is a value-semantic copy of the counters at one instant.
// Readers must tolerate slight cross-counter inconsistency (spec.md §5
// "Ordering guarantees": progress snapshots are not linearizable across
// counters).
type Snapshot struct {
	DirectoriesScanned int64
	ProjectsFound      int64
	TotalSizeFound     int64
	IsComplete         bool
}

// Reporter holds the three atomic counters the scanner increments on
// every directory completion, plus the completion flag the aggregator
// flips once the worker pool drains.
type Reporter struct {
	directoriesScanned atomic.Int64
	projectsFound      atomic.Int64
	totalSizeFound     atomic.Int64
	complete           atomic.Bool

	metrics *metrics
}

// metrics mirrors the atomic counters into a Prometheus registry so a
// long-running collaborator process (a daemon, not just a one-shot CLI
// invocation) can scrape scan progress the same way gitserver's janitor
// exposes its own counters.
type metrics struct {
	directoriesScanned prometheus.Counter
	projectsFound      prometheus.Counter
	totalSizeFound     prometheus.Counter
	scanComplete       prometheus.Gauge
}

// New returns a Reporter with no Prometheus wiring. Use NewWithRegistry
// to additionally mirror counters into reg.
func New() *Reporter {
	return &Reporter{}
}

// NewWithRegistry returns a Reporter whose counters are also registered
// against reg under the devclean_scan_* names.
func NewWithRegistry(reg prometheus.Registerer) *Reporter {
	m := &metrics{
		directoriesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devclean_scan_directories_scanned_total",
			Help: "Directories visited by the parallel scanner.",
		}),
		projectsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devclean_scan_projects_found_total",
			Help: "Projects classified by the plugin registry during scans.",
		}),
		totalSizeFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "devclean_scan_bytes_found_total",
			Help: "Cumulative cleanable bytes discovered across scans.",
		}),
		scanComplete: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "devclean_scan_in_progress",
			Help: "1 while a scan is running, 0 once it completes.",
		}),
	}
	reg.MustRegister(m.directoriesScanned, m.projectsFound, m.totalSizeFound, m.scanComplete)
	m.scanComplete.Set(1)
	return &Reporter{metrics: m}
}

// IncDirectoriesScanned ticks the directories_scanned counter.
func (r *Reporter) IncDirectoriesScanned() {
	r.directoriesScanned.Add(1)
	if r.metrics != nil {
		r.metrics.directoriesScanned.Inc()
	}
}

// AddProjectsFound ticks projects_found by n (n may be >1 for a
// polyglot directory that classified into several plugins at once).
func (r *Reporter) AddProjectsFound(n int64) {
	if n == 0 {
		return
	}
	r.projectsFound.Add(n)
	if r.metrics != nil {
		r.metrics.projectsFound.Add(float64(n))
	}
}

// AddSizeFound ticks total_size_found by n bytes.
func (r *Reporter) AddSizeFound(n int64) {
	if n == 0 {
		return
	}
	r.totalSizeFound.Add(n)
	if r.metrics != nil {
		r.metrics.totalSizeFound.Add(float64(n))
	}
}

// MarkComplete flips is_complete to true once the worker pool drains.
func (r *Reporter) MarkComplete() {
	r.complete.Store(true)
	if r.metrics != nil {
		r.metrics.scanComplete.Set(0)
	}
}

// Snapshot returns a value-semantic copy of the current counters.
func (r *Reporter) Snapshot() Snapshot {
	return Snapshot{
		DirectoriesScanned: r.directoriesScanned.Load(),
		ProjectsFound:      r.projectsFound.Load(),
		TotalSizeFound:     r.totalSizeFound.Load(),
		IsComplete:         r.complete.Load(),
	}
}
