// Package metrics provides lightweight counters and gauges for lessond.
//
// The registry is thread-safe and snapshots to JSON for the IPC status
// reply. There is no scrape endpoint; the daemon's surface is the control
// socket.
package metrics

import (
	"sort"
	"sync"
)

// Registry holds named counters and gauges.
type Registry struct {
	mu       sync.RWMutex
	counters map[string]uint64
	gauges   map[string]int64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]uint64),
		gauges:   make(map[string]int64),
	}
}

// Inc adds one to a counter.
func (r *Registry) Inc(name string) {
	r.Add(name, 1)
}

// Add increments a counter by n.
func (r *Registry) Add(name string, n uint64) {
	r.mu.Lock()
	r.counters[name] += n
	r.mu.Unlock()
}

// SetGauge sets a gauge value.
func (r *Registry) SetGauge(name string, v int64) {
	r.mu.Lock()
	r.gauges[name] = v
	r.mu.Unlock()
}

// Counter returns a counter's current value.
func (r *Registry) Counter(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// Gauge returns a gauge's current value.
func (r *Registry) Gauge(name string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Counters map[string]uint64 `json:"counters"`
	Gauges   map[string]int64  `json:"gauges"`
}

// Snapshot copies every metric.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Counters: make(map[string]uint64, len(r.counters)),
		Gauges:   make(map[string]int64, len(r.gauges)),
	}
	for k, v := range r.counters {
		s.Counters[k] = v
	}
	for k, v := range r.gauges {
		s.Gauges[k] = v
	}
	return s
}

// Names returns all metric names, sorted, counters first.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.counters)+len(r.gauges))
	for k := range r.counters {
		names = append(names, k)
	}
	for k := range r.gauges {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Well-known metric names used by the daemon.
const (
	MetricTicks          = "ticks_total"
	MetricInputPolls     = "input_polls_total"
	MetricInputDropped   = "input_samples_dropped_total"
	MetricPointerHides   = "pointer_hides_total"
	MetricPointerShows   = "pointer_shows_total"
	MetricRuleReloads    = "rule_reloads_total"
	MetricResolveMisses  = "resolve_misses_total"
	MetricGaugeProgress  = "progress_percent"
	MetricGaugeRemaining = "remaining_seconds"
	MetricGaugeRuleCount = "rules_loaded"
	MetricGaugeArmed     = "automation_armed"
)
