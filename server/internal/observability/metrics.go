package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates request counters per route.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	routeMetrics map[string]*RouteMetrics
}

// RouteMetrics holds counters for one route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{routeMetrics: make(map[string]*RouteMetrics)}
}

// RecordRequest records one finished request. A status of 500 or above
// counts as failed.
func (m *Metrics) RecordRequest(route string, status int, duration time.Duration) {
	m.requestTotal.Add(1)
	rm := m.getRouteMetrics(route)
	rm.requestCount.Add(1)
	rm.totalDuration.Add(duration.Milliseconds())
	if status >= 500 {
		m.requestFailed.Add(1)
		rm.errorCount.Add(1)
	}
}

func (m *Metrics) getRouteMetrics(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rm, ok := m.routeMetrics[route]; ok {
		return rm
	}
	rm := &RouteMetrics{}
	m.routeMetrics[route] = rm
	return rm
}

// RouteSnapshot is a point-in-time view of one route's counters.
type RouteSnapshot struct {
	Route       string `json:"route"`
	Requests    int64  `json:"requests"`
	Errors      int64  `json:"errors"`
	AvgDuration int64  `json:"avgDurationMs"`
}

// Snapshot is a point-in-time view of all counters.
type Snapshot struct {
	RequestTotal  int64           `json:"requestTotal"`
	RequestFailed int64           `json:"requestFailed"`
	Routes        []RouteSnapshot `json:"routes"`
}

// SuccessRate returns the fraction of requests that did not fail.
func (s *Snapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 1
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal)
}

// TakeSnapshot copies the current counters, routes sorted by name.
func (m *Metrics) TakeSnapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
	}
	for route, rm := range m.routeMetrics {
		count := rm.requestCount.Load()
		avg := int64(0)
		if count > 0 {
			avg = rm.totalDuration.Load() / count
		}
		snap.Routes = append(snap.Routes, RouteSnapshot{
			Route:       route,
			Requests:    count,
			Errors:      rm.errorCount.Load(),
			AvgDuration: avg,
		})
	}
	sort.Slice(snap.Routes, func(i, j int) bool { return snap.Routes[i].Route < snap.Routes[j].Route })
	return snap
}
