package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
	"github.com/j-veylop/kpi-dashboard-tui/internal/services"
)

// Resources tracked by SetLoading.
const (
	LoadingInitial = "initial"
	LoadingQuery   = "query"
	LoadingHistory = "history"
)

var loadingOrder = []string{LoadingInitial, LoadingQuery, LoadingHistory}

// State is the data shared between the root model and the tabs. It is safe
// for concurrent use.
type State struct {
	mu sync.RWMutex

	loading map[string]bool

	lastResult  *services.QueryResult
	records     []models.Record
	recordKeys  []string
	lastUpdated time.Time

	notifications []Notification
}

// NewState returns a state waiting for its initial load.
func NewState() *State {
	return &State{loading: map[string]bool{LoadingInitial: true}}
}

// SetLoading marks one of the Loading* resources busy or idle; other names are ignored.
func (s *State) SetLoading(resource string, loading bool) {
	if !slices.Contains(loadingOrder, resource) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[resource] = loading
}

// IsLoading reports whether resource is busy.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[resource]
}

// IsInitialLoading reports whether the first records load is still pending.
func (s *State) IsInitialLoading() bool {
	return s.IsLoading(LoadingInitial)
}

// AnyLoading reports whether any resource is busy.
func (s *State) AnyLoading() bool {
	return len(s.GetLoadingResources()) > 0
}

// GetLoadingResources lists busy resources in a fixed order.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var busy []string
	for _, r := range loadingOrder {
		if s.loading[r] {
			busy = append(busy, r)
		}
	}
	return busy
}

func (s *State) SetLastResult(r *services.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = r
	s.lastUpdated = time.Now()
}

// GetLastResult returns the latest successful query, or nil.
func (s *State) GetLastResult() *services.QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

// SetRecords replaces the records file contents and the KPI keys found in it.
func (s *State) SetRecords(records []models.Record, keys []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.recordKeys = keys
	s.lastUpdated = time.Now()
}

// GetRecords returns a copy of the records slice; the records themselves are shared.
func (s *State) GetRecords() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *State) GetRecordKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.recordKeys)
}

func (s *State) GetRecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LastUpdated is when a query result or records were last stored.
func (s *State) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}
