// Package records serves KPI records from a local JSON export and reloads
// them when the file changes on disk.
package records

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/kpi-dashboard-tui/internal/logger"
	"github.com/j-veylop/kpi-dashboard-tui/internal/models"
)

const (
	// Editors often write a file in several steps; wait for quiet before reloading.
	settleDelay = 100 * time.Millisecond
	eventBuffer = 100
)

// EventType classifies an Event.
type EventType int

const (
	EventRecordsLoaded EventType = iota
	EventRecordsChanged
	EventError
)

// Event reports a load, a reload or a failure. Count is the record count
// after a successful (re)load.
type Event struct {
	Type  EventType
	Count int
	Error error
}

// snapshot is one successfully parsed version of the file.
type snapshot struct {
	records  []models.Record
	keys     []string
	loadedAt time.Time
}

// Service holds the records from one JSON file.
type Service struct {
	path    string
	current atomic.Pointer[snapshot]
	events  chan Event

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	closed  sync.Once
}

// New loads path and watches its directory so that creates and atomic
// renames are seen. A missing file is not an error: it is loaded once it
// appears. An empty path gives an empty, unwatched source.
func New(path string) (*Service, error) {
	s := &Service{
		path:   path,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	s.current.Store(&snapshot{})

	if path == "" {
		return s, nil
	}

	if err := s.load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	s.watcher = w

	s.wg.Add(1)
	go s.watch()

	s.publish(Event{Type: EventRecordsLoaded, Count: s.Count()})
	return s, nil
}

// Events delivers load, reload and error notifications. When the buffer is
// full the oldest event is dropped.
func (s *Service) Events() <-chan Event {
	return s.events
}

// Enabled reports whether a file path was configured.
func (s *Service) Enabled() bool {
	return s.path != ""
}

// Records returns a copy of the record slice; the records themselves are shared.
func (s *Service) Records() []models.Record {
	return slices.Clone(s.current.Load().records)
}

func (s *Service) Count() int {
	return len(s.current.Load().records)
}

// LoadedAt is when the file was last parsed successfully.
func (s *Service) LoadedAt() time.Time {
	return s.current.Load().loadedAt
}

// KPIKeys returns every non-time key present in the records, sorted.
func (s *Service) KPIKeys() []string {
	return slices.Clone(s.current.Load().keys)
}

// load parses the file and swaps in the new snapshot. On failure the
// previous snapshot stays in place.
func (s *Service) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	recs, err := models.DecodeRecords(data)
	if err != nil {
		return fmt.Errorf("failed to parse records file: %w", err)
	}
	s.current.Store(&snapshot{records: recs, keys: kpiKeys(recs), loadedAt: time.Now()})
	return nil
}

func kpiKeys(recs []models.Record) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, r := range recs {
		for k := range r {
			if _, dup := seen[k]; dup || k == models.TimeField {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// watch reloads the file after writes to it have settled.
func (s *Service) watch() {
	defer s.wg.Done()

	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	name := filepath.Base(s.path)
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == name && ev.Has(fsnotify.Write|fsnotify.Create) {
				settle.Reset(settleDelay)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.publish(Event{Type: EventError, Error: err})

		case <-settle.C:
			s.reload()

		case <-s.done:
			return
		}
	}
}

func (s *Service) reload() {
	if err := s.load(); err != nil {
		logger.Warn("records reload failed", "path", s.path, "error", err)
		s.publish(Event{Type: EventError, Error: err})
		return
	}
	logger.Debug("records reloaded", "path", s.path, "count", s.Count())
	s.publish(Event{Type: EventRecordsChanged, Count: s.Count()})
}

// publish never blocks: when the buffer is full the oldest event is discarded.
func (s *Service) publish(ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (s *Service) Close() error {
	var err error
	s.closed.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		s.wg.Wait()
	})
	return err
}
