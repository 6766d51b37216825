package service

import "sync/atomic"

// Stats counts watcher activity since startup.
type Stats struct {
	cyclesRun         atomic.Int64
	searchesProcessed atomic.Int64
	itemsFound        atomic.Int64
	notificationsSent atomic.Int64
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	CyclesRun         int64 `json:"cycles_run"`
	SearchesProcessed int64 `json:"searches_processed"`
	ItemsFound        int64 `json:"items_found"`
	NotificationsSent int64 `json:"notifications_sent"`
}

// NewStats creates a stats collector.
func NewStats() *Stats {
	return &Stats{}
}

// IncCycles records a completed scrape cycle.
func (s *Stats) IncCycles() {
	s.cyclesRun.Add(1)
}

// AddSearchesProcessed records processed searches.
func (s *Stats) AddSearchesProcessed(n int) {
	s.searchesProcessed.Add(int64(n))
}

// AddItemsFound records newly discovered listings.
func (s *Stats) AddItemsFound(n int) {
	s.itemsFound.Add(int64(n))
}

// IncNotificationsSent records a delivered notification.
func (s *Stats) IncNotificationsSent() {
	s.notificationsSent.Add(1)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		CyclesRun:         s.cyclesRun.Load(),
		SearchesProcessed: s.searchesProcessed.Load(),
		ItemsFound:        s.itemsFound.Load(),
		NotificationsSent: s.notificationsSent.Load(),
	}
}
