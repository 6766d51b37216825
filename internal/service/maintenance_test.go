package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMaintenance_ExpireSeenListings(t *testing.T) {
	seen := newFakeSeenRepo()
	now := time.Now()

	require.NoError(t, seen.Add("old", now.Add(-25*time.Hour)))
	require.NoError(t, seen.Add("fresh", now.Add(-time.Hour)))

	m := NewMaintenance(seen, 24*time.Hour, NewStats(), zap.NewNop())

	removed, err := m.ExpireSeenListings()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	contains, err := seen.Contains("fresh")
	require.NoError(t, err)
	assert.True(t, contains)

	contains, err = seen.Contains("old")
	require.NoError(t, err)
	assert.False(t, contains)
}

func TestMaintenance_StartStop(t *testing.T) {
	m := NewMaintenance(newFakeSeenRepo(), 24*time.Hour, NewStats(), zap.NewNop())

	require.NoError(t, m.Start())
	m.Stop()
}

func TestStats_Snapshot(t *testing.T) {
	stats := NewStats()

	stats.IncCycles()
	stats.AddSearchesProcessed(3)
	stats.AddItemsFound(7)
	stats.IncNotificationsSent()
	stats.IncNotificationsSent()

	snapshot := stats.Snapshot()
	assert.Equal(t, int64(1), snapshot.CyclesRun)
	assert.Equal(t, int64(3), snapshot.SearchesProcessed)
	assert.Equal(t, int64(7), snapshot.ItemsFound)
	assert.Equal(t, int64(2), snapshot.NotificationsSent)
}
