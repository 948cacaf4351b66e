package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupService_NextRun(t *testing.T) {
	svc := NewCleanupService(nil, 14)

	morning := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC), svc.NextRun(morning))

	exact := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), svc.NextRun(exact))

	evening := time.Date(2026, 12, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 14, 0, 0, 0, time.UTC), svc.NextRun(evening))
}

func TestCleanupService_InvalidHourDefaults(t *testing.T) {
	svc := NewCleanupService(nil, 42)
	assert.Equal(t, 14, svc.hour)
}

func TestCleanupService_RunOnce(t *testing.T) {
	notes, _, _ := newNoteService(t)

	_, err := notes.CreateNote(1, "Empty", nil)
	require.NoError(t, err)
	_, err = notes.CreateNote(1, "Kept", []string{"hope"})
	require.NoError(t, err)

	svc := NewCleanupService(notes, 14)

	deleted, err := svc.RunOnce()
	require.NoError(t, err)
	assert.Zero(t, deleted, "notes inside the grace period survive")

	svc.now = func() time.Time { return time.Now().Add(2 * emptyNoteGrace) }
	deleted, err = svc.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	stats := svc.Stats()
	require.NotNil(t, stats.LastRun)
	assert.Equal(t, 1, stats.LastDeleted)
	assert.Equal(t, 1, stats.TotalDeleted)
	assert.Empty(t, stats.LastError)
	assert.False(t, stats.Running)
}

func TestCleanupService_StatsBeforeFirstRun(t *testing.T) {
	svc := NewCleanupService(nil, 6)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC) }

	stats := svc.Stats()
	assert.Nil(t, stats.LastRun)
	assert.Equal(t, 6, stats.HourUTC)
	assert.Equal(t, time.Date(2026, 5, 5, 6, 0, 0, 0, time.UTC), stats.NextRun)
}

func TestCleanupService_StartStop(t *testing.T) {
	svc := NewCleanupService(nil, 3)

	svc.Start()
	svc.Start()
	svc.Stop()
	svc.Stop()
	assert.False(t, svc.running)
}
