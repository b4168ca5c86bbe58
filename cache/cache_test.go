// ABOUTME: Tests for the SQLite snapshot cache
// ABOUTME: Covers snapshot round-trips, overwrites, and activity listing order
package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespad/activity"
	"salespad/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := openTestCache(t)

	leads := []models.Lead{
		{ID: "l1", Name: "Ada Lovelace", Status: models.LeadStatusNew},
		{ID: "l2", Name: "Grace Hopper", Status: models.LeadStatusQualified},
	}
	require.NoError(t, c.SaveSnapshot("leads", leads))

	var loaded []models.Lead
	found, err := c.LoadSnapshot("leads", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, loaded, 2)
	assert.Equal(t, "l1", loaded[0].ID)
	assert.Equal(t, "Grace Hopper", loaded[1].Name)
}

func TestSnapshotMissing(t *testing.T) {
	c := openTestCache(t)

	var loaded []models.Lead
	found, err := c.LoadSnapshot("leads", &loaded)
	require.NoError(t, err)
	assert.False(t, found)

	ts, err := c.SnapshotTime("leads")
	require.NoError(t, err)
	assert.Nil(t, ts)
}

func TestSnapshotOverwrite(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveSnapshot("deals", []models.Deal{{ID: "d1"}}))
	require.NoError(t, c.SaveSnapshot("deals", []models.Deal{{ID: "d2"}, {ID: "d3"}}))

	var loaded []models.Deal
	found, err := c.LoadSnapshot("deals", &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, loaded, 2)
	assert.Equal(t, "d2", loaded[0].ID)

	ts, err := c.SnapshotTime("deals")
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.WithinDuration(t, time.Now(), *ts, time.Minute)
}

func TestDeleteSnapshot(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.SaveSnapshot("voices", []models.Voice{{ID: "v1"}}))
	require.NoError(t, c.DeleteSnapshot("voices"))

	var loaded []models.Voice
	found, err := c.LoadSnapshot("voices", &loaded)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestActivitiesNewestFirst(t *testing.T) {
	c := openTestCache(t)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, c.SaveActivity(activity.Activity{
			ID:        id,
			Verb:      activity.VerbCreated,
			Entity:    "lead",
			EntityID:  "l1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := c.ListActivities(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a3", entries[0].ID)
	assert.Equal(t, "a2", entries[1].ID)
	assert.Equal(t, activity.VerbCreated, entries[0].Verb)
}
