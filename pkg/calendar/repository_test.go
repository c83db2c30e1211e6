package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/kalendo/kalendo/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*RepositoryImpl, context.Context) {
	db := test_utils.SetupTestDB(t)
	return NewRepository(db), context.Background()
}

func testEvent(externalId string, start time.Time) Event {
	return Event{
		ExternalId:  externalId,
		Summary:     "Summary " + externalId,
		Description: "Description",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Location:    "Office",
		Color:       "#3b82f6",
		LastSynced:  start.Add(-time.Hour),
	}
}

func TestRepositoryImpl_UpsertInsertsAndUpdates(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	_, err := repository.Upsert(ctx, 1, testEvent("g1", start))
	require.NoError(t, err)

	updated := testEvent("g1", start.Add(30*time.Minute))
	updated.Summary = "Renamed"
	updated.IsAllDay = true
	_, err = repository.Upsert(ctx, 1, updated)
	require.NoError(t, err)

	events, err := repository.GetEventsInWindow(ctx, 1, start, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Renamed", events[0].Summary)
	assert.Equal(t, start.Add(30*time.Minute).UnixMilli(), events[0].StartTime.UnixMilli())
	assert.True(t, events[0].IsAllDay)
}

func TestRepositoryImpl_UpsertIsScopedToUser(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	_, err := repository.Upsert(ctx, 1, testEvent("g1", start))
	require.NoError(t, err)
	otherUsers := testEvent("g1", start)
	otherUsers.Summary = "Other user's event"
	_, err = repository.Upsert(ctx, 2, otherUsers)
	require.NoError(t, err)

	events, err := repository.GetEventsInWindow(ctx, 1, start, start)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Summary g1", events[0].Summary)

	events, err = repository.GetEventsInWindow(ctx, 2, start, start)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Other user's event", events[0].Summary)
}

func TestRepositoryImpl_GetEventsInWindow(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	windowStart := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, time.June, 8, 23, 59, 59, 0, time.UTC)

	for _, event := range []Event{
		testEvent("at-start", windowStart),
		testEvent("at-end", windowEnd),
		testEvent("before", windowStart.Add(-time.Second)),
		testEvent("after", windowEnd.Add(time.Second)),
		testEvent("middle", windowStart.Add(72*time.Hour)),
	} {
		_, err := repository.Upsert(ctx, 1, event)
		require.NoError(t, err)
	}

	events, err := repository.GetEventsInWindow(ctx, 1, windowStart, windowEnd)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, "at-start", events[0].ExternalId)
	assert.Equal(t, "middle", events[1].ExternalId)
	assert.Equal(t, "at-end", events[2].ExternalId)
}

func TestRepositoryImpl_GetEventsInWindowOrdersTiesByExternalId(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	_, err := repository.Upsert(ctx, 1, testEvent("gB", start))
	require.NoError(t, err)
	_, err = repository.Upsert(ctx, 1, testEvent("gA", start))
	require.NoError(t, err)

	events, err := repository.GetEventsInWindow(ctx, 1, start, start)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "gA", events[0].ExternalId)
	assert.Equal(t, "gB", events[1].ExternalId)
}

func TestRepositoryImpl_DeleteEvent(t *testing.T) {
	repository, ctx := setupRepositoryTest(t)
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)

	_, err := repository.Upsert(ctx, 1, testEvent("g1", start))
	require.NoError(t, err)

	require.NoError(t, repository.DeleteEvent(ctx, 1, "g1"))
	// deleting again is a no-op
	require.NoError(t, repository.DeleteEvent(ctx, 1, "g1"))

	events, err := repository.GetEventsInWindow(ctx, 1, start, start)
	require.NoError(t, err)
	assert.Empty(t, events)
}
