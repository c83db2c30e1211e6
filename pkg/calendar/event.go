package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrRemoteFetch wraps any provider or network failure while fetching remote
// events. The window request that hit it can simply be retried.
var ErrRemoteFetch = errors.New("failed to fetch events from google calendar")

// Event is a locally mirrored calendar event. Within one user's event set the
// external (Google) event id is unique; (UserId, ExternalId) is the
// reconciliation identity key.
type Event struct {
	UserId      int
	ExternalId  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Color       string
	IsAllDay    bool
	LastSynced  time.Time
}

// RemoteEvent is a provider-shaped event as returned by the remote source.
// It is never persisted as-is; the reconciler upserts it into the mirror.
// IsAllDay is classified once at fetch-mapping time (a start without a
// time-of-day component means all-day) and stored, not recomputed later.
type RemoteEvent struct {
	ExternalId  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Color       string
	IsAllDay    bool
}

// RemoteEventSource fetches a user's events for a window from the provider.
// Implementations live outside this package; the reconciler depends only on
// this contract.
type RemoteEventSource interface {
	FetchEvents(ctx context.Context, accessToken string, from, to time.Time) ([]RemoteEvent, error)
}
