package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/credential"
	log "github.com/sirupsen/logrus"
)

// Reconciler keeps the local event mirror up to date with the remote
// calendar, one time window at a time.
type Reconciler interface {
	// SyncWindow pulls the user's remote events for [from, to], upserts them
	// into the local mirror and returns everything mirrored in that window.
	// Events that only exist locally are left alone; removal is a separate,
	// explicit operation.
	SyncWindow(ctx context.Context, userId int, from, to time.Time) ([]Event, error)
	// DeleteEvent removes one mirrored event for the user.
	DeleteEvent(ctx context.Context, userId int, externalId string) error
}

type ReconcilerImpl struct {
	repo        Repository
	source      RemoteEventSource
	credentials credential.Manager
	eventBus    *event_bus.EventBus
	clock       utils.Clock
}

func NewReconciler(
	repo Repository,
	source RemoteEventSource,
	credentials credential.Manager,
	eventBus *event_bus.EventBus,
	clock utils.Clock,
) *ReconcilerImpl {
	return &ReconcilerImpl{
		repo:        repo,
		source:      source,
		credentials: credentials,
		eventBus:    eventBus,
		clock:       clock,
	}
}

func (r *ReconcilerImpl) SyncWindow(ctx context.Context, userId int, from, to time.Time) ([]Event, error) {
	cred, err := r.credentials.EnsureValid(ctx, userId)
	if err != nil {
		return nil, err
	}

	remoteEvents, err := r.source.FetchEvents(ctx, cred.AccessToken, from, to)
	if err != nil {
		err := fmt.Errorf("%w: %v", ErrRemoteFetch, err)
		log.Error(err)
		return nil, err
	}

	syncedAt := r.clock.Now()
	for _, remote := range remoteEvents {
		if _, err := r.repo.Upsert(ctx, userId, Event{
			ExternalId:  remote.ExternalId,
			Summary:     remote.Summary,
			Description: remote.Description,
			StartTime:   remote.StartTime,
			EndTime:     remote.EndTime,
			Location:    remote.Location,
			Color:       remote.Color,
			IsAllDay:    remote.IsAllDay,
			LastSynced:  syncedAt,
		}); err != nil {
			return nil, err
		}
	}
	log.Debugf("synced %d remote events for user %d in window %v..%v", len(remoteEvents), userId, from, to)

	events, err := r.repo.GetEventsInWindow(ctx, userId, from, to)
	if err != nil {
		return nil, err
	}

	r.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.EventTypeWindowSynced, event_bus.WindowSynced{
		UserId:     userId,
		EventCount: len(events),
	}))
	return events, nil
}

func (r *ReconcilerImpl) DeleteEvent(ctx context.Context, userId int, externalId string) error {
	return r.repo.DeleteEvent(ctx, userId, externalId)
}
