package calendar

import (
	"context"
	"sort"
	"time"
)

type eventKey struct {
	userId     int
	externalId string
}

type StubRepository struct {
	events map[eventKey]Event
}

func NewStubRepository() *StubRepository {
	return &StubRepository{events: map[eventKey]Event{}}
}

func (r *StubRepository) GetEventsInWindow(ctx context.Context, userId int, from, to time.Time) ([]Event, error) {
	events := make([]Event, 0, len(r.events))
	for key, event := range r.events {
		if key.userId != userId {
			continue
		}
		if event.StartTime.Before(from) || event.StartTime.After(to) {
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ExternalId < events[j].ExternalId
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, nil
}

func (r *StubRepository) Upsert(ctx context.Context, userId int, event Event) (Event, error) {
	event.UserId = userId
	r.events[eventKey{userId, event.ExternalId}] = event
	return event, nil
}

func (r *StubRepository) DeleteEvent(ctx context.Context, userId int, externalId string) error {
	delete(r.events, eventKey{userId, externalId})
	return nil
}

// Count reports how many events are mirrored for the user.
func (r *StubRepository) Count(userId int) int {
	n := 0
	for key := range r.events {
		if key.userId == userId {
			n++
		}
	}
	return n
}
