package calendar

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Repository persists the local event mirror.
type Repository interface {
	// GetEventsInWindow returns the user's events whose start time lies in
	// [from, to], both ends inclusive, ordered by start time ascending with
	// ties broken by external id.
	GetEventsInWindow(ctx context.Context, userId int, from, to time.Time) ([]Event, error)
	// Upsert inserts the event or, if one exists for (userId, externalId),
	// overwrites every field except the identity.
	Upsert(ctx context.Context, userId int, event Event) (Event, error)
	// DeleteEvent removes one mirrored event. The sync path never calls this;
	// it exists for explicit cleanup by callers.
	DeleteEvent(ctx context.Context, userId int, externalId string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetEventsInWindow(ctx context.Context, userId int, from, to time.Time) ([]Event, error) {
	query := `SELECT user_id, google_event_id, summary, description, start_time, end_time, location, color, is_all_day, last_synced
				FROM calendar_events
				WHERE user_id = $1
				  AND start_time >= $2
				  AND start_time <= $3
				ORDER BY start_time, google_event_id`

	rows, err := r.db.QueryContext(ctx, query, userId, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		var event Event
		var startMillis, endMillis, lastSyncedMillis int64
		var isAllDay int
		err := rows.Scan(
			&event.UserId,
			&event.ExternalId,
			&event.Summary,
			&event.Description,
			&startMillis,
			&endMillis,
			&event.Location,
			&event.Color,
			&isAllDay,
			&lastSyncedMillis,
		)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		event.StartTime = time.UnixMilli(startMillis)
		event.EndTime = time.UnixMilli(endMillis)
		event.LastSynced = time.UnixMilli(lastSyncedMillis)
		event.IsAllDay = isAllDay != 0
		events = append(events, event)
	}
	return events, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, userId int, event Event) (Event, error) {
	query := `INSERT INTO calendar_events (
				user_id,
				google_event_id,
				summary,
				description,
				start_time,
				end_time,
				location,
				color,
				is_all_day,
				last_synced
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (user_id, google_event_id) DO UPDATE SET
				summary = excluded.summary,
				description = excluded.description,
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				location = excluded.location,
				color = excluded.color,
				is_all_day = excluded.is_all_day,
				last_synced = excluded.last_synced`

	isAllDay := 0
	if event.IsAllDay {
		isAllDay = 1
	}
	_, err := r.db.ExecContext(ctx, query,
		userId,
		event.ExternalId,
		event.Summary,
		event.Description,
		event.StartTime.UnixMilli(),
		event.EndTime.UnixMilli(),
		event.Location,
		event.Color,
		isAllDay,
		event.LastSynced.UnixMilli(),
	)
	if err != nil {
		err := fmt.Errorf("could not upsert calendar event: %w", err)
		log.Error(err)
		return Event{}, err
	}

	event.UserId = userId
	return event, nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, userId int, externalId string) error {
	query := "DELETE FROM calendar_events WHERE user_id = $1 AND google_event_id = $2"
	_, err := r.db.ExecContext(ctx, query, userId, externalId)
	if err != nil {
		err := fmt.Errorf("could not delete calendar event: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
