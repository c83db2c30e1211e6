package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/internal/rest"
	"github.com/kalendo/kalendo/pkg/credential"
	"github.com/kalendo/kalendo/pkg/user"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    string    `json:"location,omitempty"`
	Color       string    `json:"color,omitempty"`
	IsAllDay    bool      `json:"isAllDay"`
	LastSynced  time.Time `json:"lastSynced"`
}

type Handler struct {
	reconciler Reconciler
}

func NewHandler(reconciler Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// GetEvents syncs the requested window against the remote calendar and
// returns the mirrored events. Query params start and end are RFC 3339
// timestamps and both are required.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userId, err := user.CurrentId(ctx)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}
	if to.Before(from) {
		rest.WriteError(w, http.StatusBadRequest, "End date must not be before start date", nil)
		return
	}

	events, err := h.reconciler.SyncWindow(ctx, userId, from, to)
	if err != nil {
		switch {
		case errors.Is(err, credential.ErrNotConnected), errors.Is(err, credential.ErrRefreshFailed):
			rest.WriteError(w, http.StatusUnauthorized, "Google Calendar is not connected", err)
		case errors.Is(err, ErrRemoteFetch):
			rest.WriteError(w, http.StatusBadGateway, "Could not fetch events from Google Calendar", err)
		default:
			rest.WriteError(w, http.StatusInternalServerError, "Could not sync calendar events", err)
		}
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, toDTO(event))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("could not encode response: %v", err)
	}
}

// DeleteEvent removes a single event from the local mirror.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userId, err := user.CurrentId(ctx)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	externalId := mux.Vars(r)["eventId"]
	if externalId == "" {
		rest.WriteError(w, http.StatusBadRequest, "Missing event id", nil)
		return
	}

	if err := h.reconciler.DeleteEvent(ctx, userId, externalId); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Could not delete calendar event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(event Event) EventDTO {
	return EventDTO{
		Id:          event.ExternalId,
		Summary:     event.Summary,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Location:    event.Location,
		Color:       event.Color,
		IsAllDay:    event.IsAllDay,
		LastSynced:  event.LastSynced,
	}
}
