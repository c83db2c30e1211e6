package event_bus

const (
	// EventTypeCalendarConnected fires after a successful OAuth code exchange.
	EventTypeCalendarConnected EventType = "calendar.connected"
	// EventTypeCalendarDisconnected fires when a user's credential is revoked.
	EventTypeCalendarDisconnected EventType = "calendar.disconnected"
	// EventTypeWindowSynced fires after a sync window has been reconciled.
	EventTypeWindowSynced EventType = "calendar.window_synced"
)

// WindowSynced is the payload for EventTypeWindowSynced.
type WindowSynced struct {
	UserId     int
	EventCount int
}
