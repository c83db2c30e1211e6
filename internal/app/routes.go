package app

import (
	"github.com/gorilla/mux"
	"github.com/kalendo/kalendo/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Google authentication
	r.HandleFunc("/api/auth/google/login", deps.GoogleAuthHandler.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/auth/google/callback", deps.GoogleAuthHandler.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/auth/google/status", deps.GoogleAuthHandler.Status).Methods("GET")
	r.HandleFunc("/api/auth/google/logout", deps.GoogleAuthHandler.OAuthLogout).Methods("DELETE")

	// Calendar
	r.HandleFunc("/api/calendar/events", deps.CalendarHandler.GetEvents).Queries("start", "{start}", "end", "{end}").Methods("GET")
	r.HandleFunc("/api/calendar/events/{eventId}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
