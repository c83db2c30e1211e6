package app

import (
	"database/sql"

	"github.com/kalendo/kalendo/internal/config"
	"github.com/kalendo/kalendo/internal/event_bus"
	"github.com/kalendo/kalendo/internal/utils"
	"github.com/kalendo/kalendo/pkg/calendar"
	"github.com/kalendo/kalendo/pkg/credential"
	"github.com/kalendo/kalendo/pkg/google"
	"github.com/kalendo/kalendo/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	GoogleClient      *google.Client
	GoogleAuthHandler *google.AuthHandler

	CredentialRepository credential.Repository
	CredentialManager    credential.Manager

	CalendarRepository *calendar.RepositoryImpl
	CalendarReconciler calendar.Reconciler
	CalendarHandler    *calendar.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.EventBus = event_bus.NewEventBus()
	deps.EventBus.Subscribe(event_bus.EventTypeWindowSynced, func(e event_bus.Event) error {
		if payload, ok := e.Data.(event_bus.WindowSynced); ok {
			log.Debugf("window synced for user %d: %d events", payload.UserId, payload.EventCount)
		}
		return nil
	})

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.GoogleClient = google.NewClient(cfg)

	deps.CredentialRepository = credential.NewRepository(db)
	deps.CredentialManager = credential.NewManager(deps.CredentialRepository, deps.GoogleClient, deps.Clock)

	deps.GoogleAuthHandler = google.NewAuthHandler(
		deps.GoogleClient,
		deps.UserService,
		deps.CredentialRepository,
		deps.CredentialManager,
		deps.EventBus,
	)

	deps.CalendarRepository = calendar.NewRepository(db)
	deps.CalendarReconciler = calendar.NewReconciler(
		deps.CalendarRepository,
		deps.GoogleClient,
		deps.CredentialManager,
		deps.EventBus,
		deps.Clock,
	)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarReconciler)

	return deps
}
