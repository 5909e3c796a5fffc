// Package api exposes the scheduling assistant over HTTP: an agent
// endpoint for conversational turns and direct endpoints for
// appointments and availability.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuttoai/agenda-ai-platform/internal/agent"
	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Agent          *agent.Agent
	Scheduler      *scheduler.Service
	Calendar       calendar.Client
	Location       *time.Location
	MetricsHandler http.Handler
	Version        string
}

// New creates a Chi router with all routes configured.
func New(cfg Config) http.Handler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(cfg.Logger))

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "version": cfg.Version})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Post("/agent/run", runAgentHandler(cfg.Agent))

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", createAppointmentHandler(cfg.Scheduler))
		r.Get("/", listAppointmentsHandler(cfg.Scheduler, cfg.Location))
		r.Delete("/{id}", cancelAppointmentHandler(cfg.Scheduler))
	})
	r.Get("/availability", availabilityHandler(cfg.Scheduler, cfg.Location))
	r.Get("/services", servicesHandler(cfg.Scheduler))
	if cfg.Calendar != nil {
		r.Get("/calendars", listCalendarsHandler(cfg.Calendar))
	}

	return r
}
