package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tuttoai/agenda-ai-platform/internal/agent"
	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
)

func runAgentHandler(a *agent.Agent) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task agent.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if strings.TrimSpace(task.Message) == "" {
			writeError(w, http.StatusBadRequest, "missing_message", "message is required")
			return
		}
		writeJSON(w, http.StatusOK, a.Run(r.Context(), task))
	}
}

func createAppointmentHandler(svc *scheduler.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduler.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		appt, err := svc.Create(r.Context(), req)
		if err != nil {
			writeSchedulerError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(svc *scheduler.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			appts []scheduler.Appointment
			err   error
		)
		if date := r.URL.Query().Get("date"); date != "" {
			day, perr := time.ParseInLocation("2006-01-02", date, loc)
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			appts, err = svc.ListDay(r.Context(), day)
		} else {
			appts, err = svc.Upcoming(r.Context())
		}
		if err != nil {
			writeSchedulerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"appointments": appts,
			"total":        len(appts),
		})
	}
}

func cancelAppointmentHandler(svc *scheduler.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Cancel(r.Context(), id); err != nil {
			writeSchedulerError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func availabilityHandler(svc *scheduler.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			writeError(w, http.StatusBadRequest, "missing_date", "date query parameter is required")
			return
		}
		day, err := time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		avail, err := svc.Availability(r.Context(), day, r.URL.Query().Get("service_id"))
		if err != nil {
			writeSchedulerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, avail)
	}
}

func listCalendarsHandler(cal calendar.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := cal.Calendars(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, "backend_failure", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"calendars": infos})
	}
}

func servicesHandler(svc *scheduler.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog := svc.Catalog()
		services := make([]map[string]any, 0, len(catalog))
		for _, id := range catalog.IDs() {
			s, _ := catalog.Get(id)
			services = append(services, map[string]any{
				"id":               s.ID,
				"duration_minutes": int(s.Duration.Minutes()),
				"price":            s.Price,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})
	}
}
