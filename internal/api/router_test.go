package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuttoai/agenda-ai-platform/internal/agent"
	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/llm"
	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
)

// ref is a Sunday; the Monday after it is an open business day.
var ref = time.Date(2024, time.August, 4, 10, 0, 0, 0, time.Local)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cal := calendar.NewMemoryClient()
	now := func() time.Time { return ref }
	sched := scheduler.NewService(scheduler.Params{
		Calendar: cal,
		Checker:  schedule.NewChecker(cal, schedule.DefaultWeek(), nil),
		Now:      now,
	})
	a := agent.New(agent.Params{
		LLM:       llm.NewMockClient(llm.ProviderMock, "mock-model"),
		Scheduler: sched,
		Now:       now,
	})
	return New(Config{Agent: a, Scheduler: sched, Calendar: cal, Version: "test"})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validBooking() map[string]any {
	return map[string]any{
		"customer_name":  "João Silva",
		"customer_phone": "11999999999",
		"service_id":     "corte_simples",
		"date":           "2024-08-05",
		"time":           "09:00",
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test")
}

func TestCreateAppointment(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/appointments", validBooking())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var appt scheduler.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "João Silva", appt.CustomerName)
}

func TestCreateAppointmentValidation(t *testing.T) {
	srv := newTestServer(t)

	body := validBooking()
	body["service_id"] = ""
	rec := doJSON(t, srv, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)

	// The phone is optional.
	body = validBooking()
	delete(body, "customer_phone")
	rec = doJSON(t, srv, http.MethodPost, "/appointments", body)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreateAppointmentBadJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAppointmentConflict(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/appointments", validBooking())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/appointments", validBooking())
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slot_unavailable", resp.Error)
	assert.NotEmpty(t, resp.Suggestions)
}

func TestListAppointments(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/appointments", validBooking())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/appointments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Appointments []scheduler.Appointment `json:"appointments"`
		Total        int                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Total)

	rec = doJSON(t, srv, http.MethodGet, "/appointments?date=2024-08-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Zero(t, listed.Total)

	rec = doJSON(t, srv, http.MethodGet, "/appointments?date=06-08-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelAppointmentIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/appointments", validBooking())
	require.Equal(t, http.StatusCreated, rec.Code)
	var appt scheduler.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))

	rec = doJSON(t, srv, http.MethodDelete, "/appointments/"+appt.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/appointments/"+appt.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAvailability(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/availability?date=2024-08-05&service_id=corte_simples", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var avail scheduler.DayAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avail))
	assert.False(t, avail.Closed)
	assert.NotEmpty(t, avail.Slots)

	rec = doJSON(t, srv, http.MethodGet, "/availability?date=2024-08-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &avail))
	assert.True(t, avail.Closed)

	rec = doJSON(t, srv, http.MethodGet, "/availability", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/availability?date=2024-08-05&service_id=tatuagem", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAgent(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/agent/run", agent.Task{
		ConversationID: "conv-1",
		Message:        "quero agendar amanhã às 14:00",
		CustomerName:   "João Silva",
		CustomerPhone:  "11999999999",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var res agent.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, agent.IntentSchedule, res.Intent)
	assert.True(t, res.Success, res.Message)
	require.NotNil(t, res.Appointment)

	rec = doJSON(t, srv, http.MethodPost, "/agent/run", agent.Task{Message: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServices(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Services []map[string]any `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Services, 5)
}

func TestListCalendars(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/calendars", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Calendars []calendar.Info `json:"calendars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Calendars, 1)
	assert.Equal(t, "primary", resp.Calendars[0].ID)
	assert.True(t, resp.Calendars[0].Primary)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health/live", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
