// Package scheduler orchestrates bookings: it validates requests,
// resolves natural-language dates, checks availability under a per-slot
// lock and writes the resulting events to the calendar.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/docstore"
	"github.com/tuttoai/agenda-ai-platform/internal/redislock"
	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
	"github.com/tuttoai/agenda-ai-platform/internal/timeparse"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

// upcomingWindow is the lookahead of List when no day is given.
const upcomingWindow = 7 * 24 * time.Hour

// Service books, lists and cancels appointments.
type Service struct {
	cal        calendar.Client
	checker    *schedule.Checker
	catalog    schedule.Catalog
	locker     redislock.Locker
	store      docstore.Store
	logger     *logging.Logger
	calendarID string
	loc        *time.Location
	defaultDur time.Duration

	now func() time.Time
}

// Params collects the service dependencies. Store and Locker are
// optional: without a store no customer records are kept, without a
// locker bookings are not serialized across processes.
type Params struct {
	Calendar        calendar.Client
	Checker         *schedule.Checker
	Catalog         schedule.Catalog
	Locker          redislock.Locker
	Store           docstore.Store
	Logger          *logging.Logger
	CalendarID      string
	Location        *time.Location
	DefaultDuration time.Duration

	// Now overrides the clock; tests pin it for determinism.
	Now func() time.Time
}

// NewService constructs a booking service.
func NewService(p Params) *Service {
	if p.Calendar == nil {
		panic("scheduler: calendar client required")
	}
	if p.Checker == nil {
		panic("scheduler: availability checker required")
	}
	if p.Logger == nil {
		p.Logger = logging.Default()
	}
	if p.Locker == nil {
		p.Locker = redislock.NoopLocker{}
	}
	if p.Catalog == nil {
		p.Catalog = schedule.DefaultCatalog()
	}
	if p.CalendarID == "" {
		p.CalendarID = "primary"
	}
	if p.Location == nil {
		p.Location = time.Local
	}
	if p.DefaultDuration <= 0 {
		p.DefaultDuration = time.Hour
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Service{
		cal:        p.Calendar,
		checker:    p.Checker,
		catalog:    p.Catalog,
		locker:     p.Locker,
		store:      p.Store,
		logger:     p.Logger,
		calendarID: p.CalendarID,
		loc:        p.Location,
		defaultDur: p.DefaultDuration,
		now:        p.Now,
	}
}

// Catalog exposes the service catalog for user-facing listings.
func (s *Service) Catalog() schedule.Catalog {
	return s.catalog
}

// Create validates the request, resolves its slot and books it. The
// availability check and the event write run under a per-slot lock so
// two concurrent requests cannot double-book.
func (s *Service) Create(ctx context.Context, req Request) (Appointment, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return Appointment{}, &ValidationError{Field: "customer_name", Reason: "obrigatório"}
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return Appointment{}, &ValidationError{
			Field:  "service_id",
			Reason: fmt.Sprintf("obrigatório, opções: %s", strings.Join(s.catalog.IDs(), ", ")),
		}
	}
	svc, ok := s.catalog.Get(req.ServiceID)
	if !ok {
		return Appointment{}, &ValidationError{
			Field:  "service_id",
			Reason: fmt.Sprintf("serviço desconhecido, opções: %s", strings.Join(s.catalog.IDs(), ", ")),
		}
	}

	start, err := s.resolveStart(req)
	if err != nil {
		return Appointment{}, err
	}
	// Past means a past day: a same-day slot at an earlier hour is still
	// bookable.
	if dateOnly(start).Before(dateOnly(s.now().In(s.loc))) {
		return Appointment{}, &ValidationError{Field: "date", Reason: "a data está no passado"}
	}

	window := s.checker.Week().Window(start)
	if window.Closed {
		return Appointment{}, &ValidationError{
			Field:  "date",
			Reason: fmt.Sprintf("não atendemos em %s", timeparse.FormatPTBR(start)),
		}
	}
	openAt := window.Open.On(start)
	closeAt := window.Close.On(start)
	if start.Before(openAt) || !start.Before(closeAt) {
		return Appointment{}, &ValidationError{
			Field:  "time",
			Reason: fmt.Sprintf("horário de atendimento: %s", window),
		}
	}

	duration := req.Duration
	if duration <= 0 {
		duration = svc.Duration
	}
	if duration <= 0 {
		duration = s.defaultDur
	}

	var appt Appointment
	err = s.locker.WithSlotLock(ctx, s.calendarID, start, func(ctx context.Context) error {
		check, err := s.checker.CheckSlot(ctx, s.calendarID, start, duration)
		if err != nil {
			return &AdapterError{Op: "check availability", Err: err}
		}
		if !check.Available {
			return &ConflictError{
				Requested:   start.Format("02/01/2006 15:04"),
				Suggestions: check.Suggestions,
			}
		}

		created, err := s.cal.CreateEvent(ctx, s.calendarID, calendar.Event{
			Summary:     summaryPrefix + req.CustomerName,
			Description: buildDescription(req, svc),
			Start:       start,
			End:         start.Add(duration),
		})
		if err != nil {
			return &AdapterError{Op: "create event", Err: err}
		}
		appt = toAppointment(created)
		appt.ServiceID = req.ServiceID
		return nil
	})
	if err != nil {
		if errors.Is(err, redislock.ErrLockNotAcquired) {
			return Appointment{}, &ConflictError{Requested: start.Format("02/01/2006 15:04")}
		}
		return Appointment{}, err
	}

	s.recordCustomer(ctx, req)
	s.logger.Info("appointment created",
		"event_id", appt.ID,
		"customer", req.CustomerName,
		"start", appt.Start.Format(time.RFC3339),
	)
	return appt, nil
}

// Cancel removes an appointment. Cancelling an id that no longer exists
// is a success.
func (s *Service) Cancel(ctx context.Context, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return &ValidationError{Field: "event_id", Reason: "obrigatório"}
	}
	if err := s.cal.DeleteEvent(ctx, s.calendarID, eventID); err != nil {
		return &AdapterError{Op: "delete event", Err: err}
	}
	s.logger.Info("appointment cancelled", "event_id", eventID)
	return nil
}

// Modify is intentionally not implemented: changing a slot is a cancel
// followed by a new booking, which keeps the conflict check in one path.
func (s *Service) Modify(ctx context.Context, eventID string, req Request) (Appointment, error) {
	return Appointment{}, ErrModifyUnsupported
}

// List returns the appointments within [from, to), earliest first.
func (s *Service) List(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	events, err := s.cal.Events(ctx, s.calendarID, from, to)
	if err != nil {
		return nil, &AdapterError{Op: "list events", Err: err}
	}
	appts := make([]Appointment, 0, len(events))
	for _, ev := range events {
		appts = append(appts, toAppointment(ev))
	}
	return appts, nil
}

// Upcoming lists the next seven days of appointments.
func (s *Service) Upcoming(ctx context.Context) ([]Appointment, error) {
	now := s.now()
	return s.List(ctx, now, now.Add(upcomingWindow))
}

// ListDay lists the appointments of a single day.
func (s *Service) ListDay(ctx context.Context, day time.Time) ([]Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	return s.List(ctx, start, start.AddDate(0, 0, 1))
}

// Availability returns the free slots of a day for a service (or the
// default duration when no service is given).
func (s *Service) Availability(ctx context.Context, day time.Time, serviceID string) (DayAvailability, error) {
	duration := s.defaultDur
	if serviceID != "" {
		svc, ok := s.catalog.Get(serviceID)
		if !ok {
			return DayAvailability{}, &ValidationError{
				Field:  "service_id",
				Reason: fmt.Sprintf("serviço desconhecido, opções: %s", strings.Join(s.catalog.IDs(), ", ")),
			}
		}
		duration = svc.Duration
	}

	window := s.checker.Week().Window(day)
	out := DayAvailability{
		Date:   day.Format("2006-01-02"),
		Closed: window.Closed,
		Window: window.String(),
	}
	if window.Closed {
		return out, nil
	}

	slots, err := s.checker.DaySlots(ctx, s.calendarID, day, duration)
	if err != nil {
		return DayAvailability{}, &AdapterError{Op: "day slots", Err: err}
	}
	out.Slots = slots
	return out, nil
}

// resolveStart turns the request's phrase or date/time pair into a slot
// start in the service's timezone.
func (s *Service) resolveStart(req Request) (time.Time, error) {
	if phrase := strings.TrimSpace(req.Phrase); phrase != "" {
		start, ok := timeparse.Resolve(phrase, s.now().In(s.loc))
		if !ok {
			return time.Time{}, &ValidationError{Field: "phrase", Reason: "não entendi a data"}
		}
		return start, nil
	}

	if strings.TrimSpace(req.Date) == "" {
		return time.Time{}, &ValidationError{Field: "date", Reason: "obrigatório"}
	}
	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "use o formato AAAA-MM-DD"}
	}

	clockStr := req.Time
	if strings.TrimSpace(clockStr) == "" {
		clockStr = "09:00"
	}
	clock, err := schedule.ParseClock(clockStr)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "time", Reason: "use o formato HH:MM"}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour, clock.Minute, 0, 0, s.loc), nil
}

// recordCustomer upserts the customer's contact record, keyed by
// phone. Failures are logged and do not fail the booking.
func (s *Service) recordCustomer(ctx context.Context, req Request) {
	if s.store == nil || strings.TrimSpace(req.CustomerPhone) == "" {
		return
	}
	filter := docstore.Filter{"phone": req.CustomerPhone}
	update := docstore.Update{
		"name":       req.CustomerName,
		"phone":      req.CustomerPhone,
		"updated_at": s.now(),
	}
	n, err := s.store.UpdateOne(ctx, docstore.CollectionCustomers, filter, update)
	if err == nil && n == 0 {
		_, err = s.store.InsertOne(ctx, docstore.CollectionCustomers, docstore.Document(update))
	}
	if err != nil {
		s.logger.Warn("customer record not saved", "phone", req.CustomerPhone, "error", err)
	}
}

func buildDescription(req Request, svc schedule.Service) string {
	lines := []string{"Cliente: " + req.CustomerName}
	if req.CustomerPhone != "" {
		lines = append(lines, "Telefone: "+req.CustomerPhone)
	}
	if svc.ID != "" {
		lines = append(lines, "Serviço: "+svc.ID)
	}
	if req.Notes != "" {
		lines = append(lines, "Observações: "+req.Notes)
	}
	return strings.Join(lines, "\n")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toAppointment(ev calendar.Event) Appointment {
	appt := Appointment{
		ID:     ev.ID,
		Start:  ev.Start,
		End:    ev.End,
		Status: ev.Status,
		Link:   ev.Link,
		Notes:  ev.Description,
	}
	if name, ok := strings.CutPrefix(ev.Summary, summaryPrefix); ok {
		appt.CustomerName = name
	} else {
		appt.CustomerName = ev.Summary
	}
	for _, line := range strings.Split(ev.Description, "\n") {
		if id, ok := strings.CutPrefix(line, "Serviço: "); ok {
			appt.ServiceID = id
		}
	}
	return appt
}
