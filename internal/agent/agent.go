// Package agent is the conversational shell of the scheduling
// assistant: it classifies the user's intent, extracts booking details
// from natural-language Portuguese and drives the scheduler, keeping a
// per-conversation message log.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuttoai/agenda-ai-platform/internal/docstore"
	"github.com/tuttoai/agenda-ai-platform/internal/llm"
	"github.com/tuttoai/agenda-ai-platform/internal/observability/metrics"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
	"github.com/tuttoai/agenda-ai-platform/internal/timeparse"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

const basePrompt = "Você é um assistente de agendamentos de uma barbearia. " +
	"Responda sempre em português, de forma curta e cordial."

// defaultServiceID is assumed when neither the caller nor the message
// names a service.
const defaultServiceID = "corte_simples"

// historyContext caps how many prior messages are replayed to the LLM.
const historyContext = 10

// Task is one user turn handed to the agent. CustomerName, Phone and
// ServiceID may come from the caller's session; anything missing is
// extracted from the message when an LLM is available.
type Task struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	CustomerName   string `json:"customer_name,omitempty"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	ServiceID      string `json:"service_id,omitempty"`
	EventID        string `json:"event_id,omitempty"`
	Date           string `json:"date,omitempty"`
	Time           string `json:"time,omitempty"`
}

// Result is the structured outcome of one agent run.
type Result struct {
	Intent       Intent                     `json:"intent"`
	Success      bool                       `json:"success"`
	Message      string                     `json:"message"`
	Appointment  *scheduler.Appointment     `json:"appointment,omitempty"`
	Appointments []scheduler.Appointment    `json:"appointments,omitempty"`
	Availability *scheduler.DayAvailability `json:"availability,omitempty"`
	Suggestions  []string                   `json:"suggestions,omitempty"`
}

// Agent wires the LLM, the scheduler and the conversation stores.
type Agent struct {
	llm     llm.Client
	sched   *scheduler.Service
	history History
	store   docstore.Store
	metrics *metrics.AgentMetrics
	logger  *logging.Logger
	loc     *time.Location

	now func() time.Time
}

// Params collects the agent dependencies. History, Store and Metrics
// are optional.
type Params struct {
	LLM       llm.Client
	Scheduler *scheduler.Service
	History   History
	Store     docstore.Store
	Metrics   *metrics.AgentMetrics
	Logger    *logging.Logger
	Location  *time.Location

	// Now overrides the clock; tests pin it for determinism.
	Now func() time.Time
}

// New constructs the scheduling agent.
func New(p Params) *Agent {
	if p.LLM == nil {
		panic("agent: llm client required")
	}
	if p.Scheduler == nil {
		panic("agent: scheduler required")
	}
	if p.Logger == nil {
		p.Logger = logging.Default()
	}
	if p.History == nil {
		p.History = NewMemoryHistory()
	}
	if p.Location == nil {
		p.Location = time.Local
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Agent{
		llm:     p.LLM,
		sched:   p.Scheduler,
		history: p.History,
		store:   p.Store,
		metrics: p.Metrics,
		logger:  p.Logger,
		loc:     p.Location,
		now:     p.Now,
	}
}

// Run processes one user turn: classify, dispatch, record.
func (a *Agent) Run(ctx context.Context, task Task) Result {
	started := a.now()
	analysis := a.analyze(ctx, task)
	a.mergeExtracted(&task, analysis)

	var res Result
	switch analysis.Intent {
	case IntentSchedule:
		res = a.handleSchedule(ctx, task)
	case IntentList:
		res = a.handleList(ctx, task)
	case IntentCancel:
		res = a.handleCancel(ctx, task)
	case IntentModify:
		res = a.handleModify(ctx)
	case IntentAvailability:
		res = a.handleAvailability(ctx, task)
	default:
		res = a.handleSchedule(ctx, task)
	}
	res.Intent = analysis.Intent

	a.record(ctx, task, res)

	status := "error"
	if res.Success {
		status = "success"
	}
	a.metrics.ObserveRun(string(res.Intent), status)
	a.metrics.ObserveRunLatency(string(res.Intent), a.now().Sub(started).Seconds())
	a.logger.Info("agent run",
		"conversation_id", task.ConversationID,
		"intent", res.Intent,
		"success", res.Success,
	)
	return res
}

// analysis is the intent classification plus whatever booking details
// the LLM extracted from the message.
type analysis struct {
	Intent        Intent
	ExtractedInfo struct {
		CustomerName string `json:"customer_name"`
		Date         string `json:"date"`
		Time         string `json:"time"`
		Service      string `json:"service"`
	}
}

// analyze asks the LLM for a JSON classification and falls back to
// keyword matching when the LLM is unavailable or its answer does not
// parse. The prompt is primed with the customer's standing
// instructions and the recent turns of the conversation.
func (a *Agent) analyze(ctx context.Context, task Task) analysis {
	var out analysis
	out.Intent = DetectIntent(task.Message)

	if !a.llm.Available() {
		return out
	}

	prompt := fmt.Sprintf(`Solicitação: %q

Identifique a intenção principal dentre: agendar, modificar, cancelar, listar, disponibilidade.

Responda em JSON:
{"intent": "...", "extracted_info": {"customer_name": "", "date": "", "time": "", "service": ""}}`, task.Message)

	msgs := []llm.Message{{Role: llm.RoleSystem, Content: a.systemPrompt(ctx, task.CustomerPhone)}}
	if task.ConversationID != "" {
		prior, err := a.history.Load(ctx, task.ConversationID)
		if err != nil {
			a.logger.Warn("history load failed", "conversation_id", task.ConversationID, "error", err)
		}
		msgs = append(msgs, lastMessages(prior, historyContext)...)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: prompt})

	resp, err := a.llm.Generate(ctx, msgs, llm.Options{Temperature: 0.3})
	if err != nil {
		a.logger.Warn("intent analysis failed, using keywords", "error", err)
		return out
	}

	var parsed struct {
		Intent        string `json:"intent"`
		ExtractedInfo struct {
			CustomerName string `json:"customer_name"`
			Date         string `json:"date"`
			Time         string `json:"time"`
			Service      string `json:"service"`
		} `json:"extracted_info"`
	}
	raw, ok := extractJSON(resp.Content)
	if !ok || json.Unmarshal([]byte(raw), &parsed) != nil || !knownIntent(parsed.Intent) {
		return out
	}
	out.Intent = Intent(parsed.Intent)
	out.ExtractedInfo.CustomerName = parsed.ExtractedInfo.CustomerName
	out.ExtractedInfo.Date = parsed.ExtractedInfo.Date
	out.ExtractedInfo.Time = parsed.ExtractedInfo.Time
	out.ExtractedInfo.Service = parsed.ExtractedInfo.Service
	return out
}

// systemPrompt builds the LLM system message: the base prompt plus any
// standing instructions stored for the customer's phone.
func (a *Agent) systemPrompt(ctx context.Context, phone string) string {
	if a.store == nil || strings.TrimSpace(phone) == "" {
		return basePrompt
	}
	docs, err := a.store.Find(ctx, docstore.CollectionInstructions, docstore.Filter{"customer_phone": phone}, nil)
	if err != nil {
		a.logger.Warn("instructions lookup failed", "phone", phone, "error", err)
		return basePrompt
	}
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		if text, ok := doc["text"].(string); ok && text != "" {
			lines = append(lines, "- "+text)
		}
	}
	if len(lines) == 0 {
		return basePrompt
	}
	return basePrompt + "\n\nInstruções do cliente:\n" + strings.Join(lines, "\n")
}

// lastMessages trims a conversation log to its most recent n entries.
func lastMessages(messages []llm.Message, n int) []llm.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// mergeExtracted fills task fields the caller left empty with the
// LLM-extracted values.
func (a *Agent) mergeExtracted(task *Task, an analysis) {
	if task.CustomerName == "" {
		task.CustomerName = an.ExtractedInfo.CustomerName
	}
	if task.ServiceID == "" {
		task.ServiceID = an.ExtractedInfo.Service
	}
	if task.Date == "" {
		task.Date = an.ExtractedInfo.Date
	}
	if task.Time == "" {
		task.Time = an.ExtractedInfo.Time
	}
}

func (a *Agent) handleSchedule(ctx context.Context, task Task) Result {
	if strings.TrimSpace(task.CustomerName) == "" {
		return Result{
			Success: false,
			Message: "Para agendar preciso do seu nome. Pode me informar?",
		}
	}
	if task.ServiceID == "" {
		task.ServiceID = defaultServiceID
	}

	req := scheduler.Request{
		CustomerName:  task.CustomerName,
		CustomerPhone: task.CustomerPhone,
		ServiceID:     task.ServiceID,
		Date:          task.Date,
		Time:          task.Time,
	}
	// An explicit date wins; otherwise the slot is parsed out of the
	// message itself ("amanhã às 14:00").
	if task.Date == "" {
		req.Phrase = task.Message
	}
	appt, err := a.sched.Create(ctx, req)
	if err != nil {
		a.metrics.ObserveBooking("rejected")
		return bookingFailure(err)
	}

	a.metrics.ObserveBooking("created")
	return Result{
		Success:     true,
		Message:     fmt.Sprintf("Agendamento criado com sucesso para %s: %s", task.CustomerName, timeparse.FormatPTBR(appt.Start)),
		Appointment: &appt,
	}
}

// bookingFailure turns scheduler errors into user-facing replies.
func bookingFailure(err error) Result {
	var verr *scheduler.ValidationError
	if errors.As(err, &verr) {
		return Result{Success: false, Message: "Não consegui agendar: " + verr.Reason}
	}
	var cerr *scheduler.ConflictError
	if errors.As(err, &cerr) {
		labels := make([]string, 0, len(cerr.Suggestions))
		for _, s := range cerr.Suggestions {
			labels = append(labels, s.Label())
		}
		msg := "Este horário não está disponível."
		if len(labels) > 0 {
			msg += " Sugestões: " + strings.Join(labels, ", ")
		}
		return Result{Success: false, Message: msg, Suggestions: labels}
	}
	return Result{Success: false, Message: "Erro interno ao criar agendamento. Tente novamente."}
}

func (a *Agent) handleList(ctx context.Context, task Task) Result {
	var (
		appts []scheduler.Appointment
		err   error
	)
	if task.Date != "" {
		day, perr := time.ParseInLocation("2006-01-02", task.Date, a.loc)
		if perr != nil {
			return Result{Success: false, Message: "Não entendi a data. Use o formato AAAA-MM-DD."}
		}
		appts, err = a.sched.ListDay(ctx, day)
	} else {
		appts, err = a.sched.Upcoming(ctx)
	}
	if err != nil {
		return Result{Success: false, Message: "Erro ao listar agendamentos."}
	}
	if len(appts) == 0 {
		return Result{Success: true, Message: "Você não tem agendamentos no período."}
	}

	lines := make([]string, 0, len(appts))
	for _, appt := range appts {
		lines = append(lines, fmt.Sprintf("- %s: %s", timeparse.FormatPTBR(appt.Start), appt.CustomerName))
	}
	return Result{
		Success:      true,
		Message:      fmt.Sprintf("Você tem %d agendamento(s):\n%s", len(appts), strings.Join(lines, "\n")),
		Appointments: appts,
	}
}

func (a *Agent) handleCancel(ctx context.Context, task Task) Result {
	if strings.TrimSpace(task.EventID) == "" {
		return Result{Success: false, Message: "Para cancelar preciso do identificador do agendamento."}
	}
	if err := a.sched.Cancel(ctx, task.EventID); err != nil {
		return Result{Success: false, Message: "Erro ao cancelar agendamento."}
	}
	return Result{Success: true, Message: "Agendamento cancelado com sucesso."}
}

func (a *Agent) handleModify(ctx context.Context) Result {
	_, err := a.sched.Modify(ctx, "", scheduler.Request{})
	if !errors.Is(err, scheduler.ErrModifyUnsupported) && err != nil {
		return Result{Success: false, Message: "Erro ao modificar agendamento."}
	}
	return Result{
		Success: false,
		Message: "Ainda não consigo modificar agendamentos. Cancele o atual e crie um novo no horário desejado.",
	}
}

func (a *Agent) handleAvailability(ctx context.Context, task Task) Result {
	day := a.resolveDay(task)
	avail, err := a.sched.Availability(ctx, day, task.ServiceID)
	if err != nil {
		var verr *scheduler.ValidationError
		if errors.As(err, &verr) {
			return Result{Success: false, Message: "Não consegui consultar: " + verr.Reason}
		}
		return Result{Success: false, Message: "Erro ao consultar disponibilidade."}
	}
	if avail.Closed {
		return Result{
			Success:      true,
			Message:      fmt.Sprintf("A barbearia está fechada em %s.", avail.Date),
			Availability: &avail,
		}
	}

	labels := make([]string, 0, len(avail.Slots))
	for _, slot := range avail.Slots {
		labels = append(labels, slot.Label())
	}
	msg := fmt.Sprintf("Horários livres em %s (%s): %s", avail.Date, avail.Window, strings.Join(labels, ", "))
	if len(labels) == 0 {
		msg = fmt.Sprintf("Não há horários livres em %s.", avail.Date)
	}
	return Result{Success: true, Message: msg, Availability: &avail}
}

// resolveDay picks the availability day: explicit date first, then a
// date phrase in the message, then tomorrow.
func (a *Agent) resolveDay(task Task) time.Time {
	if task.Date != "" {
		if day, err := time.ParseInLocation("2006-01-02", task.Date, a.loc); err == nil {
			return day
		}
	}
	if resolved, ok := timeparse.Resolve(task.Message, a.now().In(a.loc)); ok {
		return resolved
	}
	return a.now().In(a.loc).AddDate(0, 0, 1)
}

// record appends the turn to the conversation history and the document
// store. Failures are logged, never surfaced to the user.
func (a *Agent) record(ctx context.Context, task Task, res Result) {
	if task.ConversationID == "" {
		return
	}

	messages, err := a.history.Load(ctx, task.ConversationID)
	if err != nil {
		a.logger.Warn("history load failed", "conversation_id", task.ConversationID, "error", err)
	}
	messages = append(messages,
		llm.Message{Role: llm.RoleUser, Content: task.Message},
		llm.Message{Role: llm.RoleAssistant, Content: res.Message},
	)
	if err := a.history.Save(ctx, task.ConversationID, messages); err != nil {
		a.logger.Warn("history save failed", "conversation_id", task.ConversationID, "error", err)
	}

	if a.store == nil {
		return
	}
	_, err = a.store.InsertOne(ctx, docstore.CollectionConversationHistory, docstore.Document{
		"conversation_id": task.ConversationID,
		"message":         task.Message,
		"reply":           res.Message,
		"intent":          string(res.Intent),
		"success":         res.Success,
		"created_at":      a.now(),
	})
	if err != nil {
		a.logger.Warn("conversation log failed", "conversation_id", task.ConversationID, "error", err)
	}
	a.recordUser(ctx, task)
}

// recordUser upserts the user profile of the conversation once the
// customer has identified themselves.
func (a *Agent) recordUser(ctx context.Context, task Task) {
	if task.CustomerName == "" && task.CustomerPhone == "" {
		return
	}
	filter := docstore.Filter{"conversation_id": task.ConversationID}
	update := docstore.Update{
		"conversation_id": task.ConversationID,
		"name":            task.CustomerName,
		"phone":           task.CustomerPhone,
		"last_seen":       a.now(),
	}
	n, err := a.store.UpdateOne(ctx, docstore.CollectionUsers, filter, update)
	if err == nil && n == 0 {
		_, err = a.store.InsertOne(ctx, docstore.CollectionUsers, docstore.Document(update))
	}
	if err != nil {
		a.logger.Warn("user profile not saved", "conversation_id", task.ConversationID, "error", err)
	}
}

// extractJSON pulls the outermost JSON object out of an LLM reply that
// may wrap it in prose or code fences.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
