// Package campaign implements the outbound call-campaign engine ("Dannia
// Mode"): a capacity-aware day planner, a pacing monitor over live call
// outcomes, and a disposition-driven SMS follow-up sequencer with a polling
// dispatcher. The engine owns no contact data and renders no UI; callers
// drive it through the Engine methods.
package campaign

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wburns02/ReactCRM-sub015/internal/metrics"
)

// Sender is the external SMS transport: one message out, success or failure
// back. The engine never retries a failed send.
type Sender interface {
	Send(to, message string) error
}

// Normalizer converts a raw phone number into the transport's canonical format.
type Normalizer func(raw string) (string, error)

// Engine is the campaign engine. All mutable state lives on this struct;
// there are no package-level singletons.
type Engine struct {
	cfg       CapacityConfig
	templates []BlockTemplate
	sequences SequenceLibrary
	store     StepStore
	sender    Sender
	normalize Normalizer
	now       func() time.Time
	events    func(event string, data any)

	mu         sync.Mutex
	plan       *DayPlan
	monitor    *PacingMonitor
	audit      *AuditLog
	auditSink  func(AuditEntry)
	lastSignal PacingSignal

	// dispatchMu serializes dispatcher runs so a slow batch is skipped over,
	// never overlapped.
	dispatchMu sync.Mutex
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithNow injects the wall-clock source. Tests use this to control time.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithNormalizer injects the phone normalization function.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) { e.normalize = n }
}

// WithAuditCapacity overrides the audit ring size.
func WithAuditCapacity(capacity int) Option {
	return func(e *Engine) { e.audit = NewAuditLog(capacity) }
}

// WithEventFunc registers a callback invoked on engine events (pacing signal
// changes, step transitions). Used to feed the dashboard websocket hub.
func WithEventFunc(fn func(event string, data any)) Option {
	return func(e *Engine) { e.events = fn }
}

// WithAuditSink registers a callback receiving every audit entry as it is
// recorded, so the bounded in-memory ring can be mirrored to durable storage.
func WithAuditSink(fn func(AuditEntry)) Option {
	return func(e *Engine) { e.auditSink = fn }
}

// New validates the configuration and builds an engine. Configuration errors
// are fatal here; nothing is coerced or clamped.
func New(cfg CapacityConfig, templates []BlockTemplate, sequences SequenceLibrary, store StepStore, sender Sender, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capacity config: %w", err)
	}
	if len(templates) == 0 {
		templates = DefaultTemplates(cfg)
	}
	if err := ValidateTemplates(cfg, templates); err != nil {
		return nil, fmt.Errorf("block templates: %w", err)
	}
	if err := sequences.Validate(); err != nil {
		return nil, fmt.Errorf("sequences: %w", err)
	}
	if store == nil {
		return nil, errors.New("step store is required")
	}
	if sender == nil {
		return nil, errors.New("sms sender is required")
	}

	e := &Engine{
		cfg:        cfg,
		templates:  templates,
		sequences:  sequences,
		store:      store,
		sender:     sender,
		normalize:  func(raw string) (string, error) { return raw, nil },
		now:        time.Now,
		events:     func(string, any) {},
		monitor:    NewPacingMonitor(cfg),
		audit:      NewAuditLog(DefaultAuditCapacity),
		lastSignal: PacingOnPace,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) recordAudit(at time.Time, action, detail string) {
	e.audit.Record(at, action, detail)
	if e.auditSink != nil {
		e.auditSink(AuditEntry{At: at, Action: action, Detail: detail})
	}
}

// replan swaps in a fresh plan for the date and rebases the per-block gauges,
// clearing labels left over from a previous template set.
func (e *Engine) replan(date time.Time) {
	e.plan = PlanDay(date, e.templates)
	e.recordAudit(e.now(), "plan_day", e.plan.Date.Format("2006-01-02"))
	metrics.BlockConsumedCalls.Reset()
	for _, b := range e.plan.Blocks {
		metrics.BlockConsumedCalls.WithLabelValues(b.Template.Label).Set(0)
	}
}

// Config returns the engine's capacity configuration.
func (e *Engine) Config() CapacityConfig { return e.cfg }

// Templates returns the validated block templates in day order.
func (e *Engine) Templates() []BlockTemplate { return e.templates }

// PlanDay builds (or rebuilds) the day plan for the given date and makes it
// the active plan. Planning a new date discards the previous day's blocks and
// their consumed counters.
func (e *Engine) PlanDay(date time.Time) []*DayBlock {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replan(date)
	return e.plan.Blocks
}

// Plan returns the active day plan, or nil before the first PlanDay.
func (e *Engine) Plan() *DayPlan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plan
}

// RecordCallOutcome validates and records one completed call: the active
// block's consumed counter advances, the pacing window gains a sample, and
// the pacing signal is recomputed. Outcomes on a day with no plan roll the
// plan over automatically.
func (e *Engine) RecordCallOutcome(ev CallOutcome) error {
	if ev.ContactID == "" {
		return errors.New("call outcome missing contact id")
	}
	if ev.Timestamp.IsZero() {
		return errors.New("call outcome missing timestamp")
	}
	status, err := ParseContactCallStatus(string(ev.Status))
	if err != nil {
		return err
	}
	ev.Status = status

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.plan == nil || !sameDay(e.plan.Date, ev.Timestamp) {
		e.replan(ev.Timestamp)
	}

	if block := e.plan.ActiveBlockAt(ev.Timestamp); block != nil {
		if block.RemainingCapacity() > 0 {
			block.ConsumedCalls++
			metrics.BlockConsumedCalls.WithLabelValues(block.Template.Label).Set(float64(block.ConsumedCalls))
		} else {
			log.Printf("Block %q is at capacity, outcome for %s recorded without a slot",
				block.Template.Label, ev.ContactID)
		}
	}

	e.monitor.Record(ev)
	metrics.CallsRecordedTotal.WithLabelValues(string(ev.Status)).Inc()
	e.recordAudit(e.now(), "call_outcome", fmt.Sprintf("contact=%s status=%s", ev.ContactID, ev.Status))

	signal := e.monitor.Signal(ev.Timestamp)
	if signal != e.lastSignal {
		e.lastSignal = signal
		e.recordAudit(e.now(), "pacing_signal", string(signal))
		e.events("pacing_signal", signal)
	}
	metrics.SetPacingSignal(string(signal), allSignals)
	return nil
}

var allSignals = []string{
	string(PacingOnPace),
	string(PacingBelowConnectRate),
	string(PacingBelowInterestRate),
	string(PacingBelowVelocity),
}

// PacingSignal derives the current pacing verdict from the rolling window.
func (e *Engine) PacingSignal() PacingSignal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monitor.Signal(e.now())
}

// EnqueueSequence materializes the follow-up sequence for the contact's
// disposition. Dispositions without a mapping and contacts without a phone
// number are expected no-ops, not errors. Earlier sequences for the same
// contact are left alone; superseded follow-ups still fire.
func (e *Engine) EnqueueSequence(contact Contact, status ContactCallStatus) ([]PendingSmsStep, error) {
	def, ok := e.sequences.For(status)
	if !ok {
		return nil, nil
	}
	if contact.Phone == "" {
		return nil, nil
	}

	phone, err := e.normalize(contact.Phone)
	if err != nil {
		// An unparseable number is treated like a missing one; the operator
		// sees it in the audit trail rather than a crashed enqueue.
		e.recordAudit(e.now(), "enqueue_skipped",
			fmt.Sprintf("contact=%s bad phone %q: %v", contact.ID, contact.Phone, err))
		return nil, nil
	}

	now := e.now()
	steps := make([]PendingSmsStep, 0, len(def.Steps))
	for i, step := range def.Steps {
		delay := step.Delay()
		if delay < 0 {
			delay = 0
		}
		steps = append(steps, PendingSmsStep{
			ID:           uuid.NewString(),
			ContactID:    contact.ID,
			ContactName:  contact.AccountName,
			ContactPhone: phone,
			SequenceID:   def.ID,
			StepIndex:    i,
			Message:      RenderTemplate(step.Template, contact),
			ScheduledAt:  now.Add(delay),
			Status:       StepPending,
			CreatedAt:    now,
		})
	}
	if err := e.store.Append(steps...); err != nil {
		return nil, fmt.Errorf("enqueue sequence %s: %w", def.ID, err)
	}

	metrics.StepsEnqueuedTotal.Add(float64(len(steps)))
	e.recordAudit(now, "sequence_enqueued",
		fmt.Sprintf("contact=%s sequence=%s steps=%d", contact.ID, def.ID, len(steps)))
	e.events("sequence_enqueued", steps)
	return steps, nil
}

// Steps lists follow-up steps for dashboard and audit display.
func (e *Engine) Steps(filter StepFilter) ([]PendingSmsStep, error) {
	return e.store.List(filter)
}

// Audit returns the retained engine action trail, oldest first.
func (e *Engine) Audit() []AuditEntry {
	return e.audit.Entries()
}
