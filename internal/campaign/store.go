package campaign

import (
	"fmt"
	"sync"
	"time"
)

// StepStatus is the delivery state of a follow-up step. Transitions are
// pending -> sent or pending -> failed, terminal either way.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepSent    StepStatus = "sent"
	StepFailed  StepStatus = "failed"
)

// PendingSmsStep is one materialized follow-up message. Created by the
// sequence builder, transitioned by the dispatcher, never deleted.
type PendingSmsStep struct {
	ID           string     `json:"id"`
	ContactID    string     `json:"contact_id"`
	ContactName  string     `json:"contact_name"`
	ContactPhone string     `json:"contact_phone"`
	SequenceID   string     `json:"sequence_id"`
	StepIndex    int        `json:"step_index"`
	Message      string     `json:"message"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       StepStatus `json:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Due reports whether the step should be dispatched at the given instant.
func (s PendingSmsStep) Due(now time.Time) bool {
	return s.Status == StepPending && !s.ScheduledAt.After(now)
}

// StepFilter narrows List results. Zero values match everything.
type StepFilter struct {
	Status    StepStatus
	ContactID string
}

func (f StepFilter) matches(s PendingSmsStep) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.ContactID != "" && s.ContactID != f.ContactID {
		return false
	}
	return true
}

// StepStore is the persistence boundary for follow-up steps. MarkSent and
// MarkFailed succeed only on a step that is still pending, which keeps the
// single-writer-per-step discipline even with a shared backing store.
type StepStore interface {
	Append(steps ...PendingSmsStep) error
	Due(now time.Time) ([]PendingSmsStep, error)
	MarkSent(id string, at time.Time) error
	MarkFailed(id string, at time.Time, message string) error
	List(filter StepFilter) ([]PendingSmsStep, error)
}

// MemoryStore keeps steps in process memory. It is the engine default; the
// database-backed store in internal/database serves deployments that need
// steps to survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	steps []PendingSmsStep
	index map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (m *MemoryStore) Append(steps ...PendingSmsStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range steps {
		if _, exists := m.index[s.ID]; exists {
			return fmt.Errorf("step %s already exists", s.ID)
		}
		m.index[s.ID] = len(m.steps)
		m.steps = append(m.steps, s)
	}
	return nil
}

func (m *MemoryStore) Due(now time.Time) ([]PendingSmsStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var due []PendingSmsStep
	for _, s := range m.steps {
		if s.Due(now) {
			due = append(due, s)
		}
	}
	return due, nil
}

func (m *MemoryStore) MarkSent(id string, at time.Time) error {
	return m.transition(id, func(s *PendingSmsStep) {
		s.Status = StepSent
		sent := at
		s.SentAt = &sent
	})
}

func (m *MemoryStore) MarkFailed(id string, at time.Time, message string) error {
	return m.transition(id, func(s *PendingSmsStep) {
		s.Status = StepFailed
		s.Error = message
	})
}

func (m *MemoryStore) transition(id string, apply func(*PendingSmsStep)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("step %s not found", id)
	}
	if m.steps[i].Status != StepPending {
		return fmt.Errorf("step %s is already %s", id, m.steps[i].Status)
	}
	apply(&m.steps[i])
	return nil
}

func (m *MemoryStore) List(filter StepFilter) ([]PendingSmsStep, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PendingSmsStep, 0, len(m.steps))
	for _, s := range m.steps {
		if filter.matches(s) {
			out = append(out, s)
		}
	}
	return out, nil
}
