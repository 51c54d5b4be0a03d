package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
	"github.com/wburns02/ReactCRM-sub015/internal/models"
)

// GormStepStore persists follow-up steps through GORM so they survive a
// restart. The conditional UPDATE on status enforces the pending-to-terminal
// transition at the database, so two writers cannot both claim a step.
type GormStepStore struct {
	db *gorm.DB
}

func NewGormStepStore(db *gorm.DB) *GormStepStore {
	return &GormStepStore{db: db}
}

func toRow(s campaign.PendingSmsStep) models.PendingSmsStep {
	return models.PendingSmsStep{
		ID:           s.ID,
		ContactID:    s.ContactID,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		SequenceID:   s.SequenceID,
		StepIndex:    s.StepIndex,
		Message:      s.Message,
		ScheduledAt:  s.ScheduledAt,
		Status:       string(s.Status),
		SentAt:       s.SentAt,
		Error:        s.Error,
		CreatedAt:    s.CreatedAt,
	}
}

func fromRow(r models.PendingSmsStep) campaign.PendingSmsStep {
	return campaign.PendingSmsStep{
		ID:           r.ID,
		ContactID:    r.ContactID,
		ContactName:  r.ContactName,
		ContactPhone: r.ContactPhone,
		SequenceID:   r.SequenceID,
		StepIndex:    r.StepIndex,
		Message:      r.Message,
		ScheduledAt:  r.ScheduledAt,
		Status:       campaign.StepStatus(r.Status),
		SentAt:       r.SentAt,
		Error:        r.Error,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *GormStepStore) Append(steps ...campaign.PendingSmsStep) error {
	if len(steps) == 0 {
		return nil
	}
	rows := make([]models.PendingSmsStep, len(steps))
	for i, step := range steps {
		rows[i] = toRow(step)
	}
	return s.db.Create(&rows).Error
}

func (s *GormStepStore) Due(now time.Time) ([]campaign.PendingSmsStep, error) {
	var rows []models.PendingSmsStep
	err := s.db.
		Where("status = ? AND scheduled_at <= ?", string(campaign.StepPending), now).
		Order("scheduled_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	steps := make([]campaign.PendingSmsStep, len(rows))
	for i, r := range rows {
		steps[i] = fromRow(r)
	}
	return steps, nil
}

func (s *GormStepStore) MarkSent(id string, at time.Time) error {
	return s.transition(id, map[string]interface{}{
		"status":  string(campaign.StepSent),
		"sent_at": at,
	})
}

func (s *GormStepStore) MarkFailed(id string, at time.Time, message string) error {
	return s.transition(id, map[string]interface{}{
		"status": string(campaign.StepFailed),
		"error":  message,
	})
}

func (s *GormStepStore) transition(id string, updates map[string]interface{}) error {
	res := s.db.Model(&models.PendingSmsStep{}).
		Where("id = ? AND status = ?", id, string(campaign.StepPending)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("step %s is not pending", id)
	}
	return nil
}

func (s *GormStepStore) List(filter campaign.StepFilter) ([]campaign.PendingSmsStep, error) {
	q := s.db.Model(&models.PendingSmsStep{}).Order("scheduled_at ASC")
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.ContactID != "" {
		q = q.Where("contact_id = ?", filter.ContactID)
	}
	var rows []models.PendingSmsStep
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	steps := make([]campaign.PendingSmsStep, len(rows))
	for i, r := range rows {
		steps[i] = fromRow(r)
	}
	return steps, nil
}
