package models

import (
	"time"
)

// CampaignContact represents a contact pulled into the call campaign
type CampaignContact struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	AccountName string    `gorm:"type:varchar(255)" json:"account_name"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CampaignContact) TableName() string {
	return "campaign_contacts"
}

// CallOutcome records a completed campaign call and its disposition
type CallOutcome struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContactID  string    `gorm:"type:varchar(255);index" json:"contact_id"`
	Status     string    `gorm:"type:varchar(50);not null" json:"status"`
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CallOutcome) TableName() string {
	return "call_outcomes"
}

// PendingSmsStep is a follow-up message awaiting dispatch (or already terminal)
type PendingSmsStep struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	ContactID    string     `gorm:"type:varchar(255);index" json:"contact_id"`
	ContactName  string     `gorm:"type:varchar(255)" json:"contact_name"`
	ContactPhone string     `gorm:"type:varchar(50)" json:"contact_phone"`
	SequenceID   string     `gorm:"type:varchar(255)" json:"sequence_id"`
	StepIndex    int        `json:"step_index"`
	Message      string     `gorm:"type:text" json:"message"`
	ScheduledAt  time.Time  `gorm:"not null;index" json:"scheduled_at"`
	Status       string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	SentAt       *time.Time `json:"sent_at"`
	Error        string     `gorm:"type:text" json:"error"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PendingSmsStep) TableName() string {
	return "pending_sms_steps"
}

// AuditLogEntry is a persisted engine action for diagnostics
type AuditLogEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}
