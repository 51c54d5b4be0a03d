package campaign

import (
	"fmt"
	"strings"
	"time"
)

// ContactCallStatus is the closed set of call dispositions. Adding a value
// here means extending SequenceLibrary.For and the status predicates below.
type ContactCallStatus string

const (
	StatusConnectedInterested    ContactCallStatus = "connected_interested"
	StatusConnectedNotInterested ContactCallStatus = "connected_not_interested"
	StatusCallbackRequested      ContactCallStatus = "callback_requested"
	StatusVoicemail              ContactCallStatus = "voicemail"
	StatusNoAnswer               ContactCallStatus = "no_answer"
	StatusWrongNumber            ContactCallStatus = "wrong_number"
	StatusDoNotCall              ContactCallStatus = "do_not_call"
)

// ParseContactCallStatus validates a raw disposition string at the boundary.
func ParseContactCallStatus(s string) (ContactCallStatus, error) {
	switch st := ContactCallStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusConnectedInterested, StatusConnectedNotInterested, StatusCallbackRequested,
		StatusVoicemail, StatusNoAnswer, StatusWrongNumber, StatusDoNotCall:
		return st, nil
	default:
		return "", fmt.Errorf("unknown call disposition %q", s)
	}
}

// Connected reports whether the call reached a person.
func (s ContactCallStatus) Connected() bool {
	switch s {
	case StatusConnectedInterested, StatusConnectedNotInterested, StatusCallbackRequested:
		return true
	}
	return false
}

// Interested reports whether the disposition counts toward the interest rate.
func (s ContactCallStatus) Interested() bool {
	switch s {
	case StatusConnectedInterested, StatusCallbackRequested:
		return true
	}
	return false
}

// Contact is the slice of a CRM contact the engine reads. The contact store
// owns the record; Phone arrives raw and is normalized at enqueue time.
type Contact struct {
	ID          string `json:"id"`
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
}

// SequenceStep is one templated, delayed follow-up message.
type SequenceStep struct {
	DelayMs  int64  `yaml:"delay_ms" json:"delay_ms"`
	Template string `yaml:"template" json:"template"`
}

func (s SequenceStep) Delay() time.Duration {
	return time.Duration(s.DelayMs) * time.Millisecond
}

// SequenceDefinition is an ordered follow-up sequence for one disposition.
type SequenceDefinition struct {
	ID    string         `yaml:"id" json:"id"`
	Steps []SequenceStep `yaml:"steps" json:"steps"`
}

// SequenceLibrary maps each follow-up-worthy disposition to its sequence.
// One field per disposition rather than a string-keyed table, so a new
// disposition surfaces in For instead of missing silently at runtime.
type SequenceLibrary struct {
	ConnectedInterested SequenceDefinition `yaml:"connected_interested"`
	CallbackRequested   SequenceDefinition `yaml:"callback_requested"`
	Voicemail           SequenceDefinition `yaml:"voicemail"`
	NoAnswer            SequenceDefinition `yaml:"no_answer"`
}

// For returns the sequence for a disposition. The second return is false for
// dispositions with no follow-up path; that is an expected outcome, not an
// error.
func (l SequenceLibrary) For(status ContactCallStatus) (SequenceDefinition, bool) {
	switch status {
	case StatusConnectedInterested:
		return l.ConnectedInterested, len(l.ConnectedInterested.Steps) > 0
	case StatusCallbackRequested:
		return l.CallbackRequested, len(l.CallbackRequested.Steps) > 0
	case StatusVoicemail:
		return l.Voicemail, len(l.Voicemail.Steps) > 0
	case StatusNoAnswer:
		return l.NoAnswer, len(l.NoAnswer.Steps) > 0
	case StatusConnectedNotInterested, StatusWrongNumber, StatusDoNotCall:
		return SequenceDefinition{}, false
	}
	return SequenceDefinition{}, false
}

// Validate rejects sequences with negative delays or empty templates.
func (l SequenceLibrary) Validate() error {
	check := func(def SequenceDefinition) error {
		for i, step := range def.Steps {
			if step.DelayMs < 0 {
				return fmt.Errorf("sequence %q step %d has negative delay %dms", def.ID, i, step.DelayMs)
			}
			if strings.TrimSpace(step.Template) == "" {
				return fmt.Errorf("sequence %q step %d has an empty template", def.ID, i)
			}
		}
		return nil
	}
	for _, def := range []SequenceDefinition{l.ConnectedInterested, l.CallbackRequested, l.Voicemail, l.NoAnswer} {
		if err := check(def); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSequences are the follow-up scripts Dannia runs when the campaign
// file does not override them.
func DefaultSequences() SequenceLibrary {
	return SequenceLibrary{
		ConnectedInterested: SequenceDefinition{
			ID: "interested-welcome",
			Steps: []SequenceStep{
				{DelayMs: 0, Template: "Hi {{contact.name}}, great speaking with you! I'll send over the service details shortly."},
				{DelayMs: 24 * 3600 * 1000, Template: "Hi {{contact.name}}, just checking you received our septic service info. Any questions, call us back anytime."},
			},
		},
		CallbackRequested: SequenceDefinition{
			ID: "callback-confirm",
			Steps: []SequenceStep{
				{DelayMs: 0, Template: "Hi {{contact.name}}, confirming your callback request. We'll ring you at the time you asked for."},
			},
		},
		Voicemail: SequenceDefinition{
			ID: "voicemail-follow-up",
			Steps: []SequenceStep{
				{DelayMs: 0, Template: "Hi {{contact.name}}, sorry we missed you! This is the septic service team following up on your account."},
				{DelayMs: 2 * 3600 * 1000, Template: "Hi {{contact.name}}, still hoping to reach you about your septic service. Reply or call us back when convenient."},
				{DelayMs: 24 * 3600 * 1000, Template: "Hi {{contact.name}}, last note from us for now. We're here whenever you're ready to schedule."},
			},
		},
		NoAnswer: SequenceDefinition{
			ID: "no-answer-follow-up",
			Steps: []SequenceStep{
				{DelayMs: 0, Template: "Hi {{contact.name}}, we tried to reach you about your septic service. Text back and we'll get you scheduled."},
				{DelayMs: 2 * 3600 * 1000, Template: "Hi {{contact.name}}, following up once more. Happy to work around your schedule."},
				{DelayMs: 24 * 3600 * 1000, Template: "Hi {{contact.name}}, we'll stop here for now. Reach out anytime to get on the books."},
			},
		},
	}
}

// RenderTemplate substitutes contact fields into a message template.
func RenderTemplate(template string, contact Contact) string {
	text := strings.ReplaceAll(template, "{{contact.name}}", contact.AccountName)
	text = strings.ReplaceAll(text, "{{contact.phone}}", contact.Phone)
	text = strings.ReplaceAll(text, "{{contact.id}}", contact.ID)
	return text
}
