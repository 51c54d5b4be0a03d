package models

// DialerWebhookPayload is the call-completed event posted by the dialer
// integration when an agent wraps up a call.
type DialerWebhookPayload struct {
	Event string       `json:"event"`
	Calls []DialerCall `json:"calls"`
}

// DialerCall carries one completed call and the contact it reached.
type DialerCall struct {
	CallID      string `json:"call_id"`
	ContactID   string `json:"contact_id"`
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
	Disposition string `json:"disposition"`
	CompletedAt int64  `json:"completed_at"` // epoch milliseconds
}
