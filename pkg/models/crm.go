package models

// Contact represents a customer account in the campaign call list
type Contact struct {
	ID          string `json:"id"`
	AccountName string `json:"account_name"`
	Phone       string `json:"phone"`
	CreatedAt   string `json:"created_at"`
}

// CallOutcomeRecord is one completed call as shown on the dashboard
type CallOutcomeRecord struct {
	ID         int    `json:"id"`
	ContactID  string `json:"contact_id"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
	CreatedAt  string `json:"created_at"`
}
