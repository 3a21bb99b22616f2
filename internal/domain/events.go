package domain

import "time"

// Event types
const (
	EventTypeEntryPosted    = "entry.posted"
	EventTypeAccountCreated = "account.created"
)

// Aggregate types
const (
	AggregateTypeEntry   = "entry"
	AggregateTypeAccount = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryPostedEvent payload. The chat layer consumes it to render posting
// confirmations.
type EntryPostedEvent struct {
	EntryID     string `json:"entry_id"`
	EntryDt     string `json:"entry_dt"`
	OperationID int64  `json:"operation_id"`
	DrAccountNo string `json:"dr_account_no"`
	CrAccountNo string `json:"cr_account_no"`
	Amount      string `json:"amount"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
	Kind        string `json:"kind"`
}
