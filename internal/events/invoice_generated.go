package events

import "time"

const InvoiceLifecycleTopic = "ems.invoice.lifecycle.v1"

type InvoiceGeneratedEvent struct {
	EventType   string    `json:"event_type"`
	InvoiceID   string    `json:"invoice_id"`
	ClientID    string    `json:"client_id"`
	TotalAmount string    `json:"total_amount"`
	LineItems   int       `json:"line_items"`
	OccurredAt  time.Time `json:"occurred_at"`
}
