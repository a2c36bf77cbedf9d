package models

import "fmt"

// NotificationService delivers billing reminders. Delivery is fire-and-forget:
// a failed notification must never block an invoice state transition.
type NotificationService interface {
	SendReminder(reminder *Reminder)
}

// Reminder is a due-date notice for a pending invoice.
type Reminder struct {
	InvoiceID string  `json:"invoice_id"`
	Email     string  `json:"email"`
	Period    string  `json:"period"`
	AmountUSD float64 `json:"amount_usd"`
	DueAt     string  `json:"due_at"`
}

func (r *Reminder) String() string {
	return fmt.Sprintf("Invoice %s for period %s (%.2f USD) is due on %s", r.InvoiceID, r.Period, r.AmountUSD, r.DueAt)
}
