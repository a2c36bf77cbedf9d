package models

import "time"

// Invoice states. Transitions only move forward:
// pending -> paid, pending -> overdue, overdue -> paid.
const (
	InvoicePending = "pending"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// Invoice is the billing document for one service period. Invoices are a
// financial record and are never deleted.
type Invoice struct {
	// ID is the unique identifier of the invoice.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// CustomerID references the billed user.
	CustomerID string `json:"customer_id" gorm:"column:customer_id;not null;index"`
	// PlanID references the plan the invoice was priced from.
	PlanID string `json:"plan_id" gorm:"column:plan_id;not null"`
	// Period is the billing period label, formatted "MM-YYYY".
	Period string `json:"period" gorm:"column:period;not null"`
	// Detail is the human-readable description, e.g. "PLAN HOGAR BASICO 11-2025".
	Detail string `json:"detail" gorm:"column:detail"`
	// AmountUSD is the face amount of the invoice in US dollars.
	AmountUSD float64 `json:"amount_usd" gorm:"column:amount_usd;not null"`
	// AmountPaidUSD is the USD-equivalent paid to date. Monotonically
	// non-decreasing; mutated only by payment application.
	AmountPaidUSD float64 `json:"amount_paid_usd" gorm:"column:amount_paid_usd;default:0"`
	// ExchangeRate is the VED-per-USD rate snapshot captured once at issuance.
	ExchangeRate float64 `json:"exchange_rate" gorm:"column:exchange_rate;not null"`
	// Status is "pending", "paid" or "overdue".
	Status string `json:"status" gorm:"column:status;default:pending;index"`
	// IssuedAt is the emission date; DueAt is fixed at IssuedAt + 30 days.
	IssuedAt time.Time `json:"issued_at" gorm:"column:issued_at"`
	DueAt    time.Time `json:"due_at" gorm:"column:due_at;index"`
	// PaidAt is set on the transition to "paid".
	PaidAt *time.Time `json:"paid_at,omitempty" gorm:"column:paid_at"`
	// PaymentReference is the reference string attached to the invoice.
	PaymentReference string `json:"payment_reference" gorm:"column:payment_reference"`
	// ReminderSent records that the due-date reminder was already emitted.
	ReminderSent bool `json:"reminder_sent" gorm:"column:reminder_sent;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// AmountVED returns the face amount converted at the issuance rate snapshot.
func (i *Invoice) AmountVED() float64 {
	return i.AmountUSD * i.ExchangeRate
}

// Outstanding returns the USD amount still owed on the invoice.
func (i *Invoice) Outstanding() float64 {
	rest := i.AmountUSD - i.AmountPaidUSD
	if rest < 0 {
		return 0
	}
	return rest
}
