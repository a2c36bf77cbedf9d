package models

import "time"

// Supported payment currencies. VED is the local currency; exchange rate
// snapshots are always VED per USD.
const (
	CurrencyUSD = "USD"
	CurrencyVED = "VED"
)

// Payment verification states.
const (
	PaymentReported = "reported"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// Payment is an immutable report of funds a customer sent against an invoice.
// After creation only the verification Status may change.
type Payment struct {
	// ID is the unique identifier of the payment.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// CustomerID references the reporting user.
	CustomerID string `json:"customer_id" gorm:"column:customer_id;not null;index"`
	// InvoiceID references the invoice the payment is applied to.
	InvoiceID string `json:"invoice_id" gorm:"column:invoice_id;not null;uniqueIndex:idx_invoice_reference"`
	// Currency is "USD" or "VED".
	Currency string `json:"currency" gorm:"column:currency;not null"`
	// Amount is the reported amount in Currency.
	Amount float64 `json:"amount" gorm:"column:amount;not null"`
	// ExchangeRate is the VED-per-USD rate applied, set only for VED payments.
	ExchangeRate float64 `json:"exchange_rate,omitempty" gorm:"column:exchange_rate"`
	// BankOrigin is the bank the transfer came from.
	BankOrigin string `json:"bank_origin" gorm:"column:bank_origin"`
	// DestAccount is the receiving account.
	DestAccount string `json:"dest_account" gorm:"column:dest_account"`
	// Reference is the transfer reference (last digits). Unique per invoice,
	// which makes duplicate reports a conflict instead of a double credit.
	Reference string `json:"reference" gorm:"column:reference;not null;uniqueIndex:idx_invoice_reference"`
	// ReportedAt is when the customer reported the payment.
	ReportedAt time.Time `json:"reported_at" gorm:"column:reported_at"`
	// Status is "reported", "verified" or "rejected".
	Status string `json:"status" gorm:"column:status;default:reported;index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
