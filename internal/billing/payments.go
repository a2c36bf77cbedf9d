package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

// ReportPaymentRequest carries a customer's payment report.
type ReportPaymentRequest struct {
	InvoiceID   string
	Currency    string
	Amount      float64
	BankOrigin  string
	DestAccount string
	Reference   string
}

func (r *ReportPaymentRequest) validate() error {
	if r.InvoiceID == "" {
		return fmt.Errorf("%w: invoice id is required", ErrValidation)
	}
	if r.Reference == "" {
		return fmt.Errorf("%w: payment reference is required", ErrValidation)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if r.Currency != models.CurrencyUSD && r.Currency != models.CurrencyVED {
		return fmt.Errorf("%w: currency must be USD or VED", ErrValidation)
	}
	return nil
}

// ReportPayment records an immutable payment report and applies it to the
// invoice and the customer balance. VED amounts are converted to their USD
// equivalent at the current rate (amount / VED-per-USD); USD amounts apply
// as-is. Everything happens in one transaction: either the payment record,
// the balance credit and the invoice update all land, or none of them do.
//
// Reporting the same reference against the same invoice twice fails with
// ErrConflict instead of double-crediting.
func (s *Service) ReportPayment(ctx context.Context, principal models.Principal, req ReportPaymentRequest) (*models.Payment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	releaseInv := s.locks.acquire(invoiceKey(req.InvoiceID))
	defer releaseInv()

	invoice, err := s.repo.GetInvoice(req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, req.InvoiceID)
	}

	if !principal.IsAdmin() && !principal.Owns(invoice.CustomerID) {
		return nil, fmt.Errorf("%w: cannot report a payment on another customer's invoice", ErrForbidden)
	}

	customer, err := s.repo.GetUser(invoice.CustomerID)
	if err != nil || customer.Deleted {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, invoice.CustomerID)
	}

	usd := req.Amount
	var rate float64
	if req.Currency == models.CurrencyVED {
		rate, err = s.rates.CurrentRate()
		if err != nil {
			return nil, fmt.Errorf("%w: exchange rate unavailable: %v", ErrExternalService, err)
		}
		usd = req.Amount / rate
	}

	payment := &models.Payment{
		ID:           uuid.NewString(),
		CustomerID:   invoice.CustomerID,
		InvoiceID:    invoice.ID,
		Currency:     req.Currency,
		Amount:       req.Amount,
		ExchangeRate: rate,
		BankOrigin:   req.BankOrigin,
		DestAccount:  req.DestAccount,
		Reference:    req.Reference,
		ReportedAt:   s.now(),
		Status:       models.PaymentReported,
	}

	releaseCust := s.locks.acquire(customerKey(invoice.CustomerID))
	defer releaseCust()

	invoice.AmountPaidUSD += usd
	crossed := invoice.Status != models.InvoicePaid && invoice.AmountPaidUSD >= invoice.AmountUSD
	if crossed {
		now := s.now()
		invoice.Status = models.InvoicePaid
		invoice.PaidAt = &now
		invoice.PaymentReference = req.Reference
	}

	err = s.repo.Transaction(func(tx models.Repository) error {
		if err := tx.CreatePayment(payment); err != nil {
			return err
		}
		if err := tx.AdjustBalance(invoice.CustomerID, usd); err != nil {
			return err
		}
		if err := tx.UpdateInvoice(invoice); err != nil {
			return err
		}
		if crossed {
			return s.reactivateContract(tx, invoice.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment: %w", err)
	}

	s.logger.Info("Payment applied ", "payment ", payment.ID, " invoice ", invoice.ID, " usd ", usd, " status ", invoice.Status)
	return payment, nil
}

// ListPaymentsByInvoice returns the payments reported against one invoice.
func (s *Service) ListPaymentsByInvoice(ctx context.Context, principal models.Principal, invoiceID string) ([]*models.Payment, error) {
	invoice, err := s.repo.GetInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}
	if !principal.IsAdmin() && !principal.Owns(invoice.CustomerID) {
		return nil, fmt.Errorf("%w: cannot view another customer's payments", ErrForbidden)
	}
	return s.repo.ListPaymentsByInvoice(invoiceID)
}

// VerifyPayment moves a payment report to "verified" or "rejected". This is
// the only mutation a payment record ever sees. Administrators only.
func (s *Service) VerifyPayment(ctx context.Context, principal models.Principal, paymentID, status string) (*models.Payment, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators may verify payments", ErrForbidden)
	}
	if status != models.PaymentVerified && status != models.PaymentRejected {
		return nil, fmt.Errorf("%w: status must be verified or rejected", ErrValidation)
	}

	payment, err := s.repo.GetPayment(paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
	}
	if payment.Status != models.PaymentReported {
		return nil, fmt.Errorf("%w: payment %s is already %s", ErrInvalidTransition, paymentID, payment.Status)
	}

	if err := s.repo.UpdatePaymentStatus(paymentID, status); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	payment.Status = status
	return payment, nil
}
