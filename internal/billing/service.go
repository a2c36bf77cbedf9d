package billing

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

// dueTerm is the fixed payment term of every invoice.
const dueTerm = 30 * 24 * time.Hour

// Service is the billing ledger. It owns the invoice lifecycle, payment
// application and the customer balance, and is the only writer of those
// records. All mutations are serialized per invoice and per customer balance
// and applied inside a single database transaction.
type Service struct {
	logger *logger.Logger

	repo     models.Repository
	rates    models.RateService
	notifier models.NotificationService

	locks *lockTable
	sweep singleflight.Group

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewService creates the billing ledger service.
func NewService(
	repo models.Repository,
	rates models.RateService,
	notifier models.NotificationService,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		rates:    rates,
		notifier: notifier,
		logger:   logger,
		locks:    newLockTable(),
		now:      time.Now,
	}
}

func invoiceKey(id string) string  { return "invoice:" + id }
func customerKey(id string) string { return "customer:" + id }

// IssueInvoice prices a new invoice from the customer's contract and debits
// the customer balance by the plan price. The ISP charges ahead for the
// coming period: the balance goes down at issuance and comes back up as
// payments are applied.
func (s *Service) IssueInvoice(ctx context.Context, contractID string) (*models.Invoice, error) {
	contract, err := s.repo.GetContract(contractID)
	if err != nil {
		return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contractID)
	}

	plan, err := s.repo.GetPlan(contract.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%w: plan %s", ErrNotFound, contract.PlanID)
	}

	customer, err := s.repo.GetUser(contract.CustomerID)
	if err != nil || customer.Deleted {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, contract.CustomerID)
	}

	rate, err := s.rates.CurrentRate()
	if err != nil {
		return nil, fmt.Errorf("%w: exchange rate unavailable: %v", ErrExternalService, err)
	}

	now := s.now()
	period := fmt.Sprintf("%02d-%d", now.Month(), now.Year())
	invoice := &models.Invoice{
		ID:               uuid.NewString(),
		CustomerID:       customer.ID,
		PlanID:           plan.ID,
		Period:           period,
		Detail:           fmt.Sprintf("%s %s", strings.ToUpper(plan.Name), period),
		AmountUSD:        plan.PriceUSD,
		AmountPaidUSD:    0,
		ExchangeRate:     rate,
		Status:           models.InvoicePending,
		IssuedAt:         now,
		DueAt:            now.Add(dueTerm),
		PaymentReference: fmt.Sprintf("INV-%d-%03d", now.UnixMilli(), rand.Intn(1000)),
	}

	release := s.locks.acquire(customerKey(customer.ID))
	defer release()

	err = s.repo.Transaction(func(tx models.Repository) error {
		if err := tx.CreateInvoice(invoice); err != nil {
			return err
		}
		return tx.AdjustBalance(customer.ID, -invoice.AmountUSD)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue invoice: %w", err)
	}

	s.logger.Info("Invoice issued ", "invoice ", invoice.ID, " customer ", customer.ID, " amount ", invoice.AmountUSD)
	return invoice, nil
}

// MarkInvoicePaid applies an externally triggered paid transition, e.g. an
// administrator confirming an over-the-counter payment. Only the owning
// customer or an administrator may pay an invoice. The remaining outstanding
// amount is credited back to the customer balance; payments already applied
// through ReportPayment were credited at report time.
func (s *Service) MarkInvoicePaid(ctx context.Context, principal models.Principal, invoiceID, reference string) (*models.Invoice, error) {
	releaseInv := s.locks.acquire(invoiceKey(invoiceID))
	defer releaseInv()

	invoice, err := s.repo.GetInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}

	if !principal.IsAdmin() && !principal.Owns(invoice.CustomerID) {
		return nil, fmt.Errorf("%w: only the owning customer or an administrator may pay this invoice", ErrForbidden)
	}

	if invoice.Status == models.InvoicePaid {
		return nil, fmt.Errorf("%w: invoice %s is already paid", ErrInvalidTransition, invoiceID)
	}

	releaseCust := s.locks.acquire(customerKey(invoice.CustomerID))
	defer releaseCust()

	outstanding := invoice.Outstanding()
	now := s.now()
	invoice.Status = models.InvoicePaid
	invoice.PaidAt = &now
	invoice.AmountPaidUSD = invoice.AmountUSD
	if reference != "" {
		invoice.PaymentReference = reference
	}

	err = s.repo.Transaction(func(tx models.Repository) error {
		if err := tx.UpdateInvoice(invoice); err != nil {
			return err
		}
		if outstanding > 0 {
			if err := tx.AdjustBalance(invoice.CustomerID, outstanding); err != nil {
				return err
			}
		}
		return s.reactivateContract(tx, invoice.CustomerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	s.logger.Info("Invoice paid ", "invoice ", invoice.ID, " customer ", invoice.CustomerID)
	return invoice, nil
}

// MarkInvoiceOverdue applies an administrator-triggered overdue transition.
// The sweep uses its own path; this one rejects anything but pending.
func (s *Service) MarkInvoiceOverdue(ctx context.Context, principal models.Principal, invoiceID string) (*models.Invoice, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators may mark invoices overdue", ErrForbidden)
	}

	releaseInv := s.locks.acquire(invoiceKey(invoiceID))
	defer releaseInv()

	invoice, err := s.repo.GetInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}

	if invoice.Status != models.InvoicePending {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvalidTransition, invoiceID, invoice.Status)
	}

	invoice.Status = models.InvoiceOverdue
	if err := s.repo.UpdateInvoice(invoice); err != nil {
		return nil, fmt.Errorf("failed to mark invoice overdue: %w", err)
	}

	s.logger.Info("Invoice marked overdue ", "invoice ", invoice.ID)
	return invoice, nil
}

// GetInvoice returns one invoice, enforcing the owner-or-admin read rule.
func (s *Service) GetInvoice(ctx context.Context, principal models.Principal, invoiceID string) (*models.Invoice, error) {
	invoice, err := s.repo.GetInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}
	if !principal.IsAdmin() && !principal.Owns(invoice.CustomerID) {
		return nil, fmt.Errorf("%w: cannot view another customer's invoice", ErrForbidden)
	}
	return invoice, nil
}

// ListInvoices returns every invoice. Administrators only.
func (s *Service) ListInvoices(ctx context.Context, principal models.Principal) ([]*models.Invoice, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators may list all invoices", ErrForbidden)
	}
	return s.repo.ListInvoices()
}

// ListInvoicesByCustomer returns the invoices of one customer, for the
// customer themselves or an administrator.
func (s *Service) ListInvoicesByCustomer(ctx context.Context, principal models.Principal, customerID string) ([]*models.Invoice, error) {
	if !principal.IsAdmin() && !principal.Owns(customerID) {
		return nil, fmt.Errorf("%w: cannot view another customer's invoices", ErrForbidden)
	}
	return s.repo.ListInvoicesByCustomer(customerID)
}

// reactivateContract flips a suspended contract back to active after its
// customer pays. Active and finalized contracts are left alone.
func (s *Service) reactivateContract(tx models.Repository, customerID string) error {
	contract, err := tx.GetContractByCustomer(customerID)
	if err != nil {
		// No contract is not an error here: invoices may outlive contracts.
		return nil
	}
	if contract.Status != models.ContractSuspended {
		return nil
	}
	return tx.UpdateContractStatus(contract.ID, models.ContractActive)
}
