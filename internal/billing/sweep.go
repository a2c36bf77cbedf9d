package billing

import (
	"context"
	"math"
	"time"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

// SweepStats summarizes one overdue sweep run.
type SweepStats struct {
	Scanned   int
	Reminded  int
	Overdue   int
	Suspended int
}

// StartSweep runs the overdue sweep once immediately and then on every tick
// until the context is cancelled. Blocking call; run it in its own goroutine.
func (s *Service) StartSweep(ctx context.Context, interval time.Duration) {
	s.logger.Info("Overdue sweep scheduled ", "interval ", interval)

	if _, err := s.RunSweep(ctx); err != nil {
		s.logger.Error("Overdue sweep failed ", "error ", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Overdue sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.RunSweep(ctx); err != nil {
				s.logger.Error("Overdue sweep failed ", "error ", err)
			}
		}
	}
}

// RunSweep scans every pending invoice once. Invoices due tomorrow get a
// reminder; invoices past due go overdue and their contract is suspended.
// Overlapping triggers collapse into a single run, so the sweep is safe to
// fire from both the scheduler and an administrative endpoint.
//
// Each invoice is settled in its own transaction: the overdue transition and
// the contract suspension land together, and one bad invoice does not stop
// the scan.
func (s *Service) RunSweep(ctx context.Context) (SweepStats, error) {
	result, err, _ := s.sweep.Do("overdue_sweep", func() (interface{}, error) {
		return s.runSweep(ctx)
	})
	if err != nil {
		return SweepStats{}, err
	}
	return result.(SweepStats), nil
}

func (s *Service) runSweep(ctx context.Context) (SweepStats, error) {
	s.logger.Info("Reviewing pending invoices")
	var stats SweepStats

	pending, err := s.repo.ListInvoicesByStatus(models.InvoicePending)
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(pending)

	for _, invoice := range pending {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		days := s.daysLeft(invoice.DueAt)

		if days == 1 && !invoice.ReminderSent {
			if s.remind(invoice) {
				stats.Reminded++
			}
			continue
		}

		if days <= 0 {
			transitioned, suspended, err := s.settleOverdue(invoice)
			if err != nil {
				s.logger.Error("Failed to settle overdue invoice ", "invoice ", invoice.ID, " error ", err)
				continue
			}
			if transitioned {
				stats.Overdue++
			}
			if suspended {
				stats.Suspended++
			}
		}
	}

	s.logger.Info("Invoice review completed ", "scanned ", stats.Scanned, " reminded ", stats.Reminded, " overdue ", stats.Overdue, " suspended ", stats.Suspended)
	return stats, nil
}

// daysLeft returns the whole days from now until due, rounded up. 1 means the
// invoice is due tomorrow; zero or negative means it is past due.
func (s *Service) daysLeft(due time.Time) int {
	return int(math.Ceil(due.Sub(s.now()).Hours() / 24))
}

// remind marks the invoice reminded and fires the due-date reminder. The
// invoice is re-read under its lock before the write-back: a payment may have
// raced the pending listing, and a stale save must not resurrect a settled
// invoice. Reports whether the flag was persisted.
func (s *Service) remind(invoice *models.Invoice) bool {
	release := s.locks.acquire(invoiceKey(invoice.ID))
	defer release()

	current, err := s.repo.GetInvoice(invoice.ID)
	if err != nil {
		s.logger.Error("Failed to load invoice for reminder ", "invoice ", invoice.ID, " error ", err)
		return false
	}
	if current.Status != models.InvoicePending || current.ReminderSent {
		return false
	}

	// The flag is persisted before delivery so a flapping notifier cannot
	// spam the customer.
	current.ReminderSent = true
	if err := s.repo.UpdateInvoice(current); err != nil {
		s.logger.Error("Failed to mark reminder sent ", "invoice ", invoice.ID, " error ", err)
		return false
	}

	reminder := &models.Reminder{
		InvoiceID: current.ID,
		Period:    current.Period,
		AmountUSD: current.AmountUSD,
		DueAt:     current.DueAt.Format("2006-01-02"),
	}
	if customer, err := s.repo.GetUser(current.CustomerID); err == nil {
		reminder.Email = customer.Email
	}
	go s.notifier.SendReminder(reminder)
	return true
}

// settleOverdue transitions one invoice to overdue and suspends its active
// contract as a single unit. Returns whether the invoice transitioned and
// whether a contract was suspended.
func (s *Service) settleOverdue(invoice *models.Invoice) (bool, bool, error) {
	release := s.locks.acquire(invoiceKey(invoice.ID))
	defer release()

	// Re-read under the lock: a payment may have raced the sweep.
	current, err := s.repo.GetInvoice(invoice.ID)
	if err != nil {
		return false, false, err
	}
	if current.Status != models.InvoicePending {
		return false, false, nil
	}

	suspended := false
	err = s.repo.Transaction(func(tx models.Repository) error {
		current.Status = models.InvoiceOverdue
		if err := tx.UpdateInvoice(current); err != nil {
			return err
		}
		contract, err := tx.GetContractByCustomer(current.CustomerID)
		if err != nil {
			return nil // no contract to suspend
		}
		if contract.Status != models.ContractActive {
			return nil
		}
		if err := tx.UpdateContractStatus(contract.ID, models.ContractSuspended); err != nil {
			return err
		}
		suspended = true
		return nil
	})
	if err != nil {
		return false, false, err
	}

	s.logger.Info("Invoice overdue ", "invoice ", current.ID, " suspended ", suspended)
	return true, suspended, nil
}
