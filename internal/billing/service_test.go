package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

var testNow = time.Date(2025, time.November, 15, 10, 0, 0, 0, time.UTC)

// seedAccount creates a customer with an active contract on a 35 USD plan
// and returns the three IDs.
func seedAccount(t *testing.T, repo *memRepo) (customerID, planID, contractID string) {
	t.Helper()

	customer := &models.User{
		ID:     "cust-1",
		Cedula: "12345678",
		Email:  "maria@example.com",
		Role:   models.RoleCustomer,
	}
	require.NoError(t, repo.CreateUser(customer))

	plan := &models.Plan{
		ID:        "plan-1",
		Name:      "Plan Hogar Basico",
		SpeedMbps: 35,
		PriceUSD:  35,
		Category:  models.PlanHome,
		Active:    true,
	}
	require.NoError(t, repo.CreatePlan(plan))

	contract := &models.Contract{
		ID:         "contract-1",
		CustomerID: customer.ID,
		PlanID:     plan.ID,
		Status:     models.ContractActive,
	}
	require.NoError(t, repo.CreateContract(contract))

	return customer.ID, plan.ID, contract.ID
}

func TestIssueInvoice(t *testing.T) {
	repo := newMemRepo()
	customerID, planID, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	assert.Equal(t, customerID, invoice.CustomerID)
	assert.Equal(t, planID, invoice.PlanID)
	assert.Equal(t, models.InvoicePending, invoice.Status)
	assert.Equal(t, 35.0, invoice.AmountUSD)
	assert.Equal(t, 0.0, invoice.AmountPaidUSD)
	assert.Equal(t, 40.0, invoice.ExchangeRate)
	assert.Equal(t, "11-2025", invoice.Period)
	assert.Equal(t, "PLAN HOGAR BASICO 11-2025", invoice.Detail)
	assert.Equal(t, testNow, invoice.IssuedAt)
	assert.Equal(t, testNow.Add(30*24*time.Hour), invoice.DueAt)
	assert.NotEmpty(t, invoice.PaymentReference)

	// Issuance charges ahead: the balance drops by the plan price.
	customer, err := repo.GetUser(customerID)
	require.NoError(t, err)
	assert.Equal(t, -35.0, customer.BalanceUSD)

	stored, err := repo.GetInvoice(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, stored.Status)
}

func TestIssueInvoiceMissingContract(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, 40, nil, testNow)

	_, err := svc.IssueInvoice(context.Background(), "no-such-contract")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueInvoiceDeletedCustomer(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	require.NoError(t, repo.SoftDeleteUser(customerID))
	svc := newTestService(repo, 40, nil, testNow)

	_, err := svc.IssueInvoice(context.Background(), contractID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueInvoiceRateUnavailable(t *testing.T) {
	repo := newMemRepo()
	_, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 0, nil, testNow)

	_, err := svc.IssueInvoice(context.Background(), contractID)
	assert.ErrorIs(t, err, ErrExternalService)

	// Nothing must land when pricing fails.
	invoices, err := repo.ListInvoices()
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestMarkInvoicePaid(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateContractStatus(contractID, models.ContractSuspended))

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	paid, err := svc.MarkInvoicePaid(context.Background(), owner, invoice.ID, "REF-001")
	require.NoError(t, err)

	assert.Equal(t, models.InvoicePaid, paid.Status)
	assert.Equal(t, paid.AmountUSD, paid.AmountPaidUSD)
	assert.Equal(t, "REF-001", paid.PaymentReference)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, testNow, *paid.PaidAt)

	// The outstanding amount is credited back, netting the balance to zero.
	customer, err := repo.GetUser(customerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, customer.BalanceUSD)

	// Paying reactivates the suspended contract.
	contract, err := repo.GetContract(contractID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractActive, contract.Status)
}

func TestMarkInvoicePaidCreditsOnlyOutstanding(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	_, err = svc.ReportPayment(context.Background(), owner, ReportPaymentRequest{
		InvoiceID: invoice.ID,
		Currency:  models.CurrencyUSD,
		Amount:    20,
		Reference: "1111",
	})
	require.NoError(t, err)

	// The partial payment already credited 20; confirming the rest must
	// only credit the remaining 15.
	admin := models.Principal{CustomerID: "admin-1", Role: models.RoleAdmin}
	_, err = svc.MarkInvoicePaid(context.Background(), admin, invoice.ID, "")
	require.NoError(t, err)

	customer, err := repo.GetUser(customerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, customer.BalanceUSD)
}

func TestMarkInvoicePaidAuthz(t *testing.T) {
	repo := newMemRepo()
	_, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	stranger := models.Principal{CustomerID: "cust-2", Role: models.RoleCustomer}
	_, err = svc.MarkInvoicePaid(context.Background(), stranger, invoice.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkInvoicePaidTwice(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	_, err = svc.MarkInvoicePaid(context.Background(), owner, invoice.ID, "REF-001")
	require.NoError(t, err)

	_, err = svc.MarkInvoicePaid(context.Background(), owner, invoice.ID, "REF-002")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// The second attempt must not credit anything.
	customer, err := repo.GetUser(customerID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, customer.BalanceUSD)
}

func TestMarkInvoiceOverdue(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	_, err = svc.MarkInvoiceOverdue(context.Background(), owner, invoice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := models.Principal{CustomerID: "admin-1", Role: models.RoleAdmin}
	overdue, err := svc.MarkInvoiceOverdue(context.Background(), admin, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceOverdue, overdue.Status)

	// Only pending invoices may go overdue.
	_, err = svc.MarkInvoiceOverdue(context.Background(), admin, invoice.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOverdueInvoiceCanStillBePaid(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	admin := models.Principal{CustomerID: "admin-1", Role: models.RoleAdmin}
	_, err = svc.MarkInvoiceOverdue(context.Background(), admin, invoice.ID)
	require.NoError(t, err)

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	paid, err := svc.MarkInvoicePaid(context.Background(), owner, invoice.ID, "REF-777")
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)
}

func TestInvoiceReadAuthz(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	stranger := models.Principal{CustomerID: "cust-2", Role: models.RoleCustomer}
	admin := models.Principal{CustomerID: "admin-1", Role: models.RoleAdmin}

	tests := []struct {
		name      string
		principal models.Principal
		wantErr   error
	}{
		{name: "owner may read", principal: owner},
		{name: "admin may read", principal: admin},
		{name: "stranger may not", principal: stranger, wantErr: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetInvoice(context.Background(), tt.principal, invoice.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)

			_, err = svc.ListInvoicesByCustomer(context.Background(), tt.principal, customerID)
			assert.NoError(t, err)
		})
	}

	_, err = svc.ListInvoices(context.Background(), stranger)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.ListInvoices(context.Background(), admin)
	assert.NoError(t, err)
}

func TestIssueInvoiceReferenceFormat(t *testing.T) {
	repo := newMemRepo()
	_, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)

	var millis, seq int64
	_, scanErr := fmt.Sscanf(invoice.PaymentReference, "INV-%d-%d", &millis, &seq)
	require.NoError(t, scanErr)
	assert.Equal(t, testNow.UnixMilli(), millis)
}

func TestReactivateIgnoresFinalizedContract(t *testing.T) {
	repo := newMemRepo()
	customerID, _, contractID := seedAccount(t, repo)
	svc := newTestService(repo, 40, nil, testNow)

	invoice, err := svc.IssueInvoice(context.Background(), contractID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateContractStatus(contractID, models.ContractFinalized))

	owner := models.Principal{CustomerID: customerID, Role: models.RoleCustomer}
	_, err = svc.MarkInvoicePaid(context.Background(), owner, invoice.ID, "")
	require.NoError(t, err)

	contract, err := repo.GetContract(contractID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractFinalized, contract.Status)
}

func TestGetInvoiceNotFound(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, 40, nil, testNow)

	admin := models.Principal{CustomerID: "admin-1", Role: models.RoleAdmin}
	_, err := svc.GetInvoice(context.Background(), admin, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
