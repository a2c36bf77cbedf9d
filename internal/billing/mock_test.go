package billing

import (
	"fmt"
	"sync"
	"time"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

// memRepo is an in-memory Repository used across the billing tests. It
// mimics the constraint behavior of the postgres implementation: missing
// rows answer ErrNotFound and unique violations answer ErrConflict.
type memRepo struct {
	mu sync.Mutex

	users         map[string]*models.User
	plans         map[string]*models.Plan
	contracts     map[string]*models.Contract
	invoices      map[string]*models.Invoice
	payments      map[string]*models.Payment
	registrations map[string]*models.Registration
	contacts      map[string]*models.ContactMessage

	// failUpdateInvoice, when set, is returned by every UpdateInvoice call.
	failUpdateInvoice error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:         make(map[string]*models.User),
		plans:         make(map[string]*models.Plan),
		contracts:     make(map[string]*models.Contract),
		invoices:      make(map[string]*models.Invoice),
		payments:      make(map[string]*models.Payment),
		registrations: make(map[string]*models.Registration),
		contacts:      make(map[string]*models.ContactMessage),
	}
}

func (m *memRepo) Transaction(fn func(models.Repository) error) error {
	return fn(m)
}

func (m *memRepo) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Cedula == user.Cedula {
			return fmt.Errorf("%w: user already exists", ErrConflict)
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memRepo) GetUser(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) ListUsers() ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (m *memRepo) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memRepo) SoftDeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Deleted = true
	return nil
}

func (m *memRepo) AdjustBalance(id string, deltaUSD float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.BalanceUSD += deltaUSD
	return nil
}

func (m *memRepo) CreatePlan(plan *models.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *memRepo) GetPlan(id string) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) GetPlanByName(name string) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.plans {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) ListPlans(onlyActive bool) ([]*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plans := make([]*models.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		if onlyActive && !p.Active {
			continue
		}
		cp := *p
		plans = append(plans, &cp)
	}
	return plans, nil
}

func (m *memRepo) UpdatePlan(plan *models.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[plan.ID]; !ok {
		return ErrNotFound
	}
	cp := *plan
	m.plans[plan.ID] = &cp
	return nil
}

func (m *memRepo) CountPlans() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.plans)), nil
}

func (m *memRepo) CreateContract(contract *models.Contract) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contracts {
		if c.CustomerID == contract.CustomerID {
			return fmt.Errorf("%w: customer already has a contract", ErrConflict)
		}
	}
	cp := *contract
	m.contracts[contract.ID] = &cp
	return nil
}

func (m *memRepo) GetContract(id string) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) GetContractByCustomer(customerID string) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contracts {
		if c.CustomerID == customerID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) ListContracts() ([]*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	contracts := make([]*models.Contract, 0, len(m.contracts))
	for _, c := range m.contracts {
		cp := *c
		contracts = append(contracts, &cp)
	}
	return contracts, nil
}

func (m *memRepo) UpdateContractStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contracts[id]
	if !ok {
		return ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *memRepo) CreateInvoice(invoice *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *memRepo) GetInvoice(id string) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memRepo) ListInvoices() ([]*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invoices := make([]*models.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		cp := *inv
		invoices = append(invoices, &cp)
	}
	return invoices, nil
}

func (m *memRepo) ListInvoicesByCustomer(customerID string) ([]*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invoices := make([]*models.Invoice, 0)
	for _, inv := range m.invoices {
		if inv.CustomerID == customerID {
			cp := *inv
			invoices = append(invoices, &cp)
		}
	}
	return invoices, nil
}

func (m *memRepo) ListInvoicesByStatus(status string) ([]*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	invoices := make([]*models.Invoice, 0)
	for _, inv := range m.invoices {
		if inv.Status == status {
			cp := *inv
			invoices = append(invoices, &cp)
		}
	}
	return invoices, nil
}

func (m *memRepo) UpdateInvoice(invoice *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateInvoice != nil {
		return m.failUpdateInvoice
	}
	if _, ok := m.invoices[invoice.ID]; !ok {
		return ErrNotFound
	}
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *memRepo) CreatePayment(payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.InvoiceID == payment.InvoiceID && p.Reference == payment.Reference {
			return fmt.Errorf("%w: payment already reported", ErrConflict)
		}
	}
	cp := *payment
	m.payments[payment.ID] = &cp
	return nil
}

func (m *memRepo) GetPayment(id string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) ListPaymentsByInvoice(invoiceID string) ([]*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payments := make([]*models.Payment, 0)
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			payments = append(payments, &cp)
		}
	}
	return payments, nil
}

func (m *memRepo) UpdatePaymentStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *memRepo) CreateRegistration(registration *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *registration
	m.registrations[registration.ID] = &cp
	return nil
}

func (m *memRepo) GetRegistration(id string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListRegistrations() ([]*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	registrations := make([]*models.Registration, 0, len(m.registrations))
	for _, r := range m.registrations {
		cp := *r
		registrations = append(registrations, &cp)
	}
	return registrations, nil
}

func (m *memRepo) UpdateRegistration(registration *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.registrations[registration.ID]; !ok {
		return ErrNotFound
	}
	cp := *registration
	m.registrations[registration.ID] = &cp
	return nil
}

func (m *memRepo) CreateContactMessage(message *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *message
	m.contacts[message.ID] = &cp
	return nil
}

func (m *memRepo) ListContactMessages() ([]*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := make([]*models.ContactMessage, 0, len(m.contacts))
	for _, msg := range m.contacts {
		cp := *msg
		messages = append(messages, &cp)
	}
	return messages, nil
}

// fixedRates answers a constant rate, or an error when rate is zero.
type fixedRates struct {
	rate float64
}

func (f *fixedRates) CurrentRate() (float64, error) {
	if f.rate <= 0 {
		return 0, fmt.Errorf("rate source down")
	}
	return f.rate, nil
}

// recordingNotifier captures reminders on a channel so tests can wait for
// the asynchronous delivery.
type recordingNotifier struct {
	reminders chan *models.Reminder
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{reminders: make(chan *models.Reminder, 16)}
}

func (n *recordingNotifier) SendReminder(reminder *models.Reminder) {
	n.reminders <- reminder
}

func (n *recordingNotifier) wait(timeout time.Duration) *models.Reminder {
	select {
	case r := <-n.reminders:
		return r
	case <-time.After(timeout):
		return nil
	}
}

// newTestService wires a billing service over the in-memory repository with
// a deterministic clock.
func newTestService(repo *memRepo, rate float64, notifier models.NotificationService, now time.Time) *Service {
	log, _ := logger.NewLogger(true)
	if notifier == nil {
		notifier = newRecordingNotifier()
	}
	svc := NewService(repo, &fixedRates{rate: rate}, notifier, log)
	svc.now = func() time.Time { return now }
	return svc
}
