package models

// Repository is the persistence boundary of the service. The postgres
// implementation lives in internal/repository; tests use in-memory fakes.
type Repository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction. Returning an error rolls everything back.
	Transaction(fn func(Repository) error) error

	// Users
	CreateUser(user *User) error
	GetUser(id string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ListUsers() ([]*User, error)
	UpdateUser(user *User) error
	SoftDeleteUser(id string) error
	// AdjustBalance atomically adds deltaUSD (negative for debits) to the
	// user's balance_usd.
	AdjustBalance(id string, deltaUSD float64) error

	// Plans
	CreatePlan(plan *Plan) error
	GetPlan(id string) (*Plan, error)
	GetPlanByName(name string) (*Plan, error)
	ListPlans(onlyActive bool) ([]*Plan, error)
	UpdatePlan(plan *Plan) error
	CountPlans() (int64, error)

	// Contracts
	CreateContract(contract *Contract) error
	GetContract(id string) (*Contract, error)
	GetContractByCustomer(customerID string) (*Contract, error)
	ListContracts() ([]*Contract, error)
	UpdateContractStatus(id, status string) error

	// Invoices
	CreateInvoice(invoice *Invoice) error
	GetInvoice(id string) (*Invoice, error)
	ListInvoices() ([]*Invoice, error)
	ListInvoicesByCustomer(customerID string) ([]*Invoice, error)
	ListInvoicesByStatus(status string) ([]*Invoice, error)
	UpdateInvoice(invoice *Invoice) error

	// Payments
	CreatePayment(payment *Payment) error
	GetPayment(id string) (*Payment, error)
	ListPaymentsByInvoice(invoiceID string) ([]*Payment, error)
	UpdatePaymentStatus(id, status string) error

	// Registrations
	CreateRegistration(registration *Registration) error
	GetRegistration(id string) (*Registration, error)
	ListRegistrations() ([]*Registration, error)
	UpdateRegistration(registration *Registration) error

	// Contact messages
	CreateContactMessage(message *ContactMessage) error
	ListContactMessages() ([]*ContactMessage, error)
}
