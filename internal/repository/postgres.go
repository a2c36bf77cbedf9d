package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/billing"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

// PostgresDB implements models.Repository on top of gorm. The same type backs
// both the root connection and transaction-scoped repositories handed to
// Transaction callbacks.
type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Suppress "record not found" noise, warn on slow queries.
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Contract{},
		&models.Invoice{},
		&models.Payment{},
		&models.Registration{},
		&models.ContactMessage{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

// Transaction runs fn against a repository bound to one database transaction.
func (db *PostgresDB) Transaction(fn func(models.Repository) error) error {
	return db.Conn.Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresDB{Conn: tx, logger: db.logger})
	})
}

// translate maps gorm errors onto the billing error taxonomy.
func translate(err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", billing.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", billing.ErrConflict, what)
	default:
		return fmt.Errorf("failed on %s: %s", what, err)
	}
}

// Users

func (db *PostgresDB) CreateUser(user *models.User) error {
	if err := db.Conn.Create(user).Error; err != nil {
		return translate(err, "user")
	}
	return nil
}

func (db *PostgresDB) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := db.Conn.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user "+id)
	}
	return &user, nil
}

func (db *PostgresDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := db.Conn.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user "+email)
	}
	return &user, nil
}

func (db *PostgresDB) ListUsers() ([]*models.User, error) {
	var users []*models.User
	if err := db.Conn.Where("deleted = ?", false).Find(&users).Error; err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

func (db *PostgresDB) UpdateUser(user *models.User) error {
	if err := db.Conn.Save(user).Error; err != nil {
		return translate(err, "user "+user.ID)
	}
	return nil
}

func (db *PostgresDB) SoftDeleteUser(id string) error {
	res := db.Conn.Model(&models.User{}).Where("id = ?", id).Update("deleted", true)
	if res.Error != nil {
		return translate(res.Error, "user "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", billing.ErrNotFound, id)
	}
	return nil
}

// AdjustBalance applies the delta as a single SQL increment so concurrent
// adjustments never read stale balances.
func (db *PostgresDB) AdjustBalance(id string, deltaUSD float64) error {
	res := db.Conn.Model(&models.User{}).Where("id = ?", id).
		Update("balance_usd", gorm.Expr("balance_usd + ?", deltaUSD))
	if res.Error != nil {
		return translate(res.Error, "balance of user "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", billing.ErrNotFound, id)
	}
	return nil
}

// Plans

func (db *PostgresDB) CreatePlan(plan *models.Plan) error {
	if err := db.Conn.Create(plan).Error; err != nil {
		return translate(err, "plan")
	}
	return nil
}

func (db *PostgresDB) GetPlan(id string) (*models.Plan, error) {
	var plan models.Plan
	if err := db.Conn.Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, translate(err, "plan "+id)
	}
	return &plan, nil
}

func (db *PostgresDB) GetPlanByName(name string) (*models.Plan, error) {
	var plan models.Plan
	if err := db.Conn.Where("name = ?", name).First(&plan).Error; err != nil {
		return nil, translate(err, "plan "+name)
	}
	return &plan, nil
}

func (db *PostgresDB) ListPlans(onlyActive bool) ([]*models.Plan, error) {
	var plans []*models.Plan
	query := db.Conn
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&plans).Error; err != nil {
		return nil, translate(err, "plans")
	}
	return plans, nil
}

func (db *PostgresDB) UpdatePlan(plan *models.Plan) error {
	if err := db.Conn.Save(plan).Error; err != nil {
		return translate(err, "plan "+plan.ID)
	}
	return nil
}

func (db *PostgresDB) CountPlans() (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return 0, translate(err, "plan count")
	}
	return count, nil
}

// Contracts

func (db *PostgresDB) CreateContract(contract *models.Contract) error {
	if err := db.Conn.Create(contract).Error; err != nil {
		return translate(err, "contract for customer "+contract.CustomerID)
	}
	return nil
}

func (db *PostgresDB) GetContract(id string) (*models.Contract, error) {
	var contract models.Contract
	if err := db.Conn.Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, translate(err, "contract "+id)
	}
	return &contract, nil
}

func (db *PostgresDB) GetContractByCustomer(customerID string) (*models.Contract, error) {
	var contract models.Contract
	if err := db.Conn.Where("customer_id = ?", customerID).First(&contract).Error; err != nil {
		return nil, translate(err, "contract of customer "+customerID)
	}
	return &contract, nil
}

func (db *PostgresDB) ListContracts() ([]*models.Contract, error) {
	var contracts []*models.Contract
	if err := db.Conn.Find(&contracts).Error; err != nil {
		return nil, translate(err, "contracts")
	}
	return contracts, nil
}

func (db *PostgresDB) UpdateContractStatus(id, status string) error {
	res := db.Conn.Model(&models.Contract{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "contract "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: contract %s", billing.ErrNotFound, id)
	}
	return nil
}

// Invoices

func (db *PostgresDB) CreateInvoice(invoice *models.Invoice) error {
	if err := db.Conn.Create(invoice).Error; err != nil {
		return translate(err, "invoice")
	}
	return nil
}

func (db *PostgresDB) GetInvoice(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := db.Conn.Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, translate(err, "invoice "+id)
	}
	return &invoice, nil
}

func (db *PostgresDB) ListInvoices() ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	if err := db.Conn.Order("issued_at DESC").Find(&invoices).Error; err != nil {
		return nil, translate(err, "invoices")
	}
	return invoices, nil
}

func (db *PostgresDB) ListInvoicesByCustomer(customerID string) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	if err := db.Conn.Where("customer_id = ?", customerID).Order("issued_at DESC").Find(&invoices).Error; err != nil {
		return nil, translate(err, "invoices of customer "+customerID)
	}
	return invoices, nil
}

func (db *PostgresDB) ListInvoicesByStatus(status string) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	if err := db.Conn.Where("status = ?", status).Find(&invoices).Error; err != nil {
		return nil, translate(err, status+" invoices")
	}
	return invoices, nil
}

func (db *PostgresDB) UpdateInvoice(invoice *models.Invoice) error {
	if err := db.Conn.Save(invoice).Error; err != nil {
		return translate(err, "invoice "+invoice.ID)
	}
	return nil
}

// Payments

func (db *PostgresDB) CreatePayment(payment *models.Payment) error {
	if err := db.Conn.Create(payment).Error; err != nil {
		return translate(err, "payment with reference "+payment.Reference)
	}
	return nil
}

func (db *PostgresDB) GetPayment(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Conn.Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, translate(err, "payment "+id)
	}
	return &payment, nil
}

func (db *PostgresDB) ListPaymentsByInvoice(invoiceID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	if err := db.Conn.Where("invoice_id = ?", invoiceID).Order("reported_at").Find(&payments).Error; err != nil {
		return nil, translate(err, "payments of invoice "+invoiceID)
	}
	return payments, nil
}

func (db *PostgresDB) UpdatePaymentStatus(id, status string) error {
	res := db.Conn.Model(&models.Payment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "payment "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: payment %s", billing.ErrNotFound, id)
	}
	return nil
}

// Registrations

func (db *PostgresDB) CreateRegistration(registration *models.Registration) error {
	if err := db.Conn.Create(registration).Error; err != nil {
		return translate(err, "registration with cedula "+registration.Cedula)
	}
	return nil
}

func (db *PostgresDB) GetRegistration(id string) (*models.Registration, error) {
	var registration models.Registration
	if err := db.Conn.Where("id = ?", id).First(&registration).Error; err != nil {
		return nil, translate(err, "registration "+id)
	}
	return &registration, nil
}

func (db *PostgresDB) ListRegistrations() ([]*models.Registration, error) {
	var registrations []*models.Registration
	if err := db.Conn.Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, translate(err, "registrations")
	}
	return registrations, nil
}

func (db *PostgresDB) UpdateRegistration(registration *models.Registration) error {
	if err := db.Conn.Save(registration).Error; err != nil {
		return translate(err, "registration "+registration.ID)
	}
	return nil
}

// Contact messages

func (db *PostgresDB) CreateContactMessage(message *models.ContactMessage) error {
	if err := db.Conn.Create(message).Error; err != nil {
		return translate(err, "contact message")
	}
	return nil
}

func (db *PostgresDB) ListContactMessages() ([]*models.ContactMessage, error) {
	var messages []*models.ContactMessage
	if err := db.Conn.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, translate(err, "contact messages")
	}
	return messages, nil
}
