package models

import "time"

// Role of a user inside the system.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Access modes for login.
const (
	AccessEmail = "email"
	AccessCode  = "code"
)

// User represents a registered customer or administrator.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Cedula is the national identity document number (7-9 digits).
	Cedula string `json:"cedula" gorm:"column:cedula;unique;not null"`
	// Email is the login email of the user.
	Email string `json:"email" gorm:"column:email;unique;not null"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`
	// FirstName and LastName are the user's legal names.
	FirstName string `json:"first_name" gorm:"column:first_name;not null"`
	LastName  string `json:"last_name" gorm:"column:last_name;not null"`
	// Phone is an optional contact number (11 digits).
	Phone string `json:"phone" gorm:"column:phone"`
	// City and Street describe the service address.
	City      string `json:"city" gorm:"column:city"`
	Street    string `json:"street" gorm:"column:street"`
	Apartment string `json:"apartment" gorm:"column:apartment"`
	// Role is either "customer" or "admin".
	Role string `json:"role" gorm:"column:role;default:customer;index"`
	// AccessMode is how the user authenticates ("email" or "code").
	AccessMode string `json:"access_mode" gorm:"column:access_mode;default:email"`
	// BalanceUSD is the running USD-equivalent credit/debit balance.
	// Debited when an invoice is issued, credited when a payment is applied.
	BalanceUSD float64 `json:"balance_usd" gorm:"column:balance_usd;default:0"`
	// Deleted marks the user as soft-deleted. Users are never hard-deleted.
	Deleted bool `json:"deleted" gorm:"column:deleted;default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
