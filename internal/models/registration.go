package models

import "time"

// Registration request states.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

// Registration is a service sign-up request filed before a customer account
// and contract exist. An administrator reviews and approves or rejects it.
type Registration struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// PlanName is the commercial name of the requested plan, as sent by the
	// public form.
	PlanName  string `json:"plan_name" gorm:"column:plan_name;not null"`
	FirstName string `json:"first_name" gorm:"column:first_name;not null"`
	LastName  string `json:"last_name" gorm:"column:last_name;not null"`
	// Cedula is unique: only one open request per identity document.
	Cedula         string `json:"cedula" gorm:"column:cedula;unique;not null"`
	Email          string `json:"email" gorm:"column:email;not null"`
	AlternateEmail string `json:"alternate_email" gorm:"column:alternate_email"`
	Phone          string `json:"phone" gorm:"column:phone;not null"`
	OtherContact   string `json:"other_contact" gorm:"column:other_contact"`
	City           string `json:"city" gorm:"column:city"`
	MainStreet     string `json:"main_street" gorm:"column:main_street"`
	SideStreet     string `json:"side_street" gorm:"column:side_street"`
	HouseNumber    string `json:"house_number" gorm:"column:house_number"`
	BirthDate      string `json:"birth_date" gorm:"column:birth_date"`
	// Status is "pending", "approved" or "rejected".
	Status string `json:"status" gorm:"column:status;default:pending;index"`
	// Observations holds the administrator's review notes.
	Observations string `json:"observations" gorm:"column:observations"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
