package models

import "time"

// Contact message handling states.
const (
	ContactPending  = "pending"
	ContactRead     = "read"
	ContactAnswered = "answered"
)

// ContactMessage is a message filed through the public contact form by a
// prospect or customer. Administrators read them; nothing else in the system
// touches them.
type ContactMessage struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Name of the person reaching out.
	Name string `json:"name" gorm:"column:name;not null"`
	// Email is the reply address.
	Email string `json:"email" gorm:"column:email;not null"`
	// Message is the free-form body.
	Message string `json:"message" gorm:"column:message;not null"`
	// Status is "pending", "read" or "answered".
	Status string `json:"status" gorm:"column:status;default:pending;index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
