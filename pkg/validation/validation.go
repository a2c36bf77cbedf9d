// Package validation centralizes the input format checks that were once
// scattered across request handlers.
package validation

import (
	"fmt"
	"regexp"
)

var (
	cedulaRe = regexp.MustCompile(`^[0-9]{7,9}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\d{11}$`)
)

// ValidateCedula validates a national identity document number (7-9 digits).
func ValidateCedula(cedula string) error {
	if cedula == "" {
		return fmt.Errorf("cedula cannot be empty")
	}
	if !cedulaRe.MatchString(cedula) {
		return fmt.Errorf("invalid cedula format: expected 7-9 digits")
	}
	return nil
}

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone validates an 11-digit local phone number. Empty is allowed;
// phone numbers are optional everywhere they appear.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("invalid phone format: expected 11 digits")
	}
	return nil
}
