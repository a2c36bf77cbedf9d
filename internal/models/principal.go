package models

// Principal is the authenticated identity attached to a request by the JWT
// middleware. The billing service uses it for role and ownership checks.
type Principal struct {
	CustomerID string
	Role       string
}

// IsAdmin reports whether the principal has the administrator role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal is the given customer.
func (p Principal) Owns(customerID string) bool {
	return p.CustomerID == customerID
}
