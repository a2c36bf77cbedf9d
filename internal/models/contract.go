package models

import "time"

// Contract states. The contract, not the plan, is the sole authority on
// whether a customer's service is suspended.
const (
	ContractActive    = "active"
	ContractSuspended = "suspended"
	ContractFinalized = "finalized"
)

// Contract binds exactly one customer to one plan. The uniqueness of
// CustomerID enforces the at-most-one-contract-per-customer invariant.
type Contract struct {
	// ID is the unique identifier of the contract.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// CustomerID references the owning user. Unique: one contract per customer.
	CustomerID string `json:"customer_id" gorm:"column:customer_id;unique;not null"`
	// PlanID references the contracted plan.
	PlanID string `json:"plan_id" gorm:"column:plan_id;not null;index"`
	// Status is "active", "suspended" or "finalized". Suspension is applied by
	// the overdue sweep or an administrator; payment of an invoice reactivates.
	Status string `json:"status" gorm:"column:status;default:active;index"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
