package models

import "time"

// Plan categories.
const (
	PlanHome     = "home"
	PlanBusiness = "business"
)

// Plan represents a service tier offered to customers.
// Administrative edits are allowed, but deactivation never retroactively
// alters invoices that already reference the plan.
type Plan struct {
	// ID is the unique identifier of the plan.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Name is the commercial name, e.g. "Plan Hogar Basico".
	Name string `json:"name" gorm:"column:name;not null"`
	// SpeedMbps is the bandwidth of the tier.
	SpeedMbps int `json:"speed_mbps" gorm:"column:speed_mbps;not null"`
	// PriceUSD is the monthly price in US dollars.
	PriceUSD float64 `json:"price_usd" gorm:"column:price_usd;not null"`
	// Category is "home" or "business".
	Category string `json:"category" gorm:"column:category;not null"`
	// Active indicates whether the plan can still be contracted.
	Active bool `json:"active" gorm:"column:active;default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
