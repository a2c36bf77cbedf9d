package models

// RateService supplies the current VED-per-USD exchange rate. Implementations
// must answer from a cached last-known-good value when the upstream source
// fails, so the billing ledger never blocks or crashes on a fetch error.
type RateService interface {
	CurrentRate() (float64, error)
}
