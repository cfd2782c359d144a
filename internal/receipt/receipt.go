package receipt

import (
	"math"
	"time"
)

// Receipt represents one persisted, extracted transaction entry.
// Records are immutable once created; there is no edit or delete.
type Receipt struct {
	ID           string    `json:"id"`
	MerchantName string    `json:"merchant_name"`
	Date         string    `json:"date"` // receipt's own date, YYYY-MM-DD
	AmountCents  int64     `json:"amount_cents"`
	Category     string    `json:"category"`
	Items        []string  `json:"items,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StorePrice is a mock price-comparison result. The search feature is a
// stub returning fixed data; see StorePriceSearch.
type StorePrice struct {
	Store      string  `json:"store"`
	PriceCents int64   `json:"price_cents"`
	DistanceKm float64 `json:"distance_km,omitempty"`
}

// ToCents converts a decimal currency amount to integer cents, half-up.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
