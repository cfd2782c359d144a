package receipt

import (
	"context"
	"strings"
	"time"
)

// StorePriceSearch is a mock price-comparison search. It returns a fixed
// dataset after an artificial delay and performs no real integration; it
// exists so the client-side search flow has a stable boundary to call.
type StorePriceSearch struct {
	Delay time.Duration
}

// NewStorePriceSearch creates the stub with its standard artificial delay.
func NewStorePriceSearch() *StorePriceSearch {
	return &StorePriceSearch{Delay: 800 * time.Millisecond}
}

// mockPrices is the fixed dataset returned for every query.
var mockPrices = []StorePrice{
	{Store: "SuperMart", PriceCents: 499, DistanceKm: 1.2},
	{Store: "ValueGrocer", PriceCents: 459, DistanceKm: 2.8},
	{Store: "CornerShop", PriceCents: 549, DistanceKm: 0.4},
	{Store: "MegaStore", PriceCents: 429, DistanceKm: 5.1},
}

// Search returns the fixed mock results for an item query. An empty query
// yields an empty result; cancellation is honored during the artificial
// delay.
func (s *StorePriceSearch) Search(ctx context.Context, item string) ([]StorePrice, error) {
	if strings.TrimSpace(item) == "" {
		return []StorePrice{}, nil
	}

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	out := make([]StorePrice, len(mockPrices))
	copy(out, mockPrices)
	return out, nil
}
