package receipt

import (
	"math"
	"sort"
	"time"
)

// budgetAlertCents is the monthly spend above which the budget alert fires
// (500 currency units).
const budgetAlertCents = 50000

// Summary is the full analytics rollup over a record sequence.
type Summary struct {
	WeeklyCents  int64 `json:"weekly_cents"`
	MonthlyCents int64 `json:"monthly_cents"`
	YearlyCents  int64 `json:"yearly_cents"`

	CategoryTotals map[string]int64 `json:"category_totals"`
	MerchantCounts map[string]int   `json:"merchant_counts"`

	TopCategory          string  `json:"top_category"`
	AveragePurchaseCents float64 `json:"average_purchase_cents"`
	ShoppingFrequency    int     `json:"shopping_frequency"`
	BudgetAlert          bool    `json:"budget_alert"`
}

// Summarize computes the analytics rollup for a record sequence at a given
// reference instant. It is a pure function: no ambient clock, no state, and
// identical inputs always yield identical output. Records whose date does
// not parse are excluded from the windowed sums but still count toward
// category totals and merchant counts.
func Summarize(records []*Receipt, now time.Time) Summary {
	s := Summary{
		CategoryTotals: make(map[string]int64),
		MerchantCounts: make(map[string]int),
		TopCategory:    "none",
	}

	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)
	yearStart := now.AddDate(0, 0, -365)

	var totalCents int64
	var categoryOrder []string

	for _, r := range records {
		if _, seen := s.CategoryTotals[r.Category]; !seen {
			categoryOrder = append(categoryOrder, r.Category)
		}
		s.CategoryTotals[r.Category] += r.AmountCents
		s.MerchantCounts[r.MerchantName]++
		totalCents += r.AmountCents

		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		// window boundaries are inclusive
		if !date.Before(weekStart) {
			s.WeeklyCents += r.AmountCents
		}
		if !date.Before(monthStart) {
			s.MonthlyCents += r.AmountCents
		}
		if !date.Before(yearStart) {
			s.YearlyCents += r.AmountCents
		}
	}

	// top category: highest total, ties broken by first-seen order
	var best int64 = -1
	for _, c := range categoryOrder {
		if s.CategoryTotals[c] > best {
			best = s.CategoryTotals[c]
			s.TopCategory = c
		}
	}

	if n := len(records); n > 0 {
		s.AveragePurchaseCents = float64(totalCents) / float64(n)
	}
	if s.AveragePurchaseCents > 0 {
		s.ShoppingFrequency = int(math.Round(float64(s.MonthlyCents) / s.AveragePurchaseCents))
	}
	s.BudgetAlert = s.MonthlyCents > budgetAlertCents

	return s
}

// RankedCategories returns categories ordered by total descending, ties
// broken by first appearance in store order. Consumers that need a ranked
// view (export, insights) use this rather than iterating the map.
func RankedCategories(records []*Receipt, totals map[string]int64) []string {
	var order []string
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Category] {
			seen[r.Category] = true
			order = append(order, r.Category)
		}
	}

	// stable sort keeps the first-seen tie-break
	sort.SliceStable(order, func(i, j int) bool {
		return totals[order[i]] > totals[order[j]]
	})
	return order
}
