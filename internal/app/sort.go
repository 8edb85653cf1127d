package app

import (
	"math"
	"slices"

	"hotel_search/internal/domain"
)

// SortRecords returns a stably sorted copy of records. Unknown keys keep the
// input order. Values that do not parse go last in every ordering.
func SortRecords(records []domain.HotelRecord, key domain.SortKey) []domain.HotelRecord {
	out := slices.Clone(records)

	var field func(h *domain.HotelRecord) float64
	desc := true
	switch key {
	case domain.SortPriceAsc:
		field, desc = priceOf, false
	case domain.SortPriceDesc:
		field = priceOf
	case domain.SortRating:
		field = func(h *domain.HotelRecord) float64 { return h.Rating.Float() }
	case domain.SortPopularity:
		field = func(h *domain.HotelRecord) float64 { return h.Stars.Float() }
	default:
		return out
	}

	slices.SortStableFunc(out, func(a, b domain.HotelRecord) int {
		return compareNumbers(field(&a), field(&b), desc)
	})
	return out
}

func priceOf(h *domain.HotelRecord) float64 { return h.ActualPrice.Float() }

func compareNumbers(x, y float64, desc bool) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return 0
	case xn:
		return 1
	case yn:
		return -1
	}
	if desc {
		x, y = y, x
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}
