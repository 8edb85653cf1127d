package app

import (
	"math"
	"slices"
	"strings"

	"hotel_search/internal/domain"
)

// predicate reports whether a record survives one criterion.
type predicate func(h *domain.HotelRecord) bool

// ApplyFilters keeps, in order, the records that pass every criterion present in c.
// The input slice is not modified.
func ApplyFilters(records []domain.HotelRecord, c *domain.FilterCriteria) []domain.HotelRecord {
	preds := buildPredicates(c)
	out := make([]domain.HotelRecord, 0, len(records))
	for i := range records {
		if passesAll(&records[i], preds) {
			out = append(out, records[i])
		}
	}
	return out
}

func passesAll(h *domain.HotelRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(h) {
			return false
		}
	}
	return true
}

func buildPredicates(c *domain.FilterCriteria) []predicate {
	if c == nil {
		return nil
	}
	var preds []predicate

	if c.Search != "" {
		q := strings.ToLower(c.Search)
		preds = append(preds, func(h *domain.HotelRecord) bool {
			return strings.Contains(strings.ToLower(h.Name), q) ||
				strings.Contains(strings.ToLower(h.Location), q) ||
				strings.Contains(strings.ToLower(h.Address), q)
		})
	}

	if c.Price != nil {
		lo, hi := math.Inf(-1), math.Inf(1)
		if v := c.Price.Min.Float(); !math.IsNaN(v) {
			lo = v
		}
		if v := c.Price.Max.Float(); !math.IsNaN(v) {
			hi = v
		}
		preds = append(preds, func(h *domain.HotelRecord) bool {
			p := h.ActualPrice.Float()
			// unparseable prices are not filtered out
			return math.IsNaN(p) || (p >= lo && p <= hi)
		})
	}

	if len(c.Stars) > 0 {
		want := make([]float64, 0, len(c.Stars))
		for _, s := range c.Stars {
			if v := s.Float(); !math.IsNaN(v) {
				want = append(want, v)
			}
		}
		preds = append(preds, func(h *domain.HotelRecord) bool {
			return slices.Contains(want, h.Stars.Float())
		})
	}

	if floor := c.GuestRating.Float(); !math.IsNaN(floor) {
		preds = append(preds, func(h *domain.HotelRecord) bool {
			return h.Rating.Float() >= floor
		})
	}

	if len(c.Amenities) > 0 {
		want := c.Amenities
		preds = append(preds, func(h *domain.HotelRecord) bool {
			for _, a := range h.Amenities {
				if slices.Contains(want, a) {
					return true
				}
			}
			return false
		})
	}

	if len(c.Suppliers) > 0 {
		want := c.Suppliers
		preds = append(preds, func(h *domain.HotelRecord) bool {
			return h.SupplierName != nil && slices.Contains(want, *h.SupplierName)
		})
	}

	if p := quickFilter(c.QuickFilter); p != nil {
		preds = append(preds, p)
	}
	return preds
}

// quickFilter returns nil for an unknown or empty preset.
func quickFilter(q domain.QuickFilter) predicate {
	switch q {
	case domain.QuickHighRated:
		return func(h *domain.HotelRecord) bool { return h.Stars.Float() >= 4 }
	case domain.QuickHighValue:
		return func(h *domain.HotelRecord) bool { return h.ActualPrice.Float() >= 500 }
	case domain.QuickBusiness:
		return func(h *domain.HotelRecord) bool { return slices.Contains(h.Amenities, domain.BusinessAmenity) }
	}
	return nil
}
