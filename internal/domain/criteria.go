package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SortKey selects one of the orderings applied after filtering.
type SortKey string

const (
	SortPriceAsc   SortKey = "low_to_high"
	SortPriceDesc  SortKey = "high_to_low"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity" // orders by stars, not by bookings
)

// QuickFilter is a named preset predicate.
type QuickFilter string

const (
	QuickHighRated QuickFilter = "high rated"
	QuickHighValue QuickFilter = "high value"
	QuickBusiness  QuickFilter = "business"
)

// BusinessAmenity is the tag the "business" quick filter looks for.
const BusinessAmenity = "Business Services"

// PriceRange bounds are inclusive; an absent bound leaves that side open.
type PriceRange struct {
	Min Numeric `json:"min"`
	Max Numeric `json:"max"`
}

// FilterCriteria narrows and orders a listing. Every field is optional.
type FilterCriteria struct {
	Search      string      `json:"search,omitempty"`
	Price       *PriceRange `json:"price,omitempty"`
	Stars       []Numeric   `json:"stars,omitempty"`
	GuestRating Numeric     `json:"guestRating"`
	Amenities   []string    `json:"amenities,omitempty"`
	Suppliers   []string    `json:"suppliers,omitempty"`
	QuickFilter QuickFilter `json:"quickFilter,omitempty"`
	Sort        SortKey     `json:"sort,omitempty"`
}

// IsEmpty reports whether no field constrains or orders anything.
func (c *FilterCriteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.Search == "" && c.Price == nil && len(c.Stars) == 0 && c.GuestRating.IsZero() &&
		len(c.Amenities) == 0 && len(c.Suppliers) == 0 && c.QuickFilter == "" && c.Sort == ""
}

// LocationKey identifies an upstream listing: a city slug or a path of segments.
// It decodes from either a JSON string or an array of strings.
type LocationKey []string

func (k *LocationKey) UnmarshalJSON(b []byte) error {
	t := strings.TrimSpace(string(b))
	switch {
	case t == "null":
		*k = nil
		return nil
	case strings.HasPrefix(t, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = LocationKey{s}
		return nil
	case strings.HasPrefix(t, "["):
		var ss []string
		if err := json.Unmarshal(b, &ss); err != nil {
			return err
		}
		*k = LocationKey(ss)
		return nil
	}
	return fmt.Errorf("location key: want string or array of strings, got %s", t)
}

// Segments returns the trimmed, non-empty path segments.
func (k LocationKey) Segments() []string {
	out := make([]string, 0, len(k))
	for _, s := range k {
		if s = strings.Trim(strings.TrimSpace(s), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Join is the cache key: segments joined by "/". Empty means no location.
func (k LocationKey) Join() string { return strings.Join(k.Segments(), "/") }

// ParseLocationKey splits "city/area" style text into a key.
func ParseLocationKey(s string) LocationKey { return LocationKey(strings.Split(s, "/")) }
