package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// everything the tolerant parse throws away before reading a number
	nonNumeric = regexp.MustCompile(`[^0-9.]`)
	// longest leading decimal once the junk is gone ("1.2.3" reads as 1.2)
	leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// ParseLoose reads a number out of free text such as "$1,200.50" or "4.5 stars".
// It returns NaN when no digits are left after stripping.
func ParseLoose(s string) float64 {
	m := leadingNumber.FindString(nonNumeric.ReplaceAllString(s, ""))
	if m == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ParseNumber applies the tolerant parse to a raw JSON value.
// Numbers are read as is, strings go through ParseLoose, anything else is NaN.
func ParseNumber(raw json.RawMessage) float64 {
	t := strings.TrimSpace(string(raw))
	if t == "" {
		return math.NaN()
	}
	switch c := t[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal([]byte(t), &s); err != nil {
			return math.NaN()
		}
		return ParseLoose(s)
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// Numeric is a number-like upstream value. The raw token is kept so records
// round-trip unchanged; the parsed value is computed once at decode time.
type Numeric struct {
	raw json.RawMessage
	val float64
}

// Num builds a Numeric from a float.
func Num(f float64) Numeric {
	raw := json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))
	return Numeric{raw: raw, val: f}
}

// NumText builds a Numeric from a string, e.g. "$200".
func NumText(s string) Numeric {
	raw, _ := json.Marshal(s)
	return Numeric{raw: raw, val: ParseLoose(s)}
}

// Float returns the parsed value, NaN when absent or unparseable.
func (n Numeric) Float() float64 {
	if n.raw == nil {
		return math.NaN()
	}
	return n.val
}

// IsZero reports whether the value was absent (or JSON null).
func (n Numeric) IsZero() bool { return n.raw == nil }

func (n *Numeric) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		return nil
	}
	n.raw = append(json.RawMessage(nil), b...)
	n.val = ParseNumber(n.raw)
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.raw == nil {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// HotelRecord is one upstream hotel listing. The typed fields feed filtering
// and sorting; a decoded record encodes back to exactly the object it was read from.
type HotelRecord struct {
	Name         string
	Location     string
	Address      string
	ActualPrice  Numeric
	Stars        Numeric
	Rating       Numeric
	Amenities    []string
	SupplierName *string

	raw json.RawMessage
}

func (h *HotelRecord) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	// a null element stays null on the way out
	*h = HotelRecord{raw: append(json.RawMessage(nil), b...)}
	for k, v := range m {
		switch k {
		case "name":
			h.Name, _ = looseString(v)
		case "location":
			h.Location, _ = looseString(v)
		case "address":
			h.Address, _ = looseString(v)
		case "actual_price":
			_ = h.ActualPrice.UnmarshalJSON(v)
		case "stars":
			_ = h.Stars.UnmarshalJSON(v)
		case "rating":
			_ = h.Rating.UnmarshalJSON(v)
		case "amenities":
			h.Amenities, _ = stringList(v)
		case "supplier_name":
			var s string
			if !isNull(v) && json.Unmarshal(v, &s) == nil {
				h.SupplierName = &s
			}
		}
	}
	return nil
}

// MarshalJSON writes a decoded record back verbatim. Records built in code
// encode their typed fields.
func (h HotelRecord) MarshalJSON() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	out := make(map[string]any, 8)
	if h.Name != "" {
		out["name"] = h.Name
	}
	if h.Location != "" {
		out["location"] = h.Location
	}
	if h.Address != "" {
		out["address"] = h.Address
	}
	if !h.ActualPrice.IsZero() {
		out["actual_price"] = h.ActualPrice
	}
	if !h.Stars.IsZero() {
		out["stars"] = h.Stars
	}
	if !h.Rating.IsZero() {
		out["rating"] = h.Rating
	}
	if h.Amenities != nil {
		out["amenities"] = h.Amenities
	}
	if h.SupplierName != nil {
		out["supplier_name"] = *h.SupplierName
	}
	return json.Marshal(out)
}

// Extra returns a field of the upstream object as received, if present.
func (h HotelRecord) Extra(key string) (json.RawMessage, bool) {
	if h.raw == nil {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(h.raw, &m); err != nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// looseString accepts JSON strings and numbers; null reads as "".
func looseString(v json.RawMessage) (string, bool) {
	if isNull(v) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// stringList accepts ["a","b"] or a list of {name: "..."} objects.
func stringList(v json.RawMessage) ([]string, bool) {
	if isNull(v) {
		return nil, true
	}
	var ss []string
	if err := json.Unmarshal(v, &ss); err == nil {
		return ss, true
	}
	var raw []any
	if err := json.Unmarshal(v, &raw); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		switch t := it.(type) {
		case string:
			out = append(out, t)
		case map[string]any:
			if n, ok := t["name"].(string); ok && n != "" {
				out = append(out, n)
			}
		}
	}
	return out, true
}

func isNull(v json.RawMessage) bool { return strings.TrimSpace(string(v)) == "null" }
