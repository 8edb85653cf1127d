package domain

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestParseLoose(t *testing.T) {
	tests := []struct {
		in   string
		want float64 // NaN means unparseable
	}{
		{"$1,200.50", 1200.5},
		{"4.5 stars", 4.5},
		{"200", 200},
		{".5", 0.5},
		{"1.2.3", 1.2},
		{"-3", 3},
		{"N/A", math.NaN()},
		{"", math.NaN()},
		{".", math.NaN()},
	}
	for _, tt := range tests {
		got := ParseLoose(tt.in)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ParseLoose(%q) = %v, want NaN", tt.in, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLoose(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`12`, 12},
		{`-1.5`, -1.5},
		{`"12 EUR"`, 12},
		{`true`, math.NaN()},
		{`null`, math.NaN()},
		{`[1]`, math.NaN()},
		{`{"v":1}`, math.NaN()},
		{``, math.NaN()},
	}
	for _, tt := range tests {
		got := ParseNumber(json.RawMessage(tt.raw))
		if math.IsNaN(tt.want) != math.IsNaN(got) || (!math.IsNaN(got) && got != tt.want) {
			t.Errorf("ParseNumber(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestHotelRecord_RoundTripKeepsUnknownFields(t *testing.T) {
	in := `{"name":"A","actual_price":"$200","stars":4,"rating":null,"id":17,"images":["x.jpg"],"supplier_name":null,"address":{"line":"1 Main"}}`

	var h HotelRecord
	if err := json.Unmarshal([]byte(in), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.Name != "A" || h.ActualPrice.Float() != 200 || h.Stars.Float() != 4 {
		t.Fatalf("unexpected record: %+v", h)
	}
	if !h.Rating.IsZero() || !math.IsNaN(h.Rating.Float()) {
		t.Fatalf("null rating should read as absent")
	}
	if h.SupplierName != nil {
		t.Fatalf("null supplier should stay absent")
	}
	if v, ok := h.Extra("id"); !ok || string(v) != "17" {
		t.Fatalf("Extra(id) = %s, %v", v, ok)
	}

	out, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Fatalf("round trip mismatch:\n got  %s\n want %s", out, in)
	}
}

func TestHotelRecord_EchoesAwkwardValuesUnchanged(t *testing.T) {
	tests := []string{
		`{"amenities":[{"id":1,"name":"Pool"},{"id":3}],"name":"A"}`,
		`{"name":"","address":null,"location":7}`,
		`{"stars":"4.5 stars","rating":true,"actual_price":[1],"supplier_name":42}`,
		`{"amenities":null,"name":null}`,
		`{}`,
		`null`,
	}
	for _, in := range tests {
		var recs []HotelRecord
		if err := json.Unmarshal([]byte("["+in+"]"), &recs); err != nil {
			t.Fatalf("%s: unmarshal: %v", in, err)
		}
		out, err := json.Marshal(recs)
		if err != nil {
			t.Fatalf("%s: marshal: %v", in, err)
		}
		if string(out) != "["+in+"]" {
			t.Fatalf("echo changed the record:\n got  %s\n want [%s]", out, in)
		}
	}
}

func TestHotelRecord_BuiltInCode(t *testing.T) {
	supplier := "Expedia"
	h := HotelRecord{Name: "Inn", ActualPrice: NumText("$80"), Stars: Num(3), SupplierName: &supplier}

	out, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back HotelRecord
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Name != "Inn" || back.ActualPrice.Float() != 80 || back.Stars.Float() != 3 || *back.SupplierName != "Expedia" {
		t.Fatalf("unexpected record: %s", out)
	}
}

func TestHotelRecord_AmenityObjects(t *testing.T) {
	var h HotelRecord
	if err := json.Unmarshal([]byte(`{"amenities":[{"name":"Pool"},"Spa",{"id":3}]}`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(h.Amenities, []string{"Pool", "Spa"}) {
		t.Fatalf("amenities = %v", h.Amenities)
	}
}

func TestLocationKey(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{body: `"paris"`, want: "paris"},
		{body: `["new-york","manhattan"]`, want: "new-york/manhattan"},
		{body: `[" rome ","","/trastevere/"]`, want: "rome/trastevere"},
		{body: `null`, want: ""},
		{body: `""`, want: ""},
		{body: `42`, wantErr: true},
		{body: `{"city":"x"}`, wantErr: true},
		{body: `[1,2]`, wantErr: true},
	}
	for _, tt := range tests {
		var k LocationKey
		err := json.Unmarshal([]byte(tt.body), &k)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tt.body, err, tt.wantErr)
		}
		if err == nil && k.Join() != tt.want {
			t.Fatalf("%s: Join() = %q, want %q", tt.body, k.Join(), tt.want)
		}
	}
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	var nilCrit *FilterCriteria
	if !nilCrit.IsEmpty() || !(&FilterCriteria{}).IsEmpty() {
		t.Fatal("nil and zero criteria must be empty")
	}
	var c FilterCriteria
	if err := json.Unmarshal([]byte(`{"guestRating":0}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.IsEmpty() {
		t.Fatal("guestRating 0 is a constraint")
	}
}
