package app_test

import (
	"encoding/json"
	"errors"
	"testing"

	"hotel_search/internal/app"
	"hotel_search/internal/domain"
)

func TestNormalizePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantMsg string // non-empty means an UpstreamError is expected
	}{
		{name: "response envelope", payload: `{"response":[{"name":"A"},{"name":"B"}],"meta":{"page":1}}`, want: 2},
		{name: "bare array", payload: ` [{"name":"A"}] `, want: 1},
		{name: "empty array", payload: `[]`, want: 0},
		{name: "error string wins over response", payload: `{"error":"rate limited","response":[]}`, wantMsg: "rate limited"},
		{name: "error flag without text", payload: `{"error":true}`, wantMsg: domain.GenericUpstreamMessage},
		{name: "falsy error is ignored", payload: `{"error":null,"response":[{"name":"A"}]}`, want: 1},
		{name: "response object", payload: `{"response":{"name":"A"}}`, wantMsg: "Invalid response from upstream"},
		{name: "missing response", payload: `{"data":[]}`, wantMsg: "Invalid response from upstream"},
		{name: "empty body", payload: ``, wantMsg: "Invalid response from upstream"},
		{name: "garbage", payload: `<html>`, wantMsg: "Invalid response from upstream"},
		{name: "array of scalars", payload: `[1,2]`, wantMsg: "Invalid response from upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.NormalizePayload(json.RawMessage(tt.payload))
			if tt.wantMsg != "" {
				var ue *domain.UpstreamError
				if !errors.As(err, &ue) || ue.Message != tt.wantMsg {
					t.Fatalf("NormalizePayload() err = %v, want message %q", err, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizePayload() unexpected err: %v", err)
			}
			if got == nil || len(got) != tt.want {
				t.Fatalf("NormalizePayload() = %d records (nil=%v), want %d", len(got), got == nil, tt.want)
			}
		})
	}
}
