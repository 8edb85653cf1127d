package app

import (
	"bytes"
	"encoding/json"
	"strings"

	"hotel_search/internal/domain"
)

const invalidPayloadMessage = "Invalid response from upstream"

// upstreamEnvelope is the object form of an upstream reply.
type upstreamEnvelope struct {
	Response json.RawMessage `json:"response"`
	Error    json.RawMessage `json:"error"`
}

// NormalizePayload turns an upstream reply into records. Accepted shapes are
// {"response": [...]} and a bare array; {"error": ...} and every other shape
// yield an *domain.UpstreamError.
func NormalizePayload(raw json.RawMessage) ([]domain.HotelRecord, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, &domain.UpstreamError{Message: invalidPayloadMessage}
	}

	switch body[0] {
	case '[':
		return decodeRecords(body)
	case '{':
		var env upstreamEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &domain.UpstreamError{Message: invalidPayloadMessage, Err: err}
		}
		if msg, ok := errorMessage(env.Error); ok {
			return nil, &domain.UpstreamError{Message: msg}
		}
		if r := bytes.TrimSpace(env.Response); len(r) > 0 && r[0] == '[' {
			return decodeRecords(r)
		}
	}
	return nil, &domain.UpstreamError{Message: invalidPayloadMessage}
}

func decodeRecords(b []byte) ([]domain.HotelRecord, error) {
	var out []domain.HotelRecord
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &domain.UpstreamError{Message: invalidPayloadMessage, Err: err}
	}
	if out == nil {
		out = []domain.HotelRecord{}
	}
	return out, nil
}

// errorMessage reads the error flag of an envelope. A string is used as the
// message; any other truthy value falls back to the generic message.
func errorMessage(raw json.RawMessage) (string, bool) {
	t := strings.TrimSpace(string(raw))
	switch t {
	case "", "null", "false", `""`, "0":
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s, true
	}
	return domain.GenericUpstreamMessage, true
}
