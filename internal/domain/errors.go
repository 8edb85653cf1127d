package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrSlugRequired = errors.New("slug is required")
)

// GenericUpstreamMessage is used when the upstream failed without saying why.
const GenericUpstreamMessage = "Failed to fetch hotels"

// UpstreamError is any failure to obtain a usable listing from the upstream:
// transport error, explicit error payload, or a payload of the wrong shape.
// Message is safe to show to clients.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return "upstream: " + e.Message + ": " + e.Err.Error()
	}
	return "upstream: " + e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }
