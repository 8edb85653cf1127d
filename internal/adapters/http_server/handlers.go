// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/app"
	"hotel_search/internal/domain"
)

const (
	maxRequestBody       = 1 << 20
	invalidBodyMessage   = "Invalid JSON body"
	slugRequiredMessage  = "Slug is required"
	internalErrorMessage = "Internal server error"
)

type Handlers struct {
	Q          *app.QueryService
	Production bool
}

type searchRequest struct {
	Slug   domain.LocationKey     `json:"slug"`
	Filter *domain.FilterCriteria `json:"filter"`
}

type searchResponse struct {
	Data  []domain.HotelRecord `json:"data"`
	Total int                  `json:"total"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Post("/api/hotels", h.searchHotels)
	s.mux.Post("/v1/hotels/search", h.searchHotels)
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r.Body, &req); err != nil {
		log.Debug().Err(err).Str("request_id", chimw.GetReqID(r.Context())).Msg("search body rejected")
		writeError(w, http.StatusBadRequest, invalidBodyMessage, "")
		return
	}

	res, err := h.Q.Query(r.Context(), req.Slug, req.Filter)
	if err != nil {
		h.writeQueryError(w, r, req.Slug, err)
		return
	}
	observability.ObserveQuery(!req.Filter.IsEmpty(), res.Total)
	writeJSON(w, http.StatusOK, searchResponse{Data: res.Records, Total: res.Total})
}

func (h *Handlers) writeQueryError(w http.ResponseWriter, r *http.Request, key domain.LocationKey, err error) {
	var ue *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrSlugRequired):
		writeError(w, http.StatusBadRequest, slugRequiredMessage, "")
	case errors.As(err, &ue):
		msg := ue.Message
		if msg == "" {
			msg = domain.GenericUpstreamMessage
		}
		writeError(w, http.StatusInternalServerError, msg, details(h.Production, err.Error()))
	default:
		log.Error().Err(err).
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("location", key.Join()).
			Msg("hotel query failed")
		writeError(w, http.StatusInternalServerError, internalErrorMessage, details(h.Production, err.Error()))
	}
}

// decodeBody reads exactly one JSON value; anything but whitespace after it is an error.
func decodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// details gates error detail on the environment.
func details(production bool, d string) string {
	if production {
		return ""
	}
	return d
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, errorBody{Error: msg, Details: detail})
}

// writeJSON marshals once so a failure can still become a clean 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + internalErrorMessage + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
