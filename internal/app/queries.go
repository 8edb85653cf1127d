package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_search/internal/domain"
)

const defaultFetchTimeout = 10 * time.Second

type QueryService struct {
	src       domain.ListingSource
	mem       domain.ResultCache
	shared    domain.Cache
	sharedTTL time.Duration
	maxAge    time.Duration
	timeout   time.Duration
	now       func() time.Time
	flights   singleflight.Group
}

// sharedListing is the shared-tier value: records plus when they left the upstream.
type sharedListing struct {
	FetchedAt time.Time            `json:"fetched_at"`
	Records   []domain.HotelRecord `json:"records"`
}

type QueryOption func(*QueryService)

// WithSharedCache adds a second cache tier consulted on memory misses.
func WithSharedCache(c domain.Cache, ttl time.Duration) QueryOption {
	return func(s *QueryService) { s.shared, s.sharedTTL = c, ttl }
}

// WithSharedMaxAge ignores shared-tier listings fetched more than d ago.
// Zero accepts any age the tier still holds.
func WithSharedMaxAge(d time.Duration) QueryOption {
	return func(s *QueryService) { s.maxAge = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) QueryOption {
	return func(s *QueryService) { s.now = now }
}

// WithFetchTimeout bounds each upstream fetch.
func WithFetchTimeout(d time.Duration) QueryOption {
	return func(s *QueryService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewQueryService(src domain.ListingSource, mem domain.ResultCache, opts ...QueryOption) *QueryService {
	s := &QueryService{src: src, mem: mem, timeout: defaultFetchTimeout, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

type QueryResult struct {
	Records []domain.HotelRecord
	Total   int
}

// Query returns the listing for key narrowed and ordered by c.
// A nil or empty c returns the listing as fetched; sorting only happens when c is non-nil.
func (s *QueryService) Query(ctx context.Context, key domain.LocationKey, c *domain.FilterCriteria) (QueryResult, error) {
	k := key.Join()
	if k == "" {
		return QueryResult{}, domain.ErrSlugRequired
	}

	records, err := s.listings(ctx, key, k)
	if err != nil {
		return QueryResult{}, err
	}

	if c.IsEmpty() {
		// cached slices are shared; hand out a copy
		records = slices.Clone(records)
	} else {
		records = ApplyFilters(records, c)
	}
	if c != nil {
		records = SortRecords(records, c.Sort)
	}
	if records == nil {
		records = []domain.HotelRecord{}
	}
	return QueryResult{Records: records, Total: len(records)}, nil
}

// listings serves from memory, collapsing concurrent misses for the same key
// into one load.
func (s *QueryService) listings(ctx context.Context, key domain.LocationKey, k string) ([]domain.HotelRecord, error) {
	if recs, ok := s.mem.Get(k); ok {
		return recs, nil
	}
	v, err, shared := s.flights.Do(k, func() (any, error) {
		// waiters share this load, so one caller going away must not cancel it
		return s.load(context.WithoutCancel(ctx), key, k)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("location", k).Msg("listing load shared with concurrent request")
	}
	return v.([]domain.HotelRecord), nil
}

func (s *QueryService) load(ctx context.Context, key domain.LocationKey, k string) ([]domain.HotelRecord, error) {
	if s.shared != nil {
		var l sharedListing
		ok, err := s.shared.Get(ctx, listingsKey(k), &l)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("location", k).Msg("shared cache read failed")
		case ok && s.fresh(l.FetchedAt):
			// keep the original fetch time so memory expiry counts from it
			s.mem.SetAt(k, l.Records, l.FetchedAt)
			return l.Records, nil
		case ok:
			log.Debug().Str("location", k).Time("fetched_at", l.FetchedAt).Msg("shared listing too old, refetching")
		}
	}

	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.src.FetchListings(fctx, key)
	if err != nil {
		ue := asUpstreamError(err)
		log.Error().Err(err).Str("location", k).Msg("upstream fetch failed")
		return nil, ue
	}
	recs, err := NormalizePayload(raw)
	if err != nil {
		log.Error().Err(err).Str("location", k).Msg("upstream payload rejected")
		return nil, err
	}

	s.mem.Set(k, recs)
	if s.shared != nil {
		l := sharedListing{FetchedAt: s.now().UTC(), Records: recs}
		if err := s.shared.Set(ctx, listingsKey(k), l, int(s.sharedTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("location", k).Msg("shared cache write failed")
		}
	}
	return recs, nil
}

func (s *QueryService) fresh(fetchedAt time.Time) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return s.maxAge <= 0 || s.now().Sub(fetchedAt) <= s.maxAge
}

// listingsKey is the shared-tier key for a joined location.
func listingsKey(location string) string { return fmt.Sprintf("hotels:%s", location) }

func asUpstreamError(err error) *domain.UpstreamError {
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		return ue
	}
	return &domain.UpstreamError{Message: domain.GenericUpstreamMessage, Err: err}
}
