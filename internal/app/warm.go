package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
)

// WarmService pre-fetches locations into the shared cache tier and keeps a
// snapshot of each successful fetch.
type WarmService struct {
	src   domain.ListingSource
	repo  domain.SnapshotRepository
	cache domain.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewWarmService(src domain.ListingSource, repo domain.SnapshotRepository, cache domain.Cache, ttl time.Duration) *WarmService {
	return &WarmService{src: src, repo: repo, cache: cache, ttl: ttl, now: time.Now}
}

// WarmLocation fetches one location. An upstream 404 is recorded as a miss and
// is not an error; other upstream failures are recorded and returned.
func (s *WarmService) WarmLocation(ctx context.Context, key domain.LocationKey) (int, error) {
	k := key.Join()
	if k == "" {
		return 0, domain.ErrSlugRequired
	}

	raw, err := s.src.FetchListings(ctx, key)
	if err != nil {
		ue := asUpstreamError(err)
		// drop whatever is cached so the API refetches instead of serving a dead listing
		s.evict(ctx, k)
		if errors.Is(err, domain.ErrNotFound) {
			s.logMiss(ctx, k, "not found")
			return 0, nil
		}
		s.logMiss(ctx, k, ue.Message)
		return 0, ue
	}

	recs, err := NormalizePayload(raw)
	if err != nil {
		var ue *domain.UpstreamError
		if errors.As(err, &ue) {
			s.logMiss(ctx, k, ue.Message)
		}
		s.evict(ctx, k)
		return 0, err
	}

	if s.repo != nil {
		payload, err := json.Marshal(recs)
		if err != nil {
			return 0, fmt.Errorf("marshal snapshot for %s: %w", k, err)
		}
		if prev, err := s.repo.GetSnapshot(ctx, k); err == nil && prev.Records != len(recs) {
			log.Info().Str("location", k).Int("before", prev.Records).Int("after", len(recs)).Msg("listing size changed")
		}
		snap := domain.Snapshot{Location: k, Records: len(recs), Payload: payload, FetchedAt: s.now().UTC()}
		if err := s.repo.UpsertSnapshot(ctx, snap); err != nil {
			return 0, fmt.Errorf("upsert snapshot for %s: %w", k, err)
		}
	}
	if s.cache != nil {
		l := sharedListing{FetchedAt: s.now().UTC(), Records: recs}
		if err := s.cache.Set(ctx, listingsKey(k), l, int(s.ttl.Seconds())); err != nil {
			return 0, fmt.Errorf("cache listings for %s: %w", k, err)
		}
	}
	return len(recs), nil
}

func (s *WarmService) evict(ctx context.Context, k string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, listingsKey(k)); err != nil {
		log.Warn().Err(err).Str("location", k).Msg("shared cache evict failed")
	}
}

func (s *WarmService) logMiss(ctx context.Context, k, reason string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.LogMiss(ctx, k, reason); err != nil {
		log.Warn().Err(err).Str("location", k).Str("reason", reason).Msg("miss not recorded")
	}
}
