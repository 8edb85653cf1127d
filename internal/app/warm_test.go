package app_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/app"
	"hotel_search/internal/domain"
)

type fakeRepo struct {
	snaps   map[string]domain.Snapshot
	misses  map[string]string
	err     error
	missErr error
}

func (f *fakeRepo) UpsertSnapshot(ctx context.Context, s domain.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	if f.snaps == nil {
		f.snaps = map[string]domain.Snapshot{}
	}
	f.snaps[s.Location] = s
	return nil
}

func (f *fakeRepo) GetSnapshot(ctx context.Context, location string) (domain.Snapshot, error) {
	s, ok := f.snaps[location]
	if !ok {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) LogMiss(ctx context.Context, location string, reason string) error {
	if f.missErr != nil {
		return f.missErr
	}
	if f.misses == nil {
		f.misses = map[string]string{}
	}
	f.misses[location] = reason
	return nil
}

func TestWarmLocation_Success(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	w := app.NewWarmService(&fakeSource{payload: scenarioRecords}, repo, cache, 0)

	n, err := w.WarmLocation(context.Background(), domain.ParseLocationKey("paris/louvre"))
	if err != nil || n != 2 {
		t.Fatalf("WarmLocation() = %d, %v", n, err)
	}
	snap, ok := repo.snaps["paris/louvre"]
	if !ok || snap.Records != 2 || len(snap.Payload) == 0 || snap.FetchedAt.IsZero() {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	// the API reads what the warmer wrote
	q := newService(&fakeSource{err: errors.New("must not be called")}, app.WithSharedCache(cache, 0))
	res, err := q.Query(context.Background(), domain.LocationKey{"paris", "louvre"}, nil)
	if err != nil || res.Total != 2 {
		t.Fatalf("Query() after warm = %+v, %v", res, err)
	}
}

func TestWarmLocation_NotFoundIsAMiss(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	_ = cache.Set(context.Background(), "hotels:atlantis", []domain.HotelRecord{{Name: "stale"}}, 0)
	src := &fakeSource{err: &domain.UpstreamError{Message: "unknown city", Err: domain.ErrNotFound}}
	w := app.NewWarmService(src, repo, cache, 0)

	n, err := w.WarmLocation(context.Background(), domain.LocationKey{"atlantis"})
	if err != nil || n != 0 {
		t.Fatalf("WarmLocation() = %d, %v", n, err)
	}
	if repo.misses["atlantis"] != "not found" {
		t.Fatalf("miss not recorded: %+v", repo.misses)
	}
	if _, ok := cache.store["hotels:atlantis"]; ok {
		t.Fatalf("stale cache entry should be evicted")
	}
}

func TestWarmLocation_Failures(t *testing.T) {
	tests := []struct {
		name    string
		src     *fakeSource
		wantMsg string
	}{
		{name: "transport", src: &fakeSource{err: errors.New("connection reset")}, wantMsg: domain.GenericUpstreamMessage},
		{name: "error payload", src: &fakeSource{payload: `{"error":"maintenance"}`}, wantMsg: "maintenance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			w := app.NewWarmService(tt.src, repo, nil, 0)

			_, err := w.WarmLocation(context.Background(), domain.LocationKey{"paris"})
			var ue *domain.UpstreamError
			if !errors.As(err, &ue) || ue.Message != tt.wantMsg {
				t.Fatalf("err = %v, want message %q", err, tt.wantMsg)
			}
			if repo.misses["paris"] != tt.wantMsg {
				t.Fatalf("miss reason = %q", repo.misses["paris"])
			}
			if len(repo.snaps) != 0 {
				t.Fatalf("no snapshot expected on failure")
			}
		})
	}
}

func TestWarmLocation_RepoErrorSurfaces(t *testing.T) {
	repoErr := errors.New("deadlock")
	w := app.NewWarmService(&fakeSource{payload: scenarioRecords}, &fakeRepo{err: repoErr}, nil, 0)

	if _, err := w.WarmLocation(context.Background(), domain.LocationKey{"paris"}); !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

type delFailCache struct {
	*fakeCache
}

func (c delFailCache) Del(ctx context.Context, key string) error { return errors.New("redis down") }

func TestWarmLocation_BookkeepingFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	repo := &fakeRepo{missErr: errors.New("Incorrect string value")}
	src := &fakeSource{err: errors.New("connection reset")}
	w := app.NewWarmService(src, repo, delFailCache{&fakeCache{}}, 0)

	_, err := w.WarmLocation(context.Background(), domain.LocationKey{"paris"})
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Message != domain.GenericUpstreamMessage {
		t.Fatalf("upstream error must still surface, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{"shared cache evict failed", "miss not recorded", "Incorrect string value", `"location":"paris"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}
