package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"hotel_search/internal/domain"
)

// reasons longer than the column are cut rather than rejected;
// VARCHAR(512) counts characters
const maxReasonLen = 512

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertSnapshot stores the latest successful fetch of a location and clears
// any miss recorded for it.
func (r *Repo) UpsertSnapshot(ctx context.Context, s domain.Snapshot) error {
	payload := s.Payload
	if len(payload) == 0 {
		payload = []byte("[]")
	}
	if _, err := r.db.ExecContext(ctx, upsertSnapshotSQL,
		s.Location,
		s.Records,
		string(payload),
		s.FetchedAt.UTC(),
	); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", s.Location, err)
	}
	if _, err := r.db.ExecContext(ctx, clearMissSQL, s.Location); err != nil {
		return fmt.Errorf("clear miss %s: %w", s.Location, err)
	}
	return nil
}

func (r *Repo) GetSnapshot(ctx context.Context, location string) (domain.Snapshot, error) {
	var s domain.Snapshot
	err := r.db.QueryRowContext(ctx, getSnapshotSQL, location).
		Scan(&s.Location, &s.Records, &s.Payload, &s.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}

func (r *Repo) LogMiss(ctx context.Context, location string, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, location, truncateRunes(reason, maxReasonLen))
	return err
}

// MissCount returns how many times a location has been recorded as a miss
// since its last successful snapshot.
func (r *Repo) MissCount(ctx context.Context, location string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countMissesSQL, location).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// truncateRunes cuts s to at most n characters without splitting one.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
