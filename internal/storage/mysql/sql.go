package mysql

const upsertSnapshotSQL = `
INSERT INTO listing_snapshots
  (location, record_count, payload, fetched_at)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  record_count = VALUES(record_count),
  payload      = VALUES(payload),
  fetched_at   = VALUES(fetched_at),
  updated_at   = CURRENT_TIMESTAMP
`

const getSnapshotSQL = `
SELECT location, record_count, payload, fetched_at
FROM listing_snapshots
WHERE location = ?
`

// a repeated miss keeps the latest reason and counts how often it was seen
const insertMissSQL = `
INSERT INTO listing_misses (location, reason)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  reason  = VALUES(reason),
  hits    = hits + 1,
  seen_at = CURRENT_TIMESTAMP
`

const clearMissSQL = `DELETE FROM listing_misses WHERE location = ?`

const countMissesSQL = `SELECT hits FROM listing_misses WHERE location = ?`
