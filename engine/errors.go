package engine

import "errors"

// Parameter errors (spec §7.1) — surfaced synchronously, no partial work.
var (
	ErrInvalidFieldWidth = errors.New("rscore: field width must be 8 or 16")
	ErrInvalidShardCount = errors.New("rscore: n and k must be powers of two with k <= n")
	ErrShardCountTooBig  = errors.New("rscore: n exceeds the field order")
	ErrEmptyPayload      = errors.New("rscore: payload must not be empty")
)

// Reconstruction errors (spec §7.2, §7.3).
var (
	ErrTooFewShards  = errors.New("rscore: fewer than k shards are present")
	ErrWrongShardLen = errors.New("rscore: present shards have inconsistent lengths")
	ErrShardCount    = errors.New("rscore: shards/present slice length must equal n")
)
