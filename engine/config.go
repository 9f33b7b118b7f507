package engine

import "github.com/xtaci/rscore/field"

// Config is the engine's recognised configuration surface (spec §6):
// field width, total shard count n, and data shard count k. The zero value
// is not valid; use DefaultConfig or fill in N explicitly.
type Config struct {
	Field field.Width // 8 or 16; zero defaults to 16
	N     int         // total shards, power of two, <= 2^Field
	K     int         // data shards, power of two, <= N; zero defaults to N/3
}

// DefaultConfig returns the driver default referenced in spec §6: a 16-bit
// field and k = n/3, the same ratio novel_poly_basis.rs's reference driver
// (DATA_SHARDS = N_VALIDATORS / 3) hard-codes.
func DefaultConfig(n int) Config {
	return Config{Field: field.Field16, N: n, K: n / 3}
}

func (c Config) normalize() Config {
	if c.Field == 0 {
		c.Field = field.Field16
	}
	if c.K == 0 {
		c.K = c.N / 3
	}
	return c
}
