// Package engine is the façade component (C8): it accepts payload bytes
// and (n, k), drives the padding of a payload into field-symbol lanes,
// invokes the encoder/decoder components, and emits shards or a
// reconstructed payload. Everything upstream of this package (the field,
// walsh, novelfft, encoder and decoder packages) is pure and byte-agnostic;
// this is the only layer that knows about bytes, shard wire format, and
// the erasure bitmap contract from spec §6.
package engine

import (
	"github.com/pkg/errors"

	"github.com/xtaci/rscore/decoder"
	"github.com/xtaci/rscore/encoder"
	"github.com/xtaci/rscore/field"
)

// Engine encodes and reconstructs payloads for one fixed (field, n, k)
// configuration. Build with New; an Engine holds no per-call state beyond
// a reference to the immutable, process-wide field Table, so a single
// Engine may be shared by concurrent callers (spec §5).
type Engine struct {
	cfg Config
	tbl *field.Table
}

// New validates cfg and builds an Engine. Table construction is race-free
// and happens at most once per field width for the life of the process
// (spec §5); New itself does no per-call allocation beyond the Engine
// value.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.normalize()

	if cfg.Field != field.Field8 && cfg.Field != field.Field16 {
		return nil, ErrInvalidFieldWidth
	}
	if !isPow2(cfg.N) || !isPow2(cfg.K) || cfg.K > cfg.N || cfg.K <= 0 {
		return nil, ErrInvalidShardCount
	}
	if cfg.N > (1 << uint(cfg.Field)) {
		return nil, ErrShardCountTooBig
	}

	return &Engine{cfg: cfg, tbl: field.Build(cfg.Field)}, nil
}

func isPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// N and K expose the configuration New validated.
func (e *Engine) N() int { return e.cfg.N }
func (e *Engine) K() int { return e.cfg.K }

// Encode splits payload into k data shards, computes n-k parity shards,
// and returns all n shards each as a little-endian byte buffer (spec §6).
func (e *Engine) Encode(payload []byte) ([][]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	n, k := e.cfg.N, e.cfg.K
	bps := e.tbl.BytesPerSymbol()

	lanes := lanesPerShard(len(payload), k, bps)
	padded := padPayload(payload, k*lanes*bps)

	codeword := make([][]field.Additive, n)
	for i := range codeword {
		codeword[i] = make([]field.Additive, lanes)
	}
	unpackDataShards(codeword[:k], padded, bps)

	if 2*k <= n {
		encoder.EncodeLow(codeword, k, n, e.tbl)
	} else {
		encoder.EncodeHigh(codeword, k, n, e.tbl)
	}

	shards := make([][]byte, n)
	for i, lane := range codeword {
		shards[i] = packLane(lane, bps)
	}
	return shards, nil
}

// Reconstruct recovers the original payload from a set of shards, given a
// present bitmap (present[i] == false or a nil/empty shards[i] marks index
// i erased, per spec §6's erasure map contract). outLen is the number of
// payload bytes to return (trailing zero padding is dropped by the
// caller's choice of outLen, mirroring spec §6's Join contract).
func (e *Engine) Reconstruct(shards [][]byte, present []bool, outLen int) ([]byte, error) {
	n := e.cfg.N
	if len(shards) != n || len(present) != n {
		return nil, ErrShardCount
	}

	erasure := make([]bool, n)
	numPresent := 0
	laneWidth := -1
	bps := e.tbl.BytesPerSymbol()
	for i := range shards {
		if !present[i] || len(shards[i]) == 0 {
			erasure[i] = true
			continue
		}
		if len(shards[i])%bps != 0 {
			return nil, ErrWrongShardLen
		}
		w := len(shards[i]) / bps
		if laneWidth == -1 {
			laneWidth = w
		} else if w != laneWidth {
			return nil, ErrWrongShardLen
		}
		numPresent++
	}
	if laneWidth == -1 {
		return nil, errors.Wrap(ErrTooFewShards, "no shards present")
	}
	if numPresent < e.cfg.K {
		return nil, ErrTooFewShards
	}

	codeword := make([][]field.Additive, n)
	known := make([][]field.Additive, n)
	for i := range codeword {
		codeword[i] = make([]field.Additive, laneWidth)
		if !erasure[i] {
			unpackLane(codeword[i], shards[i], bps)
			// A copy: decoder.Main zeroes codeword[i] in place.
			known[i] = append([]field.Additive(nil), codeword[i]...)
		}
	}

	logWalsh2 := decoder.Init(erasure, n, e.tbl)
	decoder.Main(codeword, e.cfg.K, erasure, logWalsh2, e.tbl)

	// decoder.Main zeroes every non-erased lane; overlay the caller's
	// originally-known symbols back on top (spec §9's documented open
	// question — this overlay is the façade's job, not the decoder's).
	for i := range codeword {
		if !erasure[i] {
			copy(codeword[i], known[i])
		}
	}

	out := packDataShards(codeword[:e.cfg.K], laneWidth, bps)
	if outLen >= 0 && outLen <= len(out) {
		out = out[:outLen]
	}
	return out, nil
}

// lanesPerShard returns how many symbol lanes each data shard needs so
// that k*lanes*bps bytes is a power of two at least as large as payloadLen
// and at least 2*k*bps bytes, per spec §6's padding rule. k and bps are
// both powers of two (New validates k; bps is 1 or 2), so k*bps is a
// power of two and therefore always divides the power-of-two paddedBytes.
func lanesPerShard(payloadLen, k, bps int) int {
	minBytes := payloadLen
	if 2*k*bps > minBytes {
		minBytes = 2 * k * bps
	}
	paddedBytes := ceilPow2(minBytes)
	return paddedBytes / (k * bps)
}

func ceilPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func padPayload(payload []byte, total int) []byte {
	if len(payload) >= total {
		return payload[:total]
	}
	out := make([]byte, total)
	copy(out, payload)
	return out
}

// unpackDataShards assigns padded payload bytes to data-shard lanes,
// striping payload symbol s across shard (s mod k), lane (s div k) — the
// column-major layout novelfft's lane-batched transforms operate over.
func unpackDataShards(dataShards [][]field.Additive, padded []byte, bps int) {
	k := len(dataShards)
	symbols := len(padded) / bps
	for s := 0; s < symbols; s++ {
		shard := s % k
		lane := s / k
		dataShards[shard][lane] = decodeSymbol(padded[s*bps:s*bps+bps], bps)
	}
}

// packDataShards is unpackDataShards's inverse: it reassembles payload
// bytes from data-shard lanes in the same column-major order they were
// striped in (symbol s came from shard s mod k, lane s div k).
func packDataShards(dataShards [][]field.Additive, laneWidth, bps int) []byte {
	k := len(dataShards)
	symbols := k * laneWidth
	out := make([]byte, symbols*bps)
	for s := 0; s < symbols; s++ {
		shard := s % k
		lane := s / k
		encodeSymbol(out[s*bps:s*bps+bps], dataShards[shard][lane], bps)
	}
	return out
}

func packLane(lane []field.Additive, bps int) []byte {
	out := make([]byte, len(lane)*bps)
	for i, v := range lane {
		encodeSymbol(out[i*bps:i*bps+bps], v, bps)
	}
	return out
}

func unpackLane(dst []field.Additive, src []byte, bps int) {
	for i := range dst {
		dst[i] = decodeSymbol(src[i*bps:i*bps+bps], bps)
	}
}

func decodeSymbol(b []byte, bps int) field.Additive {
	if bps == 1 {
		return field.Additive(b[0])
	}
	return field.Additive(uint16(b[0]) | uint16(b[1])<<8)
}

func encodeSymbol(dst []byte, v field.Additive, bps int) {
	if bps == 1 {
		dst[0] = byte(v)
		return
	}
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}
