// Package encoder implements the two Reed-Solomon encoding regimes
// (component C6): the low-rate path used when 2k <= n, and the high-rate
// path used when 2k > n. Ported from novel_poly_basis.rs's encode_low /
// encode_high, generalised to operate over symbol lanes the way
// klauspost/reedsolomon's leopard.go operates over whole shards.
package encoder

import (
	"github.com/xtaci/rscore/field"
	"github.com/xtaci/rscore/novelfft"
)

// EncodeLow fills codeword[k:n] with parity given the systematic data in
// codeword[0:k]. It requires 2*k <= n. Each element of codeword is a lane
// (symbol column); every lane must have the same width. Spec §4.5 /
// §9 (the step-4 restore is what makes the data block systematic).
func EncodeLow(codeword [][]field.Additive, k, n int, tbl *field.Table) {
	data := cloneLanes(codeword[:k])

	novelfft.IFFT(codeword[:k], k, 0, tbl)

	for i := k; i < n; i += k {
		copyLanes(codeword[i:i+k], codeword[:k])
		novelfft.FFT(codeword[i:i+k], k, i, tbl)
	}

	copyLanes(codeword[:k], data)
}

// EncodeHigh computes the parity lanes codeword[k:n] from the data lanes
// codeword[0:k], for the regime 2*k > n (t = n-k parity lanes). Spec §4.5.
func EncodeHigh(codeword [][]field.Additive, k, n int, tbl *field.Table) {
	t := n - k
	if t == 0 {
		// k == n: no parity lanes to compute (codeword[k:n] is empty).
		return
	}
	data := codeword[:k]
	parity := codeword[k:n]

	for _, lane := range parity {
		zeroLane(lane)
	}

	mem := make([][]field.Additive, t)
	laneWidth := len(codeword[0])
	for i := range mem {
		mem[i] = make([]field.Additive, laneWidth)
	}

	for i := t; i <= k; i += t {
		copyLanes(mem, data[i-t:i])
		novelfft.IFFT(mem, t, i, tbl)
		for j := 0; j < t; j++ {
			tbl.XOR(parity[j], mem[j])
		}
	}

	novelfft.FFT(parity, t, 0, tbl)
}

func cloneLanes(lanes [][]field.Additive) [][]field.Additive {
	out := make([][]field.Additive, len(lanes))
	for i, l := range lanes {
		c := make([]field.Additive, len(l))
		copy(c, l)
		out[i] = c
	}
	return out
}

func copyLanes(dst, src [][]field.Additive) {
	for i := range src {
		copy(dst[i], src[i])
	}
}

func zeroLane(lane []field.Additive) {
	for i := range lane {
		lane[i] = 0
	}
}
