// Package decoder implements the erasure decoder (component C7): the
// Walsh-Hadamard evaluation of the error-locator polynomial, the formal
// derivative in the novel basis, and the second FFT inversion that reveals
// the missing symbols. Ported from novel_poly_basis.rs's decode_init /
// decode_main.
package decoder

import (
	"github.com/xtaci/rscore/field"
	"github.com/xtaci/rscore/novelfft"
	"github.com/xtaci/rscore/walsh"
)

// Init evaluates the error locator polynomial (spec §4.6 step 1) and
// returns log_walsh2, one multiplier-domain scalar per codeword position.
// Both Walsh passes run over the full field size tbl.Size, the size
// tbl.LogWalsh was transformed at (positions at or beyond n count as
// present); the result is trimmed to n.
func Init(erasure []bool, n int, tbl *field.Table) []uint16 {
	logWalsh2 := make([]uint16, tbl.Size)
	for i, erased := range erasure {
		if erased {
			logWalsh2[i] = 1
		}
	}
	walsh.Transform(logWalsh2, tbl.Size, tbl.Bits, tbl.OneMask)
	for i := range logWalsh2 {
		logWalsh2[i] = uint16((uint32(logWalsh2[i]) * uint32(tbl.LogWalsh[i])) % uint32(tbl.OneMask))
	}
	walsh.Transform(logWalsh2, tbl.Size, tbl.Bits, tbl.OneMask)
	for i, erased := range erasure {
		if erased {
			logWalsh2[i] = tbl.OneMask - logWalsh2[i]
		}
	}
	return logWalsh2[:n]
}

// Main runs the main decode pass in place over codeword[0:n] (spec §4.6
// step 2). On return, codeword[i] for every erased i holds the recovered
// symbol lane; codeword[i] for every present i is zeroed — overlaying the
// caller's originally-known lanes back in is the engine façade's
// responsibility (spec §9's documented open question).
func Main(codeword [][]field.Additive, k int, erasure []bool, logWalsh2 []uint16, tbl *field.Table) {
	n := len(codeword)

	for i := 0; i < n; i++ {
		if erasure[i] {
			zeroLane(codeword[i])
		} else {
			tbl.MulSlice(codeword[i], field.Multiplier(logWalsh2[i]))
		}
	}

	novelfft.IFFT(codeword, n, 0, tbl)

	formalDerivative(codeword, k, n, tbl)

	novelfft.FFT(codeword, n, 0, tbl)

	for i := 0; i < n; i++ {
		if erasure[i] {
			tbl.MulSlice(codeword[i], field.Multiplier(logWalsh2[i]))
		} else {
			zeroLane(codeword[i])
		}
	}
}

// formalDerivative applies the novel-basis formal derivative (spec §4.6,
// §9): a B-factor scaling of adjacent pairs, the stride-xor derivative
// proper (treating reads past the block's end as zero — load-bearing at
// the tail per spec §9), and a second B-factor scaling over the full block
// width n.
func formalDerivative(codeword [][]field.Additive, k, n int, tbl *field.Table) {
	for i := 0; i < n; i += 2 {
		b := tbl.B[i/2]
		tbl.MulSlice(codeword[i], field.Multiplier(tbl.OneMask-b))
		tbl.MulSlice(codeword[i+1], field.Multiplier(tbl.OneMask-b))
	}

	for i := 1; i < n; i++ {
		length := ((i ^ (i - 1)) + 1) >> 1
		for j := i - length; j < i; j++ {
			tbl.XOR(codeword[j], laneOrZero(codeword, j+length))
		}
	}
	// The C-derived reference additionally folds tail blocks at i = n, 2n,
	// 4n, ... back into [0,n) when the working buffer extends past n; our
	// buffers are always sized exactly n, so that fold never triggers here.

	// spec §4.6 scales this second pass over the full block width n; the
	// novel_poly_basis.rs reference this was ported from narrows it to
	// [0,k) as a (documented) optimisation that relies on k-and-beyond
	// positions being discarded by the erasure-conditional step that
	// follows. We keep the full-width n here to match spec.md's explicit
	// contract rather than the narrower reference.
	_ = k
	for i := 0; i < n; i += 2 {
		b := tbl.B[i/2]
		tbl.MulSlice(codeword[i], field.Multiplier(b))
		tbl.MulSlice(codeword[i+1], field.Multiplier(b))
	}
}

func laneOrZero(codeword [][]field.Additive, idx int) []field.Additive {
	if idx >= len(codeword) {
		width := 0
		if len(codeword) > 0 {
			width = len(codeword[0])
		}
		return make([]field.Additive, width)
	}
	return codeword[idx]
}

func zeroLane(lane []field.Additive) {
	for i := range lane {
		lane[i] = 0
	}
}
