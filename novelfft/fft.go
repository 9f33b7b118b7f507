// Package novelfft implements the additive FFT and its inverse over the
// novel polynomial basis of Lin-Han-Chung (component C5): the transform
// the encoder and decoder both build on.
//
// Each transform operates over "lanes" — data[i] is a column of field
// elements sharing FFT coordinate i, batched across every symbol position
// the caller is processing together (spec §3's "batched column over many
// symbol-lanes"; a single in-flight symbol is simply a lane of length 1).
// The butterfly bodies are ported from novel_poly_basis.rs's
// inverse_fft_in_novel_poly_basis / fft_in_novel_poly_basis, generalised
// from one symbol at a time to a whole lane at a time the way
// klauspost/reedsolomon's leopard.go generalises the same butterflies from
// one symbol to one shard.
package novelfft

import "github.com/xtaci/rscore/field"

// FFT runs the forward transform in place over data[0:size] (size a power
// of two), where index is the logical offset of this block inside the
// larger codeword the skew factors were derived for. Ported from
// fft_in_novel_poly_basis; spec §4.4.
func FFT(data [][]field.Additive, size, index int, tbl *field.Table) {
	scaled := make([]field.Additive, len(data[0]))
	depart := size >> 1
	for depart > 0 {
		j := depart
		for j < size {
			// SKEW[j+index-1]: j starts at depart >= 1, so the index is
			// never negative; it is used as-is, with no reduction mod
			// ONEMASK, and the j=0, index=0 wraparound never arises.
			skew := tbl.Skew[j+index-1]
			if skew != tbl.OneMask {
				m := field.Multiplier(skew)
				for i := j - depart; i < j; i++ {
					copy(scaled, data[i+depart])
					tbl.MulSlice(scaled, m)
					tbl.XOR(data[i], scaled)
				}
			}
			for i := j - depart; i < j; i++ {
				tbl.XOR(data[i+depart], data[i])
			}
			j += depart << 1
		}
		depart >>= 1
	}
}

// IFFT runs the inverse transform in place over data[0:size]. Ported from
// inverse_fft_in_novel_poly_basis; spec §4.4. FFT(IFFT(x)) == x for any
// block aligned to the same index.
func IFFT(data [][]field.Additive, size, index int, tbl *field.Table) {
	scaled := make([]field.Additive, len(data[0]))
	depart := 1
	for depart < size {
		j := depart
		for j < size {
			for i := j - depart; i < j; i++ {
				tbl.XOR(data[i+depart], data[i])
			}
			skew := tbl.Skew[j+index-1]
			if skew != tbl.OneMask {
				m := field.Multiplier(skew)
				for i := j - depart; i < j; i++ {
					copy(scaled, data[i+depart])
					tbl.MulSlice(scaled, m)
					tbl.XOR(data[i], scaled)
				}
			}
			j += depart << 1
		}
		depart <<= 1
	}
}
