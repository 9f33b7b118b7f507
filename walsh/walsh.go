// Package walsh implements the fast Walsh-Hadamard transform used by the
// novel-basis Reed-Solomon engine (component C3): a length-2^m transform
// over the integers modulo 2^m-1, applied to field elements in their
// logarithmic (Multiplier) form.
//
// Ported from the butterfly in github.com/klauspost/reedsolomon's
// leopard.go (fwht/fwht2/addMod/subMod), generalised over the field width
// instead of being duplicated per width.
package walsh

// Transform runs the decimation-in-time Walsh-Hadamard transform in place
// over data[0:size], where size is a power of two and every value is
// already reduced modulo oneMask (the field's multiplicative group order,
// 2^bits - 1). The transform is its own inverse up to a scalar; callers
// that need the forward transform twice (as the decoder's error-locator
// evaluation does) do not normalise between passes — spec §4.2.
func Transform(data []uint16, size int, bits uint, oneMask uint16) {
	depart := 1
	for depart < size {
		j := 0
		next := depart << 1
		for j < size {
			for i := j; i < j+depart; i++ {
				butterfly(&data[i], &data[i+depart], bits, oneMask)
			}
			j += next
		}
		depart = next
	}
}

// butterfly computes {a, b} = {a+b, a-b} modulo oneMask, with the
// add-then-fold reduction spec §3 specifies for Multiplier arithmetic.
func butterfly(a, b *uint16, bits uint, oneMask uint16) {
	mask := uint32(oneMask)
	sum := uint32(*a) + uint32(*b)
	dif := uint32(*a) + mask - uint32(*b)
	*a = uint16((sum & mask) + (sum >> bits))
	*b = uint16((dif & mask) + (dif >> bits))
}
