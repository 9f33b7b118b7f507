package field

import "github.com/xtaci/rscore/walsh"

// buildDecodeTables computes the skew factors, formal-derivative factors
// and log-Walsh table (component C4), following the derivation in
// klauspost/reedsolomon's initFFTSkew, generalised over field width.
func (t *Table) buildDecodeTables() {
	bits := int(t.Bits)

	// fieldBase starts as the additive elements 2^1 .. 2^(bits-1) and is
	// progressively rewritten into log form as the skew factors for
	// successive recursion depths are derived from it.
	fieldBase := make([]uint16, bits-1)
	for i := 1; i < bits; i++ {
		fieldBase[i-1] = uint16(1 << i)
	}

	for m := 0; m < bits-1; m++ {
		step := 1 << (m + 1)

		t.Skew[(1<<m)-1] = 0

		for i := m; i < bits-1; i++ {
			s := 1 << (i + 1)
			for j := (1 << m) - 1; j < s; j += step {
				t.Skew[j+s] = t.Skew[j] ^ fieldBase[i]
			}
		}

		idx := t.MulLog(Additive(fieldBase[m]), t.Log[fieldBase[m]^1])
		fieldBase[m] = t.OneMask - t.Log[idx]

		for i := m + 1; i < bits-1; i++ {
			sum := t.addMod(t.Log[fieldBase[i]^1], fieldBase[m])
			fieldBase[i] = uint16(t.MulLog(Additive(fieldBase[i]), sum))
		}
	}

	for i := range t.Skew {
		t.Skew[i] = t.Log[t.Skew[i]]
	}

	// Cumulative log-form field base, then the formal-derivative factor
	// table B, per spec §4.3 step 4.
	fieldBase[0] = t.OneMask - fieldBase[0]
	for i := 1; i < bits-1; i++ {
		fieldBase[i] = uint16((uint32(t.OneMask) - uint32(fieldBase[i]) + uint32(fieldBase[i-1])) % uint32(t.OneMask))
	}

	t.B[0] = 0
	for i := 0; i < bits-1; i++ {
		depart := 1 << i
		for j := 0; j < depart; j++ {
			t.B[j+depart] = uint16((uint32(t.B[j]) + uint32(fieldBase[i])) % uint32(t.OneMask))
		}
	}

	t.LogWalsh = make([]uint16, t.Size)
	copy(t.LogWalsh, t.Log)
	t.LogWalsh[0] = 0
	walsh.Transform(t.LogWalsh, t.Size, t.Bits, t.OneMask)
}
