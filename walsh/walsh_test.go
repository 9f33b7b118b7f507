package walsh

import "testing"

// Scenario 4 from the testable-properties table: Walsh on [1, 0, 0, 0]
// produces [1, 1, 1, 1].
func TestTransformImpulse(t *testing.T) {
	data := []uint16{1, 0, 0, 0}
	Transform(data, 4, 2, 3)

	want := []uint16{1, 1, 1, 1}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data[%d] = %d, want %d", i, data[i], want[i])
		}
	}
}

func TestTransformAllZero(t *testing.T) {
	data := make([]uint16, 8)
	Transform(data, 8, 3, 7)
	for i, v := range data {
		if residue(v, 7) != 0 {
			t.Fatalf("data[%d] = %d, want 0 (mod 7)", i, v)
		}
	}
}

// residue maps the fold reduction's two representations of "zero" (0 and
// oneMask) onto the same value, so comparisons below are mod oneMask rather
// than over the fold's raw [0, oneMask] output range.
func residue(v, oneMask uint16) uint16 {
	if v == oneMask {
		return 0
	}
	return v
}

// spec §8: two successive Walsh transforms scale each element by size mod
// ONEMASK. Checked mod oneMask (via residue) since the fold reduction used
// throughout this package does not itself identify 0 and oneMask.
func TestTransformDoubleApplicationScalesBySize(t *testing.T) {
	cases := []struct {
		size int
		bits uint
	}{
		{4, 4}, {8, 4}, {16, 4}, {8, 8},
	}

	for _, c := range cases {
		oneMask := uint16(1<<c.bits) - 1
		scale := uint16(c.size) % oneMask

		data := make([]uint16, c.size)
		for i := range data {
			data[i] = uint16(i*7+3) % (oneMask + 1)
		}
		orig := make([]uint16, c.size)
		copy(orig, data)

		Transform(data, c.size, c.bits, oneMask)
		Transform(data, c.size, c.bits, oneMask)

		for i := range data {
			want := (residue(orig[i], oneMask) * scale) % oneMask
			got := residue(data[i], oneMask)
			if got != want {
				t.Fatalf("size=%d bits=%d: data[%d] after double transform (mod oneMask) = %d, want %d", c.size, c.bits, i, got, want)
			}
		}
	}
}
