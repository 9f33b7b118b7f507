package field

import "testing"

func TestBytesPerSymbol(t *testing.T) {
	if n := Build(Field8).BytesPerSymbol(); n != 1 {
		t.Fatalf("Field8 BytesPerSymbol = %d, want 1", n)
	}
	if n := Build(Field16).BytesPerSymbol(); n != 2 {
		t.Fatalf("Field16 BytesPerSymbol = %d, want 2", n)
	}
}

func TestXORMatchesElementwise(t *testing.T) {
	for _, w := range []Width{Field8, Field16} {
		tbl := Build(w)
		dst := []Additive{0x12, 0x34, 0x56, 0x78}
		src := []Additive{0x01, 0x02, 0x03, 0x04}
		want := make([]Additive, len(dst))
		for i := range want {
			want[i] = dst[i] ^ src[i]
		}

		tbl.XOR(dst, src)
		for i := range want {
			if dst[i] != want[i] {
				t.Fatalf("width %d: XOR[%d] = %#x, want %#x", w, i, dst[i], want[i])
			}
		}
	}
}

func TestXOREmpty(t *testing.T) {
	tbl := Build(Field16)
	tbl.XOR(nil, nil) // must not panic
}

// A lane wider than xorWideThreshold exercises the xorsimd bulk path on a
// SIMD-capable CPU, and the scalar fallback loop otherwise; both must agree
// with a plain element-wise XOR.
func TestXORWideLane(t *testing.T) {
	tbl := Build(Field8)
	n := xorWideThreshold * 4
	dst := make([]Additive, n)
	src := make([]Additive, n)
	want := make([]Additive, n)
	for i := range dst {
		dst[i] = Additive(i * 7 % 256)
		src[i] = Additive(i * 13 % 256)
		want[i] = dst[i] ^ src[i]
	}

	tbl.XOR(dst, src)
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("XOR[%d] = %#x, want %#x", i, dst[i], want[i])
		}
	}
}
