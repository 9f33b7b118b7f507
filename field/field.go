// Package field implements the binary extension field arithmetic that
// backs the novel-basis Reed-Solomon engine: log/exp tables built over a
// Cantor basis, and the two element representations (additive and
// multiplicative) the rest of the engine operates on.
//
// The GF(2^16) construction follows github.com/klauspost/reedsolomon's
// leopard.go; the GF(2^8) tables are derived from it as a subfield (see
// newSubfieldTable) rather than from leopard8.go's constants, and one
// routine builds the decoder tables for both widths.
package field

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Width selects which binary extension field to operate over.
type Width int

const (
	Field8  Width = 8
	Field16 Width = 16
)

// Additive is a field element in its natural (XOR-additive) representation.
// Zero is both the additive identity and the "null" / missing-symbol value.
type Additive uint16

// Multiplier is the discrete logarithm (in the Cantor-basis-rewritten
// tables) of a non-zero Additive element, used wherever a field element is
// applied as a fixed scalar across many additions. The value OneMask is a
// reserved sentinel meaning "log of zero" — a no-op multiplier that FFT
// butterflies must skip rather than treat as an ordinary log.
type Multiplier uint16

// Table holds the precomputed tables for one field width. Once returned
// from Build, a Table is immutable and safe for concurrent use by any
// number of encode/decode calls.
type Table struct {
	Width Width
	Bits  uint
	Size  int // 2^Bits
	// OneMask is 2^Bits - 1, the multiplicative group order and the
	// sentinel logged value for "zero".
	OneMask uint16

	Exp []uint16 // Exp[m] = the additive element whose log is m; Exp[OneMask] wraps to Exp[0]
	Log []uint16 // Log[a] = the log of additive element a; Log[0] == OneMask, the log-of-zero sentinel (never dereferenced on the hot path)

	// Decoder precomputation (component C4).
	Skew     []uint16 // length OneMask, in log form
	B        []uint16 // length Size/2, formal-derivative factors, in log form
	LogWalsh []uint16 // length Size, Walsh transform of Log

	// wideXOR reports whether the running CPU has a SIMD extension worth
	// routing bulk XORs through (mirrors leopard.go's cpuid-gated choice
	// of nibble-LUT construction); below xorWideThreshold symbols, or on
	// a CPU with none of these, XOR falls back to a plain scalar loop.
	wideXOR bool
}

var (
	tablesMu sync.Mutex
	tables   = map[Width]*Table{}
)

// Build returns the shared Table for width, constructing it on first use.
// Construction is race-free: concurrent callers block on the same
// initialisation and then share the immutable result, matching the
// write-once/read-many contract in spec §5.
func Build(width Width) *Table {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	return buildLocked(width)
}

// buildLocked requires tablesMu to already be held. Field8 is derived from
// Field16 (see newSubfieldTable), so building it may recursively build
// Field16 first; recursing here (rather than through Build) avoids
// re-locking the non-reentrant mutex.
func buildLocked(width Width) *Table {
	if t, ok := tables[width]; ok {
		return t
	}
	var t *Table
	switch width {
	case Field16:
		t = newTable(width)
		t.buildLogExp()
	case Field8:
		t = newSubfieldTable(buildLocked(Field16))
	default:
		panic("field: unsupported width")
	}
	t.buildDecodeTables()
	tables[width] = t
	return t
}

func newTable(width Width) *Table {
	bits := uint(width)
	size := 1 << bits
	return &Table{
		Width:   width,
		Bits:    bits,
		Size:    size,
		OneMask: uint16(size - 1),
		Exp:     make([]uint16, size),
		Log:     make([]uint16, size),
		Skew:    make([]uint16, size-1),
		B:       make([]uint16, size/2),
		wideXOR: hasWideXOR(),
	}
}

func hasWideXOR() bool {
	return cpuid.CPU.Has(cpuid.SSSE3) || cpuid.CPU.Has(cpuid.AVX2) || cpuid.CPU.Has(cpuid.AVX512F)
}

// newSubfieldTable builds the Field8 table as the unique order-256 subfield
// of big (a built Field16 table), rather than as an independently chosen
// Cantor basis/generator. Under the novel polynomial basis, the nonzero
// elements of that subfield are exactly the literal integers [1, 255] — the
// defining compatibility property of the Lin-Han-Chung construction (it is
// why GF(2^8) and GF(2^16) share a representation instead of needing a
// conversion layer). Concretely: GF(2^16)'s multiplicative group has order
// 65535 = 255*257, so the elements whose log is a multiple of 257 form the
// order-256 subgroup; dividing/multiplying those logs by the cofactor 257
// gives GF(2^8)'s own log/exp tables directly, with mul(a,b) in one field
// agreeing bit-for-bit with mul(a,b) in the other for every a, b in
// [1, 255] — spec §8's "cross-field agreement" invariant. Building Field8
// independently (the way klauspost/reedsolomon's leopard8.go does, with its
// own generator and Cantor basis) does not have this property: leopard8.go
// and leopard.go are simply two unrelated fields that happen to share a
// name, not a nested pair.
func newSubfieldTable(big *Table) *Table {
	const bits = 8
	size := 1 << bits
	oneMask := size - 1
	cofactor := int(big.OneMask) / oneMask

	t := &Table{
		Width:   Field8,
		Bits:    bits,
		Size:    size,
		OneMask: uint16(oneMask),
		Exp:     make([]uint16, size),
		Log:     make([]uint16, size),
		Skew:    make([]uint16, size-1),
		B:       make([]uint16, size/2),
		wideXOR: big.wideXOR,
	}

	t.Log[0] = uint16(oneMask) // log-of-zero sentinel, as in big.Log[0]
	for a := 1; a < size; a++ {
		t.Log[a] = big.Log[a] / uint16(cofactor)
	}
	for m := 0; m < oneMask; m++ {
		t.Exp[m] = big.Exp[m*cofactor]
	}
	t.Exp[oneMask] = t.Exp[0]
	return t
}

// generator returns the LFSR feedback constant for GF(2^16): its
// irreducible polynomial (spec §3's low-order part 0x2D, i.e.
// x^16+x^5+x^3+x^2+1) with the field's implicit leading term folded in, so
// a single XOR against the post-shift state reduces it. GF(2^8) has no
// independent generator in this module — see newSubfieldTable.
func generator(w Width) uint32 {
	switch w {
	case Field16:
		return uint32(1<<16) | 0x2D
	default:
		panic("field: unsupported width")
	}
}

// cantorBasis16 is the fixed Cantor-basis literal constant for GF(2^16)
// (spec §3's BASE[0..FIELD_BITS]), ported from klauspost/reedsolomon's
// leopard.go.
var cantorBasis16 = [16]uint16{
	0x0001, 0xACCA, 0x3C0E, 0x163E,
	0xC582, 0xED2E, 0x914C, 0x4012,
	0x6C98, 0x10D8, 0x6A72, 0xB900,
	0xFDB8, 0xFB34, 0xFF38, 0x991E,
}

func (t *Table) cantorBasis() []uint16 {
	switch t.Width {
	case Field16:
		return cantorBasis16[:]
	default:
		panic("field: unsupported width")
	}
}

// fold reduces a sum in [0, 2*OneMask] down to [0, OneMask] without a
// division, per spec §3's "add-then-fold".
func (t *Table) fold(x uint32) uint16 {
	return uint16((x & uint32(t.OneMask)) + (x >> t.Bits))
}

// buildLogExp is phase A + phase B of spec §4.1: raw LFSR log/exp
// generation, then the Cantor-basis rewrite.
func (t *Table) buildLogExp() {
	gen := generator(t.Width)
	modulus := uint32(t.OneMask)

	state := uint32(1)
	for i := uint32(0); i < modulus; i++ {
		t.Exp[state] = uint16(i)
		state <<= 1
		if state >= uint32(t.Size) {
			state ^= gen
		}
	}
	t.Exp[0] = t.OneMask

	basis := t.cantorBasis()
	t.Log[0] = 0
	for i := 0; i < int(t.Bits); i++ {
		b := basis[i]
		width := 1 << i
		for j := 0; j < width; j++ {
			t.Log[j+width] = t.Log[j] ^ b
		}
	}
	for i := 0; i < t.Size; i++ {
		t.Log[i] = t.Exp[t.Log[i]]
	}
	for i := 0; i < t.Size; i++ {
		t.Exp[t.Log[i]] = uint16(i)
	}
	t.Exp[t.OneMask] = t.Exp[0]
}

// Mul implements the Additive.mul(Multiplier) contract from spec §4.1:
// zero in, zero out; otherwise Exp[fold(Log[a]+b)].
func (t *Table) Mul(a Additive, m Multiplier) Additive {
	if a == 0 {
		return 0
	}
	sum := uint32(t.Log[a]) + uint32(m)
	return Additive(t.Exp[t.fold(sum)])
}

// MulLog returns a * Exp[logB], i.e. a multiplied by an already-logged
// scalar — used by table construction itself, where moving a Log lookup
// into the (less performance critical) init step is worthwhile. Mirrors
// leopard.go's mulLog.
func (t *Table) MulLog(a Additive, logB uint16) Additive {
	if a == 0 {
		return 0
	}
	return Additive(t.Exp[t.addMod(t.Log[a], logB)])
}

// ToMultiplier returns the log form of a non-zero additive element.
// Calling this with a == 0 is undefined per spec §4.1 and is guarded here
// rather than on the (hot) FFT path.
func (t *Table) ToMultiplier(a Additive) Multiplier {
	if a == 0 {
		panic("field: ToMultiplier called on zero element")
	}
	return Multiplier(t.Log[a])
}

// addMod and subMod operate on already-logged (Multiplier-domain) values,
// folding a sum/difference in [0, 2*OneMask] back into [0, OneMask].
func (t *Table) addMod(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	return t.fold(sum)
}

func (t *Table) subMod(a, b uint16) uint16 {
	dif := uint32(a) + uint32(t.OneMask) - uint32(b)
	return t.fold(dif)
}

// MulSlice multiplies every additive element of dst (in place) by m. This
// is the "bulk multiply" contract spec §4.1 calls out: a scalar mul per
// element, structured so a wider implementation could later replace the
// body with SIMD lanes without changing the call sites.
func (t *Table) MulSlice(dst []Additive, m Multiplier) {
	for i, v := range dst {
		dst[i] = t.Mul(v, m)
	}
}
