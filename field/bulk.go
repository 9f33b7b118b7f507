package field

import (
	"sync"

	"github.com/templexxx/xorsimd"
)

// BytesPerSymbol returns how many wire bytes one field element occupies:
// 1 for GF(2^8), 2 (little-endian) for GF(2^16) — spec §6's shard wire
// format.
func (t *Table) BytesPerSymbol() int {
	if t.Width == Field8 {
		return 1
	}
	return 2
}

// xorWideThreshold is the minimum lane width (in symbols) worth paying the
// scratch-buffer encode/decode overhead for, once a SIMD-capable CPU is
// actually available to speed up the XOR itself.
const xorWideThreshold = 8

// xorScratchPool hands out reusable byte buffers for the xorsimd bulk path
// below, so that a steady stream of Table.XOR calls (one per FFT/IFFT
// butterfly) does not heap-allocate on every call — only on the rare call
// whose lane is wider than anything the pool has seen yet. Spec §5 forbids
// allocation inside the transform inner loops; pooling, not per-call
// make(), is what keeps the hot path allocation-free in steady state.
var xorScratchPool = sync.Pool{
	New: func() any { s := make([]byte, 0); return &s },
}

func getXORScratch(n int) *[]byte {
	bp := xorScratchPool.Get().(*[]byte)
	if cap(*bp) < n {
		*bp = make([]byte, n)
	} else {
		*bp = (*bp)[:n]
	}
	return bp
}

// XOR computes dst[i] ^= src[i] for every element of a lane (a contiguous
// run of additive elements belonging to the same FFT butterfly range).
// Rather than reinterpret-casting the []Additive slice into a []byte (the
// raw-pointer trick spec §9 calls out as the wrong move), it encodes each
// operand little-endian into pooled scratch buffers, XORs the buffers in
// bulk with xorsimd, and decodes the result back — giving the "process N
// symbols per iteration" bulk path spec §4.1 asks for without aliasing
// field-element and byte representations. On a CPU with none of the SIMD
// extensions xorsimd accelerates, or for lanes too short to amortise the
// scratch buffers, it falls back to a plain scalar XOR (mirrors leopard.go
// gating its wider multiply tables on the same cpuid checks).
func (t *Table) XOR(dst, src []Additive) {
	n := len(dst)
	if n == 0 {
		return
	}
	if !t.wideXOR || n < xorWideThreshold {
		for i := range dst {
			dst[i] ^= src[i]
		}
		return
	}

	width := t.BytesPerSymbol()
	ap := getXORScratch(n * width)
	bp := getXORScratch(n * width)
	defer xorScratchPool.Put(ap)
	defer xorScratchPool.Put(bp)
	a, b := *ap, *bp
	t.encodeSymbols(a, dst)
	t.encodeSymbols(b, src)
	xorsimd.Bytes(a, a, b)
	t.decodeSymbols(dst, a)
}

func (t *Table) encodeSymbols(dst []byte, src []Additive) {
	if t.Width == Field8 {
		for i, v := range src {
			dst[i] = byte(v)
		}
		return
	}
	for i, v := range src {
		dst[2*i] = byte(v)
		dst[2*i+1] = byte(v >> 8)
	}
}

func (t *Table) decodeSymbols(dst []Additive, src []byte) {
	if t.Width == Field8 {
		for i := range dst {
			dst[i] = Additive(src[i])
		}
		return
	}
	for i := range dst {
		dst[i] = Additive(uint16(src[2*i]) | uint16(src[2*i+1])<<8)
	}
}
