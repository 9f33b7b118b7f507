package encoder

import (
	"testing"
	"time"

	"github.com/xtaci/rscore/field"
)

func buildCodeword(n, width int, data []field.Additive) [][]field.Additive {
	codeword := make([][]field.Additive, n)
	for i := range codeword {
		lane := make([]field.Additive, width)
		if i < len(data) {
			lane[0] = data[i]
		}
		codeword[i] = lane
	}
	return codeword
}

// Scenario 5: encode_low with n=8, k=2 leaves the systematic data block
// codeword[0:2] untouched.
func TestEncodeLowIsSystematic(t *testing.T) {
	tbl := field.Build(field.Field8)
	data := []field.Additive{42, 99}
	codeword := buildCodeword(8, 1, data)

	EncodeLow(codeword, 2, 8, tbl)

	if codeword[0][0] != 42 || codeword[1][0] != 99 {
		t.Fatalf("codeword[0:2] = [%d, %d], want [42, 99]", codeword[0][0], codeword[1][0])
	}
}

func TestEncodeLowParityIsDeterministic(t *testing.T) {
	tbl := field.Build(field.Field8)
	data := []field.Additive{1, 2}

	a := buildCodeword(8, 1, data)
	EncodeLow(a, 2, 8, tbl)

	b := buildCodeword(8, 1, data)
	EncodeLow(b, 2, 8, tbl)

	for i := range a {
		if a[i][0] != b[i][0] {
			t.Fatalf("codeword[%d] differs between identical encode_low runs: %d vs %d", i, a[i][0], b[i][0])
		}
	}
}

// k == n (t == 0) is a legal, validation-accepted configuration: there are
// no parity lanes to compute, and EncodeHigh must return immediately rather
// than loop forever trying to step by a zero stride.
func TestEncodeHighNoParityWhenKEqualsN(t *testing.T) {
	tbl := field.Build(field.Field8)
	data := []field.Additive{1, 2, 3, 4}
	codeword := buildCodeword(4, 1, data)

	done := make(chan struct{})
	go func() {
		EncodeHigh(codeword, 4, 4, tbl)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("EncodeHigh(k == n) did not return: t == 0 infinite loop")
	}
}

func TestEncodeHighProducesParity(t *testing.T) {
	tbl := field.Build(field.Field8)
	// 2k > n: k=6, n=8, t=2 parity lanes.
	data := []field.Additive{1, 2, 3, 4, 5, 6}
	codeword := buildCodeword(8, 1, data)

	EncodeHigh(codeword, 6, 8, tbl)

	allZero := true
	for i := 6; i < 8; i++ {
		if codeword[i][0] != 0 {
			allZero = false
		}
	}
	if allZero {
		t.Fatal("encode_high produced all-zero parity for non-zero data")
	}
}
