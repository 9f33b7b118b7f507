package decoder

import (
	"testing"

	"github.com/xtaci/rscore/encoder"
	"github.com/xtaci/rscore/field"
)

func TestDecodeRecoversErasedParity(t *testing.T) {
	tbl := field.Build(field.Field8)
	k, n := 2, 8

	codeword := make([][]field.Additive, n)
	for i := range codeword {
		codeword[i] = make([]field.Additive, 1)
	}
	codeword[0][0] = 5
	codeword[1][0] = 9

	encoder.EncodeLow(codeword, k, n, tbl)

	want := make([]field.Additive, n)
	for i := range codeword {
		want[i] = codeword[i][0]
	}

	erasure := make([]bool, n)
	for i := k; i < n; i++ {
		erasure[i] = true
		codeword[i][0] = 0
	}

	logWalsh2 := Init(erasure, n, tbl)
	Main(codeword, k, erasure, logWalsh2, tbl)

	for i := k; i < n; i++ {
		if codeword[i][0] != want[i] {
			t.Fatalf("recovered codeword[%d] = %d, want %d", i, codeword[i][0], want[i])
		}
	}
}

func TestDecodeRecoversErasedDataShard(t *testing.T) {
	tbl := field.Build(field.Field8)
	k, n := 4, 16

	codeword := make([][]field.Additive, n)
	for i := range codeword {
		codeword[i] = make([]field.Additive, 1)
	}
	for i := 0; i < k; i++ {
		codeword[i][0] = field.Additive(10 + i)
	}

	encoder.EncodeLow(codeword, k, n, tbl)

	want := make([]field.Additive, n)
	for i := range codeword {
		want[i] = codeword[i][0]
	}

	// Erase one data shard and enough parity that exactly k remain present.
	erasure := make([]bool, n)
	erasure[1] = true
	codeword[1][0] = 0
	for i := k; i < n-1; i++ {
		erasure[i] = true
		codeword[i][0] = 0
	}

	logWalsh2 := Init(erasure, n, tbl)
	Main(codeword, k, erasure, logWalsh2, tbl)

	for i, erased := range erasure {
		if erased && codeword[i][0] != want[i] {
			t.Fatalf("recovered codeword[%d] = %d, want %d", i, codeword[i][0], want[i])
		}
	}
}
