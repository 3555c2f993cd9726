package arsc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestLookupTable(t *testing.T) {
	syms := Symbols()
	require.Len(t, syms, 24)
	assert.Equal(t, "ABCDEFGHIJKLMNPQRSTUVWYZ", string(syms))

	for _, s := range syms {
		r, ok := Lookup(s)
		require.True(t, ok, "symbol %c", s)
		assert.Equal(t, s, r.Symbol)
	}

	r, ok := Lookup('m')
	require.True(t, ok)
	assert.Equal(t, 1.0, r.S)
	assert.Equal(t, 149.2124, r.MW)

	_, ok = Lookup('X')
	assert.False(t, ok)
	_, ok = Lookup('*')
	assert.False(t, ok)
}

func TestAmbiguityEntriesAreMeans(t *testing.T) {
	mean := func(a, b byte) Residue {
		ra, _ := Lookup(a)
		rb, _ := Lookup(b)
		return Residue{N: (ra.N + rb.N) / 2, MW: (ra.MW + rb.MW) / 2}
	}
	b, _ := Lookup('B')
	z, _ := Lookup('Z')
	dn, eq := mean('D', 'N'), mean('E', 'Q')
	assert.InDelta(t, dn.N, b.N, eps)
	assert.InDelta(t, dn.MW, b.MW, 1e-4)
	assert.InDelta(t, eq.N, z.N, eps)
	assert.InDelta(t, eq.MW, z.MW, 1e-4)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "MAVK", string(Clean([]byte("mavK*"))))
	assert.Equal(t, "MA*VK", string(Clean([]byte("MA*VK**"))))
	assert.Empty(t, Clean([]byte("**")))
}

func TestComputeSimple(t *testing.T) {
	// K: N=1 C=4 ; M: S=1 C=3 ; G: all zero
	comp := ComputeSeq([]byte("KMGG"))
	require.True(t, comp.Defined())
	assert.Equal(t, 4, comp.Length)
	assert.InDelta(t, 0.25, comp.NARSC, eps)
	assert.InDelta(t, 7.0/4, comp.CARSC, eps)
	assert.InDelta(t, 0.25, comp.SARSC, eps)
	assert.InDelta(t, (146.1882+149.2124+2*75.0669)/4, comp.AvgResMW, eps)
	assert.Empty(t, comp.Unknown)

	assert.Len(t, comp.Fractions, 24)
	assert.InDelta(t, 0.5, comp.Fractions['G'], eps)
	assert.Zero(t, comp.Fractions['W'])
}

func TestFractionsSumToOne(t *testing.T) {
	comp := ComputeSeq([]byte("ACDEFGHIKLMNPQRSTVWYBZJUAAAKK"))
	require.True(t, comp.Defined())
	var sum float64
	for _, f := range comp.Fractions {
		sum += f
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestUnknownSymbolsDilute(t *testing.T) {
	clean := ComputeSeq([]byte("KK"))
	diluted := ComputeSeq([]byte("KKXX"))

	require.True(t, diluted.Defined())
	assert.Equal(t, 4, diluted.Length)
	assert.InDelta(t, clean.NARSC/2, diluted.NARSC, eps)
	assert.InDelta(t, clean.AvgResMW/2, diluted.AvgResMW, eps)
	assert.Equal(t, []byte("X"), diluted.Unknown)
	assert.InDelta(t, 0.5, diluted.Fractions['K'], eps)
}

func TestInnerStopCountsAsUnknown(t *testing.T) {
	comp := ComputeSeq(Clean([]byte("MA*VK*")))
	require.True(t, comp.Defined())
	assert.Equal(t, 5, comp.Length)
	assert.InDelta(t, 0.2, comp.NARSC, eps)
	assert.Equal(t, []byte("*"), comp.Unknown)
}

func TestUnknownReportedOnce(t *testing.T) {
	comp := ComputeSeq([]byte("AXX-BX*O"))
	assert.Equal(t, []byte("*-OX"), comp.Unknown)
}

func TestEmptyIsUndefined(t *testing.T) {
	comp := ComputeSeq(nil)
	assert.False(t, comp.Defined())
	assert.Zero(t, comp.Length)
	assert.True(t, math.IsNaN(comp.NARSC))
	assert.True(t, math.IsNaN(comp.AvgResMW))
	assert.Nil(t, comp.Fractions)
}

func TestOnlyUnknownIsUndefined(t *testing.T) {
	comp := ComputeSeq([]byte("XXOO"))
	assert.False(t, comp.Defined())
	assert.Equal(t, 4, comp.Length)
	assert.True(t, math.IsNaN(comp.CARSC))
	assert.True(t, math.IsNaN(comp.SARSC))
	assert.Nil(t, comp.Fractions)
	assert.Equal(t, []byte("OX"), comp.Unknown)
}

func TestComputeIsPure(t *testing.T) {
	var c Counts
	c.Add([]byte("MAVKGGG"))
	first := Compute(&c)
	second := Compute(&c)
	assert.Equal(t, first, second)
}

func TestMergeMatchesConcatenation(t *testing.T) {
	var a, b Counts
	a.Add([]byte("MAVK"))
	b.Add([]byte("GGG"))
	a.Merge(&b)
	assert.Equal(t, int64(7), a.Total())
	assert.Equal(t, ComputeSeq([]byte("MAVKGGG")), Compute(&a))
}
