package nucleotide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	var c Counts
	c.Add([]byte("AATTGGGC"))
	c.Add([]byte("nnuu"))
	comp := Compute(c)

	require.True(t, comp.Defined())
	assert.Equal(t, 12, comp.Length)
	assert.InDelta(t, 2.0/10, comp.A, 1e-12)
	assert.InDelta(t, 4.0/10, comp.T, 1e-12)
	assert.InDelta(t, 3.0/10, comp.G, 1e-12)
	assert.InDelta(t, 1.0/10, comp.C, 1e-12)
	assert.InDelta(t, 0.4, comp.GC, 1e-12)
	assert.InDelta(t, 1.0, comp.A+comp.T+comp.G+comp.C, 1e-12)
}

func TestComputeNoBases(t *testing.T) {
	var c Counts
	c.Add([]byte("NNNN"))
	comp := Compute(c)
	assert.False(t, comp.Defined())
	assert.Equal(t, 4, comp.Length)
	assert.True(t, math.IsNaN(comp.GC))

	assert.False(t, Compute(Counts{}).Defined())
}
