package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const standardTol = 1e-9

func assertPoint(t *testing.T, wantX, wantY, gotX, gotY float64) {
	t.Helper()
	assert.InDelta(t, wantX, gotX, standardTol)
	assert.InDelta(t, wantY, gotY, standardTol)
}

func TestMatrixBasics(t *testing.T) {
	x, y := Identity().ApplyToPoint(3, 4)
	assertPoint(t, 3, 4, x, y)

	x, y = Translate(1, 1).ApplyToPoint(0, 0)
	assertPoint(t, 1, 1, x, y)

	x, y = Scale(2, 2).ApplyToPoint(1, 1)
	assertPoint(t, 2, 2, x, y)

	x, y = Rotate(math.Pi/2).ApplyToPoint(1, 0)
	assertPoint(t, 0, 1, x, y)

	x, y = RotateDegrees(-90).ApplyToPoint(0, 1)
	assertPoint(t, 1, 0, x, y)
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// 1,0 -> scale(2) = 2,0 -> rotate 90 = 0,2 -> translate 1,1 -> 1,3
	// multiplication order is the reverse of "logical" order.
	m := Translate(1, 1).Multiply(Rotate(math.Pi / 2)).Multiply(Scale(2, 2))
	x, y := m.ApplyToPoint(1, 0)
	assertPoint(t, 1, 3, x, y)
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(7, -3).Multiply(RotateDegrees(30)).Multiply(Scale(2, 0.5))
	inv, err := m.Invert()
	require.NoError(t, err)

	x, y := inv.Multiply(m).ApplyToPoint(5, 9)
	assertPoint(t, 5, 9, x, y)

	rt := m.Multiply(inv)
	assert.True(t, rt.IsIdentity())
}

func TestMatrixInvertSingular(t *testing.T) {
	_, err := Scale(0, 0).Invert()
	assert.ErrorIs(t, err, ErrSingular)

	// Rank-deficient but nonzero.
	m := Matrix2D{1, 2, 0, 2, 4, 0, 0, 0, 1}
	_, err = m.Invert()
	assert.ErrorIs(t, err, ErrSingular)
}

func TestMatrixFromTransform(t *testing.T) {
	m := FromTransform(3, 4, 1, 1, 0)
	x, y := m.ApplyToPoint(0, 0)
	assertPoint(t, 3, 4, x, y)

	m = FromTransform(3, 4, 1, 1, 90)
	x, y = m.ApplyToPoint(1, 0)
	assertPoint(t, 3, 5, x, y)

	// Scale applies before rotation.
	m = FromTransform(0, 0, 2, 2, 90)
	x, y = m.ApplyToPoint(1, 0)
	assertPoint(t, 0, 2, x, y)
}

func TestMatrixHomogeneousDivide(t *testing.T) {
	m := Matrix2D{1, 0, 0, 0, 1, 0, 0, 0, 2}
	x, y := m.ApplyToPoint(2, 2)
	assertPoint(t, 1, 1, x, y)

	// A zero homogeneous coordinate is clamped, not divided through.
	zw := Matrix2D{1, 0, 0, 0, 1, 0, 0, 0, 0}
	x, y = zw.ApplyToPoint(1, 1)
	assert.False(t, math.IsInf(x, 0) || math.IsNaN(x))
	assert.False(t, math.IsInf(y, 0) || math.IsNaN(y))
}

func TestMatrixFromSlice(t *testing.T) {
	m := Translate(5, 6)
	assert.Equal(t, m, FromSlice(m.ToSlice()))
	assert.True(t, FromSlice(nil).IsIdentity())
	assert.True(t, FromSlice([]float64{1, 2, 3}).IsIdentity())
}

func TestHomographyFromQuads(t *testing.T) {
	square := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	shifted := [4][2]float64{{10, 5}, {11, 5}, {11, 6}, {10, 6}}

	h, err := HomographyFromQuads(square, shifted)
	require.NoError(t, err)
	for i := range square {
		x, y := h.ApplyToPoint(square[i][0], square[i][1])
		assertPoint(t, shifted[i][0], shifted[i][1], x, y)
	}

	// A genuinely projective warp.
	trapezoid := [4][2]float64{{0, 0}, {4, 0}, {3, 2}, {1, 2}}
	h, err = HomographyFromQuads(square, trapezoid)
	require.NoError(t, err)
	for i := range square {
		x, y := h.ApplyToPoint(square[i][0], square[i][1])
		assertPoint(t, trapezoid[i][0], trapezoid[i][1], x, y)
	}

	// Collinear points cannot define a homography.
	degenerate := [4][2]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	_, err = HomographyFromQuads(degenerate, shifted)
	assert.Error(t, err)
}
