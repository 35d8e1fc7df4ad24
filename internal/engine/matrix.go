package engine

import (
	"errors"
	"math"
)

// Matrix2D represents a 2D transform as a row-major 3x3 homogeneous matrix.
// Layout: [m0, m1, m2, m3, m4, m5, m6, m7, m8] representing:
// | m0  m1  m2 |
// | m3  m4  m5 |
// | m6  m7  m8 |
//
// For affine transforms the bottom row is [0, 0, 1]:
// - m0, m4 = scale
// - m1, m3 = skew/rotation
// - m2, m5 = translation
// The full bottom row is only exercised by the homography utility.
type Matrix2D [9]float64

// detEpsilon is the determinant magnitude below which a matrix is
// treated as singular.
const detEpsilon = 1e-12

// wEpsilon floors the homogeneous coordinate during point application.
const wEpsilon = 1e-12

// ErrSingular is returned by Invert for a degenerate matrix.
var ErrSingular = errors.New("matrix is singular")

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, tx, 0, 1, ty, 0, 0, 1}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, 0, sy, 0, 0, 0, 1}
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, -sin, 0, sin, cos, 0, 0, 0, 1}
}

// RotateDegrees returns a rotation matrix (angle in degrees).
func RotateDegrees(degrees float64) Matrix2D {
	return Rotate(degrees * math.Pi / 180.0)
}

// Multiply multiplies this matrix by another: result = m * other.
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	var out Matrix2D
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row*3+col] = m[row*3]*other[col] +
				m[row*3+1]*other[3+col] +
				m[row*3+2]*other[6+col]
		}
	}
	return out
}

// ApplyToPoint applies the matrix to a point, dividing by the
// homogeneous coordinate. A near-zero w is floored to wEpsilon with its
// sign preserved so a degenerate projective row cannot blow up a drag.
func (m Matrix2D) ApplyToPoint(x, y float64) (float64, float64) {
	px := m[0]*x + m[1]*y + m[2]
	py := m[3]*x + m[4]*y + m[5]
	w := m[6]*x + m[7]*y + m[8]
	if math.Abs(w) < wEpsilon {
		w = math.Copysign(wEpsilon, w)
	}
	return px / w, py / w
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert returns the inverse of the matrix, or ErrSingular when the
// determinant magnitude is below detEpsilon.
func (m Matrix2D) Invert() (Matrix2D, error) {
	det := m.Determinant()
	if math.Abs(det) < detEpsilon {
		return Identity(), ErrSingular
	}
	inv := 1.0 / det
	return Matrix2D{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, nil
}

// FromTransform composes a decomposed transform into a single matrix:
// Translate(x, y) * Rotate(r) * Scale(sx, sy), rotation in degrees.
func FromTransform(x, y, sx, sy, rDegrees float64) Matrix2D {
	rad := rDegrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Matrix2D{
		cos * sx, -sin * sy, x,
		sin * sx, cos * sy, y,
		0, 0, 1,
	}
}

// FromSlice rebuilds a matrix from its stored row-major form. Anything
// but 9 values yields the identity.
func FromSlice(vals []float64) Matrix2D {
	if len(vals) != 9 {
		return Identity()
	}
	var m Matrix2D
	copy(m[:], vals)
	return m
}

// ToSlice returns the matrix as a float64 slice for storage and JSON.
func (m Matrix2D) ToSlice() []float64 {
	out := make([]float64, 9)
	copy(out, m[:])
	return out
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) >= eps {
			return false
		}
	}
	return true
}

// HomographyFromQuads computes the projective transform mapping four
// source points onto four destination points. Best-effort utility for
// perspective-style warps of imported artwork; the movement engine never
// calls it. Degenerate quads return an error.
func HomographyFromQuads(src, dst [4][2]float64) (Matrix2D, error) {
	// Standard 8x8 DLT system: h8 is fixed at 1.
	var a [8][9]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i][0], src[i][1]
		dx, dy := dst[i][0], dst[i][1]
		a[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy, dx}
		a[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy, dy}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < detEpsilon {
			return Identity(), errors.New("homography: degenerate point set")
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := col + 1; row < 8; row++ {
			f := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}

	var h [8]float64
	for row := 7; row >= 0; row-- {
		sum := a[row][8]
		for col := row + 1; col < 8; col++ {
			sum -= a[row][col] * h[col]
		}
		h[row] = sum / a[row][row]
	}

	return Matrix2D{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}
