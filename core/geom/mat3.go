package geom

import "math"

// Mat3 is a row-major 3×3 matrix. A rotation's columns are the local axes
// expressed in the global frame.
type Mat3 [3][3]float64

func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

func (m Mat3) T() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func (m Mat3) Col(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

// FromCols builds a matrix whose columns are a, b, c.
func FromCols(a, b, c Vec3) Mat3 {
	return Mat3{
		{a[0], b[0], c[0]},
		{a[1], b[1], c[1]},
		{a[2], b[2], c[2]},
	}
}

func (m Mat3) IsFinite() bool {
	for _, row := range m {
		if !Vec3(row).IsFinite() {
			return false
		}
	}
	return true
}

// Orthonormalize applies Gram–Schmidt to the first two columns and rebuilds
// the third as their cross product, so the result is always a proper rotation.
func (m Mat3) Orthonormalize() Mat3 {
	e1 := m.Col(0).Normalize()
	c1 := m.Col(1)
	e2 := c1.Sub(e1.Scale(e1.Dot(c1))).Normalize()
	e3 := e1.Cross(e2)
	return FromCols(e1, e2, e3)
}

// OrthonormalityError is the Frobenius norm of RᵀR − I.
func (m Mat3) OrthonormalityError() float64 {
	p := m.T().Mul(m)
	id := Identity()
	var s float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := p[i][j] - id[i][j]
			s += d * d
		}
	}
	return math.Sqrt(s)
}

// RotationAbout returns the rotation by angle (radians) about a unit axis.
func RotationAbout(axis Vec3, angle float64) Mat3 {
	u := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{W: math.Cos(angle / 2), X: u[0] * s, Y: u[1] * s, Z: u[2] * s}.Mat3()
}
