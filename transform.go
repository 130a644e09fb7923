package vision

import "math"

// Transform is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Transform [6]float64

// IdentityTransform is the identity affine matrix.
var IdentityTransform = Transform{1, 0, 0, 1, 0, 0}

// NewTransform builds a matrix that scales, then rotates (radians,
// clockwise on screen), then translates to position.
func NewTransform(position, scale Vec2, rotation float64) Transform {
	sin, cos := math.Sincos(rotation)
	return Transform{
		cos * scale.X,
		sin * scale.X,
		-sin * scale.Y,
		cos * scale.Y,
		position.X,
		position.Y,
	}
}

func translateTransform(v Vec2) Transform {
	return Transform{1, 0, 0, 1, v.X, v.Y}
}

func scaleTransform(v Vec2) Transform {
	return Transform{v.X, 0, 0, v.Y, 0, 0}
}

// Multiply returns m * c: c is applied first, then m.
func (m Transform) Multiply(c Transform) Transform {
	return Transform{
		m[0]*c[0] + m[2]*c[1],
		m[1]*c[0] + m[3]*c[1],
		m[0]*c[2] + m[2]*c[3],
		m[1]*c[2] + m[3]*c[3],
		m[0]*c[4] + m[2]*c[5] + m[4],
		m[1]*c[4] + m[3]*c[5] + m[5],
	}
}

// Invert returns the inverse matrix, or the identity if m is singular.
func (m Transform) Invert() Transform {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return IdentityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return Transform{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// Apply transforms a point.
func (m Transform) Apply(p Vec2) Vec2 {
	return Vec2{m[0]*p.X + m[2]*p.Y + m[4], m[1]*p.X + m[3]*p.Y + m[5]}
}

// Translation returns the translation component.
func (m Transform) Translation() Vec2 { return Vec2{m[4], m[5]} }
