package vision

import "math"

// DefaultAnimationSpeed is the animation speed, in frames per second, used by
// sprites that don't specify one.
const DefaultAnimationSpeed = 6.0

// vecEpsilon is the tolerance used when comparing vectors and tile positions.
const vecEpsilon = 1e-6

// Vec2 is a 2D vector used for positions, origins, sizes, and scaling factors
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Identity is the neutral scaling factor.
var Identity = Vec2{1, 1}

// Plus returns v + o.
func (v Vec2) Plus(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Minus returns v - o.
func (v Vec2) Minus(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Times multiplies v by o component-wise.
func (v Vec2) Times(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// DividedBy divides v by o component-wise. Zero components of o yield zero.
func (v Vec2) DividedBy(o Vec2) Vec2 {
	var r Vec2
	if o.X != 0 {
		r.X = v.X / o.X
	}
	if o.Y != 0 {
		r.Y = v.Y / o.Y
	}
	return r
}

// Scale multiplies both components by k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Equals reports whether v and o are equal within a small tolerance.
func (v Vec2) Equals(o Vec2) bool {
	return nearlyEqual(v.X, o.X) && nearlyEqual(v.Y, o.Y)
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < vecEpsilon
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and o overlap. Rectangles that only share an
// edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// Union returns the smallest rectangle containing both r and o. A zero-size
// r is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.Width == 0 && r.Height == 0 {
		return o
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}
