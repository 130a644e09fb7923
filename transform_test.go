package vision

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want Transform) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- NewTransform ---

func TestNewTransformIdentity(t *testing.T) {
	assertMatrix(t, "identity", NewTransform(Vec2{}, Identity, 0), IdentityTransform)
}

func TestNewTransformTranslation(t *testing.T) {
	got := NewTransform(Vec2{10, 20}, Identity, 0)
	assertMatrix(t, "translation", got, Transform{1, 0, 0, 1, 10, 20})
}

func TestNewTransformScaleRotateTranslate(t *testing.T) {
	m := NewTransform(Vec2{5, 5}, Vec2{2, 2}, math.Pi/2)
	// (1, 0) scaled to (2, 0), rotated to (0, 2), translated to (5, 7).
	assertVec(t, "point", m.Apply(Vec2{1, 0}), Vec2{5, 7})
}

// --- Multiply / Invert ---

func TestMultiplyOrder(t *testing.T) {
	translate := translateTransform(Vec2{10, 0})
	scale := scaleTransform(Vec2{2, 2})
	// Scale first, then translate.
	assertVec(t, "T*S", translate.Multiply(scale).Apply(Vec2{1, 1}), Vec2{12, 2})
	// Translate first, then scale.
	assertVec(t, "S*T", scale.Multiply(translate).Apply(Vec2{1, 1}), Vec2{22, 2})
}

func TestInvertRoundTrip(t *testing.T) {
	m := NewTransform(Vec2{3, -4}, Vec2{2, 0.5}, 0.3)
	assertMatrix(t, "m*inv", m.Multiply(m.Invert()), IdentityTransform)
	p := Vec2{7, 11}
	assertVec(t, "inv(m(p))", m.Invert().Apply(m.Apply(p)), p)
}

func TestInvertSingularReturnsIdentity(t *testing.T) {
	assertMatrix(t, "singular", scaleTransform(Vec2{0, 1}).Invert(), IdentityTransform)
}

func TestTranslation(t *testing.T) {
	assertVec(t, "translation", NewTransform(Vec2{4, 9}, Vec2{3, 3}, 1).Translation(), Vec2{4, 9})
}

// --- Vec2 / Rect ---

func TestVec2DividedByZero(t *testing.T) {
	assertVec(t, "div", Vec2{4, 6}.DividedBy(Vec2{0, 2}), Vec2{0, 3})
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 5}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{10, 5, true},
		{5, 2, true},
		{10.1, 2, false},
		{-0.1, 2, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRectUnion(t *testing.T) {
	var r Rect
	r = r.Union(Rect{X: 2, Y: 2, Width: 2, Height: 2})
	r = r.Union(Rect{X: -1, Y: 3, Width: 1, Height: 5})
	want := Rect{X: -1, Y: 2, Width: 5, Height: 6}
	if r != want {
		t.Errorf("Union = %+v, want %+v", r, want)
	}
}
