package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	red         = color.NRGBA{R: 255, A: 255}
	transparent = color.NRGBA{}
)

func TestImageSurfaceCompositeTranslate(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	s := NewImageSurface(dst)
	s.Composite(solidFrame(2, 2, red), Vec2{1, 2}, Identity)

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{1, 2, red},
		{2, 3, red},
		{0, 2, transparent},
		{3, 2, transparent},
		{1, 4, transparent},
	}
	for _, tt := range tests {
		if got := dst.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageSurfaceCompositeScale(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	s := NewImageSurface(dst)
	s.Composite(solidFrame(2, 1, red), Vec2{}, Vec2{2, 3})

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := transparent
			if x < 4 && y < 3 {
				want = red
			}
			if got := dst.NRGBAAt(x, y); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestImageSurfaceSaveRestore(t *testing.T) {
	s := NewImageSurface(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	s.Save()
	s.Concat(translateTransform(Vec2{5, 5}))
	s.Save()
	s.Concat(scaleTransform(Vec2{2, 2}))
	assertMatrix(t, "nested", s.Transform(), Transform{2, 0, 0, 2, 5, 5})
	s.Restore()
	assertMatrix(t, "after first restore", s.Transform(), Transform{1, 0, 0, 1, 5, 5})
	s.Restore()
	s.Restore() // unbalanced, ignored
	assertMatrix(t, "after second restore", s.Transform(), IdentityTransform)
}

func TestImageSurfaceDrawsSprite(t *testing.T) {
	// A 2x2 frame with origin at its centre drawn through a translation of
	// (3, 3) covers (2..3, 2..3).
	s := NewSprite(solidFrame(2, 2, red), 1, SpriteOptions{})
	d := NewSpriteDrawer(s)
	dst := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	surf := NewImageSurface(dst)
	surf.Concat(translateTransform(Vec2{3, 3}))
	d.Draw(surf)

	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := transparent
			if x >= 2 && x < 4 && y >= 2 && y < 4 {
				want = red
			}
			if got := dst.NRGBAAt(x, y); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDependentDrawerRestoresState(t *testing.T) {
	d := NewSpriteDrawerWithOrigin(testSprite(1), Vec2{})
	provider := TransformFunc(func() Transform { return translateTransform(Vec2{7, 8}) })
	dd := NewDependentDrawer(d, provider)
	surf := newRecordingSurface()

	if !dd.Draw(surf) {
		t.Fatal("Draw = false")
	}
	assertMatrix(t, "during draw", surf.calls[0].transform, Transform{1, 0, 0, 1, 7, 8})
	assertMatrix(t, "after draw", surf.Transform(), IdentityTransform)

	if (&DependentDrawer{}).Draw(surf) {
		t.Error("empty DependentDrawer drew")
	}
}

func TestDependentDrawerAnimate(t *testing.T) {
	d := NewSpriteDrawer(testSprite(4).WithAnimationSpeed(1))
	dd := NewDependentDrawer(d, nil)
	dd.Animate(2)
	if d.FrameIndex() != 2 {
		t.Errorf("FrameIndex = %d, want 2", d.FrameIndex())
	}
}

func TestGeoMMatchesTransform(t *testing.T) {
	m := NewTransform(Vec2{3, 4}, Vec2{2, 0.5}, 0.7)
	g := geoM(m)
	x, y := g.Apply(1.5, -2)
	assertVec(t, "apply", Vec2{x, y}, m.Apply(Vec2{1.5, -2}))
}

func TestEbitenSurfaceCacheAndSweep(t *testing.T) {
	dst := ebiten.NewImage(8, 8)
	s := NewEbitenSurface(dst, SurfaceOptions{})
	a, b := solidFrame(2, 2, red), solidFrame(2, 2, red)

	s.Composite(a, Vec2{}, Identity)
	s.Composite(a, Vec2{1, 1}, Identity)
	s.Composite(b, Vec2{}, Identity)
	if s.CachedImages() != 2 {
		t.Fatalf("CachedImages = %d, want 2", s.CachedImages())
	}

	if n := s.Sweep(); n != 0 {
		t.Errorf("first Sweep dropped %d, want 0", n)
	}
	s.Composite(a, Vec2{}, Identity)
	if n := s.Sweep(); n != 1 {
		t.Errorf("second Sweep dropped %d, want 1", n)
	}
	if s.CachedImages() != 1 {
		t.Errorf("CachedImages = %d, want 1", s.CachedImages())
	}
}

func TestEbitenSurfaceSetTargetResetsStack(t *testing.T) {
	s := NewEbitenSurface(ebiten.NewImage(2, 2), SurfaceOptions{})
	s.Save()
	s.Concat(translateTransform(Vec2{1, 1}))
	next := ebiten.NewImage(2, 2)
	s.SetTarget(next)
	if s.Target() != next {
		t.Error("Target not updated")
	}
	assertMatrix(t, "transform", s.Transform(), IdentityTransform)
}
