package vision

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera position.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera controls the view into world space: position, zoom, rotation, and
// viewport. It implements TransformProvider, so a camera can be concatenated
// onto a surface directly or drive a DependentDrawer.
type Camera struct {
	// Position is the world-space point the camera centers on.
	Position Vec2
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	// Bounds is the world-space rectangle the camera is clamped to when
	// BoundsEnabled is true.
	Bounds Rect

	follow       TransformProvider
	followOffset Vec2
	followLerp   float64

	scroll *scrollAnim
}

// NewCamera creates a Camera with zoom 1 and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1.0, Viewport: viewport}
}

// Follow makes the camera track the translation of target plus offset. A lerp
// of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(target TransformProvider, offset Vec2, lerp float64) {
	c.follow = target
	c.followOffset = offset
	c.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(p Vec2, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.Position.X), float32(p.X), duration, easeFn),
		tweenY: gween.New(float32(c.Position.Y), float32(p.Y), duration, easeFn),
	}
}

// ScrollToTile scrolls to the center of a tile placement.
func (c *Camera) ScrollToTile(p TilePlacement, duration float32, easeFn ease.TweenFunc) {
	c.ScrollTo(p.Position.Plus(p.Tile.Size.Scale(0.5)), duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool { return c.scroll != nil }

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// Update advances follow, scroll, and bounds clamping by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.follow != nil {
		target := c.follow.Transform().Translation().Plus(c.followOffset)
		c.Position = c.Position.Plus(target.Minus(c.Position).Scale(c.followLerp))
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			val, done := c.scroll.tweenX.Update(dt)
			c.Position.X = float64(val)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			val, done := c.scroll.tweenY.Update(dt)
			c.Position.Y = float64(val)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts camera position so the visible area stays within Bounds.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// If bounds are smaller than visible area, center the camera.
	if minX > maxX {
		c.Position.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.Position.X = math.Max(minX, math.Min(c.Position.X, maxX))
	}
	if minY > maxY {
		c.Position.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Position.Y = math.Max(minY, math.Min(c.Position.Y, maxY))
	}
}

// Transform returns the world-to-screen matrix:
//
//	Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-position)
func (c *Camera) Transform() Transform {
	center := Vec2{c.Viewport.X + c.Viewport.Width/2, c.Viewport.Y + c.Viewport.Height/2}
	return NewTransform(center, Vec2{c.Zoom, c.Zoom}, -c.Rotation).
		Multiply(translateTransform(c.Position.Scale(-1)))
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(p Vec2) Vec2 {
	return c.Transform().Apply(p)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(p Vec2) Vec2 {
	return c.Transform().Invert().Apply(p)
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's visible
// area in world space.
func (c *Camera) VisibleBounds() Rect {
	return transformedBounds(c.Transform().Invert(), c.Viewport)
}

// transformedBounds returns the axis-aligned bounds of r's four corners after
// applying m.
func transformedBounds(m Transform, r Rect) Rect {
	p0 := m.Apply(Vec2{r.X, r.Y})
	p1 := m.Apply(Vec2{r.X + r.Width, r.Y})
	p2 := m.Apply(Vec2{r.X + r.Width, r.Y + r.Height})
	p3 := m.Apply(Vec2{r.X, r.Y + r.Height})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
