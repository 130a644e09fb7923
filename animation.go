package vision

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 2 float64 values on a drawer simultaneously.
// Create one via the convenience constructors (TweenAnimationSpeed,
// TweenOrigin, TweenFramePosition, TweenTileMapOrigin) and call Update(dt)
// each frame. The group writes values back through the drawer's setters, so
// the usual animation events fire.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens [2]*gween.Tween
	count  int
	values [2]float64
	apply  func(v *[2]float64)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(&g.values)
}

// TweenAnimationSpeed animates a drawer's speed override to the target value.
// Crossing zero emits AnimationSuspended or AnimationResumed.
func TweenAnimationSpeed(d *SpriteDrawer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(d.AnimationSpeed()), float32(to), duration, fn)
	g.apply = func(v *[2]float64) { d.SetAnimationSpeed(v[0]) }
	return g
}

// TweenFramePosition scrubs a drawer to a frame position. Intermediate frames
// emit FrameChanged.
func TweenFramePosition(d *SpriteDrawer, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(d.FramePosition()), float32(to), duration, fn)
	g.apply = func(v *[2]float64) { d.SetFramePosition(v[0]) }
	return g
}

// TweenOrigin animates a drawer's origin override to the target point.
func TweenOrigin(d *SpriteDrawer, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := d.Origin()
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(v *[2]float64) { d.SetOrigin(Vec2{v[0], v[1]}) }
	return g
}

// TweenTileMapOrigin slides a whole tile map to a new origin.
func TweenTileMapOrigin(td *TileMapDrawer, to Vec2, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := td.Origin()
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(from.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(from.Y), float32(to.Y), duration, fn)
	g.apply = func(v *[2]float64) { td.SetOrigin(Vec2{v[0], v[1]}) }
	return g
}
