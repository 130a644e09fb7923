package vision

import (
	"image"
	"math"
	"slices"
	"time"
)

// SpriteDrawer is a live animation cursor over a Sprite. It tracks a
// fractional frame position, a signed animation speed in frames per second,
// an optional origin override and a stack of filters whose output is cached
// per frame.
//
// A drawer without a sprite is valid: animating and drawing it are no-ops.
//
// Listeners are notified synchronously. They may swap the drawer's sprite or
// change its speed and frame, but must not mutate the drawer's filter stack
// while an event is being dispatched.
type SpriteDrawer struct {
	sprite   *Sprite
	position float64 // always in [0, Len)
	speed    float64
	speedSet bool // speed overrides the sprite default

	origin    Vec2
	hasOrigin bool

	filters []Filter
	cache   []*image.NRGBA // filtered frames; nil when there are no filters

	listeners *ListenerHandler
}

// NewSpriteDrawer creates a drawer for s at frame 0, playing at the sprite's
// default speed. s may be nil.
func NewSpriteDrawer(s *Sprite) *SpriteDrawer {
	d := &SpriteDrawer{sprite: s}
	if s != nil {
		d.speed = s.speed
	}
	return d
}

// NewSpriteDrawerWithOrigin creates a drawer whose origin is overridden.
func NewSpriteDrawerWithOrigin(s *Sprite, origin Vec2) *SpriteDrawer {
	d := NewSpriteDrawer(s)
	d.SetOrigin(origin)
	return d
}

// Sprite returns the current sprite, or nil.
func (d *SpriteDrawer) Sprite() *Sprite { return d.sprite }

// Listeners returns the drawer's listener handler, creating it on first use.
func (d *SpriteDrawer) Listeners() *ListenerHandler {
	if d.listeners == nil {
		d.listeners = &ListenerHandler{}
	}
	return d.listeners
}

func (d *SpriteDrawer) emit(t AnimationEventType) {
	if d.listeners == nil {
		return
	}
	d.listeners.Emit(AnimationEvent{Type: t, Source: d, Sprite: d.sprite})
}

// --- Animation ---

// Animate advances the frame position by speed * dt, where dt is in seconds.
func (d *SpriteDrawer) Animate(dt float64) {
	d.AnimateWithSpeed(dt, d.speed)
}

// AnimateWithSpeed advances the frame position using an explicit speed. It
// emits FrameChanged if the integer frame changed, then AnimationCompleted
// if the integer frame moved against the direction of play, which only
// happens on a wrap. A call spanning several cycles completes at most once,
// and a wrap that lands on the same integer frame does not complete.
func (d *SpriteDrawer) AnimateWithSpeed(dt, speed float64) {
	if d.sprite == nil || speed == 0 || dt == 0 {
		return
	}
	prev := d.FrameIndex()
	d.moveTo(d.position + speed*dt)
	idx := d.FrameIndex()
	if (speed > 0 && idx < prev) || (speed < 0 && idx > prev) {
		d.emit(AnimationCompleted)
	}
}

// moveTo normalizes p into the frame range and emits FrameChanged when the
// integer frame differs from the previous one.
func (d *SpriteDrawer) moveTo(p float64) {
	prev := d.FrameIndex()
	d.position = normalizePosition(p, d.sprite.Len())
	if d.FrameIndex() != prev {
		d.emit(FrameChanged)
	}
}

func normalizePosition(p float64, n int) float64 {
	fn := float64(n)
	p = math.Mod(p, fn)
	if p < 0 {
		p += fn
	}
	if p >= fn {
		p = 0
	}
	return p
}

// AnimationSpeed returns the current speed in frames per second.
func (d *SpriteDrawer) AnimationSpeed() float64 { return d.speed }

// HasAnimationSpeedOverride reports whether the speed was set explicitly
// rather than taken from the sprite.
func (d *SpriteDrawer) HasAnimationSpeedOverride() bool { return d.speedSet }

// SetAnimationSpeed overrides the sprite's default speed. Going from a
// nonzero speed to zero emits AnimationSuspended; going from zero to nonzero
// emits AnimationResumed.
func (d *SpriteDrawer) SetAnimationSpeed(speed float64) {
	d.speedSet = true
	d.changeSpeed(speed)
}

// ResetAnimationSpeed drops the override and follows the sprite's default
// speed again, with the same suspend and resume events as SetAnimationSpeed.
func (d *SpriteDrawer) ResetAnimationSpeed() {
	d.speedSet = false
	var speed float64
	if d.sprite != nil {
		speed = d.sprite.speed
	}
	d.changeSpeed(speed)
}

func (d *SpriteDrawer) changeSpeed(speed float64) {
	old := d.speed
	d.speed = speed
	switch {
	case old != 0 && speed == 0:
		d.emit(AnimationSuspended)
	case old == 0 && speed != 0:
		d.emit(AnimationResumed)
	}
}

// SetAnimationDurationMillis sets the speed so that one full cycle takes ms
// milliseconds. Zero pauses the animation. It does nothing without a sprite.
func (d *SpriteDrawer) SetAnimationDurationMillis(ms float64) {
	if d.sprite == nil {
		return
	}
	if ms == 0 {
		d.SetAnimationSpeed(0)
		return
	}
	d.SetAnimationSpeed(float64(d.sprite.Len()) / (ms / 1000))
}

// FrameIndex returns the integer frame the drawer is showing.
func (d *SpriteDrawer) FrameIndex() int { return int(d.position) }

// FramePosition returns the fractional frame position in [0, Len).
func (d *SpriteDrawer) FramePosition() float64 { return d.position }

// SetFrameIndex moves to frame i, wrapping out-of-range values.
func (d *SpriteDrawer) SetFrameIndex(i int) {
	d.SetFramePosition(float64(i))
}

// SetFramePosition moves to a fractional frame position, wrapping
// out-of-range values. FrameChanged fires if the integer frame changes.
func (d *SpriteDrawer) SetFramePosition(p float64) {
	if d.sprite == nil {
		return
	}
	d.moveTo(p)
}

// ResetAnimation rewinds to frame 0 and emits AnimationReset.
func (d *SpriteDrawer) ResetAnimation() {
	d.position = 0
	d.emit(AnimationReset)
}

// SetSprite replaces the sprite. Unless the speed was overridden the drawer
// adopts the new sprite's default speed; a nil sprite keeps the current
// speed. The frame position is wrapped into the new frame range, the filter
// cache is rebuilt and SpriteChanged is emitted. With reset, the drawer then
// rewinds and emits AnimationReset.
func (d *SpriteDrawer) SetSprite(s *Sprite, reset bool) {
	d.sprite = s
	if !d.speedSet && s != nil {
		d.speed = s.speed
	}
	if s != nil {
		d.position = normalizePosition(d.position, s.Len())
	} else {
		d.position = 0
	}
	d.rebuildCache()
	d.emit(SpriteChanged)
	if reset {
		d.ResetAnimation()
	}
}

// --- Filters ---

// ApplyFilter pushes f onto the filter stack and filters every cached frame
// with it.
func (d *SpriteDrawer) ApplyFilter(f Filter) {
	d.filters = append(d.filters, f)
	if d.sprite == nil {
		return
	}
	start := time.Now()
	if d.cache == nil {
		d.cache = d.sprite.Frames()
	}
	for i, frame := range d.cache {
		d.cache[i] = applyFilter(f, frame)
	}
	debugLogCache(cacheStats{frames: len(d.cache), filters: 1, elapsed: time.Since(start)})
}

// RemoveLastFilter pops the most recently applied filter. It reports false
// if the stack was empty.
func (d *SpriteDrawer) RemoveLastFilter() bool {
	if len(d.filters) == 0 {
		return false
	}
	d.filters[len(d.filters)-1] = nil
	d.filters = d.filters[:len(d.filters)-1]
	d.rebuildCache()
	return true
}

// RemoveFilter removes the first occurrence of f from the stack and
// re-applies the remaining filters. f is compared by identity.
func (d *SpriteDrawer) RemoveFilter(f Filter) bool {
	i := slices.Index(d.filters, f)
	if i < 0 {
		return false
	}
	d.filters = slices.Delete(d.filters, i, i+1)
	d.rebuildCache()
	return true
}

// ClearFilters empties the filter stack.
func (d *SpriteDrawer) ClearFilters() {
	d.filters = nil
	d.cache = nil
}

// Filters returns a copy of the filter stack, oldest first.
func (d *SpriteDrawer) Filters() []Filter { return slices.Clone(d.filters) }

// rebuildCache replays every filter from the raw sprite frames.
func (d *SpriteDrawer) rebuildCache() {
	if len(d.filters) == 0 || d.sprite == nil {
		d.cache = nil
		return
	}
	start := time.Now()
	cache := make([]*image.NRGBA, d.sprite.Len())
	for i, frame := range d.sprite.frames {
		cache[i] = applyFilters(d.filters, frame)
	}
	d.cache = cache
	debugLogCache(cacheStats{frames: len(cache), filters: len(d.filters), elapsed: time.Since(start)})
}

// --- Origin ---

// Origin returns the override if set, else the sprite's effective origin,
// else the zero vector.
func (d *SpriteDrawer) Origin() Vec2 {
	if d.hasOrigin {
		return d.origin
	}
	if d.sprite != nil {
		return d.sprite.Origin()
	}
	return Vec2{}
}

// SetOrigin overrides the sprite's origin.
func (d *SpriteDrawer) SetOrigin(o Vec2) {
	d.origin = o
	d.hasOrigin = true
}

// ClearOrigin drops the origin override.
func (d *SpriteDrawer) ClearOrigin() {
	d.origin = Vec2{}
	d.hasOrigin = false
}

// HasOriginOverride reports whether SetOrigin is in effect.
func (d *SpriteDrawer) HasOriginOverride() bool { return d.hasOrigin }

// --- Drawing ---

// Frame returns frame i (wrapped) with the filter stack applied, or nil
// without a sprite.
func (d *SpriteDrawer) Frame(i int) *image.NRGBA {
	if d.sprite == nil {
		return nil
	}
	i = wrapIndex(i, d.sprite.Len())
	if d.cache != nil {
		return d.cache[i]
	}
	return d.sprite.frames[i]
}

// CurrentFrame returns the frame at the current position.
func (d *SpriteDrawer) CurrentFrame() *image.NRGBA {
	return d.Frame(d.FrameIndex())
}

// Draw composites the current frame onto surface. It reports false if there
// is no sprite.
func (d *SpriteDrawer) Draw(surface Surface) bool {
	return d.DrawFrame(surface, d.FrameIndex(), nil)
}

// DrawFrame composites frame index onto surface, translated by the negated
// origin and scaled by the sprite's scaling. A non-nil origin takes
// precedence over the drawer's own.
func (d *SpriteDrawer) DrawFrame(surface Surface, index int, origin *Vec2) bool {
	if d.sprite == nil {
		return false
	}
	o := d.Origin()
	if origin != nil {
		o = *origin
	}
	surface.Composite(d.Frame(index), o.Scale(-1), d.sprite.scaling)
	return true
}
