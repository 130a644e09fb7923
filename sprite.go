package vision

import (
	"errors"
	"fmt"
	"image"
	"slices"
)

// SpriteOptions configures sprite construction. The zero value gives a
// centred origin, the natural frame size and DefaultAnimationSpeed.
type SpriteOptions struct {
	// Origin is the anchor point in unscaled frame coordinates. nil means the
	// frame centre.
	Origin *Vec2
	// Size is the effective drawn size. nil means the natural frame size.
	Size *Vec2
	// AnimationSpeed in frames per second. Zero means DefaultAnimationSpeed;
	// use WithAnimationSpeed(0) for a sprite that doesn't animate by default.
	AnimationSpeed float64
	// Source records where the frames came from (usually a file path).
	Source string
}

// Sprite is an immutable sequence of equally sized frames with an origin,
// a scaling factor and a default animation speed. Derivation methods return
// new sprites and share frame buffers whenever the pixels are unchanged.
type Sprite struct {
	frames  []*image.NRGBA
	origin  Vec2 // unscaled
	size    Vec2 // natural
	scaling Vec2
	speed   float64
	source  string
}

// NewSprite partitions strip into n equal-width, full-height frames. n < 1 is
// treated as 1.
func NewSprite(strip image.Image, n int, opts SpriteOptions) *Sprite {
	frames, size := SplitStrip(strip, n)
	return newSprite(frames, size, opts)
}

// NewSpriteFromFrames builds a sprite from already decoded frames. All frames
// must have the same size. Frames that don't start at (0, 0) are copied.
func NewSpriteFromFrames(frames []*image.NRGBA, opts SpriteOptions) (*Sprite, error) {
	if len(frames) == 0 {
		return nil, errors.New("vision: sprite needs at least one frame")
	}
	first := frames[0].Bounds().Size()
	own := make([]*image.NRGBA, len(frames))
	for i, f := range frames {
		if f == nil {
			return nil, fmt.Errorf("vision: sprite frame %d is nil", i)
		}
		if s := f.Bounds().Size(); s != first {
			return nil, fmt.Errorf("vision: sprite frame %d is %v, want %v", i, s, first)
		}
		if f.Bounds().Min != (image.Point{}) {
			f = cloneFrame(f)
		}
		own[i] = f
	}
	return newSprite(own, Vec2{float64(first.X), float64(first.Y)}, opts), nil
}

func newSprite(frames []*image.NRGBA, size Vec2, opts SpriteOptions) *Sprite {
	s := &Sprite{
		frames:  frames,
		origin:  size.Scale(0.5),
		size:    size,
		scaling: Identity,
		speed:   opts.AnimationSpeed,
		source:  opts.Source,
	}
	if opts.Origin != nil {
		s.origin = *opts.Origin
	}
	if opts.Size != nil {
		s.scaling = opts.Size.DividedBy(size)
	}
	if s.speed == 0 {
		s.speed = DefaultAnimationSpeed
	}
	return s
}

// Len returns the number of frames. It is always at least 1.
func (s *Sprite) Len() int { return len(s.frames) }

// Frame returns frame i modulo Len. Negative indices count from the end.
func (s *Sprite) Frame(i int) *image.NRGBA {
	return s.frames[wrapIndex(i, len(s.frames))]
}

// Frames returns a copy of the frame slice. The frame buffers are shared
// and must not be modified.
func (s *Sprite) Frames() []*image.NRGBA { return slices.Clone(s.frames) }

// Origin returns the effective origin: the unscaled origin times scaling.
func (s *Sprite) Origin() Vec2 { return s.origin.Times(s.scaling) }

// NaturalOrigin returns the origin in unscaled frame coordinates.
func (s *Sprite) NaturalOrigin() Vec2 { return s.origin }

// Size returns the effective drawn size.
func (s *Sprite) Size() Vec2 { return s.size.Times(s.scaling) }

// NaturalSize returns the size of one decoded frame.
func (s *Sprite) NaturalSize() Vec2 { return s.size }

// Scaling returns the scaling factor.
func (s *Sprite) Scaling() Vec2 { return s.scaling }

// DefaultAnimationSpeed returns the speed, in frames per second, that
// drawers adopt unless they override it.
func (s *Sprite) DefaultAnimationSpeed() float64 { return s.speed }

// Source returns the path the sprite was loaded from, if any.
func (s *Sprite) Source() string { return s.source }

func (s *Sprite) clone() *Sprite {
	c := *s
	return &c
}

// WithSize returns a sprite scaled so that its effective size is size.
func (s *Sprite) WithSize(size Vec2) *Sprite {
	return s.WithScaling(size.DividedBy(s.size))
}

// WithScaling returns a sprite with the given scaling factor, replacing the
// current one. It returns s itself when the factor is unchanged.
func (s *Sprite) WithScaling(scaling Vec2) *Sprite {
	if scaling.Equals(s.scaling) {
		return s
	}
	c := s.clone()
	c.scaling = scaling
	return c
}

// Scaled returns a sprite whose scaling is the current scaling multiplied by
// factor.
func (s *Sprite) Scaled(factor Vec2) *Sprite {
	return s.WithScaling(s.scaling.Times(factor))
}

// Reverse returns a sprite with the frame order reversed.
func (s *Sprite) Reverse() *Sprite {
	c := s.clone()
	c.frames = slices.Clone(s.frames)
	slices.Reverse(c.frames)
	return c
}

// WithAnimationSpeed returns a sprite with a different default speed.
func (s *Sprite) WithAnimationSpeed(speed float64) *Sprite {
	c := s.clone()
	c.speed = speed
	return c
}

// WithOrigin returns a sprite anchored at origin, in unscaled frame
// coordinates.
func (s *Sprite) WithOrigin(origin Vec2) *Sprite {
	c := s.clone()
	c.origin = origin
	return c
}

// Filtered returns a sprite whose frames have been run through filters in
// order. The receiver's frames are not modified.
func (s *Sprite) Filtered(filters ...Filter) *Sprite {
	if len(filters) == 0 {
		return s
	}
	c := s.clone()
	c.frames = make([]*image.NRGBA, len(s.frames))
	for i, f := range s.frames {
		c.frames[i] = applyFilters(filters, f)
	}
	return c
}

// Sharpened returns a sprite sharpened k times. Negative k blurs.
func (s *Sprite) Sharpened(k int) *Sprite {
	if k == 0 {
		return s
	}
	return s.Filtered(NewSharpnessFilter(k))
}

// Blurred returns a sprite blurred k times.
func (s *Sprite) Blurred(k int) *Sprite {
	return s.Sharpened(-k)
}

// wrapIndex maps any integer into [0, n).
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
