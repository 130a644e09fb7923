package vision

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Surface is a drawing target with a transform stack. Composite draws a
// frame through current · Translate(translate) · Scale(scale), so a frame
// pixel p lands at current(translate + p*scale). Composite does not change
// the stack; callers use Save and Restore around Concat to nest.
type Surface interface {
	Save()
	Restore()
	Concat(m Transform)
	Composite(frame *image.NRGBA, translate, scale Vec2)
}

// transformStack implements the Save/Restore/Concat half of Surface.
type transformStack struct {
	current Transform
	saved   []Transform
}

func newTransformStack() transformStack {
	return transformStack{current: IdentityTransform}
}

// Save pushes the current transform.
func (s *transformStack) Save() {
	s.saved = append(s.saved, s.current)
}

// Restore pops the last saved transform. Unbalanced calls are ignored.
func (s *transformStack) Restore() {
	if len(s.saved) == 0 {
		return
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

// Concat post-multiplies the current transform by m.
func (s *transformStack) Concat(m Transform) {
	s.current = s.current.Multiply(m)
}

// Transform returns the current transform.
func (s *transformStack) Transform() Transform { return s.current }

func (s *transformStack) compositeTransform(translate, scale Vec2) Transform {
	return s.current.Multiply(translateTransform(translate)).Multiply(scaleTransform(scale))
}

// --- ImageSurface ---

// ImageSurface composites frames onto an in-memory image with
// nearest-neighbour sampling and source-over blending.
type ImageSurface struct {
	transformStack
	dst draw.Image
}

// NewImageSurface wraps dst.
func NewImageSurface(dst draw.Image) *ImageSurface {
	return &ImageSurface{transformStack: newTransformStack(), dst: dst}
}

// Image returns the destination image.
func (s *ImageSurface) Image() draw.Image { return s.dst }

// Composite implements Surface.
func (s *ImageSurface) Composite(frame *image.NRGBA, translate, scale Vec2) {
	if frame == nil {
		return
	}
	m := s.compositeTransform(translate, scale)
	aff := f64.Aff3{m[0], m[2], m[4], m[1], m[3], m[5]}
	draw.NearestNeighbor.Transform(s.dst, aff, frame, frame.Bounds(), draw.Over, nil)
}

// --- EbitenSurface ---

// SurfaceOptions configures an EbitenSurface.
type SurfaceOptions struct {
	// Filter is the sampling filter. The zero value is ebiten.FilterNearest.
	Filter ebiten.Filter
}

type cachedImage struct {
	img  *ebiten.Image
	used bool
}

// EbitenSurface composites frames onto an ebiten image. Each distinct frame
// buffer is uploaded once and cached until a Sweep finds it unused.
type EbitenSurface struct {
	transformStack
	dst    *ebiten.Image
	opts   SurfaceOptions
	images map[*image.NRGBA]*cachedImage
}

// NewEbitenSurface wraps dst.
func NewEbitenSurface(dst *ebiten.Image, opts SurfaceOptions) *EbitenSurface {
	return &EbitenSurface{
		transformStack: newTransformStack(),
		dst:            dst,
		opts:           opts,
		images:         make(map[*image.NRGBA]*cachedImage),
	}
}

// SetTarget switches the destination image and resets the transform stack,
// keeping the uploaded frame cache. Call it at the start of each Draw.
func (s *EbitenSurface) SetTarget(dst *ebiten.Image) {
	s.dst = dst
	s.transformStack = newTransformStack()
}

// Target returns the destination image.
func (s *EbitenSurface) Target() *ebiten.Image { return s.dst }

// Snapshot reads the target back as a straight-alpha image. Like
// ebiten.Image.ReadPixels it only works once the game loop is running.
func (s *EbitenSurface) Snapshot() *image.NRGBA {
	if s.dst == nil {
		return nil
	}
	b := s.dst.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	s.dst.ReadPixels(pixels)
	return unpremultiply(pixels, b.Dx(), b.Dy())
}

// Composite implements Surface.
func (s *EbitenSurface) Composite(frame *image.NRGBA, translate, scale Vec2) {
	if frame == nil || s.dst == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = geoM(s.compositeTransform(translate, scale))
	op.Filter = s.opts.Filter
	s.dst.DrawImage(s.image(frame), &op)
}

func (s *EbitenSurface) image(frame *image.NRGBA) *ebiten.Image {
	c, ok := s.images[frame]
	if !ok {
		c = &cachedImage{img: ebiten.NewImageFromImage(frame)}
		s.images[frame] = c
	}
	c.used = true
	return c.img
}

// Sweep deallocates uploaded frames that were not composited since the
// previous Sweep and returns how many were dropped. Filter changes replace
// frame buffers, so long-running games should sweep once per frame.
func (s *EbitenSurface) Sweep() int {
	dropped := 0
	for frame, c := range s.images {
		if c.used {
			c.used = false
			continue
		}
		c.img.Deallocate()
		delete(s.images, frame)
		dropped++
	}
	return dropped
}

// CachedImages returns the number of uploaded frames.
func (s *EbitenSurface) CachedImages() int { return len(s.images) }

func geoM(m Transform) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
