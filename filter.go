package vision

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/gift"
	"github.com/lucasb-eyer/go-colorful"
)

// Filter is the interface for pixel-level effects applied to sprite frames.
type Filter interface {
	// Apply renders src into dst with the filter effect. dst has the same
	// size as src; src must not be modified.
	Apply(src, dst *image.NRGBA)
}

// giftOptions disables gift's worker pool; vision runs on a single goroutine.
var giftOptions = &gift.Options{Parallelization: false}

// --- Filter application helpers ---

// newFrame allocates an empty zero-origin frame of the given size.
func newFrame(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// cloneFrame returns a zero-origin copy of src.
func cloneFrame(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := newFrame(b.Dx(), b.Dy())
	copyFrame(src, dst)
	return dst
}

// copyFrame copies the pixels of src into the same-sized dst row by row.
func copyFrame(src, dst *image.NRGBA) {
	sb, db := src.Bounds(), dst.Bounds()
	rowLen := sb.Dx() * 4
	for y := 0; y < sb.Dy(); y++ {
		si := src.PixOffset(sb.Min.X, sb.Min.Y+y)
		di := dst.PixOffset(db.Min.X, db.Min.Y+y)
		copy(dst.Pix[di:di+rowLen], src.Pix[si:si+rowLen])
	}
}

// applyFilter runs f over src and returns the result in a newly allocated
// frame. The result never aliases src.
func applyFilter(f Filter, src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := newFrame(b.Dx(), b.Dy())
	f.Apply(src, dst)
	return dst
}

// applyFilters runs a filter chain on src in order. Each filter sees the
// output of the previous one. With no filters src is returned as is.
func applyFilters(filters []Filter, src *image.NRGBA) *image.NRGBA {
	current := src
	for _, f := range filters {
		current = applyFilter(f, current)
	}
	return current
}

// --- SharpnessFilter ---

var (
	sharpenKernel = []float32{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
	blurKernel = []float32{
		0.05, 0.15, 0.05,
		0.15, 0.2, 0.15,
		0.05, 0.15, 0.05,
	}
	sharpenConvolution = gift.Convolution(sharpenKernel, false, false, false, 0)
	blurConvolution    = gift.Convolution(blurKernel, false, false, false, 0)
)

// SharpnessFilter sharpens or blurs an image with a 3x3 convolution kernel.
// Positive amounts sharpen that many times, negative amounts blur. Border
// pixels and the alpha channel pass through unconvolved.
type SharpnessFilter struct {
	Amount int
}

// NewSharpnessFilter creates a convolution filter applied |amount| times.
func NewSharpnessFilter(amount int) *SharpnessFilter {
	return &SharpnessFilter{Amount: amount}
}

// NewSharpenFilter creates a filter that sharpens once.
func NewSharpenFilter() *SharpnessFilter { return NewSharpnessFilter(1) }

// NewBlurFilter creates a filter that blurs once.
func NewBlurFilter() *SharpnessFilter { return NewSharpnessFilter(-1) }

// Apply convolves src into dst Amount times.
func (f *SharpnessFilter) Apply(src, dst *image.NRGBA) {
	kernel := sharpenConvolution
	n := f.Amount
	if n < 0 {
		kernel = blurConvolution
		n = -n
	}
	if n == 0 {
		copyFrame(src, dst)
		return
	}

	b := src.Bounds()
	current := src
	for i := 0; i < n; i++ {
		out := dst
		if i < n-1 {
			out = newFrame(b.Dx(), b.Dy())
		}
		convolve(kernel, current, out)
		current = out
	}
}

// convolve applies one kernel pass, then restores the border and the alpha
// channel from src.
func convolve(kernel gift.Filter, src, dst *image.NRGBA) {
	kernel.Draw(dst, src, giftOptions)

	sb, db := src.Bounds(), dst.Bounds()
	w, h := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := src.PixOffset(sb.Min.X+x, sb.Min.Y+y)
			di := dst.PixOffset(db.Min.X+x, db.Min.Y+y)
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				copy(dst.Pix[di:di+4], src.Pix[si:si+4])
				continue
			}
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
}

// --- LuminosityFilter ---

// LuminosityFilter scales the red, green, and blue channels. The alpha
// channel is untouched and results are clamped to the valid byte range.
type LuminosityFilter struct {
	R, G, B float64
}

// NewLuminosityFilter creates a filter scaling all colour channels by scale.
// A scale of 1 leaves the image unchanged.
func NewLuminosityFilter(scale float64) *LuminosityFilter {
	return &LuminosityFilter{R: scale, G: scale, B: scale}
}

// NewChannelLuminosityFilter creates a filter with an individual scale for
// each colour channel.
func NewChannelLuminosityFilter(r, g, b float64) *LuminosityFilter {
	return &LuminosityFilter{R: r, G: g, B: b}
}

// Apply rescales the colour channels of src into dst.
func (f *LuminosityFilter) Apply(src, dst *image.NRGBA) {
	sr, sg, sb := float32(f.R), float32(f.G), float32(f.B)
	gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return r0 * sr, g0 * sg, b0 * sb, a0
	}).Draw(dst, src, giftOptions)
}

// --- FunctionFilter ---

// ChannelFunc maps a channel value in [0, 255] to a new value. Results
// outside [0, 255] are clamped.
type ChannelFunc func(i int) int

// InvertFunc inverts a channel value.
func InvertFunc(i int) int { return 255 - i }

// ContrastFunc pushes values away from the middle of the range using a cube
// root curve, increasing contrast.
func ContrastFunc(i int) int {
	x := float64(i)*2/255 - 1
	y := math.Cbrt(x)
	const half = 255 / 2.0
	return int(half + half*y)
}

// ThresholdFunc returns a function that quantizes values into colourAmount
// evenly spaced levels. Amounts below 1 are treated as 1, which maps every
// value to 0.
func ThresholdFunc(colourAmount int) ChannelFunc {
	if colourAmount < 1 {
		colourAmount = 1
	}
	levels := make([]int, colourAmount)
	if colourAmount > 1 {
		for i := range levels {
			levels[i] = i * 255 / (colourAmount - 1)
		}
	}
	return func(i int) int {
		return levels[i*len(levels)/256]
	}
}

// FunctionFilter remaps each channel through a 256-entry lookup table built
// once from a ChannelFunc. Channels without a function pass through.
type FunctionFilter struct {
	tables [4][256]uint8
}

// NewFunctionFilter creates a filter applying fn to the red, green, and blue
// channels. Alpha is untouched.
func NewFunctionFilter(fn ChannelFunc) *FunctionFilter {
	return NewChannelFunctionFilter(fn, fn, fn, nil)
}

// NewChannelFunctionFilter creates a filter with an individual function per
// channel. A nil function leaves its channel unchanged.
func NewChannelFunctionFilter(r, g, b, a ChannelFunc) *FunctionFilter {
	f := &FunctionFilter{}
	for c, fn := range [4]ChannelFunc{r, g, b, a} {
		for i := 0; i < 256; i++ {
			v := i
			if fn != nil {
				v = min(max(fn(i), 0), 255)
			}
			f.tables[c][i] = uint8(v)
		}
	}
	return f
}

// NewInvertFilter creates a filter that inverts colours.
func NewInvertFilter() *FunctionFilter { return NewFunctionFilter(InvertFunc) }

// NewContrastFilter creates a filter that increases contrast.
func NewContrastFilter() *FunctionFilter { return NewFunctionFilter(ContrastFunc) }

// NewThresholdFilter creates a filter that posterizes each colour channel
// into colourAmount levels.
func NewThresholdFilter(colourAmount int) *FunctionFilter {
	return NewFunctionFilter(ThresholdFunc(colourAmount))
}

// Lookup returns the table value for channel c (0=R, 1=G, 2=B, 3=A).
func (f *FunctionFilter) Lookup(c, i int) uint8 {
	return f.tables[c][i]
}

// Apply remaps every pixel of src through the lookup tables into dst.
func (f *FunctionFilter) Apply(src, dst *image.NRGBA) {
	gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return lookup(&f.tables[0], r0), lookup(&f.tables[1], g0),
			lookup(&f.tables[2], b0), lookup(&f.tables[3], a0)
	}).Draw(dst, src, giftOptions)
}

func lookup(table *[256]uint8, v float32) float32 {
	i := min(max(int(v*255+0.5), 0), 255)
	return float32(table[i]) / 255
}

// --- HSBFilter ---

// ColorTarget limits an HSBFilter to pixels near (Inclusive) or far from
// (exclusive) a reference colour. Distance is the summed absolute difference
// of the red, green, and blue channels in [0, 255]; pixels further than Range
// are never modified.
type ColorTarget struct {
	Color     color.NRGBA
	Range     float64
	Inclusive bool
}

// Strength returns the effect strength in [0, 1] for a pixel colour.
func (t *ColorTarget) Strength(r, g, b uint8) float64 {
	d := math.Abs(float64(r)-float64(t.Color.R)) +
		math.Abs(float64(g)-float64(t.Color.G)) +
		math.Abs(float64(b)-float64(t.Color.B))
	if t.Range <= 0 || d > t.Range {
		return 0
	}
	modifier := 0.5 * (math.Sin(math.Pi*(d/t.Range)-math.Pi/2) + 1)
	modifier = min(max(modifier, 0), 1)
	if t.Inclusive {
		return 1 - modifier
	}
	return modifier
}

// HSBFilter shifts hue and saturation. Hue wraps around [0, 1), saturation
// is clamped to [0, 1], and brightness and alpha are preserved. An optional
// Target scales the adjustment per pixel.
type HSBFilter struct {
	Hue        float64
	Saturation float64
	Target     *ColorTarget
}

// NewHSBFilter creates a filter adjusting every pixel.
func NewHSBFilter(hue, saturation float64) *HSBFilter {
	return &HSBFilter{Hue: hue, Saturation: saturation}
}

// NewTargetedHSBFilter creates a filter whose effect depends on each pixel's
// distance to target.
func NewTargetedHSBFilter(hue, saturation float64, target ColorTarget) *HSBFilter {
	return &HSBFilter{Hue: hue, Saturation: saturation, Target: &target}
}

// Apply shifts the hue and saturation of src into dst.
func (f *HSBFilter) Apply(src, dst *image.NRGBA) {
	gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		strength := 1.0
		if f.Target != nil {
			strength = f.Target.Strength(toByte(r0), toByte(g0), toByte(b0))
		}
		if strength == 0 || (f.Hue == 0 && f.Saturation == 0) {
			return r0, g0, b0, a0
		}
		c := colorful.Color{R: float64(r0), G: float64(g0), B: float64(b0)}
		h, s, v := c.Hsv()

		h = h/360 + f.Hue*strength
		h -= math.Floor(h)
		s = min(max(s+f.Saturation*strength, 0), 1)

		out := colorful.Hsv(h*360, s, v).Clamped()
		return float32(out.R), float32(out.G), float32(out.B), a0
	}).Draw(dst, src, giftOptions)
}

func toByte(v float32) uint8 {
	return uint8(min(max(int(v*255+0.5), 0), 255))
}
