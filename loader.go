package vision

import (
	"image"
	_ "image/png" // PNG strips
	"os"

	_ "golang.org/x/image/bmp" // BMP strips
	"golang.org/x/image/draw"
)

// LoadStrip decodes the image at path and partitions it into frameCount
// equal-width, full-height frames, left to right. frameCount < 1 is treated
// as 1. It returns the frames and the natural size of one frame. Missing,
// unreadable or undecodable files yield a *ResourceLoadError.
func LoadStrip(path string, frameCount int) ([]*image.NRGBA, Vec2, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Vec2{}, &ResourceLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, Vec2{}, &ResourceLoadError{Path: path, Err: err}
	}
	frames, size := SplitStrip(img, frameCount)
	return frames, size, nil
}

// SplitStrip partitions an already decoded strip into n equal-width frames.
// Trailing columns that don't fill a whole frame are dropped.
func SplitStrip(strip image.Image, n int) ([]*image.NRGBA, Vec2) {
	if n < 1 {
		n = 1
	}
	b := strip.Bounds()
	fw, fh := b.Dx()/n, b.Dy()

	frames := make([]*image.NRGBA, n)
	for i := range frames {
		dst := newFrame(fw, fh)
		sr := image.Rect(b.Min.X+i*fw, b.Min.Y, b.Min.X+(i+1)*fw, b.Max.Y)
		draw.Copy(dst, image.Point{}, strip, sr, draw.Src, nil)
		frames[i] = dst
	}
	return frames, Vec2{float64(fw), float64(fh)}
}

// LoadSprite loads a strip from path and wraps it in a Sprite. opts.Source
// defaults to path.
func LoadSprite(path string, frameCount int, opts SpriteOptions) (*Sprite, error) {
	frames, size, err := LoadStrip(path, frameCount)
	if err != nil {
		return nil, err
	}
	if opts.Source == "" {
		opts.Source = path
	}
	return newSprite(frames, size, opts), nil
}
