package vision

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// JoinStrip lays the sprite's natural frames side by side, the inverse of
// SplitStrip.
func JoinStrip(s *Sprite) *image.NRGBA {
	w, h := int(s.size.X), int(s.size.Y)
	strip := image.NewNRGBA(image.Rect(0, 0, w*len(s.frames), h))
	for i, f := range s.frames {
		draw.Copy(strip, image.Pt(i*w, 0), f, f.Rect, draw.Src, nil)
	}
	return strip
}

// SaveStrip writes the sprite's frames to path as a PNG strip that LoadSprite
// reads back with the same frame count.
func SaveStrip(path string, s *Sprite) error {
	if err := encodePNG(path, JoinStrip(s)); err != nil {
		return &ResourceLoadError{Path: path, Err: err}
	}
	return nil
}

// SaveFrames writes every frame of the drawer, filters applied, to dir as
// label_000.png, label_001.png and so on. It returns the written paths.
func SaveFrames(dir, label string, d *SpriteDrawer) ([]string, error) {
	s := d.Sprite()
	if s == nil {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("vision: save frames: %w", err)
	}
	safe := sanitizeLabel(label)
	paths := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%03d.png", safe, i))
		if err := encodePNG(path, d.Frame(i)); err != nil {
			return paths, fmt.Errorf("vision: save frames: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// encodePNG encodes an image to a PNG file at the given path.
func encodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// unpremultiply converts premultiplied RGBA bytes, as returned by
// ebiten.Image.ReadPixels, to a straight-alpha image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
