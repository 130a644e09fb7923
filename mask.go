package vision

import (
	"image"
	"image/color"
	"math"
)

// maskColor marks the opaque area of a mask sprite.
var maskColor = color.NRGBA{R: 255, A: 255}

// PixelAt samples the drawer's current frame at p, given relative to the
// point the drawer is drawn at. The unfiltered sprite frame is sampled and
// scaling is undone, so the result matches what the sprite looks like at p
// before filters. Points outside the sprite yield the zero colour.
func PixelAt(d *SpriteDrawer, p Vec2) color.NRGBA {
	if d.Sprite() == nil {
		return color.NRGBA{}
	}
	return SpritePixelAt(d.Sprite(), d.FrameIndex(), p.Plus(d.Origin()))
}

// SpritePixelAt samples frame i of s at p, in scaled sprite space with the
// top-left corner at zero.
func SpritePixelAt(s *Sprite, i int, p Vec2) color.NRGBA {
	size := s.Size()
	if p.X < 0 || p.Y < 0 || p.X >= size.X || p.Y >= size.Y {
		return color.NRGBA{}
	}
	q := p.DividedBy(s.Scaling())
	f := s.Frame(i)
	pt := image.Pt(int(math.Floor(q.X)), int(math.Floor(q.Y)))
	if !pt.In(f.Rect) {
		return color.NRGBA{}
	}
	return f.NRGBAAt(pt.X, pt.Y)
}

// AlphaAt returns the alpha of PixelAt.
func AlphaAt(d *SpriteDrawer, p Vec2) uint8 { return PixelAt(d, p).A }

// MatchesColor reports whether the pixel at p has the RGB of c. Alpha is
// ignored, and transparent space outside the sprite only matches black.
func MatchesColor(d *SpriteDrawer, p Vec2, c color.Color) bool {
	got := PixelAt(d, p)
	want := color.NRGBAModel.Convert(c).(color.NRGBA)
	return got.R == want.R && got.G == want.G && got.B == want.B
}

// MaskContains reports whether the mask drawer is pure opaque red at p.
func MaskContains(mask *SpriteDrawer, p Vec2) bool {
	return PixelAt(mask, p) == maskColor
}
