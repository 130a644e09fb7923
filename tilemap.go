package vision

import (
	"slices"
	"time"
)

// TileMapDrawer owns one SpriteDrawer per placement of a TileMap and animates
// and draws them together. Each per-tile drawer is anchored at
// mapOrigin - tilePosition, so the whole map can be re-anchored by shifting
// every drawer's origin by the same delta.
type TileMapDrawer struct {
	tileMap   *TileMap
	origin    Vec2
	hasOrigin bool
	drawers   []*SpriteDrawer
}

// NewTileMapDrawer resolves every tile of m through sprites and builds its
// drawers. Resolution is fail-fast: the first tile that can't be resolved
// aborts construction with its *LookupError. m may be nil.
func NewTileMapDrawer(m *TileMap, sprites SpriteSource) (*TileMapDrawer, error) {
	td := &TileMapDrawer{}
	if err := td.SetTileMap(m, sprites); err != nil {
		return nil, err
	}
	return td, nil
}

// NewTileMapDrawerWithOrigin is like NewTileMapDrawer but anchors the map at
// origin instead of the map's own origin.
func NewTileMapDrawerWithOrigin(m *TileMap, sprites SpriteSource, origin Vec2) (*TileMapDrawer, error) {
	td := &TileMapDrawer{origin: origin, hasOrigin: true}
	if err := td.SetTileMap(m, sprites); err != nil {
		return nil, err
	}
	return td, nil
}

// SetTileMap replaces the map and rebuilds every drawer. On error the drawer
// keeps its previous map.
func (td *TileMapDrawer) SetTileMap(m *TileMap, sprites SpriteSource) error {
	prev := td.tileMap
	td.tileMap = m
	drawers, err := buildTileDrawers(m, sprites, td.Origin())
	if err != nil {
		td.tileMap = prev
		return err
	}
	td.drawers = drawers
	return nil
}

func buildTileDrawers(m *TileMap, sprites SpriteSource, origin Vec2) ([]*SpriteDrawer, error) {
	if m == nil {
		return nil, nil
	}
	start := time.Now()
	drawers := make([]*SpriteDrawer, 0, len(m.tiles))
	for _, p := range m.tiles {
		s, err := sprites.Sprite(p.Tile.BankName, p.Tile.SpriteName)
		if err != nil {
			return nil, err
		}
		d := NewSpriteDrawerWithOrigin(s.WithSize(p.Tile.Size), origin.Minus(p.Position))
		if p.Tile.StartFrame != 0 {
			d.SetFrameIndex(p.Tile.StartFrame)
		}
		switch {
		case !p.Tile.Animated:
			d.SetAnimationSpeed(0)
		case p.Tile.AnimationSpeed != 0:
			d.SetAnimationSpeed(p.Tile.AnimationSpeed)
		}
		drawers = append(drawers, d)
	}
	debugLogTileMap(len(drawers), time.Since(start))
	return drawers, nil
}

// TileMap returns the current map, or nil.
func (td *TileMapDrawer) TileMap() *TileMap { return td.tileMap }

// Drawers returns the per-tile drawers in paint order.
func (td *TileMapDrawer) Drawers() []*SpriteDrawer { return slices.Clone(td.drawers) }

// Origin returns the override if set, else the map's origin.
func (td *TileMapDrawer) Origin() Vec2 {
	if td.hasOrigin || td.tileMap == nil {
		return td.origin
	}
	return td.tileMap.origin
}

// SetOrigin re-anchors the map, translating every per-tile drawer's origin by
// the difference to the previous origin.
func (td *TileMapDrawer) SetOrigin(o Vec2) {
	delta := o.Minus(td.Origin())
	td.origin = o
	td.hasOrigin = true
	for _, d := range td.drawers {
		d.SetOrigin(d.Origin().Plus(delta))
	}
}

// ClearOrigin returns to the map's own origin.
func (td *TileMapDrawer) ClearOrigin() {
	var o Vec2
	if td.tileMap != nil {
		o = td.tileMap.origin
	}
	td.SetOrigin(o)
	td.origin = Vec2{}
	td.hasOrigin = false
}

// Animate advances every per-tile drawer by dt seconds.
func (td *TileMapDrawer) Animate(dt float64) {
	for _, d := range td.drawers {
		d.Animate(dt)
	}
}

// Draw draws every tile in paint order.
func (td *TileMapDrawer) Draw(surface Surface) {
	for _, d := range td.drawers {
		d.Draw(surface)
	}
}

// DrawVisible draws the tiles whose footprint, in surface space, intersects
// view. It returns the number of tiles drawn. Pass Camera.VisibleBounds as
// view when the camera transform is concatenated onto the surface.
func (td *TileMapDrawer) DrawVisible(surface Surface, view Rect) int {
	if td.tileMap == nil {
		return 0
	}
	shift := td.Origin().Scale(-1)
	drawn := 0
	for i, d := range td.drawers {
		b := td.tileMap.tiles[i].Bounds()
		b.X += shift.X
		b.Y += shift.Y
		if !b.Intersects(view) {
			continue
		}
		if d.Draw(surface) {
			drawn++
		}
	}
	return drawn
}
