package vision

import "slices"

// Tile binds a sprite, referenced by bank and name, to a footprint size and
// animation parameters.
type Tile struct {
	BankName   string
	SpriteName string
	Size       Vec2
	StartFrame int
	Animated   bool
	// AnimationSpeed overrides the sprite's default speed when nonzero.
	// Ignored if Animated is false.
	AnimationSpeed float64
}

// NewTile returns an animated tile playing at the sprite's default speed.
func NewTile(bank, sprite string, size Vec2) Tile {
	return Tile{BankName: bank, SpriteName: sprite, Size: size, Animated: true}
}

// TilePlacement is a tile at a position. Position is the top-left corner of
// the tile's footprint.
type TilePlacement struct {
	Position Vec2
	Tile     Tile
}

// Bounds returns the placement's footprint.
func (p TilePlacement) Bounds() Rect {
	return Rect{X: p.Position.X, Y: p.Position.Y, Width: p.Tile.Size.X, Height: p.Tile.Size.Y}
}

// TileMap is an immutable list of placements in paint order: bottom rows
// first, and right to left within a row.
type TileMap struct {
	tiles  []TilePlacement
	origin Vec2
}

// NewTileMap copies tiles and sorts them into paint order. The sort is
// stable, so placements at the same position keep their input order.
func NewTileMap(tiles []TilePlacement, origin Vec2) *TileMap {
	sorted := slices.Clone(tiles)
	slices.SortStableFunc(sorted, comparePaintOrder)
	return &TileMap{tiles: sorted, origin: origin}
}

// comparePaintOrder orders by Y descending, then X descending. Y values within
// vecEpsilon count as the same row.
func comparePaintOrder(a, b TilePlacement) int {
	if !nearlyEqual(a.Position.Y, b.Position.Y) {
		if a.Position.Y > b.Position.Y {
			return -1
		}
		return 1
	}
	switch {
	case nearlyEqual(a.Position.X, b.Position.X):
		return 0
	case a.Position.X > b.Position.X:
		return -1
	default:
		return 1
	}
}

// Tiles returns a copy of the placements in paint order.
func (m *TileMap) Tiles() []TilePlacement { return slices.Clone(m.tiles) }

// Len returns the number of placements.
func (m *TileMap) Len() int { return len(m.tiles) }

// Origin returns the map's origin.
func (m *TileMap) Origin() Vec2 { return m.origin }

// Bounds returns the union of every placement's footprint.
func (m *TileMap) Bounds() Rect {
	var r Rect
	for _, p := range m.tiles {
		r = r.Union(p.Bounds())
	}
	return r
}

// TileAt returns the first placement, in paint order, whose footprint
// contains p. Edges count as inside.
func (m *TileMap) TileAt(p Vec2) (TilePlacement, bool) {
	for _, t := range m.tiles {
		if t.Bounds().Contains(p.X, p.Y) {
			return t, true
		}
	}
	return TilePlacement{}, false
}
