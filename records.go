package vision

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Record attribute names.
const (
	attrFile           = "file"
	attrLength         = "length"
	attrOrigin         = "origin"
	attrSize           = "size"
	attrAnimationSpeed = "animationSpeed"
	attrBankName       = "bankName"
	attrSpriteName     = "spriteName"
	attrStartFrame     = "startFrameIndex"
	attrAnimated       = "animated"
	attrTiles          = "tiles"
	attrPosition       = "position"
	attrTile           = "tile"
)

// fieldErrors collects the names of missing or malformed attributes while a
// record is decoded.
type fieldErrors struct {
	kind   string
	fields []string
	errs   []error
}

func (f *fieldErrors) add(name string, err error) {
	f.fields = append(f.fields, name)
	f.errs = append(f.errs, err)
}

// optional records err unless the attribute is simply absent.
func (f *fieldErrors) optional(name string, err error) {
	if err != nil && !errors.Is(err, errMissing) {
		f.add(name, err)
	}
}

func (f *fieldErrors) err() error {
	if len(f.fields) == 0 {
		return nil
	}
	return &ParseError{Kind: f.kind, Fields: f.fields, Err: errors.Join(f.errs...)}
}

// --- Sprite ---

// SpriteToModel converts s into a sprite record. The record always holds
// every attribute.
func SpriteToModel(s *Sprite) *Model {
	return NewModel().
		Set(attrFile, s.source).
		Set(attrLength, s.Len()).
		Set(attrOrigin, s.origin).
		Set(attrSize, s.Size()).
		Set(attrAnimationSpeed, s.speed)
}

// SpriteFromModel loads the sprite a record describes. Only file is
// required; relative paths are resolved against dir. Absent attributes take
// the SpriteOptions defaults and length defaults to 1.
func SpriteFromModel(m *Model, dir string) (*Sprite, error) {
	fe := fieldErrors{kind: "sprite"}
	file, err := m.String(attrFile)
	if err == nil && file == "" {
		err = errors.New("vision: empty file")
	}
	if err != nil {
		fe.add(attrFile, err)
	}

	length := 1
	if v, err := m.Int(attrLength); err == nil {
		length = v
	} else {
		fe.optional(attrLength, err)
	}

	var opts SpriteOptions
	if v, err := m.Vec2(attrOrigin); err == nil {
		opts.Origin = &v
	} else {
		fe.optional(attrOrigin, err)
	}
	if v, err := m.Vec2(attrSize); err == nil {
		opts.Size = &v
	} else {
		fe.optional(attrSize, err)
	}

	speed, speedErr := m.Float(attrAnimationSpeed)
	fe.optional(attrAnimationSpeed, speedErr)

	if err := fe.err(); err != nil {
		return nil, err
	}

	path := file
	if dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	opts.Source = file
	s, err := LoadSprite(path, length, opts)
	if err != nil {
		return nil, err
	}
	if speedErr == nil {
		s = s.WithAnimationSpeed(speed)
	}
	return s, nil
}

// --- Tile ---

// TileToModel converts t into a tile record. animationSpeed is written only
// when it overrides the sprite default.
func TileToModel(t Tile) *Model {
	m := NewModel().
		Set(attrBankName, t.BankName).
		Set(attrSpriteName, t.SpriteName).
		Set(attrSize, t.Size).
		Set(attrStartFrame, t.StartFrame).
		Set(attrAnimated, t.Animated)
	if t.AnimationSpeed != 0 {
		m.Set(attrAnimationSpeed, t.AnimationSpeed)
	}
	return m
}

// TileFromModel decodes a tile record. bankName, spriteName and size are
// required; animated defaults to true.
func TileFromModel(m *Model) (Tile, error) {
	fe := fieldErrors{kind: "tile"}
	t := Tile{Animated: true}
	var err error

	if t.BankName, err = m.String(attrBankName); err != nil {
		fe.add(attrBankName, err)
	}
	if t.SpriteName, err = m.String(attrSpriteName); err != nil {
		fe.add(attrSpriteName, err)
	}
	if t.Size, err = m.Vec2(attrSize); err != nil {
		fe.add(attrSize, err)
	}
	if v, err := m.Int(attrStartFrame); err == nil {
		t.StartFrame = v
	} else {
		fe.optional(attrStartFrame, err)
	}
	if v, err := m.Bool(attrAnimated); err == nil {
		t.Animated = v
	} else {
		fe.optional(attrAnimated, err)
	}
	if v, err := m.Float(attrAnimationSpeed); err == nil {
		t.AnimationSpeed = v
	} else {
		fe.optional(attrAnimationSpeed, err)
	}

	if err := fe.err(); err != nil {
		return Tile{}, err
	}
	return t, nil
}

// --- TileMap ---

// TileMapToModel converts tm into a tile map record with placements in paint
// order.
func TileMapToModel(tm *TileMap) *Model {
	tiles := make([]any, len(tm.tiles))
	for i, p := range tm.tiles {
		tiles[i] = NewModel().
			Set(attrPosition, p.Position).
			Set(attrTile, TileToModel(p.Tile))
	}
	return NewModel().
		Set(attrOrigin, tm.origin).
		Set(attrTiles, tiles)
}

// TileMapFromModel decodes a tile map record. tiles is required; origin
// defaults to zero.
func TileMapFromModel(m *Model) (*TileMap, error) {
	fe := fieldErrors{kind: "tile map"}
	var origin Vec2
	if v, err := m.Vec2(attrOrigin); err == nil {
		origin = v
	} else {
		fe.optional(attrOrigin, err)
	}

	list, err := m.List(attrTiles)
	if err != nil {
		fe.add(attrTiles, err)
		return nil, fe.err()
	}

	placements := make([]TilePlacement, 0, len(list))
	for i, e := range list {
		field := fmt.Sprintf("%s[%d]", attrTiles, i)
		entry, ok := e.(*Model)
		if !ok {
			fe.add(field, fmt.Errorf("vision: %s is %T, want model", field, e))
			continue
		}
		pos, err := entry.Vec2(attrPosition)
		if err != nil {
			fe.add(field+"."+attrPosition, err)
		}
		rec, recErr := entry.Model(attrTile)
		if recErr != nil {
			fe.add(field+"."+attrTile, recErr)
			continue
		}
		tile, tileErr := TileFromModel(rec)
		if tileErr != nil {
			fe.add(field+"."+attrTile, tileErr)
			continue
		}
		if err == nil {
			placements = append(placements, TilePlacement{Position: pos, Tile: tile})
		}
	}

	if err := fe.err(); err != nil {
		return nil, err
	}
	return NewTileMap(placements, origin), nil
}
