package vision

import (
	"cmp"
	"encoding/json"
	"fmt"
	"image"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// atlasRegion is one packed frame, restored to its untrimmed size.
type atlasRegion struct {
	page    int
	frame   jsonRect
	rotated bool
	offset  image.Point
	size    image.Point
}

// LoadAtlasBank parses TexturePacker JSON data and cuts the named regions out
// of the given page images into a sprite bank. Supports both the hash format
// (single "frames" object) and the array format ("textures" array with
// per-page frame lists).
//
// Regions named like "walk_0.png", "walk_1.png" become the frames of a single
// sprite "walk", ordered by number. Any other region becomes a one-frame
// sprite named after the region without its extension. Trimmed regions are
// padded back to their source size and rotated regions are turned upright.
func LoadAtlasBank(name string, jsonData []byte, pages []image.Image, opts SpriteOptions) (*SpriteBank, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("vision: failed to parse atlas JSON: %w", err)
	}

	regions := make(map[string]atlasRegion)
	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, regions); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, regions); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("vision: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	groups, order := groupRegions(regions)
	bank := NewSpriteBank(name)
	for _, base := range order {
		frames := make([]*image.NRGBA, 0, len(groups[base]))
		for _, regionName := range groups[base] {
			f, err := cutRegion(regions[regionName], pages)
			if err != nil {
				return nil, fmt.Errorf("vision: atlas region %q: %w", regionName, err)
			}
			frames = append(frames, f)
		}
		s, err := NewSpriteFromFrames(frames, opts)
		if err != nil {
			return nil, fmt.Errorf("vision: atlas sprite %q: %w", base, err)
		}
		bank.Register(base, s)
	}
	return bank, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, regions map[string]atlasRegion) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("vision: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		regions[name] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, regions map[string]atlasRegion) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("vision: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) atlasRegion {
	size := image.Pt(f.SourceSize.W, f.SourceSize.H)
	if size.X == 0 || size.Y == 0 {
		size = image.Pt(f.Frame.W, f.Frame.H)
		if f.Rotated {
			size = image.Pt(f.Frame.H, f.Frame.W)
		}
	}
	return atlasRegion{
		page:    page,
		frame:   f.Frame,
		rotated: f.Rotated,
		offset:  image.Pt(f.SpriteSourceSize.X, f.SpriteSourceSize.Y),
		size:    size,
	}
}

// cutRegion copies a region out of its page into an untrimmed, upright frame.
// Rotated regions are stored 90 degrees clockwise, with frame w/h describing
// the rect as it sits in the page.
func cutRegion(r atlasRegion, pages []image.Image) (*image.NRGBA, error) {
	if r.page >= len(pages) || pages[r.page] == nil {
		return nil, fmt.Errorf("page %d not provided", r.page)
	}
	page := pages[r.page]
	rect := image.Rect(r.frame.X, r.frame.Y, r.frame.X+r.frame.W, r.frame.Y+r.frame.H).
		Add(page.Bounds().Min)
	if !rect.In(page.Bounds()) {
		return nil, fmt.Errorf("rect %v outside page %v", rect, page.Bounds())
	}
	dst := newFrame(r.size.X, r.size.Y)
	if !r.rotated {
		draw.Copy(dst, r.offset, page, rect, draw.Src, nil)
		return dst, nil
	}
	// Upright pixel (x, y) is stored at (W-1-y, x) relative to the rect.
	for y := 0; y < r.frame.W; y++ {
		for x := 0; x < r.frame.H; x++ {
			c := page.At(rect.Min.X+r.frame.W-1-y, rect.Min.Y+x)
			dst.Set(r.offset.X+x, r.offset.Y+y, c)
		}
	}
	return dst, nil
}

// groupRegions maps sprite names to their region names in frame order and
// returns the sprite names sorted.
func groupRegions(regions map[string]atlasRegion) (map[string][]string, []string) {
	type indexed struct {
		name  string
		index int
	}
	byBase := make(map[string][]indexed)
	for name := range regions {
		base, index := splitFrameName(name)
		byBase[base] = append(byBase[base], indexed{name, index})
	}
	groups := make(map[string][]string, len(byBase))
	order := make([]string, 0, len(byBase))
	for base, entries := range byBase {
		slices.SortFunc(entries, func(a, b indexed) int {
			return cmp.Or(cmp.Compare(a.index, b.index), strings.Compare(a.name, b.name))
		})
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.name
		}
		groups[base] = names
		order = append(order, base)
	}
	slices.Sort(order)
	return groups, order
}

// splitFrameName strips the extension and splits a trailing "_N" or "-N"
// frame number. Names without one get index 0.
func splitFrameName(name string) (base string, index int) {
	base = strings.TrimSuffix(name, path.Ext(name))
	i := strings.LastIndexAny(base, "_-")
	if i <= 0 || i == len(base)-1 {
		return base, 0
	}
	n, err := strconv.Atoi(base[i+1:])
	if err != nil || n < 0 {
		return base, 0
	}
	return base[:i], n
}
