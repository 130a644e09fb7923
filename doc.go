// Package vision is a 2D sprite animation library for [Ebitengine].
//
// Vision loads frame strips into immutable sprites, plays them back with
// drawers that emit animation events, applies pixel filters, and lays out
// isometric-style tile maps drawn back to front.
//
// # Quick start
//
// Load a strip, wrap it in a drawer, and animate it each tick:
//
//	sprite, err := vision.LoadSprite("hero_walk.png", 8, vision.SpriteOptions{})
//	if err != nil {
//		return err
//	}
//	hero := vision.NewSpriteDrawer(sprite)
//
//	surface := vision.NewEbitenSurface(nil, vision.SurfaceOptions{})
//
//	func (g *Game) Update() error {
//		hero.Animate(1.0 / 60)
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		surface.SetTarget(screen)
//		surface.Concat(vision.NewTransform(vision.Vec2{X: 100, Y: 80}, vision.Identity, 0))
//		hero.Draw(surface)
//		surface.Sweep()
//	}
//
// # Sprites and drawers
//
// A [Sprite] is an immutable list of equally sized frames with an origin,
// a scaling factor and a default speed in frames per second. Derivations such
// as [Sprite.WithSize], [Sprite.Reverse] and [Sprite.Filtered] return new
// sprites that share frame buffers where they can.
//
// A [SpriteDrawer] holds the mutable playback state: a fractional frame
// position, an optional speed and origin override, and a stack of filters
// whose results are cached per frame.
//
// # Events
//
// Drawers emit [AnimationEvent] values to listeners registered on
// [SpriteDrawer.Listeners]. A [Selector] restricts which event types a
// listener receives. [SpriteQueue] and [SpriteSet] are built on top of this
// to chain and switch sprites.
//
// # Filters
//
// [SharpnessFilter], [LuminosityFilter], [FunctionFilter] and [HSBFilter]
// operate on [image.NRGBA] frames and never modify their input.
//
// # Tile maps
//
// A [TileMap] sorts its placements into paint order. A [TileMapDrawer]
// resolves every tile against a [SpriteSource] such as [Banks] and draws the
// tiles relative to the map origin.
//
// # Records
//
// Sprites, tiles and tile maps convert to and from ordered attribute
// [Model] values, which encode as YAML or JSON with [MarshalElement] and
// [UnmarshalElement]. Sprite banks load from manifests and can be reloaded
// when a [BankWatcher] reports changes.
//
// Tweens (via [gween]) animate drawer speed, origin and frame position, and
// the ecs subpackage forwards animation events into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package vision
