package vision

// TransformProvider supplies the transform a dependent drawer is drawn
// through, typically the world transform of whatever the drawer is attached
// to. It is queried on every draw.
type TransformProvider interface {
	Transform() Transform
}

// TransformFunc adapts a function into a TransformProvider.
type TransformFunc func() Transform

// Transform implements TransformProvider.
func (f TransformFunc) Transform() Transform { return f() }

// DependentDrawer draws a SpriteDrawer through the transform of a provider,
// so the sprite follows the provider without holding a reference to the
// provider's internals.
type DependentDrawer struct {
	Drawer   *SpriteDrawer
	Provider TransformProvider
}

// NewDependentDrawer binds d to p.
func NewDependentDrawer(d *SpriteDrawer, p TransformProvider) *DependentDrawer {
	return &DependentDrawer{Drawer: d, Provider: p}
}

// Animate forwards to the wrapped drawer.
func (dd *DependentDrawer) Animate(dt float64) {
	if dd.Drawer != nil {
		dd.Drawer.Animate(dt)
	}
}

// Draw saves the surface state, concatenates the provider's transform, draws
// the wrapped drawer and restores the state.
func (dd *DependentDrawer) Draw(surface Surface) bool {
	if dd.Drawer == nil {
		return false
	}
	surface.Save()
	defer surface.Restore()
	if dd.Provider != nil {
		surface.Concat(dd.Provider.Transform())
	}
	return dd.Drawer.Draw(surface)
}
