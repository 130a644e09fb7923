package vision

import (
	"fmt"
	"slices"
)

// QueueMode decides what a SpriteQueue does after its last sprite completes.
type QueueMode uint8

const (
	// QueueSingleUse plays the queue once and then detaches.
	QueueSingleUse QueueMode = iota
	// QueueLooping starts over from the first sprite.
	QueueLooping
	// QueueBringToEnd stays on the last sprite.
	QueueBringToEnd
)

// SpriteQueue plays a sequence of sprites on a drawer: each time the current
// sprite completes a cycle, the drawer switches to the next one and rewinds.
// A drawer whose sprite is not in the queue switches to the first sprite.
type SpriteQueue struct {
	mode    QueueMode
	sprites []*Sprite
	kill    bool
	dead    bool
	handles []ListenerHandle
}

// NewSpriteQueue creates a queue. Attach it to one or more drawers.
func NewSpriteQueue(mode QueueMode, sprites ...*Sprite) *SpriteQueue {
	return &SpriteQueue{mode: mode, sprites: slices.Clone(sprites)}
}

// Attach registers the queue as a listener on d.
func (q *SpriteQueue) Attach(d *SpriteDrawer) {
	if q.dead {
		return
	}
	q.handles = append(q.handles, d.Listeners().Add(q))
}

// Mode returns the queue's mode.
func (q *SpriteQueue) Mode() QueueMode { return q.mode }

// Append adds s to the end of the queue.
func (q *SpriteQueue) Append(s *Sprite) { q.sprites = append(q.sprites, s) }

// Remove drops the first occurrence of s. It reports whether s was queued.
func (q *SpriteQueue) Remove(s *Sprite) bool {
	i := slices.Index(q.sprites, s)
	if i < 0 {
		return false
	}
	q.sprites = slices.Delete(q.sprites, i, i+1)
	return true
}

// Len returns the number of queued sprites.
func (q *SpriteQueue) Len() int { return len(q.sprites) }

// KillOnceCompleted makes the queue detach after its last sprite completes,
// whatever its mode.
func (q *SpriteQueue) KillOnceCompleted() { q.kill = true }

// Dead reports whether the queue has finished and detached.
func (q *SpriteQueue) Dead() bool { return q.dead }

// AnimationEventSelector implements Listener.
func (q *SpriteQueue) AnimationEventSelector() Selector {
	return SelectOnly(AnimationCompleted)
}

// OnAnimationEvent implements Listener.
func (q *SpriteQueue) OnAnimationEvent(e AnimationEvent) {
	if q.dead || e.Source == nil {
		return
	}
	next := slices.Index(q.sprites, e.Sprite) + 1
	switch {
	case next < len(q.sprites):
		e.Source.SetSprite(q.sprites[next], true)
	case q.kill || q.mode == QueueSingleUse:
		q.die()
	case q.mode == QueueLooping && len(q.sprites) > 0:
		e.Source.SetSprite(q.sprites[0], true)
	}
}

func (q *SpriteQueue) die() {
	q.dead = true
	for _, h := range q.handles {
		h.Remove()
	}
	q.handles = nil
}

// --- SpriteSet ---

// SpriteSet binds a list of sprites to a drawer and switches between them by
// index or by key.
type SpriteSet struct {
	drawer  *SpriteDrawer
	sprites []*Sprite
	keys    map[string]int
	index   int
}

// NewSpriteSet shows the first sprite on d.
func NewSpriteSet(d *SpriteDrawer, sprites ...*Sprite) *SpriteSet {
	set := &SpriteSet{drawer: d, sprites: slices.Clone(sprites), keys: make(map[string]int)}
	if len(sprites) > 0 {
		d.SetSprite(sprites[0], false)
	}
	return set
}

// Drawer returns the bound drawer.
func (set *SpriteSet) Drawer() *SpriteDrawer { return set.drawer }

// Len returns the number of sprites.
func (set *SpriteSet) Len() int { return len(set.sprites) }

// Index returns the current sprite index.
func (set *SpriteSet) Index() int { return set.index }

// Bind names a sprite index.
func (set *SpriteSet) Bind(key string, index int) { set.keys[key] = index }

// SetIndex switches to sprite i, wrapping out-of-range values.
func (set *SpriteSet) SetIndex(i int, reset bool) {
	if len(set.sprites) == 0 {
		set.index = 0
		return
	}
	set.index = wrapIndex(i, len(set.sprites))
	set.drawer.SetSprite(set.sprites[set.index], reset)
}

// SetKey switches to the sprite bound to key.
func (set *SpriteSet) SetKey(key string, reset bool) error {
	i, ok := set.keys[key]
	if !ok {
		return fmt.Errorf("vision: sprite set key %q: %w", key, ErrNotFound)
	}
	set.SetIndex(i, reset)
	return nil
}

// Next switches to the following sprite.
func (set *SpriteSet) Next(reset bool) { set.SetIndex(set.index+1, reset) }

// Previous switches to the preceding sprite.
func (set *SpriteSet) Previous(reset bool) { set.SetIndex(set.index-1, reset) }
