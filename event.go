package vision

import "strings"

// AnimationEventType identifies a SpriteDrawer lifecycle event.
type AnimationEventType uint8

const (
	// FrameChanged fires when the integer frame index changes.
	FrameChanged AnimationEventType = iota
	// AnimationCompleted fires when playback wraps past the last frame onto
	// an earlier one (or past the first frame onto a later one when playing
	// backwards).
	AnimationCompleted
	// AnimationReset fires when the frame position is reset to 0.
	AnimationReset
	// AnimationSuspended fires when the speed changes from nonzero to zero.
	AnimationSuspended
	// AnimationResumed fires when the speed changes from zero to nonzero.
	AnimationResumed
	// SpriteChanged fires when the drawer's sprite is replaced.
	SpriteChanged

	animationEventTypeCount
)

var animationEventNames = [animationEventTypeCount]string{
	"FrameChanged",
	"AnimationCompleted",
	"AnimationReset",
	"AnimationSuspended",
	"AnimationResumed",
	"SpriteChanged",
}

func (t AnimationEventType) String() string {
	if t < animationEventTypeCount {
		return animationEventNames[t]
	}
	return "AnimationEventType(?)"
}

// AnimationEvent is delivered to listeners. Sprite is the drawer's sprite at
// the time of emission; for SpriteChanged it is the new sprite.
type AnimationEvent struct {
	Type   AnimationEventType
	Source *SpriteDrawer
	Sprite *Sprite
}

// Selector is a set of event types a listener wants to receive.
type Selector uint8

// SelectAll returns a selector accepting every event type.
func SelectAll() Selector {
	return Selector(1<<animationEventTypeCount - 1)
}

// SelectOnly returns a selector accepting exactly the given types.
func SelectOnly(types ...AnimationEventType) Selector {
	var s Selector
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

// SelectNoneOf returns a selector accepting every type except the given ones.
func SelectNoneOf(types ...AnimationEventType) Selector {
	return SelectAll() &^ SelectOnly(types...)
}

// Selects reports whether t is in the set.
func (s Selector) Selects(t AnimationEventType) bool {
	return t < animationEventTypeCount && s&(1<<t) != 0
}

func (s Selector) String() string {
	var names []string
	for t := AnimationEventType(0); t < animationEventTypeCount; t++ {
		if s.Selects(t) {
			names = append(names, t.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Listener receives animation events whose type its selector accepts.
type Listener interface {
	AnimationEventSelector() Selector
	OnAnimationEvent(e AnimationEvent)
}

type funcListener struct {
	selector Selector
	fn       func(AnimationEvent)
}

func (l *funcListener) AnimationEventSelector() Selector   { return l.selector }
func (l *funcListener) OnAnimationEvent(e AnimationEvent) { l.fn(e) }

// ListenerFunc adapts a plain function into a Listener.
func ListenerFunc(selector Selector, fn func(AnimationEvent)) Listener {
	return &funcListener{selector: selector, fn: fn}
}

// --- ListenerHandler ---

type listenerEntry struct {
	id       uint32
	listener Listener
	removed  bool
}

// ListenerHandler is an ordered list of listeners. Emit dispatches
// synchronously in registration order. Listeners may add or remove
// listeners during dispatch; removals take effect immediately but the slice
// is compacted only once dispatch unwinds, and listeners added during
// dispatch first receive the next event.
//
// A ListenerHandler is itself a Listener accepting every type, so handlers
// can be chained.
type ListenerHandler struct {
	entries []listenerEntry
	nextID  uint32
	depth   int  // nesting level of Emit
	dirty   bool // entries marked removed during dispatch
}

// ListenerHandle removes a registered listener.
type ListenerHandle struct {
	id uint32
	h  *ListenerHandler
}

// Add registers l and returns a handle for removing it. Adding the same
// listener twice delivers each event to it twice.
func (h *ListenerHandler) Add(l Listener) ListenerHandle {
	h.nextID++
	h.entries = append(h.entries, listenerEntry{id: h.nextID, listener: l})
	return ListenerHandle{id: h.nextID, h: h}
}

// Remove unregisters the listener. Removing twice is a no-op.
func (hd ListenerHandle) Remove() {
	if hd.h == nil {
		return
	}
	hd.h.remove(hd.id)
}

func (h *ListenerHandler) remove(id uint32) {
	for i := range h.entries {
		if h.entries[i].id != id || h.entries[i].removed {
			continue
		}
		if h.depth > 0 {
			h.entries[i].removed = true
			h.entries[i].listener = nil
			h.dirty = true
			return
		}
		h.entries = append(h.entries[:i], h.entries[i+1:]...)
		return
	}
}

// Len returns the number of registered listeners.
func (h *ListenerHandler) Len() int {
	n := 0
	for i := range h.entries {
		if !h.entries[i].removed {
			n++
		}
	}
	return n
}

// Emit delivers e to every listener whose selector accepts e.Type.
func (h *ListenerHandler) Emit(e AnimationEvent) {
	if len(h.entries) == 0 {
		return
	}
	h.depth++
	n := len(h.entries)
	for i := 0; i < n; i++ {
		entry := h.entries[i]
		if entry.removed || !entry.listener.AnimationEventSelector().Selects(e.Type) {
			continue
		}
		entry.listener.OnAnimationEvent(e)
	}
	h.depth--
	if h.depth == 0 && h.dirty {
		h.compact()
	}
}

func (h *ListenerHandler) compact() {
	kept := h.entries[:0]
	for _, entry := range h.entries {
		if !entry.removed {
			kept = append(kept, entry)
		}
	}
	clear(h.entries[len(kept):])
	h.entries = kept
	h.dirty = false
}

// AnimationEventSelector implements Listener.
func (h *ListenerHandler) AnimationEventSelector() Selector { return SelectAll() }

// OnAnimationEvent implements Listener by re-emitting e.
func (h *ListenerHandler) OnAnimationEvent(e AnimationEvent) { h.Emit(e) }
