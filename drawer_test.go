package vision

import (
	"image"
	"slices"
	"testing"
)

type compositeCall struct {
	frame     *image.NRGBA
	translate Vec2
	scale     Vec2
	transform Transform
}

// recordingSurface records Composite calls instead of drawing.
type recordingSurface struct {
	transformStack
	calls []compositeCall
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{transformStack: newTransformStack()}
}

func (s *recordingSurface) Composite(frame *image.NRGBA, translate, scale Vec2) {
	s.calls = append(s.calls, compositeCall{frame, translate, scale, s.current})
}

func recordedDrawer(n int, speed float64) (*SpriteDrawer, *eventRecorder) {
	d := NewSpriteDrawer(testSprite(n).WithAnimationSpeed(speed))
	r := newRecorder(SelectAll())
	d.Listeners().Add(r)
	return d, r
}

// --- Animate ---

func TestAnimateWrapsWithOneCompletion(t *testing.T) {
	d, r := recordedDrawer(4, 2)
	d.SetFrameIndex(2)
	r.types = nil

	d.Animate(1.5) // 2 + 3 = 5, wraps to 1
	if d.FrameIndex() != 1 {
		t.Errorf("FrameIndex = %d, want 1", d.FrameIndex())
	}
	want := []AnimationEventType{FrameChanged, AnimationCompleted}
	if !slices.Equal(r.types, want) {
		t.Errorf("events = %v, want %v", r.types, want)
	}
}

func TestAnimateWrapPastStartFrameDoesNotComplete(t *testing.T) {
	d, r := recordedDrawer(4, 2)
	d.Animate(3) // 0 + 6 wraps to 2, ahead of where it started

	if d.FrameIndex() != 2 {
		t.Errorf("FrameIndex = %d, want 2", d.FrameIndex())
	}
	if !slices.Equal(r.types, []AnimationEventType{FrameChanged}) {
		t.Errorf("events = %v, want [FrameChanged]", r.types)
	}
}

func TestAnimateManyCyclesCompletesOnce(t *testing.T) {
	d, r := recordedDrawer(4, 10)
	d.SetFrameIndex(3)
	r.types = nil

	d.Animate(9.8) // 98 frames, lands on 1
	if r.count(AnimationCompleted) != 1 {
		t.Errorf("AnimationCompleted count = %d, want 1", r.count(AnimationCompleted))
	}
	if d.FrameIndex() != 1 {
		t.Errorf("FrameIndex = %d, want 1", d.FrameIndex())
	}
	if r.count(FrameChanged) != 1 {
		t.Errorf("FrameChanged count = %d, want 1", r.count(FrameChanged))
	}
}

func TestAnimateWrapToSameFrameIsSilent(t *testing.T) {
	tests := []struct {
		name   string
		frames int
		speed  float64
		start  float64
		dt     float64
		index  int
	}{
		{"single frame", 1, 1, 0, 1.5, 0},
		{"full cycle from mid frame", 4, 4, 3.5, 1, 3},
		{"backwards full cycle", 3, -3, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, r := recordedDrawer(tt.frames, tt.speed)
			d.SetFramePosition(tt.start)
			r.types = nil

			d.Animate(tt.dt)
			if d.FrameIndex() != tt.index {
				t.Errorf("FrameIndex = %d, want %d", d.FrameIndex(), tt.index)
			}
			if len(r.types) != 0 {
				t.Errorf("events = %v, want none", r.types)
			}
		})
	}
}

func TestAnimateWithinFrame(t *testing.T) {
	d, r := recordedDrawer(4, 1)
	d.Animate(0.5)
	assertNear(t, "FramePosition", d.FramePosition(), 0.5)
	if len(r.types) != 0 {
		t.Errorf("events = %v, want none", r.types)
	}
	d.Animate(0.5)
	if !slices.Equal(r.types, []AnimationEventType{FrameChanged}) {
		t.Errorf("events = %v, want [FrameChanged]", r.types)
	}
}

func TestAnimateBackwards(t *testing.T) {
	d, r := recordedDrawer(4, -1)
	d.Animate(1)
	if d.FrameIndex() != 3 {
		t.Errorf("FrameIndex = %d, want 3", d.FrameIndex())
	}
	want := []AnimationEventType{FrameChanged, AnimationCompleted}
	if !slices.Equal(r.types, want) {
		t.Errorf("events = %v, want %v", r.types, want)
	}
}

func TestAnimateNoSpriteOrZeroSpeed(t *testing.T) {
	d := NewSpriteDrawer(nil)
	d.Animate(1) // must not panic
	if d.FrameIndex() != 0 {
		t.Error("drawer without sprite moved")
	}

	d2, r := recordedDrawer(3, 0)
	d2.Animate(5)
	if d2.FramePosition() != 0 || len(r.types) != 0 {
		t.Error("zero speed drawer advanced")
	}
}

func TestAnimateWithSpeed(t *testing.T) {
	d, _ := recordedDrawer(5, 0)
	d.AnimateWithSpeed(1, 3)
	if d.FrameIndex() != 3 {
		t.Errorf("FrameIndex = %d, want 3", d.FrameIndex())
	}
}

func TestPositionAlwaysNormalized(t *testing.T) {
	d, _ := recordedDrawer(3, 1.7)
	for i := 0; i < 50; i++ {
		d.Animate(0.37 * float64(i%5-2))
		if p := d.FramePosition(); p < 0 || p >= 3 {
			t.Fatalf("step %d: position %v out of [0,3)", i, p)
		}
	}
}

// --- Speed ---

func TestSuspendResumeEvents(t *testing.T) {
	d, r := recordedDrawer(3, 2)
	d.SetAnimationSpeed(0)
	d.SetAnimationSpeed(0)
	d.SetAnimationSpeed(3)
	d.SetAnimationSpeed(4)

	want := []AnimationEventType{AnimationSuspended, AnimationResumed}
	if !slices.Equal(r.types, want) {
		t.Errorf("events = %v, want %v", r.types, want)
	}
	if !d.HasAnimationSpeedOverride() {
		t.Error("expected speed override")
	}
}

func TestResetAnimationSpeed(t *testing.T) {
	d, r := recordedDrawer(3, 2)
	d.SetAnimationSpeed(0)
	d.ResetAnimationSpeed()
	assertNear(t, "speed", d.AnimationSpeed(), 2)
	if d.HasAnimationSpeedOverride() {
		t.Error("override still set")
	}
	want := []AnimationEventType{AnimationSuspended, AnimationResumed}
	if !slices.Equal(r.types, want) {
		t.Errorf("events = %v, want %v", r.types, want)
	}
}

func TestSetAnimationDurationMillis(t *testing.T) {
	d, _ := recordedDrawer(4, 1)
	d.SetAnimationDurationMillis(500)
	assertNear(t, "speed", d.AnimationSpeed(), 8)
	d.SetAnimationDurationMillis(0)
	assertNear(t, "speed", d.AnimationSpeed(), 0)
}

// --- Frame index ---

func TestSetFrameIndexWraps(t *testing.T) {
	d, r := recordedDrawer(4, 1)
	d.SetFrameIndex(6)
	if d.FrameIndex() != 2 {
		t.Errorf("FrameIndex = %d, want 2", d.FrameIndex())
	}
	d.SetFrameIndex(-1)
	if d.FrameIndex() != 3 {
		t.Errorf("FrameIndex = %d, want 3", d.FrameIndex())
	}
	d.SetFrameIndex(3)
	if r.count(FrameChanged) != 2 {
		t.Errorf("FrameChanged count = %d, want 2", r.count(FrameChanged))
	}
}

func TestResetAnimation(t *testing.T) {
	d, r := recordedDrawer(4, 1)
	d.SetFrameIndex(2)
	d.ResetAnimation()
	if d.FramePosition() != 0 {
		t.Errorf("position = %v, want 0", d.FramePosition())
	}
	if r.types[len(r.types)-1] != AnimationReset {
		t.Errorf("last event = %v, want AnimationReset", r.types[len(r.types)-1])
	}
}

// --- SetSprite ---

func TestSetSpriteEventsAndPosition(t *testing.T) {
	d, r := recordedDrawer(5, 1)
	d.SetFrameIndex(4)
	r.types, r.events = nil, nil

	next := testSprite(3).WithAnimationSpeed(9)
	d.SetSprite(next, false)
	if d.FrameIndex() != 1 {
		t.Errorf("FrameIndex = %d, want 1", d.FrameIndex())
	}
	assertNear(t, "speed", d.AnimationSpeed(), 9)
	if !slices.Equal(r.types, []AnimationEventType{SpriteChanged}) {
		t.Errorf("events = %v, want [SpriteChanged]", r.types)
	}
	if r.events[0].Sprite != next {
		t.Error("SpriteChanged carries the old sprite")
	}

	r.types, r.events = nil, nil
	d.SetSprite(testSprite(2), true)
	want := []AnimationEventType{SpriteChanged, AnimationReset}
	if !slices.Equal(r.types, want) {
		t.Errorf("events = %v, want %v", r.types, want)
	}
	if d.FramePosition() != 0 {
		t.Error("reset did not rewind")
	}
}

func TestSetSpriteNilKeepsSpeed(t *testing.T) {
	d, _ := recordedDrawer(3, 5)
	d.SetSprite(nil, false)
	assertNear(t, "speed", d.AnimationSpeed(), 5)
	if d.FramePosition() != 0 {
		t.Errorf("position = %v, want 0", d.FramePosition())
	}
	d.SetSprite(testSprite(2).WithAnimationSpeed(7), false)
	assertNear(t, "speed", d.AnimationSpeed(), 7)
}

func TestSetSpriteKeepsSpeedOverride(t *testing.T) {
	d, _ := recordedDrawer(3, 1)
	d.SetAnimationSpeed(4)
	d.SetSprite(testSprite(3).WithAnimationSpeed(9), false)
	assertNear(t, "speed", d.AnimationSpeed(), 4)
}

// --- Filters ---

func TestApplyFilterCachesFrames(t *testing.T) {
	d, _ := recordedDrawer(3, 1)
	raw := d.Sprite().Frame(1)
	d.ApplyFilter(NewInvertFilter())

	got := d.Frame(1)
	if got == raw {
		t.Fatal("filtered frame is the raw frame")
	}
	if got.NRGBAAt(0, 0).R != 255-40 {
		t.Errorf("red = %d, want %d", got.NRGBAAt(0, 0).R, 255-40)
	}
	if d.Frame(1) != got {
		t.Error("cache was rebuilt on read")
	}
	if raw.NRGBAAt(0, 0).R != 40 {
		t.Error("sprite frame was modified")
	}
}

func TestRemoveFilters(t *testing.T) {
	d, _ := recordedDrawer(2, 1)
	inv := NewInvertFilter()
	lum := NewLuminosityFilter(0.5)
	d.ApplyFilter(inv)
	d.ApplyFilter(lum)

	if !d.RemoveFilter(inv) {
		t.Fatal("RemoveFilter(inv) = false")
	}
	if d.RemoveFilter(inv) {
		t.Error("second RemoveFilter(inv) = true")
	}
	// Only luminosity remains: red 40 -> 20.
	if got := d.Frame(1).NRGBAAt(0, 0).R; got != 20 {
		t.Errorf("red = %d, want 20", got)
	}

	if !d.RemoveLastFilter() {
		t.Fatal("RemoveLastFilter = false")
	}
	if d.RemoveLastFilter() {
		t.Error("RemoveLastFilter on empty stack = true")
	}
	if d.Frame(1) != d.Sprite().Frame(1) {
		t.Error("empty stack should expose raw frames")
	}
}

func TestClearFilters(t *testing.T) {
	d, _ := recordedDrawer(2, 1)
	d.ApplyFilter(NewInvertFilter())
	d.ClearFilters()
	if len(d.Filters()) != 0 || d.Frame(0) != d.Sprite().Frame(0) {
		t.Error("ClearFilters left filtered frames")
	}
}

func TestFiltersSurviveSpriteChange(t *testing.T) {
	d := NewSpriteDrawer(nil)
	d.ApplyFilter(NewInvertFilter())
	if d.Frame(0) != nil {
		t.Fatal("Frame without sprite should be nil")
	}
	d.SetSprite(testSprite(2), false)
	if got := d.Frame(1).NRGBAAt(0, 0).R; got != 255-40 {
		t.Errorf("red = %d, want %d", got, 255-40)
	}
}

// --- Origin ---

func TestOriginFallbacks(t *testing.T) {
	if got := NewSpriteDrawer(nil).Origin(); got != (Vec2{}) {
		t.Errorf("no-sprite Origin = %v, want zero", got)
	}
	s := testSprite(1).WithScaling(Vec2{2, 2})
	d := NewSpriteDrawer(s)
	assertVec(t, "sprite origin", d.Origin(), Vec2{4, 2})

	d.SetOrigin(Vec2{1, 1})
	if !d.HasOriginOverride() {
		t.Error("expected override")
	}
	assertVec(t, "override", d.Origin(), Vec2{1, 1})

	d.ClearOrigin()
	assertVec(t, "cleared", d.Origin(), Vec2{4, 2})

	d2 := NewSpriteDrawerWithOrigin(s, Vec2{-3, 5})
	assertVec(t, "constructor override", d2.Origin(), Vec2{-3, 5})
}

// --- Drawing ---

func TestDrawCompositesCurrentFrame(t *testing.T) {
	s := testSprite(3).WithScaling(Vec2{2, 3})
	d := NewSpriteDrawer(s)
	d.SetFrameIndex(2)
	surf := newRecordingSurface()

	if !d.Draw(surf) {
		t.Fatal("Draw = false")
	}
	c := surf.calls[0]
	if c.frame != s.Frame(2) {
		t.Error("composited the wrong frame")
	}
	assertVec(t, "translate", c.translate, Vec2{-4, -3})
	assertVec(t, "scale", c.scale, Vec2{2, 3})
}

func TestDrawFrameOriginPrecedence(t *testing.T) {
	d := NewSpriteDrawerWithOrigin(testSprite(2), Vec2{5, 5})
	surf := newRecordingSurface()
	d.DrawFrame(surf, 1, &Vec2{1, 2})
	d.DrawFrame(surf, 1, nil)
	assertVec(t, "explicit", surf.calls[0].translate, Vec2{-1, -2})
	assertVec(t, "drawer override", surf.calls[1].translate, Vec2{-5, -5})
}

func TestDrawWithoutSprite(t *testing.T) {
	surf := newRecordingSurface()
	if NewSpriteDrawer(nil).Draw(surf) {
		t.Error("Draw without sprite = true")
	}
	if len(surf.calls) != 0 {
		t.Error("surface was drawn to")
	}
}

func TestListenerCanSwapSprite(t *testing.T) {
	d, _ := recordedDrawer(2, 1)
	next := testSprite(5)
	d.Listeners().Add(ListenerFunc(SelectOnly(AnimationCompleted), func(e AnimationEvent) {
		e.Source.SetSprite(next, true)
	}))
	d.Animate(1)
	d.Animate(1)
	if d.Sprite() != next || d.FramePosition() != 0 {
		t.Error("sprite swap from listener did not take effect")
	}
}
