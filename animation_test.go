package vision

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenOriginReachesTarget(t *testing.T) {
	d := NewSpriteDrawerWithOrigin(testSprite(2), Vec2{10, 20})

	g := TweenOrigin(d, Vec2{100, 200}, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	o := d.Origin()
	if math.Abs(o.X-100) > 0.5 || math.Abs(o.Y-200) > 0.5 {
		t.Errorf("Origin = %+v, want ~(100, 200)", o)
	}
}

func TestTweenAnimationSpeedEmitsSuspend(t *testing.T) {
	d, r := recordedDrawer(3, 4)

	g := TweenAnimationSpeed(d, 0, 0.5, ease.Linear)
	g.Update(0.25)
	if math.Abs(d.AnimationSpeed()-2) > 0.01 {
		t.Errorf("speed = %f, want ~2", d.AnimationSpeed())
	}
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if d.AnimationSpeed() != 0 {
		t.Errorf("speed = %f, want 0", d.AnimationSpeed())
	}
	if r.count(AnimationSuspended) != 1 {
		t.Errorf("AnimationSuspended count = %d, want 1", r.count(AnimationSuspended))
	}
}

func TestTweenFramePosition(t *testing.T) {
	d, r := recordedDrawer(8, 0)
	g := TweenFramePosition(d, 6, 1.0, ease.Linear)
	for i := 0; i < 4; i++ {
		g.Update(0.25)
	}
	if d.FrameIndex() != 6 {
		t.Errorf("FrameIndex = %d, want 6", d.FrameIndex())
	}
	if r.count(FrameChanged) != 4 {
		t.Errorf("FrameChanged count = %d, want 4", r.count(FrameChanged))
	}
}

func TestTweenTileMapOrigin(t *testing.T) {
	m := NewTileMap([]TilePlacement{placement(4, 4, "rock")}, Vec2{})
	td, err := NewTileMapDrawer(m, testBanks())
	if err != nil {
		t.Fatal(err)
	}
	g := TweenTileMapOrigin(td, Vec2{10, -10}, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	got := td.Drawers()[0].Origin()
	if math.Abs(got.X-6) > 0.01 || math.Abs(got.Y+14) > 0.01 {
		t.Errorf("drawer origin = %+v, want ~(6, -14)", got)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	d := NewSpriteDrawer(testSprite(2))
	g := TweenOrigin(d, Vec2{50, 50}, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}

	// Partway through, not done.
	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}

	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}

	// Update after done is a no-op.
	d.SetOrigin(Vec2{})
	g.Update(0.1)
	if d.Origin() != (Vec2{}) {
		t.Error("finished group wrote to the drawer")
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	dL := NewSpriteDrawerWithOrigin(testSprite(1), Vec2{})
	dC := NewSpriteDrawerWithOrigin(testSprite(1), Vec2{})

	gL := TweenOrigin(dL, Vec2{100, 0}, 1.0, ease.Linear)
	gC := TweenOrigin(dC, Vec2{100, 0}, 1.0, ease.OutCubic)

	gL.Update(0.5)
	gC.Update(0.5)

	// OutCubic should be ahead of linear at midpoint.
	if math.Abs(dL.Origin().X-dC.Origin().X) < 1.0 {
		t.Errorf("easing curves should differ at midpoint: linear=%f cubic=%f", dL.Origin().X, dC.Origin().X)
	}
}

func TestTweenGroupUpdateZeroAlloc(t *testing.T) {
	d := NewSpriteDrawer(testSprite(2))
	g := TweenOrigin(d, Vec2{100, 100}, 1.0, ease.Linear)

	g.Update(0.01)

	result := testing.AllocsPerRun(100, func() {
		g.Update(0.001)
	})
	if result > 0 {
		t.Errorf("TweenGroup.Update allocated %f times per run, want 0", result)
	}
}
