package vision

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDebugModeToggle(t *testing.T) {
	if DebugMode() {
		t.Fatal("debug mode should be off by default")
	}
	SetDebugMode(true)
	if !DebugMode() {
		t.Error("SetDebugMode(true) did not enable debug mode")
	}
	SetDebugMode(false)
	if DebugMode() {
		t.Error("SetDebugMode(false) did not disable debug mode")
	}
}

func TestDebugLogsFilterCache(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	d := NewSpriteDrawer(testSprite(3))
	out := captureStderr(t, func() {
		d.ApplyFilter(NewInvertFilter())
	})
	if !strings.Contains(out, "[vision] filter cache: 3 frames x 1 filters") {
		t.Errorf("stderr = %q", out)
	}
}

func TestDebugLogsTileMap(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)

	m := NewTileMap([]TilePlacement{placement(0, 0, "rock"), placement(8, 0, "grass")}, Vec2{})
	out := captureStderr(t, func() {
		if _, err := NewTileMapDrawer(m, testBanks()); err != nil {
			t.Error(err)
		}
	})
	if !strings.Contains(out, "[vision] tile map: 2 drawers built") {
		t.Errorf("stderr = %q", out)
	}
}

func TestDebugOffIsSilent(t *testing.T) {
	SetDebugMode(false)
	out := captureStderr(t, func() {
		d := NewSpriteDrawer(testSprite(2))
		d.ApplyFilter(NewBlurFilter())
		_, _ = testBanks().Sprite("ground", "lava")
	})
	if out != "" {
		t.Errorf("stderr = %q, want nothing", out)
	}
}
