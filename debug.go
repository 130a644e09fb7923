package vision

import (
	"fmt"
	"os"
	"time"
)

// globalDebug enables diagnostic output on stderr. vision is single-threaded,
// so a plain bool is enough.
var globalDebug bool

// SetDebugMode enables or disables debug mode. When enabled, filter cache
// rebuilds, tile map drawer builds, and sprite bank misses are reported on
// stderr along with their timings.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// DebugMode reports whether debug mode is enabled.
func DebugMode() bool {
	return globalDebug
}

// cacheStats holds the metrics of a single filter cache rebuild.
type cacheStats struct {
	frames  int
	filters int
	elapsed time.Duration
}

// debugLogCache prints filter cache rebuild stats to stderr.
func debugLogCache(stats cacheStats) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[vision] filter cache: %d frames x %d filters in %v\n",
		stats.frames, stats.filters, stats.elapsed)
}

// debugLogTileMap prints tile map drawer build stats to stderr.
func debugLogTileMap(tiles int, elapsed time.Duration) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[vision] tile map: %d drawers built in %v\n", tiles, elapsed)
}

// debugLogMiss warns on stderr about an unresolved bank/sprite pair.
func debugLogMiss(bank, name string) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[vision] warning: sprite %q not found in bank %q\n", name, bank)
}
