package vision

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	Seconds float64 `yaml:"seconds,omitempty"`
	Frame   int     `yaml:"frame,omitempty"`
	Speed   float64 `yaml:"speed,omitempty"`
	Ticks   int     `yaml:"ticks,omitempty"`
}

// script is the top-level structure for a playback script.
type script struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner plays a scripted sequence of drawer actions, one per tick, for
// automated visual checks of animations. Supported actions:
//
//	animate   advance by seconds
//	frame     jump to frame
//	speed     override the speed
//	reset     rewind to frame 0
//	wait      do nothing for ticks
//	snapshot  write the current frame to Dir as label_<time>.png
type ScriptRunner struct {
	// Dir receives snapshots. It defaults to "snapshots".
	Dir string

	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	snapshots []string
}

// LoadScript parses a YAML or JSON playback script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vision: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("vision: parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "animate", "frame", "speed", "reset", "wait", "snapshot":
		default:
			return nil, fmt.Errorf("vision: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{Dir: "snapshots", steps: s.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Snapshots returns the paths written so far.
func (r *ScriptRunner) Snapshots() []string { return r.snapshots }

// Step executes the next action against d. Call it once per tick.
func (r *ScriptRunner) Step(d *SpriteDrawer) error {
	if r.done {
		return nil
	}
	// Count down wait ticks.
	if r.waitCount > 0 {
		r.waitCount--
		r.finishIfDone()
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "animate":
		d.Animate(st.Seconds)
	case "frame":
		d.SetFrameIndex(st.Frame)
	case "speed":
		d.SetAnimationSpeed(st.Speed)
	case "reset":
		d.ResetAnimation()
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	case "snapshot":
		err = r.snapshot(d, st.Label)
	}

	r.finishIfDone()
	return err
}

func (r *ScriptRunner) finishIfDone() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) snapshot(d *SpriteDrawer, label string) error {
	f := d.CurrentFrame()
	if f == nil {
		return nil
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(r.Dir, fmt.Sprintf("%s_%s.png", sanitizeLabel(label), stamp))
	if err := encodePNG(path, f); err != nil {
		return fmt.Errorf("vision: snapshot: %w", err)
	}
	r.snapshots = append(r.snapshots, path)
	return nil
}
