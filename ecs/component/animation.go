package component

import (
	"errors"
	"fmt"
)

// ClipID is the load-time resolution of a clip name.
type ClipID uint64

// ClipDef is a named, read-only animation template shared by every sprite
// that plays it.
type ClipDef struct {
	Name       string
	FrameCount int
	// FrameDuration is the time each frame is shown, in seconds. Zero means
	// the clip never advances on its own.
	FrameDuration float64
	// Durations overrides FrameDuration per frame when non-empty.
	Durations []float64
	Loop      bool
	// Reverse makes the clip play from the last frame towards the first.
	Reverse bool
	FrameW  float64
	FrameH  float64
	// Sheet coordinates, only meaningful to hosts that slice a sprite sheet.
	Row      int
	ColStart int
}

var (
	errNoName       = errors.New("component: clip has no name")
	errNoFrames     = errors.New("component: clip has no frames")
	errBadDuration  = errors.New("component: negative frame duration")
	errDurationsLen = errors.New("component: durations length does not match frame count")
)

// Validate checks the definition is usable.
func (d ClipDef) Validate() error {
	switch {
	case d.Name == "":
		return errNoName
	case d.FrameCount <= 0:
		return fmt.Errorf("%w: %s", errNoFrames, d.Name)
	case d.FrameDuration < 0:
		return fmt.Errorf("%w: %s", errBadDuration, d.Name)
	case len(d.Durations) > 0 && len(d.Durations) != d.FrameCount:
		return fmt.Errorf("%w: %s has %d, want %d", errDurationsLen, d.Name, len(d.Durations), d.FrameCount)
	}
	for i, dur := range d.Durations {
		if dur < 0 {
			return fmt.Errorf("%w: %s frame %d", errBadDuration, d.Name, i)
		}
	}
	return nil
}

// Duration returns how long frame is shown.
func (d ClipDef) Duration(frame int) float64 {
	if len(d.Durations) > 0 && frame >= 0 && frame < len(d.Durations) {
		return d.Durations[frame]
	}
	return d.FrameDuration
}

// LastFrame returns the index of the final frame.
func (d ClipDef) LastFrame() int {
	if d.FrameCount <= 0 {
		return 0
	}
	return d.FrameCount - 1
}
