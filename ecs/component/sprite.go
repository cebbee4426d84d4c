package component

// LoopMode overrides a clip's loop flag for one sprite.
type LoopMode uint8

const (
	LoopDefault LoopMode = iota
	LoopOn
	LoopOff
)

// Sprite is one animated sprite instance. X and Y are the center.
type Sprite struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	// Depth orders drawing only; larger is farther away.
	Depth float64

	Clip     ClipID
	ClipName string
	Frame    int
	// Elapsed is the time spent on the current frame.
	Elapsed float64

	FlipX    bool
	FlipY    bool
	Paused   bool
	Reversed bool
	Loop     LoopMode
	// Finished is set when a non-looping clip reaches its end. It halts the
	// sprite in place of the paused mark, so Paused stays false and a later
	// ChangeState resumes playback.
	Finished bool
}

// Looping reports whether the sprite wraps at the end of def.
func (s *Sprite) Looping(def ClipDef) bool {
	switch s.Loop {
	case LoopOn:
		return true
	case LoopOff:
		return false
	}
	return def.Loop
}

// Backward reports whether the sprite currently steps frames downward.
func (s *Sprite) Backward(def ClipDef) bool {
	return def.Reverse != s.Reversed
}

// Halted reports whether the animation advance should skip the sprite.
func (s *Sprite) Halted() bool {
	return s.Paused || s.Finished
}
