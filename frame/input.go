package frame

// Key identifies a keyboard key independently of the host's key codes.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyA
	KeyD
	KeyQ
	KeyS
	KeyV
	KeyW
	KeySpace
	KeyHome
	KeyEscape
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	keyCount
)

var keyNames = [keyCount]string{
	"Unknown", "A", "D", "Q", "S", "V", "W", "Space", "Home", "Escape",
	"ArrowLeft", "ArrowRight", "ArrowUp", "ArrowDown",
}

func (k Key) String() string {
	if k >= keyCount {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}

// KeyState is the keyboard snapshot for one frame.
type KeyState struct {
	pressed      [keyCount]bool
	justPressed  [keyCount]bool
	justReleased [keyCount]bool
}

// IsPressed reports whether k is held this frame.
func (s *KeyState) IsPressed(k Key) bool { return k < keyCount && s.pressed[k] }

// JustPressed reports whether k went down this frame.
func (s *KeyState) JustPressed(k Key) bool { return k < keyCount && s.justPressed[k] }

// JustReleased reports whether k went up this frame.
func (s *KeyState) JustReleased(k Key) bool { return k < keyCount && s.justReleased[k] }

// apply replaces the snapshot with the keys held now and derives edges from
// the previous snapshot.
func (s *KeyState) apply(held []Key) {
	var now [keyCount]bool
	for _, k := range held {
		if k < keyCount {
			now[k] = true
		}
	}
	for k := range now {
		s.justPressed[k] = now[k] && !s.pressed[k]
		s.justReleased[k] = !now[k] && s.pressed[k]
	}
	s.pressed = now
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	buttonCount
)

// MouseState is the mouse snapshot for one frame. X and Y are window pixels.
type MouseState struct {
	X          float64
	Y          float64
	WheelDelta float64

	pressed  [buttonCount]bool
	clicked  [buttonCount]bool
	released [buttonCount]bool
}

// Pressed reports whether b is held this frame.
func (s *MouseState) Pressed(b MouseButton) bool { return b < buttonCount && s.pressed[b] }

// Clicked reports whether b went down this frame.
func (s *MouseState) Clicked(b MouseButton) bool { return b < buttonCount && s.clicked[b] }

// Released reports whether b went up this frame.
func (s *MouseState) Released(b MouseButton) bool { return b < buttonCount && s.released[b] }

// AnyClicked reports whether any button went down this frame.
func (s *MouseState) AnyClicked() bool {
	for b := range buttonCount {
		if s.clicked[b] {
			return true
		}
	}
	return false
}

// AnyReleased reports whether any button went up this frame.
func (s *MouseState) AnyReleased() bool {
	for b := range buttonCount {
		if s.released[b] {
			return true
		}
	}
	return false
}

func (s *MouseState) apply(in Input) {
	s.X, s.Y = in.MouseX, in.MouseY
	s.WheelDelta = in.Wheel
	var now [buttonCount]bool
	for _, b := range in.Buttons {
		if b < buttonCount {
			now[b] = true
		}
	}
	for b := range now {
		s.clicked[b] = now[b] && !s.pressed[b]
		s.released[b] = !now[b] && s.pressed[b]
	}
	s.pressed = now
}

// Input is what a host samples for one frame. Keys and Buttons list what is
// held right now; the driver derives press and release edges itself.
// Width and Height are ignored when zero.
type Input struct {
	DeltaTime float64
	Width     float64
	Height    float64
	Keys      []Key
	Buttons   []MouseButton
	MouseX    float64
	MouseY    float64
	Wheel     float64
}
