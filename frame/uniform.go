package frame

// Uniform is the per-frame camera and timing state handed to the client.
// HeightResolution is half the visible world height; GlobalOffsetX/Y pan
// the camera.
type Uniform struct {
	DeltaTime        float64
	WindowWidth      float64
	WindowHeight     float64
	HeightResolution float64
	GlobalOffsetX    float64
	GlobalOffsetY    float64
	Frame            uint64
}

// Window describes the host surface at startup.
type Window struct {
	Width            float64
	Height           float64
	HeightResolution float64
}

// Relative converts a window pixel position into camera space, with y up
// and the window center at the origin.
func (u *Uniform) Relative(px, py float64) (float64, float64) {
	if u.WindowWidth <= 0 || u.WindowHeight <= 0 {
		return 0, 0
	}
	ratio := u.WindowHeight / u.WindowWidth
	x := (px/(u.WindowWidth*0.5) - 1) * u.HeightResolution / ratio
	y := (1 - py/(u.WindowHeight*0.5)) * u.HeightResolution
	return x, y
}

// ScreenToWorld converts a window pixel position into world space.
func (u *Uniform) ScreenToWorld(px, py float64) (float64, float64) {
	x, y := u.Relative(px, py)
	return x - u.GlobalOffsetX, y - u.GlobalOffsetY
}

// WorldToScreen is the inverse of ScreenToWorld.
func (u *Uniform) WorldToScreen(wx, wy float64) (float64, float64) {
	if u.HeightResolution <= 0 {
		return 0, 0
	}
	scale := u.Scale()
	x := (wx+u.GlobalOffsetX)*scale + u.WindowWidth*0.5
	y := u.WindowHeight*0.5 - (wy+u.GlobalOffsetY)*scale
	return x, y
}

// Scale returns window pixels per world unit.
func (u *Uniform) Scale() float64 {
	if u.HeightResolution <= 0 {
		return 0
	}
	return u.WindowHeight / (2 * u.HeightResolution)
}

// RunningState tells the driver whether to keep stepping frames.
type RunningState uint8

const (
	Running RunningState = iota
	Closed
)

// Close asks the driver to stop after the current frame.
func (r *RunningState) Close() { *r = Closed }

func (r RunningState) String() string {
	if r == Closed {
		return "closed"
	}
	return "running"
}
