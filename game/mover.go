package game

import "math"

// Mover integrates horizontal run speed and vertical jump speed for a
// two-way (left/right) controlled character. Speeds are world units per
// frame; accelerations are per second.
type Mover struct {
	Left  bool
	Right bool

	MaxSpeed float64
	MinSpeed float64
	Acc      float64
	Deacc    float64
	Speed    float64

	VerticalSpeed float64
	Gravity       float64
	JumpSpeed     float64

	InAir        bool
	DoubleJumped bool
}

func NewMover(maxSpeed, minSpeed, acc, deacc, gravity float64) *Mover {
	return &Mover{
		MaxSpeed:  maxSpeed,
		MinSpeed:  minSpeed,
		Acc:       acc,
		Deacc:     deacc,
		Gravity:   gravity,
		JumpSpeed: 5,
	}
}

// UpdateSpeed applies input, friction and gravity for one frame.
func (m *Mover) UpdateSpeed(dt float64) {
	steer := m.Left != m.Right
	switch {
	case !m.InAir && steer && m.Left:
		m.Speed = math.Min(m.Speed-m.Acc*dt, -m.MinSpeed)
	case !m.InAir && steer:
		m.Speed = math.Max(m.Speed+m.Acc*dt, m.MinSpeed)
	case !m.InAir:
		if m.Speed > 0 {
			m.Speed -= m.Deacc * dt
		} else if m.Speed < 0 {
			m.Speed += m.Deacc * dt
		}
		if math.Abs(m.Speed) < 0.1 {
			m.Speed = 0
		}
	case steer && m.Left:
		m.Speed -= m.Acc * dt
	case steer:
		m.Speed += m.Acc * dt
	}

	m.VerticalSpeed -= m.Gravity * dt
	m.Speed = math.Max(-m.MaxSpeed, math.Min(m.Speed, m.MaxSpeed))
}

// Jump starts a jump from the ground, or a single double jump mid-air.
func (m *Mover) Jump() {
	switch {
	case !m.InAir:
		m.VerticalSpeed += m.JumpSpeed
	case !m.DoubleJumped:
		m.DoubleJumped = true
		m.VerticalSpeed = m.JumpSpeed
	}
}

// Land stops the fall and re-arms the double jump.
func (m *Mover) Land() {
	m.VerticalSpeed = 0
	m.InAir = false
	m.DoubleJumped = false
}

// Clip picks the animation matching the current motion.
func (m *Mover) Clip() string {
	switch {
	case m.InAir && m.VerticalSpeed < 0:
		return ClipJumpFall
	case m.InAir && m.VerticalSpeed <= 0.5:
		return ClipJumpMidAir
	case m.InAir:
		return ClipJumpStart
	case m.Speed != 0:
		return ClipRun
	}
	return ClipIdle
}
