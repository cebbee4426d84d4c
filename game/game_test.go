package game

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/frame"
	"github.com/milk9111/spritecore/prefabs"
	"github.com/milk9111/spritecore/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

var window = frame.Window{Width: 800, Height: 600, HeightResolution: 64}

func startGame(t *testing.T) (*frame.Driver, *Game) {
	t.Helper()
	defs, err := prefabs.LoadClips("clips.yaml")
	require.NoError(t, err)
	lib, err := sprite.NewLibrary(defs...)
	require.NoError(t, err)

	g := New(64, 256, WithRand(rand.New(rand.NewPCG(1, 2))))
	d := frame.New(frame.Config{
		Clips:    lib,
		Setup:    g.Setup,
		Update:   g.Update,
		Teardown: g.Teardown,
	})
	require.NoError(t, d.Start(window))
	return d, g
}

func step(t *testing.T, d *frame.Driver, in frame.Input) bool {
	t.Helper()
	if in.DeltaTime == 0 {
		in.DeltaTime = dt
	}
	closed, err := d.Step(in)
	require.NoError(t, err)
	return closed
}

func playerSprite(t *testing.T, d *frame.Driver) ecs.Handle {
	t.Helper()
	return ecs.MustReadState[Player](d.Table()).Sprite
}

func TestSetupSeedsWorld(t *testing.T) {
	d, _ := startGame(t)
	assert.Equal(t, 2, d.Pool().Len())
	assert.Equal(t, 2, d.Collisions().Len())

	p := ecs.MustReadState[Player](d.Table())
	rh, ok := d.Collisions().RectFor(p.Sprite)
	assert.True(t, ok)
	assert.Equal(t, p.Rect, rh)
}

func TestSetupRequiresCoreStates(t *testing.T) {
	err := New(64, 256).Setup(ecs.NewTable())
	assert.ErrorIs(t, err, ecs.ErrNotFound)
}

func TestSetupRequiresClips(t *testing.T) {
	g := New(64, 256)
	d := frame.New(frame.Config{Setup: g.Setup})
	assert.ErrorIs(t, d.Start(window), ecs.ErrUnknownClip)
}

func TestPlayerLandsOnFloor(t *testing.T) {
	d, _ := startGame(t)
	s, err := d.Pool().Sprite(playerSprite(t, d))
	require.NoError(t, err)
	mover := ecs.MustReadState[Mover](d.Table())

	s.Y = -15.9
	mover.VerticalSpeed = -5
	mover.InAir = true

	step(t, d, frame.Input{DeltaTime: 0.1})

	assert.Equal(t, FloorLevel, s.Y)
	assert.Zero(t, mover.VerticalSpeed)
	assert.False(t, mover.InAir)
	assert.Equal(t, ClipIdle, s.ClipName)

	r, err := d.Collisions().Rect(ecs.MustReadState[Player](d.Table()).Rect)
	require.NoError(t, err)
	assert.Equal(t, FloorLevel, r.Y, "rect follows the clamp")
}

func TestPlayerFallsFromSpawn(t *testing.T) {
	d, _ := startGame(t)
	mover := ecs.MustReadState[Mover](d.Table())
	for range 120 {
		step(t, d, frame.Input{})
	}
	s, err := d.Pool().Sprite(playerSprite(t, d))
	require.NoError(t, err)
	assert.Equal(t, FloorLevel, s.Y)
	assert.False(t, mover.InAir)
}

func TestJumpAndDoubleJump(t *testing.T) {
	d, _ := startGame(t)
	mover := ecs.MustReadState[Mover](d.Table())
	for range 120 {
		step(t, d, frame.Input{})
	}
	require.False(t, mover.InAir)

	space := frame.Input{Keys: []frame.Key{frame.KeySpace}}
	step(t, d, space)
	assert.True(t, mover.InAir)
	assert.False(t, mover.DoubleJumped)
	assert.InDelta(t, 5-9.8*dt, mover.VerticalSpeed, 1e-9)
	s, err := d.Pool().Sprite(playerSprite(t, d))
	require.NoError(t, err)
	assert.Equal(t, ClipJumpStart, s.ClipName)

	step(t, d, frame.Input{})
	step(t, d, space)
	assert.True(t, mover.DoubleJumped)
	assert.InDelta(t, 5-9.8*dt, mover.VerticalSpeed, 1e-9)

	// a third press mid-air does nothing
	step(t, d, frame.Input{})
	before := mover.VerticalSpeed
	step(t, d, space)
	assert.InDelta(t, before-9.8*dt, mover.VerticalSpeed, 1e-9)
}

func TestRunningFlipsSprite(t *testing.T) {
	d, _ := startGame(t)
	for range 120 {
		step(t, d, frame.Input{})
	}
	s, err := d.Pool().Sprite(playerSprite(t, d))
	require.NoError(t, err)
	x := s.X

	step(t, d, frame.Input{Keys: []frame.Key{frame.KeyA}})
	assert.Less(t, s.X, x)
	assert.True(t, s.FlipX)
	assert.Equal(t, ClipRun, s.ClipName)

	for range 3 {
		step(t, d, frame.Input{Keys: []frame.Key{frame.KeyD}})
	}
	assert.False(t, s.FlipX)
}

func TestMinionsSpawnAndClear(t *testing.T) {
	d, _ := startGame(t)
	left := []frame.MouseButton{frame.MouseLeft}

	step(t, d, frame.Input{Buttons: left, MouseX: 400, MouseY: 300})
	step(t, d, frame.Input{})
	step(t, d, frame.Input{Buttons: left, MouseX: 600, MouseY: 100})
	step(t, d, frame.Input{})

	minions := ecs.MustReadState[Minions](d.Table())
	require.Len(t, minions.Handles, 2)
	assert.Equal(t, 4, d.Pool().Len())

	m, err := d.Pool().Sprite(minions.Handles[0])
	require.NoError(t, err)
	assert.Equal(t, minionDepth, m.Depth)
	assert.InDelta(t, 0, m.X, 1e-9)
	assert.InDelta(t, 0, m.Y, 0.001)
	assert.Equal(t, 2, d.Collisions().Len(), "minions have no rects")

	step(t, d, frame.Input{Keys: []frame.Key{frame.KeyV}})
	assert.Equal(t, 2, d.Pool().Len())
	assert.Empty(t, ecs.MustReadState[Minions](d.Table()).Handles)
	_, err = d.Pool().Sprite(minions.Handles[0])
	assert.ErrorIs(t, err, ecs.ErrNotFound)
}

func TestCameraDragAndZoom(t *testing.T) {
	d, _ := startGame(t)
	u := d.Uniform()
	middle := []frame.MouseButton{frame.MouseMiddle}

	step(t, d, frame.Input{Buttons: middle, MouseX: 400, MouseY: 300})
	assert.InDelta(t, 0, u.GlobalOffsetX, 1e-9)
	step(t, d, frame.Input{Buttons: middle, MouseX: 500, MouseY: 300})
	assert.Greater(t, u.GlobalOffsetX, 0.0)
	assert.InDelta(t, 0, u.GlobalOffsetY, 1e-9)
	step(t, d, frame.Input{})
	assert.Equal(t, ClickPos{}, *ecs.MustReadState[ClickPos](d.Table()))

	step(t, d, frame.Input{Wheel: -1})
	assert.InDelta(t, 64*1.10, u.HeightResolution, 1e-9)
	for range 50 {
		step(t, d, frame.Input{Wheel: -1})
	}
	assert.Equal(t, 256.0, u.HeightResolution)
	for range 50 {
		step(t, d, frame.Input{Wheel: 1})
	}
	assert.Equal(t, 64.0, u.HeightResolution)

	// zoom is ignored while dragging
	step(t, d, frame.Input{Buttons: middle, Wheel: -1})
	assert.Equal(t, 64.0, u.HeightResolution)
}

func TestHomeJittersCamera(t *testing.T) {
	d, _ := startGame(t)
	u := d.Uniform()
	step(t, d, frame.Input{Keys: []frame.Key{frame.KeyHome}})
	assert.NotZero(t, u.GlobalOffsetX)
	assert.LessOrEqual(t, u.GlobalOffsetX, 1.0)
	assert.GreaterOrEqual(t, u.GlobalOffsetX, -1.0)
}

func TestQuitClosesLoop(t *testing.T) {
	defs, err := prefabs.LoadClips("clips.yaml")
	require.NoError(t, err)
	lib, err := sprite.NewLibrary(defs...)
	require.NoError(t, err)
	g := New(64, 256)
	var frames int
	d := frame.New(frame.Config{
		Clips: lib,
		Setup: g.Setup,
		Update: func(tb *ecs.Table) error {
			frames++
			return g.Update(tb)
		},
		Teardown: g.Teardown,
	})
	script := frame.Script{{DeltaTime: dt}, {DeltaTime: dt, Keys: []frame.Key{frame.KeyQ}}, {DeltaTime: dt}}
	require.NoError(t, d.Run(context.Background(), window, &script))
	assert.Equal(t, 2, frames)
}

func TestMoverUpdateSpeed(t *testing.T) {
	m := NewMover(3, 2, 5, 10, 9.8)

	m.Right = true
	m.UpdateSpeed(0.1)
	assert.Equal(t, 2.0, m.Speed, "ground start snaps to min speed")
	for range 100 {
		m.UpdateSpeed(0.1)
	}
	assert.Equal(t, 3.0, m.Speed, "clamped to max speed")

	m.Right = false
	m.UpdateSpeed(0.1)
	assert.InDelta(t, 2.0, m.Speed, 1e-9)
	for range 30 {
		m.UpdateSpeed(0.1)
	}
	assert.Zero(t, m.Speed, "friction stops the mover")

	m.InAir = true
	m.Left = true
	m.UpdateSpeed(0.1)
	assert.InDelta(t, -0.5, m.Speed, 1e-9, "no min speed snap in the air")
}

func TestMoverClip(t *testing.T) {
	cases := []struct {
		name  string
		mover Mover
		want  string
	}{
		{"idle", Mover{}, ClipIdle},
		{"run", Mover{Speed: -1}, ClipRun},
		{"rising", Mover{InAir: true, VerticalSpeed: 3}, ClipJumpStart},
		{"apex", Mover{InAir: true, VerticalSpeed: 0.4}, ClipJumpMidAir},
		{"apex_zero", Mover{InAir: true}, ClipJumpMidAir},
		{"falling", Mover{InAir: true, VerticalSpeed: -0.1}, ClipJumpFall},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.mover.Clip())
		})
	}
}
