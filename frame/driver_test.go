package frame

import (
	"context"
	"errors"
	"testing"

	"github.com/milk9111/spritecore/collision"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
	"github.com/milk9111/spritecore/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWindow = Window{Width: 800, Height: 600, HeightResolution: 64}

func testLibrary(t *testing.T) *sprite.Library {
	t.Helper()
	lib, err := sprite.NewLibrary(component.ClipDef{Name: "idle", FrameCount: 2, FrameDuration: 0.5, Loop: true, FrameW: 32, FrameH: 32})
	require.NoError(t, err)
	return lib
}

func TestDriverPhaseOrder(t *testing.T) {
	var setups, updates, teardowns int
	d := New(Config{
		Clips:    testLibrary(t),
		Setup:    func(*ecs.Table) error { setups++; return nil },
		Update:   func(*ecs.Table) error { updates++; return nil },
		Teardown: func(*ecs.Table) error { teardowns++; return nil },
	})
	assert.NotEmpty(t, d.ID())

	_, err := d.Step(Input{})
	assert.ErrorIs(t, err, ErrPhase)
	assert.ErrorIs(t, d.Stop(), ErrPhase)

	require.NoError(t, d.Start(testWindow))
	assert.ErrorIs(t, d.Start(testWindow), ErrPhase)

	for range 3 {
		closed, err := d.Step(Input{DeltaTime: 1.0 / 60})
		require.NoError(t, err)
		assert.False(t, closed)
	}
	require.NoError(t, d.Stop())
	assert.ErrorIs(t, d.Stop(), ErrPhase)
	_, err = d.Step(Input{})
	assert.ErrorIs(t, err, ErrPhase)

	assert.Equal(t, 1, setups)
	assert.Equal(t, 3, updates)
	assert.Equal(t, 1, teardowns)
	assert.Equal(t, uint64(3), d.Uniform().Frame)
}

func TestDriverInjectsStates(t *testing.T) {
	d := New(Config{
		Clips: testLibrary(t),
		Setup: func(tb *ecs.Table) error {
			return ecs.RequireStates(tb,
				ecs.Expect[sprite.Pool](),
				ecs.Expect[collision.Manager](),
				ecs.Expect[Uniform](),
				ecs.Expect[KeyState](),
				ecs.Expect[MouseState](),
				ecs.Expect[RunningState](),
			)
		},
	})
	require.NoError(t, d.Start(testWindow))
	assert.Same(t, d.Pool(), ecs.MustReadState[sprite.Pool](d.Table()))
	assert.Same(t, d.Collisions(), ecs.MustReadState[collision.Manager](d.Table()))
	assert.Equal(t, 64.0, d.Uniform().HeightResolution)
}

func TestDriverSetupFailure(t *testing.T) {
	type missing struct{}
	d := New(Config{
		Setup: func(tb *ecs.Table) error {
			return ecs.RequireStates(tb, ecs.Expect[missing]())
		},
		Teardown: func(*ecs.Table) error {
			t.Fatal("teardown after failed setup")
			return nil
		},
	})
	err := d.Start(testWindow)
	require.ErrorIs(t, err, ecs.ErrNotFound)
	assert.Contains(t, err.Error(), "missing")

	_, err = d.Step(Input{})
	assert.ErrorIs(t, err, ErrPhase)
	assert.ErrorIs(t, d.Stop(), ErrPhase)
}

func TestDriverInputEdges(t *testing.T) {
	var seen []string
	d := New(Config{
		Update: func(tb *ecs.Table) error {
			keys := ecs.MustReadState[KeyState](tb)
			mouse := ecs.MustReadState[MouseState](tb)
			switch {
			case keys.JustPressed(KeySpace):
				seen = append(seen, "space down")
			case keys.JustReleased(KeySpace):
				seen = append(seen, "space up")
			case keys.IsPressed(KeySpace):
				seen = append(seen, "space held")
			}
			if mouse.Clicked(MouseLeft) {
				seen = append(seen, "left click")
			}
			if mouse.Released(MouseLeft) {
				seen = append(seen, "left release")
			}
			return nil
		},
	})
	script := Script{
		{Keys: []Key{KeySpace}, Buttons: []MouseButton{MouseLeft}},
		{Keys: []Key{KeySpace}, Buttons: []MouseButton{MouseLeft}},
		{},
		{Keys: []Key{KeyUnknown + 200}},
	}
	require.NoError(t, d.Run(context.Background(), testWindow, &script))
	assert.Equal(t, []string{"space down", "left click", "space held", "space up", "left release"}, seen)
}

func TestDriverRunStopsWhenClosed(t *testing.T) {
	var updates, teardowns int
	d := New(Config{
		Update: func(tb *ecs.Table) error {
			updates++
			if ecs.MustReadState[KeyState](tb).JustPressed(KeyQ) {
				ecs.MustReadState[RunningState](tb).Close()
			}
			return nil
		},
		Teardown: func(*ecs.Table) error { teardowns++; return nil },
	})
	script := Script{{}, {Keys: []Key{KeyQ}}, {}, {}}
	require.NoError(t, d.Run(context.Background(), testWindow, &script))
	assert.Equal(t, 2, updates, "no frame runs after close")
	assert.Equal(t, 1, teardowns)
	assert.Len(t, script, 2)
}

func TestDriverEscalatesUpdateError(t *testing.T) {
	boom := errors.New("boom")
	var teardowns int
	d := New(Config{
		Update:   func(*ecs.Table) error { return boom },
		Teardown: func(*ecs.Table) error { teardowns++; return nil },
	})
	script := Script{{}, {}}
	err := d.Run(context.Background(), testWindow, &script)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, teardowns)
}

func TestDriverRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var updates int
	d := New(Config{Update: func(*ecs.Table) error { updates++; return nil }})
	script := Script{{}, {}}
	err := d.Run(ctx, testWindow, &script)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, updates)
}

func TestDriverAdvancesAnimationAfterUpdate(t *testing.T) {
	var h ecs.Handle
	var framesSeenByUpdate []int
	d := New(Config{
		Clips: testLibrary(t),
		Setup: func(tb *ecs.Table) error {
			var err error
			h, _, err = ecs.MustReadState[sprite.Pool](tb).AddSprite("idle", 0, 0, 0)
			return err
		},
		Update: func(tb *ecs.Table) error {
			s, err := ecs.MustReadState[sprite.Pool](tb).Sprite(h)
			if err != nil {
				return err
			}
			framesSeenByUpdate = append(framesSeenByUpdate, s.Frame)
			return nil
		},
	})
	script := Script{{DeltaTime: 0.3}, {DeltaTime: 0.3}, {DeltaTime: 0.3}, {DeltaTime: 0.3}, {DeltaTime: 0}}
	require.NoError(t, d.Run(context.Background(), testWindow, &script))
	// the update of frame n sees the advance of frame n-1
	assert.Equal(t, []int{0, 0, 1, 1, 0}, framesSeenByUpdate)
}

func TestDriverRefreshesCollisionCache(t *testing.T) {
	d := New(Config{
		Setup: func(tb *ecs.Table) error {
			m := ecs.MustReadState[collision.Manager](tb)
			if _, err := m.AddCollisionRect(0, 0, 10, 10); err != nil {
				return err
			}
			_, err := m.AddCollisionRect(4, 0, 10, 10)
			return err
		},
	})
	require.NoError(t, d.Start(testWindow))
	assert.Empty(t, d.Collisions().CollidingList())
	_, err := d.Step(Input{})
	require.NoError(t, err)
	assert.Len(t, d.Collisions().CollidingList(), 1)
}
