package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/spritecore/collision"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
	"github.com/milk9111/spritecore/frame"
	"github.com/milk9111/spritecore/sprite"
	"go.uber.org/zap"
)

// Clip names the game expects in the clip library.
const (
	ClipIdle       = "idle_right"
	ClipRun        = "run_right"
	ClipJumpStart  = "jump_start"
	ClipJumpMidAir = "jump_mid_air"
	ClipJumpFall   = "jump_fall"
	ClipBackground = "bg_grass"
)

const (
	// FloorLevel is the y the player stands on.
	FloorLevel = -16.0

	floorSize   = 1024.0
	playerSize  = 32.0
	minionDepth = 0.5
	bgDepth     = 0.9
	zoomOut     = 1.10
	zoomIn      = 0.90
)

// Player holds the player's sprite and its collision rect.
type Player struct {
	Sprite ecs.Handle
	Rect   ecs.Handle
}

// Floor is the static ground rect.
type Floor struct {
	Rect ecs.Handle
}

// ClickPos is the world position of the last mouse press, used as the drag
// anchor and minion spawn point.
type ClickPos struct {
	X float64
	Y float64
}

// Minions tracks sprites spawned with the mouse.
type Minions struct {
	Handles []ecs.Handle
}

// Game is the platformer client: a player that runs and double jumps onto a
// floor, a draggable zoomable camera, and clickable minion spawns.
type Game struct {
	minResolution float64
	maxResolution float64
	rng           *rand.Rand
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the source used for camera jitter and spawn offsets.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		if r != nil {
			g.rng = r
		}
	}
}

// New returns a game whose zoom stays within [minResolution, maxResolution].
func New(minResolution, maxResolution float64, opts ...Option) *Game {
	g := &Game{
		minResolution: minResolution,
		maxResolution: maxResolution,
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Setup seeds the player, background and floor.
func (g *Game) Setup(t *ecs.Table) error {
	if err := ecs.RequireStates(t,
		ecs.Expect[sprite.Pool](),
		ecs.Expect[collision.Manager](),
		ecs.Expect[frame.Uniform](),
		ecs.Expect[frame.KeyState](),
		ecs.Expect[frame.MouseState](),
		ecs.Expect[frame.RunningState](),
	); err != nil {
		return err
	}
	pool := ecs.MustReadState[sprite.Pool](t)
	manager := ecs.MustReadState[collision.Manager](t)

	for _, name := range []string{ClipIdle, ClipRun, ClipJumpStart, ClipJumpMidAir, ClipJumpFall, ClipBackground} {
		if _, _, err := pool.Clips().Lookup(name); err != nil {
			return fmt.Errorf("game: setup: %w", err)
		}
	}

	ph, ps, err := pool.AddSprite(ClipIdle, 0, FloorLevel+playerSize, 0)
	if err != nil {
		return fmt.Errorf("game: setup player: %w", err)
	}
	ps.Loop = component.LoopOn

	_, bg, err := pool.AddSprite(ClipBackground, 0, FloorLevel, bgDepth)
	if err != nil {
		return fmt.Errorf("game: setup background: %w", err)
	}
	bg.Width, bg.Height = floorSize, floorSize

	prh, err := manager.InsertCollisionRect(ph, ps.X, ps.Y, playerSize, playerSize, collision.WithDepth(0.1))
	if err != nil {
		return fmt.Errorf("game: setup player rect: %w", err)
	}
	frh, err := manager.AddCollisionRect(0, FloorLevel, floorSize, floorSize, collision.WithDepth(0.1))
	if err != nil {
		return fmt.Errorf("game: setup floor: %w", err)
	}

	return errors.Join(
		ecs.AddStatePtr(t, NewMover(3, 2, 5, 10, 9.8)),
		ecs.AddState(t, Player{Sprite: ph, Rect: prh}),
		ecs.AddState(t, Floor{Rect: frh}),
		ecs.AddState(t, ClickPos{}),
		ecs.AddState(t, Minions{}),
	)
}

// Update runs one frame of gameplay.
func (g *Game) Update(t *ecs.Table) error {
	running := ecs.MustReadState[frame.RunningState](t)
	uniform := ecs.MustReadState[frame.Uniform](t)
	keys := ecs.MustReadState[frame.KeyState](t)
	mouse := ecs.MustReadState[frame.MouseState](t)
	click := ecs.MustReadState[ClickPos](t)

	if keys.JustPressed(frame.KeyQ) {
		running.Close()
	}

	g.updateCamera(uniform, mouse, click)

	if mouse.Clicked(frame.MouseLeft) && !mouse.Pressed(frame.MouseMiddle) {
		if err := g.spawnMinion(t, *click); err != nil {
			return err
		}
	}
	if keys.JustPressed(frame.KeyV) {
		if err := clearMinions(t); err != nil {
			return err
		}
	}
	if keys.IsPressed(frame.KeyHome) {
		uniform.GlobalOffsetX += 2 * (g.rng.Float64() - 0.5)
		uniform.GlobalOffsetY += 2 * (g.rng.Float64() - 0.5)
	}

	return movePlayer(t, keys, uniform.DeltaTime)
}

func (g *Game) updateCamera(u *frame.Uniform, mouse *frame.MouseState, click *ClickPos) {
	relX, relY := u.Relative(mouse.X, mouse.Y)
	if mouse.AnyClicked() {
		click.X = relX - u.GlobalOffsetX
		click.Y = relY - u.GlobalOffsetY
	}
	if mouse.AnyReleased() {
		*click = ClickPos{}
	}

	if mouse.Pressed(frame.MouseMiddle) {
		u.GlobalOffsetX = relX - click.X
		u.GlobalOffsetY = relY - click.Y
		return
	}
	switch {
	case mouse.WheelDelta < 0:
		u.HeightResolution = min(u.HeightResolution*zoomOut, g.maxResolution)
	case mouse.WheelDelta > 0:
		u.HeightResolution = max(u.HeightResolution*zoomIn, g.minResolution)
	}
}

func (g *Game) spawnMinion(t *ecs.Table, at ClickPos) error {
	pool := ecs.MustReadState[sprite.Pool](t)
	player := ecs.MustReadState[Player](t)
	minions := ecs.MustReadState[Minions](t)

	h, s, err := pool.CloneAdd(player.Sprite)
	if err != nil {
		return fmt.Errorf("game: spawn minion: %w", err)
	}
	s.Depth = minionDepth
	s.X = at.X
	s.Y = at.Y + 0.001*(g.rng.Float64()-0.5)
	minions.Handles = append(minions.Handles, h)
	return nil
}

func clearMinions(t *ecs.Table) error {
	pool := ecs.MustReadState[sprite.Pool](t)
	minions, err := ecs.RemoveState[Minions](t)
	if err != nil {
		return fmt.Errorf("game: clear minions: %w", err)
	}
	for _, h := range minions.Handles {
		if err := pool.RemoveSprite(h); err != nil && !errors.Is(err, ecs.ErrNotFound) {
			return fmt.Errorf("game: clear minions: %w", err)
		}
	}
	t.Logger().Debug("minions cleared", zap.Int("count", len(minions.Handles)))
	return ecs.AddState(t, Minions{})
}

func movePlayer(t *ecs.Table, keys *frame.KeyState, dt float64) error {
	pool := ecs.MustReadState[sprite.Pool](t)
	manager := ecs.MustReadState[collision.Manager](t)
	player := ecs.MustReadState[Player](t)
	floor := ecs.MustReadState[Floor](t)
	mover := ecs.MustReadState[Mover](t)

	s, err := pool.Sprite(player.Sprite)
	if err != nil {
		return fmt.Errorf("game: player: %w", err)
	}

	if keys.JustPressed(frame.KeySpace) {
		mover.Jump()
	}
	mover.Left = keys.IsPressed(frame.KeyA)
	mover.Right = keys.IsPressed(frame.KeyD)
	mover.UpdateSpeed(dt)

	s.X += mover.Speed
	s.Y += mover.VerticalSpeed
	if err := manager.SyncSizeAndPos(player.Rect); err != nil {
		return fmt.Errorf("game: player: %w", err)
	}
	rect, err := manager.Rect(player.Rect)
	if err != nil {
		return fmt.Errorf("game: player: %w", err)
	}
	if rect.Y > FloorLevel {
		mover.InAir = true
	}

	hit, err := manager.CheckIfColliding(player.Rect, floor.Rect)
	if err != nil {
		return fmt.Errorf("game: floor: %w", err)
	}
	if hit && rect.Y < FloorLevel {
		s.Y = FloorLevel
		mover.Land()
	}

	if err := pool.ChangeState(player.Sprite, mover.Clip()); err != nil {
		return fmt.Errorf("game: player: %w", err)
	}
	switch {
	case mover.Speed < 0:
		s.FlipX = true
	case mover.Speed > 0:
		s.FlipX = false
	}
	return manager.SyncSizeAndPos(player.Rect)
}

// Teardown logs what was left on screen.
func (g *Game) Teardown(t *ecs.Table) error {
	minions, err := ecs.ReadState[Minions](t)
	if err != nil {
		return err
	}
	t.Logger().Info("game over",
		zap.Int("minions", len(minions.Handles)),
		zap.Int("sprites", ecs.MustReadState[sprite.Pool](t).Len()),
	)
	return nil
}
