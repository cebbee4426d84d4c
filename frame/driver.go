package frame

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/spritecore/collision"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/system"
	"github.com/milk9111/spritecore/sprite"
	"go.uber.org/zap"
)

// ErrPhase is returned when Start, Step or Stop is called out of order.
var ErrPhase = errors.New("frame: phase out of order")

// Phase is a client callback with exclusive access to the table.
type Phase func(t *ecs.Table) error

// Config wires a client into a Driver.
type Config struct {
	Clips      *sprite.Library
	MaxSprites int
	MaxRects   int

	Setup    Phase
	Update   Phase
	Teardown Phase

	Logger *zap.Logger
}

type phase uint8

const (
	phaseIdle phase = iota
	phaseRunning
	phaseStopped
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseRunning:
		return "running"
	}
	return "stopped"
}

// Driver runs setup once, update once per Step and teardown once, injecting
// the sprite pool, collision manager and per-frame input and camera state
// into the table.
type Driver struct {
	cfg   Config
	id    string
	log   *zap.Logger
	phase phase

	table     *ecs.Table
	pool      *sprite.Pool
	manager   *collision.Manager
	scheduler *ecs.Scheduler

	uniform *Uniform
	keys    *KeyState
	mouse   *MouseState
	running *RunningState
}

// New returns a driver that has not started yet.
func New(cfg Config) *Driver {
	if cfg.MaxSprites <= 0 {
		cfg.MaxSprites = ecs.DefaultCapacity
	}
	if cfg.MaxRects <= 0 {
		cfg.MaxRects = cfg.MaxSprites
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Driver{
		cfg: cfg,
		id:  id,
		log: log.With(zap.String("run", id)),
	}
}

// ID identifies this run in logs.
func (d *Driver) ID() string { return d.id }

// Table returns the driver's table, or nil before Start.
func (d *Driver) Table() *ecs.Table { return d.table }

// Pool returns the sprite pool, or nil before Start.
func (d *Driver) Pool() *sprite.Pool { return d.pool }

// Collisions returns the collision manager, or nil before Start.
func (d *Driver) Collisions() *collision.Manager { return d.manager }

// Uniform returns the camera state, or nil before Start.
func (d *Driver) Uniform() *Uniform { return d.uniform }

// Start builds the table, injects the core states and runs Setup.
func (d *Driver) Start(w Window) error {
	if d.phase != phaseIdle {
		return fmt.Errorf("%w: start while %s", ErrPhase, d.phase)
	}
	d.phase = phaseStopped

	t := ecs.NewTable(ecs.WithLogger(d.log))
	pool, err := sprite.NewPool(t, d.cfg.Clips, d.cfg.MaxSprites, sprite.WithLogger(d.log.Named("sprite")))
	if err != nil {
		return fmt.Errorf("frame: start: %w", err)
	}
	manager, err := collision.NewManager(t, d.cfg.MaxRects, collision.WithLogger(d.log.Named("collision")))
	if err != nil {
		return fmt.Errorf("frame: start: %w", err)
	}

	d.table, d.pool, d.manager = t, pool, manager
	d.uniform = &Uniform{
		WindowWidth:      w.Width,
		WindowHeight:     w.Height,
		HeightResolution: w.HeightResolution,
	}
	d.keys = &KeyState{}
	d.mouse = &MouseState{}
	running := Running
	d.running = &running

	for _, add := range []func() error{
		func() error { return ecs.AddStatePtr(t, pool) },
		func() error { return ecs.AddStatePtr(t, manager) },
		func() error { return ecs.AddStatePtr(t, d.uniform) },
		func() error { return ecs.AddStatePtr(t, d.keys) },
		func() error { return ecs.AddStatePtr(t, d.mouse) },
		func() error { return ecs.AddStatePtr(t, d.running) },
	} {
		if err := add(); err != nil {
			return fmt.Errorf("frame: start: %w", err)
		}
	}

	d.scheduler = ecs.NewScheduler(
		system.NewAnimationSystem(pool, func() float64 { return d.uniform.DeltaTime }),
		system.NewCollisionCacheSystem(manager),
	)

	if d.cfg.Setup != nil {
		if err := d.cfg.Setup(t); err != nil {
			d.log.Error("setup failed", zap.Error(err))
			return fmt.Errorf("frame: setup: %w", err)
		}
	}
	d.phase = phaseRunning
	d.log.Info("driver started",
		zap.Float64("width", w.Width),
		zap.Float64("height", w.Height),
		zap.Int("sprites", pool.Len()),
		zap.Int("rects", manager.Len()),
	)
	return nil
}

// Step runs one frame: input snapshots, client update, then the animation
// advance and collision cache refresh. It reports whether the client closed
// the loop during this frame.
func (d *Driver) Step(in Input) (bool, error) {
	if d.phase != phaseRunning {
		return false, fmt.Errorf("%w: step while %s", ErrPhase, d.phase)
	}

	d.uniform.Frame++
	d.uniform.DeltaTime = in.DeltaTime
	if in.Width > 0 {
		d.uniform.WindowWidth = in.Width
	}
	if in.Height > 0 {
		d.uniform.WindowHeight = in.Height
	}
	d.keys.apply(in.Keys)
	d.mouse.apply(in)

	if d.cfg.Update != nil {
		if err := d.cfg.Update(d.table); err != nil {
			return false, fmt.Errorf("frame: update %d: %w", d.uniform.Frame, err)
		}
	}
	if err := d.scheduler.Update(d.table); err != nil {
		return false, fmt.Errorf("frame: update %d: %w", d.uniform.Frame, err)
	}

	rs, err := ecs.ReadState[RunningState](d.table)
	if err != nil {
		return false, fmt.Errorf("frame: update %d: running state: %w", d.uniform.Frame, err)
	}
	return *rs == Closed, nil
}

// Stop runs Teardown. It may be called once, after a successful Start.
func (d *Driver) Stop() error {
	if d.phase != phaseRunning {
		return fmt.Errorf("%w: stop while %s", ErrPhase, d.phase)
	}
	d.phase = phaseStopped
	frames := d.uniform.Frame
	if d.cfg.Teardown != nil {
		if err := d.cfg.Teardown(d.table); err != nil {
			d.log.Error("teardown failed", zap.Error(err))
			return fmt.Errorf("frame: teardown: %w", err)
		}
	}
	d.log.Info("driver stopped", zap.Uint64("frames", frames))
	return nil
}

// Source feeds a headless Run one Input per frame. Next returns false when
// there is no more input.
type Source interface {
	Next() (Input, bool)
}

// Run drives the loop until the client closes it, the source runs dry or
// ctx is done. Teardown runs exactly once whenever Start succeeded.
func (d *Driver) Run(ctx context.Context, w Window, src Source) error {
	if err := d.Start(w); err != nil {
		return err
	}
	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		in, ok := src.Next()
		if !ok {
			break
		}
		closed, err := d.Step(in)
		if err != nil {
			runErr = err
			break
		}
		if closed {
			break
		}
	}
	return errors.Join(runErr, d.Stop())
}

// Script is a Source replaying a fixed list of inputs.
type Script []Input

func (s *Script) Next() (Input, bool) {
	if len(*s) == 0 {
		return Input{}, false
	}
	in := (*s)[0]
	*s = (*s)[1:]
	return in, true
}
