package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/ecs/component"
	"github.com/milk9111/spritecore/frame"
	"github.com/milk9111/spritecore/prefabs"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// Options configures the window and debug overlay.
type Options struct {
	Title            string
	Width            int
	Height           int
	HeightResolution float64
	TPS              int

	// Watcher, when set, triggers a clip reload whenever ClipsFile changes.
	Watcher   *prefabs.Watcher
	ClipsFile string

	DebugRects bool
	Background color.Color
	RectColor  color.Color
	PairColor  color.Color

	// SpriteColor fills every sprite when set; otherwise each clip gets a
	// palette color.
	SpriteColor color.Color

	Logger *zap.Logger
}

// Game adapts a frame.Driver to ebiten.Game. Each ebiten tick is one
// fixed-step frame of 1/TPS seconds.
type Game struct {
	driver  *frame.Driver
	opts    Options
	log     *zap.Logger
	dt      float64
	width   float64
	height  float64
	started bool
	stopped bool

	keyBuf []ebiten.Key
	keys   []frame.Key
}

func New(d *frame.Driver, opts Options) *Game {
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}
	if opts.Background == nil {
		opts.Background = colornames.Midnightblue
	}
	if opts.RectColor == nil {
		opts.RectColor = colornames.Lime
	}
	if opts.PairColor == nil {
		opts.PairColor = colornames.Red
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		driver: d,
		opts:   opts,
		log:    log,
		dt:     1 / float64(opts.TPS),
		width:  float64(opts.Width),
		height: float64(opts.Height),
	}
}

// Run opens the window and blocks until the client closes the loop or an
// error escalates.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.opts.TPS)

	err := ebiten.RunGame(g)
	if !g.stopped && g.started {
		err = errors.Join(err, g.stop())
	}
	return err
}

func (g *Game) Update() error {
	if !g.started {
		g.started = true
		if err := g.driver.Start(frame.Window{
			Width:            g.width,
			Height:           g.height,
			HeightResolution: g.opts.HeightResolution,
		}); err != nil {
			g.stopped = true
			return err
		}
	}

	g.reloadClips()

	closed, err := g.driver.Step(g.sample())
	if err != nil {
		return errors.Join(err, g.stop())
	}
	if closed {
		if err := g.stop(); err != nil {
			return err
		}
		return ebiten.Termination
	}
	return nil
}

func (g *Game) stop() error {
	g.stopped = true
	return g.driver.Stop()
}

func (g *Game) sample() frame.Input {
	g.keyBuf = inpututil.AppendPressedKeys(g.keyBuf[:0])
	g.keys = translateKeys(g.keyBuf, g.keys[:0])

	in := frame.Input{
		DeltaTime: g.dt,
		Width:     g.width,
		Height:    g.height,
		Keys:      g.keys,
	}
	cx, cy := ebiten.CursorPosition()
	in.MouseX, in.MouseY = float64(cx), float64(cy)
	for eb, b := range mouseButtons {
		if ebiten.IsMouseButtonPressed(eb) {
			in.Buttons = append(in.Buttons, b)
		}
	}
	_, in.Wheel = ebiten.Wheel()
	return in
}

// reloadClips swaps in the clip file after the watcher reports a change.
// A broken file is logged and the current clips stay.
func (g *Game) reloadClips() {
	if g.opts.Watcher == nil {
		return
	}
	for _, err := range g.opts.Watcher.DrainErrors() {
		g.log.Warn("prefab watcher", zap.Error(err))
	}
	if !clipsChanged(g.opts.Watcher.Drain(), g.opts.ClipsFile) {
		return
	}
	if err := reload(g.driver, g.opts.ClipsFile); err != nil {
		g.log.Warn("clip reload failed", zap.String("file", g.opts.ClipsFile), zap.Error(err))
		return
	}
	g.log.Info("clips reloaded", zap.String("file", g.opts.ClipsFile))
}

// clipsChanged reports whether the clip file is among the changed base names.
func clipsChanged(changed []string, clipsFile string) bool {
	return clipsFile != "" && slices.Contains(changed, filepath.Base(filepath.FromSlash(clipsFile)))
}

func reload(d *frame.Driver, file string) error {
	pool := d.Pool()
	if pool == nil {
		return fmt.Errorf("ebitenhost: reload %s: driver not started", file)
	}
	defs, err := prefabs.LoadClips(file)
	if err != nil {
		return err
	}
	return pool.ReloadClips(defs)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background)
	u := g.driver.Uniform()
	pool := g.driver.Pool()
	if u == nil || pool == nil {
		return
	}
	scale := u.Scale()

	for _, h := range pool.DrawOrder() {
		s, err := pool.Sprite(h)
		if err != nil {
			continue
		}
		x, y := u.WorldToScreen(s.X-s.Width/2, s.Y+s.Height/2)
		vector.FillRect(screen, float32(x), float32(y), float32(s.Width*scale), float32(s.Height*scale), spriteColor(s, g.opts.SpriteColor), false)
	}

	manager := g.driver.Collisions()
	if g.opts.DebugRects && manager != nil {
		hot := make(map[ecs.Handle]bool)
		for _, p := range manager.CollidingList() {
			hot[p.A], hot[p.B] = true, true
		}
		for h, r := range ecs.All[component.CollisionRect](g.driver.Table()) {
			bb := r.Bounds()
			x, y := u.WorldToScreen(bb.L, bb.T)
			c := g.opts.RectColor
			if hot[h] {
				c = g.opts.PairColor
			}
			vector.StrokeRect(screen, float32(x), float32(y), float32((bb.R-bb.L)*scale), float32((bb.T-bb.B)*scale), 1, c, false)
		}
	}

	pairs := 0
	if manager != nil {
		pairs = len(manager.CollidingList())
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frame: %d    FPS: %.2f    Sprites: %d    Pairs: %d",
		u.Frame, ebiten.ActualFPS(), pool.Len(), pairs))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

var palette = []color.Color{
	colornames.Crimson,
	colornames.Gold,
	colornames.Mediumseagreen,
	colornames.Steelblue,
	colornames.Orchid,
	colornames.Darkorange,
	colornames.Lightgrey,
}

// spriteColor picks fill, or a stable color per clip when fill is nil, dimmed
// for far sprites.
func spriteColor(s *component.Sprite, fill color.Color) color.Color {
	if fill == nil {
		fill = palette[uint64(s.Clip)%uint64(len(palette))]
	}
	c := color.RGBAModel.Convert(fill).(color.RGBA)
	if s.Depth >= 0.9 {
		c = color.RGBA{R: c.R / 3, G: c.G / 3, B: c.B / 3, A: c.A}
	}
	return c
}
