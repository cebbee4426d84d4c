// Command simulate runs the platformer headless for a fixed number of frames
// with scripted input and prints the final table occupancy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/milk9111/spritecore/ecs"
	"github.com/milk9111/spritecore/frame"
	"github.com/milk9111/spritecore/game"
	"github.com/milk9111/spritecore/logging"
	"github.com/milk9111/spritecore/prefabs"
	"github.com/milk9111/spritecore/sprite"
	"go.uber.org/zap"
)

func main() {
	config := flag.String("config", "engine.yaml", "engine config in prefabs/")
	frames := flag.Int("frames", 600, "frames to run")
	spawnEvery := flag.Int("spawn-every", 30, "spawn a minion every n frames, 0 disables")
	level := flag.String("log", "warn", "log level")
	flag.Parse()

	if err := run(*config, *frames, *spawnEvery, *level); err != nil {
		log.Fatal(err)
	}
}

func run(config string, frames, spawnEvery int, level string) error {
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	spec, err := prefabs.LoadEngineSpec(config)
	if err != nil {
		return err
	}
	defs, err := prefabs.LoadClips(spec.Clips)
	if err != nil {
		return err
	}
	clips, err := sprite.NewLibrary(defs...)
	if err != nil {
		return err
	}

	g := game.New(spec.HeightResolution, spec.MaxResolution)
	var (
		stats  []ecs.StoreStats
		states []string
	)
	driver := frame.New(frame.Config{
		Clips:      clips,
		MaxSprites: spec.MaxSprites,
		MaxRects:   spec.MaxRects,
		Setup:      g.Setup,
		Update:     g.Update,
		Teardown: func(t *ecs.Table) error {
			stats = t.Stats()
			states = t.StateTypes()
			return g.Teardown(t)
		},
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	script := make(frame.Script, 0, frames)
	dt := 1 / float64(spec.TPS)
	for i := range frames {
		in := frame.Input{DeltaTime: dt, MouseX: float64(spec.Width) / 2, MouseY: float64(spec.Height) / 4}
		switch {
		case i%90 == 45:
			in.Keys = []frame.Key{frame.KeySpace}
		case (i/120)%2 == 1:
			in.Keys = []frame.Key{frame.KeyD}
		}
		if spawnEvery > 0 && i%spawnEvery == 0 {
			in.Buttons = []frame.MouseButton{frame.MouseLeft}
		}
		script = append(script, in)
	}

	window := frame.Window{Width: float64(spec.Width), Height: float64(spec.Height), HeightResolution: spec.HeightResolution}
	if err := driver.Run(ctx, window, &script); err != nil {
		return err
	}
	logger.Info("simulation finished", zap.String("run", driver.ID()))
	fmt.Printf("%-40s %6s %6s %6s\n", "store", "live", "free", "cap")
	for _, s := range stats {
		fmt.Printf("%-40s %6d %6d %6d\n", s.Type, s.Live, s.Free, s.Capacity)
	}
	fmt.Printf("states: %s\n", strings.Join(states, ", "))
	return nil
}
