package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/spritecore/frame"
	"github.com/milk9111/spritecore/game"
	"github.com/milk9111/spritecore/host/ebitenhost"
	"github.com/milk9111/spritecore/logging"
	"github.com/milk9111/spritecore/prefabs"
	"github.com/milk9111/spritecore/sprite"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

func main() {
	config := flag.String("config", "engine.yaml", "engine config in prefabs/ (falls back to the embedded default)")
	debug := flag.Bool("debug", false, "debug logging and collision overlay")
	watch := flag.Bool("watch", false, "reload clips when prefabs/*.yaml changes")
	flag.Parse()

	if err := run(*config, *debug, *watch); err != nil {
		log.Fatal(err)
	}
}

func run(config string, debug, watch bool) error {
	spec, err := prefabs.LoadEngineSpec(config)
	if err != nil {
		return err
	}
	level := spec.LogLevel
	if debug {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	defs, err := prefabs.LoadClips(spec.Clips)
	if err != nil {
		return fmt.Errorf("load clips: %w", err)
	}
	clips, err := sprite.NewLibrary(defs...)
	if err != nil {
		return fmt.Errorf("register clips: %w", err)
	}

	g := game.New(spec.HeightResolution, spec.MaxResolution)
	driver := frame.New(frame.Config{
		Clips:      clips,
		MaxSprites: spec.MaxSprites,
		MaxRects:   spec.MaxRects,
		Setup:      g.Setup,
		Update:     g.Update,
		Teardown:   g.Teardown,
		Logger:     logger,
	})

	opts := ebitenhost.Options{
		Title:            spec.Title,
		Width:            spec.Width,
		Height:           spec.Height,
		HeightResolution: spec.HeightResolution,
		TPS:              spec.TPS,
		ClipsFile:        spec.Clips,
		DebugRects:       spec.Debug.Rects || debug,
		Background:       spec.Debug.Background.Or(colornames.Midnightblue),
		RectColor:        spec.Debug.Rect.Or(colornames.Lime),
		PairColor:        spec.Debug.Pair.Or(colornames.Red),
		SpriteColor:      spec.Debug.Sprite.Or(nil),
		Logger:           logger.Named("host"),
	}
	if watch {
		if _, err := os.Stat(prefabs.DiskDir); err != nil {
			logger.Warn("nothing to watch", zap.String("dir", prefabs.DiskDir), zap.Error(err))
		} else {
			w, err := prefabs.NewWatcher(prefabs.DiskDir)
			if err != nil {
				return fmt.Errorf("watch prefabs: %w", err)
			}
			defer w.Close()
			opts.Watcher = w
		}
	}

	logger.Info("starting", zap.String("run", driver.ID()), zap.Int("clips", clips.Len()))
	if err := ebitenhost.Run(ebitenhost.New(driver, opts)); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
