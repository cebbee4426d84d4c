package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func useDiskDir(t *testing.T, dir string) {
	t.Helper()
	prev := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = prev })
}

func TestLoadEngineSpecEmbedded(t *testing.T) {
	useDiskDir(t, t.TempDir())

	spec, err := LoadEngineSpec("engine.yaml")
	require.NoError(t, err)
	assert.Equal(t, 64.0, spec.HeightResolution)
	assert.Equal(t, 256.0, spec.MaxResolution)
	assert.Equal(t, 60, spec.TPS)
	assert.Equal(t, "clips.yaml", spec.Clips)
	assert.True(t, spec.Debug.Rects)
	assert.Equal(t, color.NRGBA{R: 0x1b, G: 0x1f, B: 0x2a, A: 0xff}, spec.Debug.Background.Or(color.Black))
	assert.Equal(t, color.White, spec.Debug.Sprite.Or(color.White))
}

func TestLoadEngineSpecDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDiskDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte("title: override\nmax_sprites: 8\n"), 0o644))

	spec, err := LoadEngineSpec("prefabs/engine.yaml")
	require.NoError(t, err)
	assert.Equal(t, "override", spec.Title)
	assert.Equal(t, 8, spec.MaxSprites)
	assert.Equal(t, 8, spec.MaxRects, "rects default to the sprite capacity")
	assert.Equal(t, 1280, spec.Width)
	assert.Equal(t, "info", spec.LogLevel)
}

func TestLoadEngineSpecRejectsBadZoomRange(t *testing.T) {
	dir := t.TempDir()
	useDiskDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.yaml"), []byte("height_resolution: 128\nmax_resolution: 64\n"), 0o644))

	_, err := LoadEngineSpec("engine.yaml")
	assert.ErrorContains(t, err, "max_resolution")
}

func TestLoadClips(t *testing.T) {
	useDiskDir(t, t.TempDir())

	defs, err := LoadClips("clips.yaml")
	require.NoError(t, err)
	names := make(map[string]int, len(defs))
	for i, d := range defs {
		names[d.Name] = i
	}
	for _, want := range []string{"idle_right", "run_right", "jump_start", "jump_mid_air", "jump_fall", "bg_grass"} {
		assert.Contains(t, names, want)
	}

	run := defs[names["run_right"]]
	assert.InDelta(t, 1.0/12, run.FrameDuration, 1e-12)
	assert.True(t, run.Loop)
	assert.False(t, defs[names["jump_start"]].Loop)
	assert.Equal(t, []float64{0.1, 0.2}, defs[names["jump_mid_air"]].Durations)
	assert.Zero(t, defs[names["bg_grass"]].FrameDuration)
	assert.Equal(t, 1024.0, defs[names["bg_grass"]].FrameW)
}

func TestLoadClipsErrors(t *testing.T) {
	dir := t.TempDir()
	useDiskDir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("clips:\n  - name: broken\n    frame_count: 0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.yaml"), []byte("clips: [\n"), 0o644))

	_, err := LoadClips("bad.yaml")
	assert.ErrorContains(t, err, "broken")
	_, err = LoadClips("garbage.yaml")
	assert.ErrorContains(t, err, "prefabs: unmarshal garbage.yaml")
	_, err = LoadClips("absent.yaml")
	assert.ErrorContains(t, err, "prefabs: load absent.yaml")
}

func TestClipSpecDurationPrecedence(t *testing.T) {
	d := ClipSpec{Name: "x", FrameCount: 1, FrameDuration: 0.25, FPS: 10}.Def()
	assert.Equal(t, 0.25, d.FrameDuration)
	d = ClipSpec{Name: "x", FrameCount: 1, FPS: 10}.Def()
	assert.InDelta(t, 0.1, d.FrameDuration, 1e-12)
}

func TestYAMLColor(t *testing.T) {
	var out struct {
		A YAMLColor `yaml:"a"`
		B YAMLColor `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: \"#ff000080\"\nb: \"00ff00\"\n"), &out))
	assert.Equal(t, color.NRGBA{R: 255, A: 0x80}, out.A.Color)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, out.B.Color)

	assert.Error(t, yaml.Unmarshal([]byte("a: \"#123\"\n"), &out))
	assert.Error(t, yaml.Unmarshal([]byte("a: [1]\n"), &out))
	assert.Error(t, yaml.Unmarshal([]byte("a: \"zz0000\"\n"), &out))
}

func TestWatcherReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clips.yaml"), []byte("clips: []\n"), 0o644))

	var got []string
	require.Eventually(t, func() bool {
		got = append(got, w.Drain()...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "clips.yaml", got[0])
	assert.NotContains(t, got, "notes.txt")

	assert.Empty(t, w.DrainErrors())

	w.Errors <- errors.New("queue overflow")
	assert.EqualError(t, errors.Join(w.DrainErrors()...), "queue overflow")
	assert.Empty(t, w.DrainErrors())

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Empty(t, w.DrainErrors())
	assert.NotContains(t, w.Drain(), "notes.txt")
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
