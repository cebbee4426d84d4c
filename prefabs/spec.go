package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/spritecore/ecs/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EngineSpec is the host and core configuration read from engine.yaml.
type EngineSpec struct {
	Title            string    `yaml:"title"`
	Width            int       `yaml:"width"`
	Height           int       `yaml:"height"`
	HeightResolution float64   `yaml:"height_resolution"`
	MaxResolution    float64   `yaml:"max_resolution"`
	MaxSprites       int       `yaml:"max_sprites"`
	MaxRects         int       `yaml:"max_rects"`
	TPS              int       `yaml:"tps"`
	LogLevel         string    `yaml:"log_level"`
	Clips            string    `yaml:"clips"`
	Debug            DebugSpec `yaml:"debug"`
}

// DebugSpec configures the debug overlay drawn by the host.
type DebugSpec struct {
	Rects      bool       `yaml:"rects"`
	Background *YAMLColor `yaml:"background"`
	Sprite     *YAMLColor `yaml:"sprite"`
	Rect       *YAMLColor `yaml:"rect"`
	Pair       *YAMLColor `yaml:"pair"`
}

const (
	defaultTitle            = "spritecore"
	defaultWidth            = 1280
	defaultHeight           = 720
	defaultHeightResolution = 64
	defaultMaxResolution    = 256
	defaultMaxSprites       = 4096
	defaultTPS              = 60
	defaultClips            = "clips.yaml"
)

// LoadEngineSpec loads name and fills unset fields with defaults.
func LoadEngineSpec(name string) (*EngineSpec, error) {
	spec, err := LoadSpec[EngineSpec](name)
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	if spec.MaxResolution < spec.HeightResolution {
		return nil, fmt.Errorf("prefabs: %s: max_resolution %v below height_resolution %v", name, spec.MaxResolution, spec.HeightResolution)
	}
	return &spec, nil
}

func (s *EngineSpec) applyDefaults() {
	if s.Title == "" {
		s.Title = defaultTitle
	}
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	if s.HeightResolution <= 0 {
		s.HeightResolution = defaultHeightResolution
	}
	if s.MaxResolution <= 0 {
		s.MaxResolution = defaultMaxResolution
	}
	if s.MaxSprites <= 0 {
		s.MaxSprites = defaultMaxSprites
	}
	if s.MaxRects <= 0 {
		s.MaxRects = s.MaxSprites
	}
	if s.TPS <= 0 {
		s.TPS = defaultTPS
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Clips == "" {
		s.Clips = defaultClips
	}
}

// ClipSpec is one clip definition in clips.yaml. FrameDuration wins over
// FPS when both are set.
type ClipSpec struct {
	Name          string    `yaml:"name"`
	Row           int       `yaml:"row"`
	ColStart      int       `yaml:"col_start"`
	FrameCount    int       `yaml:"frame_count"`
	FrameW        float64   `yaml:"frame_w"`
	FrameH        float64   `yaml:"frame_h"`
	FrameDuration float64   `yaml:"frame_duration"`
	FPS           float64   `yaml:"fps"`
	Durations     []float64 `yaml:"durations"`
	Loop          bool      `yaml:"loop"`
	Reverse       bool      `yaml:"reverse"`
}

type ClipsSpec struct {
	Clips []ClipSpec `yaml:"clips"`
}

// Def converts the spec into a clip definition.
func (c ClipSpec) Def() component.ClipDef {
	d := c.FrameDuration
	if d == 0 && c.FPS > 0 {
		d = 1 / c.FPS
	}
	return component.ClipDef{
		Name:          c.Name,
		FrameCount:    c.FrameCount,
		FrameDuration: d,
		Durations:     c.Durations,
		Loop:          c.Loop,
		Reverse:       c.Reverse,
		FrameW:        c.FrameW,
		FrameH:        c.FrameH,
		Row:           c.Row,
		ColStart:      c.ColStart,
	}
}

// LoadClips loads and validates every clip in name.
func LoadClips(name string) ([]component.ClipDef, error) {
	spec, err := LoadSpec[ClipsSpec](name)
	if err != nil {
		return nil, err
	}
	defs := make([]component.ClipDef, 0, len(spec.Clips))
	for i, c := range spec.Clips {
		def := c.Def()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("prefabs: %s: clip %d: %w", name, i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

type YAMLColor struct {
	color.Color
}

// Or returns c, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
