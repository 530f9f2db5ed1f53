package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teslashibe/go-roboeyes/pkg/chirp"
	"github.com/teslashibe/go-roboeyes/pkg/driver"
	"github.com/teslashibe/go-roboeyes/pkg/eyes"
	"github.com/teslashibe/go-roboeyes/pkg/web"
)

// EnvPrefix prefixes every environment override, e.g. ROBOEYES_EYES_WIDTH.
const EnvPrefix = "ROBOEYES"

// ErrInvalid is returned when a setting cannot be converted.
var ErrInvalid = errors.New("invalid config")

// File is the full settings tree.
type File struct {
	Log      LogConfig      `mapstructure:"log"`
	Eyes     EyesConfig     `mapstructure:"eyes"`
	Loop     LoopConfig     `mapstructure:"loop"`
	Server   ServerConfig   `mapstructure:"server"`
	Chirp    ChirpConfig    `mapstructure:"chirp"`
	Routines RoutinesConfig `mapstructure:"routines"`
}

// LogConfig configures internal/log.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TimerConfig configures a randomized timer.
type TimerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Variation time.Duration `mapstructure:"variation"`
}

// EyesConfig mirrors eyes.Config with names instead of enums and hex colors.
type EyesConfig struct {
	ScreenWidth  int    `mapstructure:"screen_width"`
	ScreenHeight int    `mapstructure:"screen_height"`
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	Radius       int    `mapstructure:"radius"`
	SpaceBetween int    `mapstructure:"space_between"`
	Shape        string `mapstructure:"shape"`
	Mood         string `mapstructure:"mood"`
	Cyclops      bool   `mapstructure:"cyclops"`
	Curiosity    bool   `mapstructure:"curiosity"`

	Background string `mapstructure:"background"`
	Color      string `mapstructure:"color"`

	BlinkDuration    time.Duration `mapstructure:"blink_duration"`
	LaughDuration    time.Duration `mapstructure:"laugh_duration"`
	ConfusedDuration time.Duration `mapstructure:"confused_duration"`

	AutoBlink TimerConfig `mapstructure:"auto_blink"`
	Idle      TimerConfig `mapstructure:"idle"`
}

// LoopConfig configures driver.Loop.
type LoopConfig struct {
	FPS        int `mapstructure:"fps"`
	FrameEvery int `mapstructure:"frame_every"`
}

// ServerConfig configures the web dashboard.
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Debug       bool   `mapstructure:"debug"`
	StateEvery  int    `mapstructure:"state_every"`
	FrameEvery  int    `mapstructure:"frame_every"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// ChirpConfig configures event sounds.
type ChirpConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Volume     float64 `mapstructure:"volume"`
	SampleRate int     `mapstructure:"sample_rate"`
}

// RoutinesConfig configures scripted routines.
type RoutinesConfig struct {
	// Dir holds extra *.json routines loaded over the built-ins.
	Dir string `mapstructure:"dir"`
	// Autoplay names a routine started with the loop. Empty plays nothing.
	Autoplay string `mapstructure:"autoplay"`
}

// Defaults builds a File around base eye settings.
func Defaults(base eyes.Config) *File {
	d := driver.DefaultConfig()
	w := web.DefaultConfig()
	c := chirp.DefaultConfig()
	return &File{
		Log: LogConfig{Level: "info"},
		Eyes: EyesConfig{
			ScreenWidth:      base.ScreenWidth,
			ScreenHeight:     base.ScreenHeight,
			Width:            base.Width,
			Height:           base.Height,
			Radius:           base.Radius,
			SpaceBetween:     base.SpaceBetween,
			Shape:            base.Shape.String(),
			Mood:             base.Mood.String(),
			Cyclops:          base.Cyclops,
			Curiosity:        base.Curiosity,
			Background:       FormatColor(base.Palette.Background),
			Color:            FormatColor(base.Palette.Eye),
			BlinkDuration:    base.BlinkDuration,
			LaughDuration:    base.LaughDuration,
			ConfusedDuration: base.ConfusedDuration,
			AutoBlink:        TimerConfig(base.AutoBlink),
			Idle:             TimerConfig(base.Idle),
		},
		Loop: LoopConfig{FPS: d.FPS, FrameEvery: d.FrameEvery},
		Server: ServerConfig{
			Port:        w.Port,
			Debug:       w.Debug,
			StateEvery:  w.StateEvery,
			FrameEvery:  w.FrameEvery,
			JPEGQuality: w.JPEGQuality,
		},
		Chirp: ChirpConfig{Volume: c.Volume, SampleRate: c.SampleRate},
	}
}

// Load reads settings over Defaults(base). With an empty path it looks for
// roboeyes.yaml in the working directory and ~/.roboeyes and carries on with
// defaults when there is none; an explicit path must exist. Environment
// variables override the file: eyes.auto_blink.interval is
// ROBOEYES_EYES_AUTO_BLINK_INTERVAL.
func Load(path string, base eyes.Config) (*File, error) {
	cfg := Defaults(base)

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("roboeyes")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".roboeyes"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment variables can override
// settings the file does not mention.
func setDefaults(v *viper.Viper, f *File) {
	e := f.Eyes
	defaults := map[string]any{
		"log.level": f.Log.Level,

		"eyes.screen_width":         e.ScreenWidth,
		"eyes.screen_height":        e.ScreenHeight,
		"eyes.width":                e.Width,
		"eyes.height":               e.Height,
		"eyes.radius":               e.Radius,
		"eyes.space_between":        e.SpaceBetween,
		"eyes.shape":                e.Shape,
		"eyes.mood":                 e.Mood,
		"eyes.cyclops":              e.Cyclops,
		"eyes.curiosity":            e.Curiosity,
		"eyes.background":           e.Background,
		"eyes.color":                e.Color,
		"eyes.blink_duration":       e.BlinkDuration,
		"eyes.laugh_duration":       e.LaughDuration,
		"eyes.confused_duration":    e.ConfusedDuration,
		"eyes.auto_blink.enabled":   e.AutoBlink.Enabled,
		"eyes.auto_blink.interval":  e.AutoBlink.Interval,
		"eyes.auto_blink.variation": e.AutoBlink.Variation,
		"eyes.idle.enabled":         e.Idle.Enabled,
		"eyes.idle.interval":        e.Idle.Interval,
		"eyes.idle.variation":       e.Idle.Variation,

		"loop.fps":         f.Loop.FPS,
		"loop.frame_every": f.Loop.FrameEvery,

		"server.port":         f.Server.Port,
		"server.debug":        f.Server.Debug,
		"server.state_every":  f.Server.StateEvery,
		"server.frame_every":  f.Server.FrameEvery,
		"server.jpeg_quality": f.Server.JPEGQuality,

		"chirp.enabled":     f.Chirp.Enabled,
		"chirp.volume":      f.Chirp.Volume,
		"chirp.sample_rate": f.Chirp.SampleRate,

		"routines.dir":      f.Routines.Dir,
		"routines.autoplay": f.Routines.Autoplay,
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// EyesConfig converts the eyes section and validates it.
func (f *File) EyesConfig() (eyes.Config, error) {
	e := f.Eyes
	shape, err := eyes.ParseShape(e.Shape)
	if err != nil {
		return eyes.Config{}, fmt.Errorf("%w: eyes.shape: %w", ErrInvalid, err)
	}
	mood, err := eyes.ParseMood(e.Mood)
	if err != nil {
		return eyes.Config{}, fmt.Errorf("%w: eyes.mood: %w", ErrInvalid, err)
	}
	bg, err := ParseColor(e.Background)
	if err != nil {
		return eyes.Config{}, fmt.Errorf("%w: eyes.background: %w", ErrInvalid, err)
	}
	fg, err := ParseColor(e.Color)
	if err != nil {
		return eyes.Config{}, fmt.Errorf("%w: eyes.color: %w", ErrInvalid, err)
	}

	cfg := eyes.Config{
		ScreenWidth:      e.ScreenWidth,
		ScreenHeight:     e.ScreenHeight,
		Width:            e.Width,
		Height:           e.Height,
		Radius:           e.Radius,
		SpaceBetween:     e.SpaceBetween,
		Shape:            shape,
		Mood:             mood,
		Cyclops:          e.Cyclops,
		Curiosity:        e.Curiosity,
		Palette:          eyes.Palette{Background: bg, Eye: fg},
		BlinkDuration:    e.BlinkDuration,
		LaughDuration:    e.LaughDuration,
		ConfusedDuration: e.ConfusedDuration,
		AutoBlink:        eyes.TimerConfig(e.AutoBlink),
		Idle:             eyes.TimerConfig(e.Idle),
	}
	if err := cfg.Validate(); err != nil {
		return eyes.Config{}, err
	}
	return cfg, nil
}

// DriverConfig converts the loop section.
func (f *File) DriverConfig() driver.Config {
	return driver.Config{FPS: f.Loop.FPS, FrameEvery: f.Loop.FrameEvery}
}

// WebConfig converts the server section.
func (f *File) WebConfig() web.Config {
	s := f.Server
	return web.Config{
		Port:        s.Port,
		Debug:       s.Debug,
		StateEvery:  s.StateEvery,
		FrameEvery:  s.FrameEvery,
		JPEGQuality: s.JPEGQuality,
	}
}

// ChirpConfig converts the chirp section.
func (f *File) ChirpConfig() chirp.Config {
	c := chirp.DefaultConfig()
	c.Volume = f.Chirp.Volume
	if f.Chirp.SampleRate > 0 {
		c.SampleRate = f.Chirp.SampleRate
	}
	return c
}

// ParseColor reads "#rrggbb" or "rrggbb" as an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q is not #rrggbb", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not #rrggbb", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor writes c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
