// Package config loads application settings from defaults, an optional
// YAML file and PHYSICIUM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
)

const EnvPrefix = "PHYSICIUM"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	View       ViewConfig       `mapstructure:"view" yaml:"view"`
	Live       LiveConfig       `mapstructure:"live" yaml:"live"`
	DataDir    string           `mapstructure:"data_dir" yaml:"data_dir"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

type SimulationConfig struct {
	MaxStepMs          float64 `mapstructure:"max_step_ms" yaml:"max_step_ms"`
	GravityX           float64 `mapstructure:"gravity_x" yaml:"gravity_x"`
	GravityY           float64 `mapstructure:"gravity_y" yaml:"gravity_y"`
	G                  float64 `mapstructure:"g" yaml:"g"`
	DefaultRestitution float64 `mapstructure:"default_restitution" yaml:"default_restitution"`
	// Broadphase is "brute" or "spatial".
	Broadphase        string  `mapstructure:"broadphase" yaml:"broadphase"`
	CellSize          float64 `mapstructure:"cell_size" yaml:"cell_size"`
	ParallelThreshold int     `mapstructure:"parallel_threshold" yaml:"parallel_threshold"`
}

// ViewConfig sizes are in terminal cells.
type ViewConfig struct {
	Width       int     `mapstructure:"width" yaml:"width"`
	Height      int     `mapstructure:"height" yaml:"height"`
	VectorScale float64 `mapstructure:"vector_scale" yaml:"vector_scale"`
	MinRadius   float64 `mapstructure:"min_radius" yaml:"min_radius"`
}

type LiveConfig struct {
	FPS    int    `mapstructure:"fps" yaml:"fps"`
	Preset string `mapstructure:"preset" yaml:"preset"`
}

func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "physicium")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	// -- Simulation --
	v.SetDefault("simulation.max_step_ms", physics.DefaultMaxStep*1000)
	v.SetDefault("simulation.gravity_x", 0.0)
	v.SetDefault("simulation.gravity_y", -physics.StandardGravity)
	v.SetDefault("simulation.g", physics.GravitationalConstant)
	v.SetDefault("simulation.default_restitution", physics.DefaultRestitution)
	v.SetDefault("simulation.broadphase", "brute")
	v.SetDefault("simulation.cell_size", 0.0)
	v.SetDefault("simulation.parallel_threshold", physics.DefaultParallelThreshold)

	// -- View --
	v.SetDefault("view.width", 80)
	v.SetDefault("view.height", 24)
	v.SetDefault("view.vector_scale", 0.25)
	v.SetDefault("view.min_radius", 0.5)

	// -- Live --
	v.SetDefault("live.fps", 30)
	v.SetDefault("live.preset", scenario.Collision.String())

	v.SetDefault("data_dir", "runs")
}

func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper decodes and validates the settings held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load reads path (optional) on top of the defaults, then applies
// environment overrides such as PHYSICIUM_LIVE_FPS.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return NewConfigFromViper(v)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (c *Config) Validate() error {
	s := c.Simulation
	if !finite(s.MaxStepMs) || s.MaxStepMs <= 0 {
		return invalid("simulation.max_step_ms must be positive, got %v", s.MaxStepMs)
	}
	if !finite(s.GravityX) || !finite(s.GravityY) {
		return invalid("simulation gravity must be finite")
	}
	if !finite(s.G) || s.G < 0 {
		return invalid("simulation.g must be non-negative, got %v", s.G)
	}
	if s.DefaultRestitution < 0 || s.DefaultRestitution > 1 || math.IsNaN(s.DefaultRestitution) {
		return invalid("simulation.default_restitution must be in [0,1], got %v", s.DefaultRestitution)
	}
	switch s.Broadphase {
	case "brute", "spatial":
	default:
		return invalid("simulation.broadphase must be brute or spatial, got %q", s.Broadphase)
	}
	if !finite(s.CellSize) || s.CellSize < 0 {
		return invalid("simulation.cell_size must be non-negative, got %v", s.CellSize)
	}
	if s.ParallelThreshold < 0 {
		return invalid("simulation.parallel_threshold must be non-negative, got %d", s.ParallelThreshold)
	}

	if c.View.Width <= 0 || c.View.Height <= 0 {
		return invalid("view size must be positive, got %dx%d", c.View.Width, c.View.Height)
	}
	if !finite(c.View.VectorScale) || c.View.VectorScale < 0 {
		return invalid("view.vector_scale must be non-negative, got %v", c.View.VectorScale)
	}
	if c.Live.FPS <= 0 || c.Live.FPS > 240 {
		return invalid("live.fps must be in 1..240, got %d", c.Live.FPS)
	}
	if _, err := scenario.ParsePreset(c.Live.Preset); err != nil {
		return fmt.Errorf("live.preset: %w", err)
	}
	if c.DataDir == "" {
		return invalid("data_dir is required")
	}
	return nil
}

// Physics converts the simulation section into a world configuration.
func (c *Config) Physics() physics.Config {
	s := c.Simulation
	cfg := physics.DefaultConfig()
	cfg.MaxStep = s.MaxStepMs / 1000
	cfg.Gravity = physics.Vec(s.GravityX, s.GravityY)
	cfg.G = s.G
	cfg.DefaultRestitution = s.DefaultRestitution
	cfg.ParallelThreshold = s.ParallelThreshold
	if s.Broadphase == "spatial" {
		cfg.Broadphase = physics.NewSpatialHash(s.CellSize)
	}
	return cfg
}
