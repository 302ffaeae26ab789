package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultParticles  = 5000
	DefaultSteps      = 500
	DefaultDt         = 0.2
	DefaultStrategy   = "coherent"
	DefaultSceneScale = 100.0
	DefaultMaxSpeed   = 1.0
)

// RuleConfig is one flocking rule: how far a neighbor can be to count, and
// how strongly the rule steers.
type RuleConfig struct {
	Distance float32 `yaml:"distance"`
	Scale    float32 `yaml:"scale"`
}

type Config struct {
	Particles  int        `yaml:"particles"`
	Steps      int        `yaml:"steps"`
	Dt         float32    `yaml:"dt"`
	Strategy   string     `yaml:"strategy"`
	Seed       int64      `yaml:"seed"`
	Workers    int        `yaml:"workers"`
	SceneScale float32    `yaml:"scene_scale"`
	MaxSpeed   float32    `yaml:"max_speed"`
	Cohesion   RuleConfig `yaml:"cohesion"`
	Separation RuleConfig `yaml:"separation"`
	Alignment  RuleConfig `yaml:"alignment"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:  DefaultParticles,
		Steps:      DefaultSteps,
		Dt:         DefaultDt,
		Strategy:   DefaultStrategy,
		SceneScale: DefaultSceneScale,
		MaxSpeed:   DefaultMaxSpeed,
		Cohesion:   RuleConfig{Distance: 5.0, Scale: 0.01},
		Separation: RuleConfig{Distance: 3.0, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 5.0, Scale: 0.1},
	}
}

// Load reads a yaml config on top of the defaults, so partial files work.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Steps)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	switch c.Strategy {
	case "brute", "scattered", "coherent":
	default:
		return fmt.Errorf("config: unknown strategy %q", c.Strategy)
	}
	for name, rule := range map[string]RuleConfig{
		"cohesion":   c.Cohesion,
		"separation": c.Separation,
		"alignment":  c.Alignment,
	} {
		if rule.Distance <= 0 {
			return fmt.Errorf("config: %s distance must be positive, got %f", name, rule.Distance)
		}
		if rule.Scale < 0 {
			return fmt.Errorf("config: %s scale must not be negative, got %f", name, rule.Scale)
		}
	}
	if c.SceneScale <= 0 {
		return fmt.Errorf("config: scene_scale must be positive, got %f", c.SceneScale)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("config: max_speed must be positive, got %f", c.MaxSpeed)
	}
	return nil
}
