package config

import "sort"

// Presets are ready-made configurations for common scenarios.
var Presets = map[string]*Config{
	"small": {
		Particles: 500, Steps: 500, Dt: 0.2, Strategy: "scattered",
		SceneScale: 100, MaxSpeed: 1,
		Cohesion:   RuleConfig{Distance: 5, Scale: 0.01},
		Separation: RuleConfig{Distance: 3, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 5, Scale: 0.1},
	},
	"standard": {
		Particles: 5000, Steps: 500, Dt: 0.2, Strategy: "coherent",
		SceneScale: 100, MaxSpeed: 1,
		Cohesion:   RuleConfig{Distance: 5, Scale: 0.01},
		Separation: RuleConfig{Distance: 3, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 5, Scale: 0.1},
	},
	"dense": {
		Particles: 20000, Steps: 300, Dt: 0.2, Strategy: "coherent",
		SceneScale: 100, MaxSpeed: 1,
		Cohesion:   RuleConfig{Distance: 5, Scale: 0.01},
		Separation: RuleConfig{Distance: 3, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 5, Scale: 0.1},
	},
	"loose": {
		Particles: 2000, Steps: 500, Dt: 0.2, Strategy: "coherent",
		SceneScale: 200, MaxSpeed: 1.5,
		Cohesion:   RuleConfig{Distance: 10, Scale: 0.02},
		Separation: RuleConfig{Distance: 4, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 10, Scale: 0.1},
	},
	"baseline": {
		Particles: 1000, Steps: 200, Dt: 0.2, Strategy: "brute",
		SceneScale: 100, MaxSpeed: 1,
		Cohesion:   RuleConfig{Distance: 5, Scale: 0.01},
		Separation: RuleConfig{Distance: 3, Scale: 0.1},
		Alignment:  RuleConfig{Distance: 5, Scale: 0.1},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
