package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"first-zero": {
		Domain:  DomainConfig{ReMin: 0.4, ReMax: 0.6, ImMin: 13, ImMax: 15, Step: 0.02},
		Field:   DefaultConfig().Field,
		Backend: DefaultBackend,
		Output:  OutputConfig{Dir: DefaultOutputDir},
	},
	"deep-scan": {
		Domain: DomainConfig{ReMin: 0.4, ReMax: 0.6, ImMin: 0, ImMax: 100, Step: 0.05},
		Field: FieldConfig{
			Alpha: 1.0, Terms: 96, ZeroThreshold: 0.1, LineTolerance: 0.1,
			PotentialCeiling: DefaultPotentialCeiling, PoleEpsilon: DefaultPoleEpsilon,
		},
		Backend: DefaultBackend,
		Output:  OutputConfig{Dir: DefaultOutputDir},
	},
	"wide-strip": {
		Domain:  DomainConfig{ReMin: 0.1, ReMax: 0.9, ImMin: 0, ImMax: 30, Step: 0.1},
		Field:   DefaultConfig().Field,
		Backend: DefaultBackend,
		Output:  OutputConfig{Dir: DefaultOutputDir},
	},
	"coarse": {
		Domain:  DomainConfig{ReMin: 0.25, ReMax: 0.75, ImMin: 0, ImMax: 30, Step: 0.25},
		Field:   DefaultConfig().Field,
		Backend: DefaultBackend,
		Output:  OutputConfig{Dir: DefaultOutputDir},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not
// exist. Copies keep callers from mutating the shared table.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
