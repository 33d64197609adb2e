package config

import "sort"

var Presets = map[string]*Config{
	"sample": DefaultConfig(),
	"coffee": withLabels(&Config{
		Initial: 85, Ambient: 22, ObservedTemp: ptr(70), ObservedTime: ptr(5),
		Minutes: 90, Samples: DefaultSamples, Precision: DefaultPrecision,
		Integrator: DefaultIntegrator, Dt: DefaultDt,
	}, "Cup of coffee on the desk"),
	"forensic": withLabels(&Config{
		Initial: 37, Ambient: 18, ObservedTemp: ptr(34.5), ObservedTime: ptr(60),
		Minutes: 720, Samples: DefaultSamples, Precision: 6,
		Integrator: DefaultIntegrator, Dt: 0.1,
	}, "Body temperature after death"),
	"warming": withLabels(&Config{
		Initial: 4, Ambient: 22, ObservedTemp: ptr(10), ObservedTime: ptr(15),
		Minutes: 180, Samples: DefaultSamples, Precision: DefaultPrecision,
		Integrator: DefaultIntegrator, Dt: DefaultDt,
	}, "Soda out of the fridge"),
}

func withLabels(c *Config, title string) *Config {
	c.Labels = DefaultConfig().Labels
	c.Labels.Title = title
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
