package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/san-kum/coolsim/internal/config"
)

// resolveScenario builds the effective config: preset, then config file,
// then any flag set on the command line.
func resolveScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadWith(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("scenario resolved",
		"preset", preset,
		"config", configFile,
		"initial", cfg.Initial,
		"ambient", cfg.Ambient,
		"observation", cfg.Observation() != nil,
	)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("initial") {
		cfg.Initial = initial
	}
	if flags.Changed("ambient") {
		cfg.Ambient = ambient
	}
	if flags.Changed("observed-temp") {
		cfg.ObservedTemp = &observedTemp
	}
	if flags.Changed("observed-time") {
		cfg.ObservedTime = &observedTime
	}
	if noObserve {
		cfg.ObservedTemp, cfg.ObservedTime = nil, nil
	}
	if flags.Changed("minutes") {
		cfg.Minutes = minutes
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
}
