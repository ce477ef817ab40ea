// Package models defines the shared data structures: observations,
// candidates, tokens, configuration and the runs API envelope.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Interpolation modes for synthesizing scale steps between anchors.
const (
	InterpolationHuePreserving = "hue-preserving"
	InterpolationLinearRGB     = "linear-rgb"
)

// TrustConfig assigns merge weight per provenance class. Stylesheet
// literals outrank values inferred from rendered markup.
type TrustConfig struct {
	Computed   float64 `yaml:"computed"`
	Stylesheet float64 `yaml:"stylesheet"`
}

// ResolverConfig carries every threshold resolution consults. The
// struct is read-only once a run starts; no stage mutates it.
type ResolverConfig struct {
	// NeutralSaturationMax is the HSL saturation below which a color
	// counts as neutral.
	NeutralSaturationMax float64 `yaml:"neutral_saturation_max"`
	// NeutralChannelSpread is the max(R,G,B)-min(R,G,B) distance at or
	// below which a color counts as neutral regardless of saturation.
	NeutralChannelSpread float64 `yaml:"neutral_channel_spread"`
	// MinScaleSpread is the luminance range observed neutrals must
	// cover before they are used as a ramp without synthesis.
	MinScaleSpread float64 `yaml:"min_scale_spread"`
	// MinScaleBands is the number of distinct luminance bands observed
	// neutrals must occupy before they are used as a ramp.
	MinScaleBands int `yaml:"min_scale_bands"`
	// AgreementTolerance is the Euclidean RGB distance within which two
	// sources count as agreeing on a color.
	AgreementTolerance float64 `yaml:"agreement_tolerance"`
	// SingleSourceConfidence is the confidence assigned when only one
	// source backs a resolved value.
	SingleSourceConfidence float64 `yaml:"single_source_confidence"`
	// Interpolation selects how synthesized steps travel between
	// anchors: hue-preserving blends toward the nearest anchor's hue,
	// linear-rgb lerps channels between the anchors directly.
	Interpolation string `yaml:"interpolation"`
}

// DeriveConfig holds the shift percentages for derived state tokens.
// Hover and Active darken the base; the rest lighten it.
type DeriveConfig struct {
	Hover       float64 `yaml:"hover"`
	Active      float64 `yaml:"active"`
	Disabled    float64 `yaml:"disabled"`
	Light       float64 `yaml:"light"`
	LightHover  float64 `yaml:"light_hover"`
	LightActive float64 `yaml:"light_active"`
}

// ResolveOptions bundles the immutable per-run knobs handed to the
// resolution engine.
type ResolveOptions struct {
	Resolver ResolverConfig
	Derive   DeriveConfig
}

// Config is the full runtime configuration, loadable from YAML and
// overridable per-flag.
type Config struct {
	URLs        []string       `yaml:"urls,omitempty"`
	WorkerCount int            `yaml:"workers"`
	OutputDir   string         `yaml:"output_dir"`
	Trust       TrustConfig    `yaml:"trust"`
	Resolver    ResolverConfig `yaml:"resolver"`
	Derive      DeriveConfig   `yaml:"derive"`
}

// DefaultConfig returns the configuration used when no file or flags
// override anything.
func DefaultConfig() *Config {
	return &Config{
		WorkerCount: 4,
		OutputDir:   "themescrape-results",
		Trust: TrustConfig{
			Computed:   1.0,
			Stylesheet: 2.0,
		},
		Resolver: ResolverConfig{
			NeutralSaturationMax:   0.12,
			NeutralChannelSpread:   10,
			MinScaleSpread:         100,
			MinScaleBands:          3,
			AgreementTolerance:     20,
			SingleSourceConfidence: 0.5,
			Interpolation:          InterpolationHuePreserving,
		},
		Derive: DeriveConfig{
			Hover:       10,
			Active:      20,
			Disabled:    60,
			Light:       88,
			LightHover:  82,
			LightActive: 75,
		},
	}
}

// Options returns the engine knobs from the config.
func (c *Config) Options() ResolveOptions {
	return ResolveOptions{Resolver: c.Resolver, Derive: c.Derive}
}

// LoadConfig reads a YAML config file over the defaults, so a partial
// file only overrides the keys it names.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
