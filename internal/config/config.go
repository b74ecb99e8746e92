// Package config resolves the generator's Config from difficulty
// presets or a JSON override file. An override file is read on its own;
// it is not merged onto a preset, so a field it omits is left at zero.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/herbhall/topomines/internal/generator"
	"github.com/herbhall/topomines/internal/topology"
)

// Preset names one of the informative difficulty defaults from the
// specification.
type Preset string

const (
	Beginner     Preset = "beginner"
	Intermediate Preset = "intermediate"
	Expert       Preset = "expert"
	Maniac       Preset = "maniac"
)

var presets = map[Preset]generator.Config{
	Beginner:     {Width: 9, Height: 9, Mines: 10, Topology: topology.Square},
	Intermediate: {Width: 16, Height: 16, Mines: 40, Topology: topology.Square},
	Expert:       {Width: 30, Height: 16, Mines: 99, Topology: topology.Square},
	Maniac:       {Width: 48, Height: 24, Mines: 256, Topology: topology.Torus},
}

// Presets lists every built-in preset name, in ascending difficulty.
func Presets() []Preset { return []Preset{Beginner, Intermediate, Expert, Maniac} }

// ForPreset returns the generator.Config for name, falling back to
// Beginner for an unrecognised name.
func ForPreset(name Preset) generator.Config {
	if cfg, ok := presets[name]; ok {
		return cfg
	}
	return presets[Beginner]
}

// fileConfig mirrors generator.Config for JSON decoding; Topology is
// spelled out so override files stay human-editable.
type fileConfig struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Mines    int    `json:"mines"`
	Topology string `json:"topology"`
}

var topologyNames = map[string]topology.Kind{
	"square":     topology.Square,
	"torus":      topology.Torus,
	"mobius":     topology.Mobius,
	"klein":      topology.Klein,
	"projective": topology.Projective,
}

// LoadOverride reads a JSON file describing a custom board configuration,
// for hosts that want to let a player type in a width/height/mines/
// topology combination instead of picking a preset.
func LoadOverride(path string) (generator.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is operator-supplied, not web input
	if err != nil {
		return generator.Config{}, err
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return generator.Config{}, err
	}
	kind, ok := topologyNames[fc.Topology]
	if !ok {
		return generator.Config{}, fmt.Errorf("config: unknown topology %q", fc.Topology)
	}
	return generator.Config{Width: fc.Width, Height: fc.Height, Mines: fc.Mines, Topology: kind}, nil
}
