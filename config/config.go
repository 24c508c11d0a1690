// Package config loads engine tuning parameters from a YAML file, the same
// kind/def envelope the teacher's reinforcement.FromYaml reads via
// spf13/viper and gopkg.in/yaml.v3. Every field defaults to the fixed
// constant spec.md pins; an override is an ambient affordance, not a
// semantic change to the rules in §4.6/§4.7.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// OuterConfig mirrors the teacher's kind/def envelope.
type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// EngineConfig holds every tunable the engine consults per tick. Defaults
// reproduce spec.md's numbers exactly.
type EngineConfig struct {
	StepTime float64 `mapstructure:"stepTime" yaml:"stepTime"`
	RNGSeed  int64   `mapstructure:"rngSeed" yaml:"rngSeed"`

	// Jam reroute (§4.6a): jam counter threshold is jamMultiplier*(jamConstant+(2p-1)) seconds.
	JamMultiplier float64 `mapstructure:"jamMultiplier" yaml:"jamMultiplier"`
	JamConstant   float64 `mapstructure:"jamConstant" yaml:"jamConstant"`

	// Pre-junction lane change (§4.6d).
	LaneChangeNearDistance   float64 `mapstructure:"laneChangeNearDistance" yaml:"laneChangeNearDistance"`
	LaneChangeMidDistance    float64 `mapstructure:"laneChangeMidDistance" yaml:"laneChangeMidDistance"`
	LaneChangeFarDistance    float64 `mapstructure:"laneChangeFarDistance" yaml:"laneChangeFarDistance"`
	LaneChangeBaseProb       float64 `mapstructure:"laneChangeBaseProb" yaml:"laneChangeBaseProb"`
	LaneChangeMoveCoinProb   float64 `mapstructure:"laneChangeMoveCoinProb" yaml:"laneChangeMoveCoinProb"`

	// Opportunistic pass (§4.6f).
	PassSpeedRatio float64 `mapstructure:"passSpeedRatio" yaml:"passSpeedRatio"`
	PassBoost      float64 `mapstructure:"passBoost" yaml:"passBoost"`
	PassProb       float64 `mapstructure:"passProb" yaml:"passProb"`

	// Pedestrian rule (§4.7).
	PedestrianDawdleProb  float64 `mapstructure:"pedestrianDawdleProb" yaml:"pedestrianDawdleProb"`
	PedestrianNudgeProb   float64 `mapstructure:"pedestrianNudgeProb" yaml:"pedestrianNudgeProb"`
	PedestrianUndoProb    float64 `mapstructure:"pedestrianUndoProb" yaml:"pedestrianUndoProb"`
}

// Default returns the engine configuration matching spec.md's fixed numbers.
func Default() *EngineConfig {
	return &EngineConfig{
		StepTime:               1.0,
		RNGSeed:                1,
		JamMultiplier:          60,
		JamConstant:            3,
		LaneChangeNearDistance: 10,
		LaneChangeMidDistance:  20,
		LaneChangeFarDistance:  40,
		LaneChangeBaseProb:     0.4,
		LaneChangeMoveCoinProb: 0.5,
		PassSpeedRatio:         1.5,
		PassBoost:              2.0,
		PassProb:               0.5,
		PedestrianDawdleProb:   0.2,
		PedestrianNudgeProb:    0.5,
		PedestrianUndoProb:     0.25,
	}
}

// FromYaml loads an EngineConfig from path, starting from Default and
// overriding whichever fields the file specifies, via the same viper ->
// yaml.Marshal -> yaml.Unmarshal round trip the teacher's FromYaml uses to
// unwrap a kind/def envelope.
func FromYaml(path string) (*EngineConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outer := &OuterConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return nil, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(spec, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
