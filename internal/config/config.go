// Package config builds the immutable configuration structs that
// internal/score, internal/alert and internal/indicator engines are
// constructed with, per SPEC_FULL.md §6: "all thresholds ... are
// constructed as immutable struct values passed to engine
// constructors. Engines never read ambient environment." Grounded on
// the Default*() idiom used throughout original_source/ (e.g.
// WyckoffConfig::default(), ScoreWeights::default()) and on
// gatiella-binance-trading-bot's gopkg.in/yaml.v3 config-file
// loading, the one place in the pack this program's lineage reaches
// for an override file instead of hardcoded defaults.
package config

import (
	"os"

	"idx-analytics/internal/alert"
	"idx-analytics/internal/indicator"
	"idx-analytics/internal/score"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config bundles every engine configuration the demo pipeline wires
// up. Each field is validated independently; LoadOverrides returns an error
// naming the first invalid component rather than silently
// substituting a default.
type Config struct {
	TechnicalWeights   score.TechnicalWeights
	FundamentalWeights score.FundamentalWeights
	CompositeWeights   score.CompositeWeights
	WyckoffConfig      indicator.WyckoffConfig
	BrokerAlertConfig  alert.BrokerAlertConfig
	TechnicalAlert     alert.TechnicalAlertConfig

	// RecomputeConcurrency bounds the in-flight symbol count for the
	// batch recompute-all-scores operation (SPEC_FULL.md §5).
	RecomputeConcurrency int
	// BarBufferCapacity bounds how many trailing bars each symbol's
	// rolling window keeps in memory.
	BarBufferCapacity int
	// EventBusCapacity is the per-subscriber broadcast channel depth.
	EventBusCapacity int
}

// Default returns the library defaults named throughout SPEC_FULL.md
// §4 and §5: default engine weights/thresholds, concurrency cap 8,
// one hour of 1-minute bars buffered per symbol, and a 1024-message
// event bus.
func Default() Config {
	return Config{
		TechnicalWeights:     score.DefaultTechnicalWeights(),
		FundamentalWeights:   score.DefaultFundamentalWeights(),
		CompositeWeights:     score.DefaultCompositeWeights(),
		WyckoffConfig:        indicator.DefaultWyckoffConfig(),
		BrokerAlertConfig:    alert.DefaultBrokerAlertConfig(),
		TechnicalAlert:       alert.DefaultTechnicalAlertConfig(),
		RecomputeConcurrency: 8,
		BarBufferCapacity:    3600,
		EventBusCapacity:     1024,
	}
}

// Validate constructs validated copies of every weight struct,
// surfacing a *score.WeightSumError (or similar) on the first
// component whose thresholds are structurally invalid.
func (c Config) Validate() error {
	if _, err := score.NewTechnicalWeights(c.TechnicalWeights); err != nil {
		return err
	}
	if _, err := score.NewFundamentalWeights(c.FundamentalWeights); err != nil {
		return err
	}
	if _, err := score.NewCompositeWeights(c.CompositeWeights); err != nil {
		return err
	}
	return nil
}

// overrideFile is the YAML shape of the demo entrypoint's optional
// config override file. Every field is optional; zero-value fields
// (the yaml.v3 decode default) leave the corresponding Default()
// value untouched.
type overrideFile struct {
	Weights *struct {
		Technical   map[string]float64 `yaml:"technical"`
		Fundamental map[string]float64 `yaml:"fundamental"`
		Composite   map[string]float64 `yaml:"composite"`
	} `yaml:"weights"`
	Alerts *struct {
		CoordinatedBrokerThreshold int `yaml:"coordinated_broker_threshold"`
		AccumulationMinDays        int `yaml:"accumulation_min_days"`
	} `yaml:"alerts"`
	RecomputeConcurrency int `yaml:"recompute_concurrency"`
	BarBufferCapacity    int `yaml:"bar_buffer_capacity"`
	EventBusCapacity     int `yaml:"event_bus_capacity"`
}

// LoadOverrides starts from Default() and applies any fields present
// in the YAML file at path. A missing file is not an error — it
// simply means "run with defaults", matching the teacher-pack's
// optional-.env idiom; a present-but-malformed file is.
func LoadOverrides(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var ov overrideFile
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return cfg, err
	}

	applyWeightOverrides(&cfg, ov)

	if ov.Alerts != nil {
		if ov.Alerts.CoordinatedBrokerThreshold > 0 {
			cfg.BrokerAlertConfig.CoordinatedBrokerThreshold = ov.Alerts.CoordinatedBrokerThreshold
		}
		if ov.Alerts.AccumulationMinDays > 0 {
			cfg.BrokerAlertConfig.AccumulationMinDays = ov.Alerts.AccumulationMinDays
		}
	}
	if ov.RecomputeConcurrency > 0 {
		cfg.RecomputeConcurrency = ov.RecomputeConcurrency
	}
	if ov.BarBufferCapacity > 0 {
		cfg.BarBufferCapacity = ov.BarBufferCapacity
	}
	if ov.EventBusCapacity > 0 {
		cfg.EventBusCapacity = ov.EventBusCapacity
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyWeightOverrides(cfg *Config, ov overrideFile) {
	if ov.Weights == nil {
		return
	}
	if v, ok := ov.Weights.Technical["order_flow"]; ok {
		cfg.TechnicalWeights.OrderFlow = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Technical["broker"]; ok {
		cfg.TechnicalWeights.Broker = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Technical["ema"]; ok {
		cfg.TechnicalWeights.EMA = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Technical["fibonacci"]; ok {
		cfg.TechnicalWeights.Fibonacci = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Technical["volume"]; ok {
		cfg.TechnicalWeights.Volume = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Technical["momentum"]; ok {
		cfg.TechnicalWeights.Momentum = decimal.NewFromFloat(v)
	}

	if v, ok := ov.Weights.Fundamental["valuation"]; ok {
		cfg.FundamentalWeights.Valuation = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Fundamental["dcf"]; ok {
		cfg.FundamentalWeights.DCF = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Fundamental["quality"]; ok {
		cfg.FundamentalWeights.Quality = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Fundamental["health"]; ok {
		cfg.FundamentalWeights.Health = decimal.NewFromFloat(v)
	}

	if v, ok := ov.Weights.Composite["technical"]; ok {
		cfg.CompositeWeights.Technical = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Composite["fundamental"]; ok {
		cfg.CompositeWeights.Fundamental = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Composite["sentiment"]; ok {
		cfg.CompositeWeights.Sentiment = decimal.NewFromFloat(v)
	}
	if v, ok := ov.Weights.Composite["ml"]; ok {
		cfg.CompositeWeights.ML = decimal.NewFromFloat(v)
	}
}
