package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigHopSize(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 102, cfg.HopSize(), "1024 at 90%% overlap")

	cfg.OverlapFraction = 0
	assert.Equal(t, 1024, cfg.HopSize())

	cfg.SegmentLength = 2
	cfg.OverlapFraction = 0.9
	assert.Equal(t, 1, cfg.HopSize(), "hop never collapses to zero")
}

func TestConfigValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"even median kernel", func(c *Config) { c.MedianKernelSize = 4 }},
		{"even savgol window", func(c *Config) { c.SavgolWindowLength = 50 }},
		{"savgol order too high", func(c *Config) { c.SavgolPolyOrder = 51 }},
		{"zero highpass cutoff", func(c *Config) { c.HighpassCutoffHz = 0 }},
		{"odd highpass order", func(c *Config) { c.HighpassOrder = 3 }},
		{"zero threshold sigma", func(c *Config) { c.NoiseThresholdSigma = 0 }},
		{"zero segment length", func(c *Config) { c.SegmentLength = 0 }},
		{"full overlap", func(c *Config) { c.OverlapFraction = 1 }},
		{"zero freq cutoff", func(c *Config) { c.FreqCutoffHz = 0 }},
		{"zero window duration", func(c *Config) { c.WindowSeconds = 0 }},
		{"zero step", func(c *Config) { c.StepSeconds = 0 }},
		{"clip limit above one", func(c *Config) { c.ClipLimit = 1.5 }},
		{"zero event duration", func(c *Config) { c.EventSeconds = 0 }},
		{"negative start", func(c *Config) { c.StartSeconds = -1 }},
		{"end before start", func(c *Config) { c.StartSeconds = 100; c.EndSeconds = 50 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.IsType(t, &ConfigError{}, err)
		})
	}
}
