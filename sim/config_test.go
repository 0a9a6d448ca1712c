package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero mean interarrival", func(c *Config) { c.MeanInterarrival = 0 }},
		{"negative mean interarrival", func(c *Config) { c.MeanInterarrival = -1 }},
		{"priority probability above one", func(c *Config) { c.PriorityProbability = 1.5 }},
		{"negative priority probability", func(c *Config) { c.PriorityProbability = -0.1 }},
		{"fast probability above one", func(c *Config) { c.FastProbability = 2 }},
		{"zero registration capacity", func(c *Config) { c.RegistrationCapacity = 0 }},
		{"negative sampling capacity", func(c *Config) { c.SamplingCapacity = -3 }},
		{"zero fast machine capacity", func(c *Config) { c.FastMachineCapacity = 0 }},
		{"zero slow machine capacity", func(c *Config) { c.SlowMachineCapacity = 0 }},
		{"verification enabled without capacity", func(c *Config) { c.VerificationCapacity = 0 }},
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
		{"negative warm-up", func(c *Config) { c.WarmUp = -10 }},
		{"mode below min", func(c *Config) { c.ServiceTimes.Registration = ServiceTriple{Min: 3, Mode: 2, Max: 5} }},
		{"mode above max", func(c *Config) { c.ServiceTimes.TestSlow = ServiceTriple{Min: 20, Mode: 50, Max: 45} }},
		{"negative min", func(c *Config) { c.ServiceTimes.Sampling = ServiceTriple{Min: -1, Mode: 2, Max: 3} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidate_IgnoresVerificationTripleWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VerificationEnabled = false
	cfg.VerificationCapacity = 0
	cfg.ServiceTimes.Verification = ServiceTriple{Min: 5, Mode: 1, Max: 2} // malformed, but unused
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ParsesScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
mean_interarrival: 3.5
priority_probability: 0.1
fast_probability: 0.9
registration_capacity: 2
horizon: 120
warm_up: 10
verification_enabled: false
service_times:
  registration:
    min: 1
    mode: 2
    max: 4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3.5, cfg.MeanInterarrival)
	assert.Equal(t, 0.1, cfg.PriorityProbability)
	assert.Equal(t, 0.9, cfg.FastProbability)
	assert.Equal(t, 2, cfg.RegistrationCapacity)
	assert.Equal(t, 120.0, cfg.Horizon)
	assert.Equal(t, 10.0, cfg.WarmUp)
	assert.False(t, cfg.VerificationEnabled)
	assert.Equal(t, ServiceTriple{Min: 1, Mode: 2, Max: 4}, cfg.ServiceTimes.Registration)
	// unspecified fields keep their defaults
	assert.Equal(t, 2, cfg.SamplingCapacity)
	assert.Equal(t, ServiceTriple{Min: 3, Mode: 5, Max: 8}, cfg.ServiceTimes.Sampling)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mean_interarrival: [not a number"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
