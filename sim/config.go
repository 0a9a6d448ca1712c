package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServiceTriple holds the (min, mode, max) bounds of a triangular service
// time distribution, in minutes.
type ServiceTriple struct {
	Min  float64 `yaml:"min"`
	Mode float64 `yaml:"mode"`
	Max  float64 `yaml:"max"`
}

func (t ServiceTriple) validate(stage string) error {
	if t.Min < 0 {
		return fmt.Errorf("service time %s: min must be non-negative, got %v", stage, t.Min)
	}
	if !(t.Min <= t.Mode && t.Mode <= t.Max) {
		return fmt.Errorf("service time %s: want min <= mode <= max, got (%v, %v, %v)", stage, t.Min, t.Mode, t.Max)
	}
	return nil
}

// ServiceTimes groups the per-stage triangular distributions.
type ServiceTimes struct {
	Registration ServiceTriple `yaml:"registration"`
	Sampling     ServiceTriple `yaml:"sampling"`
	TestFast     ServiceTriple `yaml:"test_fast"`
	TestSlow     ServiceTriple `yaml:"test_slow"`
	Verification ServiceTriple `yaml:"verification"`
}

// Config holds every parameter of a simulation run. All durations are in
// simulated minutes. A Config is validated once, before the run starts;
// the engine itself assumes a valid configuration.
type Config struct {
	MeanInterarrival    float64 `yaml:"mean_interarrival"`    // mean minutes between arrivals
	PriorityProbability float64 `yaml:"priority_probability"` // P(patient is expedited)
	FastProbability     float64 `yaml:"fast_probability"`     // P(patient needs the fast test)

	RegistrationCapacity int `yaml:"registration_capacity"`
	SamplingCapacity     int `yaml:"sampling_capacity"`
	FastMachineCapacity  int `yaml:"fast_machine_capacity"`
	SlowMachineCapacity  int `yaml:"slow_machine_capacity"`

	VerificationEnabled  bool `yaml:"verification_enabled"`
	VerificationCapacity int  `yaml:"verification_capacity"`

	Horizon float64 `yaml:"horizon"` // total simulated minutes
	WarmUp  float64 `yaml:"warm_up"` // arrivals before this are excluded from aggregates

	ServiceTimes ServiceTimes `yaml:"service_times"`
}

// DefaultConfig returns the baseline laboratory scenario: one registration
// desk, two phlebotomists, one machine of each type, verification on, an
// eight-hour day with a 30 minute warm-up.
func DefaultConfig() Config {
	return Config{
		MeanInterarrival:     5.0,
		PriorityProbability:  0.20,
		FastProbability:      0.70,
		RegistrationCapacity: 1,
		SamplingCapacity:     2,
		FastMachineCapacity:  1,
		SlowMachineCapacity:  1,
		VerificationEnabled:  true,
		VerificationCapacity: 1,
		Horizon:              480,
		WarmUp:               30,
		ServiceTimes: ServiceTimes{
			Registration: ServiceTriple{Min: 2, Mode: 3, Max: 5},
			Sampling:     ServiceTriple{Min: 3, Mode: 5, Max: 8},
			TestFast:     ServiceTriple{Min: 8, Mode: 12, Max: 18},
			TestSlow:     ServiceTriple{Min: 20, Mode: 30, Max: 45},
			Verification: ServiceTriple{Min: 1, Mode: 2, Max: 4},
		},
	}
}

// LoadConfig reads and parses a YAML scenario file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &cfg, nil
}

// Validate surfaces configuration errors before a run starts. The engine
// never re-checks these at runtime.
func (c *Config) Validate() error {
	if c.MeanInterarrival <= 0 {
		return fmt.Errorf("mean_interarrival must be positive, got %v", c.MeanInterarrival)
	}
	if c.PriorityProbability < 0 || c.PriorityProbability > 1 {
		return fmt.Errorf("priority_probability must be in [0,1], got %v", c.PriorityProbability)
	}
	if c.FastProbability < 0 || c.FastProbability > 1 {
		return fmt.Errorf("fast_probability must be in [0,1], got %v", c.FastProbability)
	}
	if c.RegistrationCapacity <= 0 {
		return fmt.Errorf("registration_capacity must be positive, got %d", c.RegistrationCapacity)
	}
	if c.SamplingCapacity <= 0 {
		return fmt.Errorf("sampling_capacity must be positive, got %d", c.SamplingCapacity)
	}
	if c.FastMachineCapacity <= 0 {
		return fmt.Errorf("fast_machine_capacity must be positive, got %d", c.FastMachineCapacity)
	}
	if c.SlowMachineCapacity <= 0 {
		return fmt.Errorf("slow_machine_capacity must be positive, got %d", c.SlowMachineCapacity)
	}
	if c.VerificationEnabled && c.VerificationCapacity <= 0 {
		return fmt.Errorf("verification_capacity must be positive when verification is enabled, got %d", c.VerificationCapacity)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %v", c.Horizon)
	}
	if c.WarmUp < 0 {
		return fmt.Errorf("warm_up must be non-negative, got %v", c.WarmUp)
	}
	triples := []struct {
		name string
		t    ServiceTriple
	}{
		{"registration", c.ServiceTimes.Registration},
		{"sampling", c.ServiceTimes.Sampling},
		{"test_fast", c.ServiceTimes.TestFast},
		{"test_slow", c.ServiceTimes.TestSlow},
	}
	if c.VerificationEnabled {
		triples = append(triples, struct {
			name string
			t    ServiceTriple
		}{"verification", c.ServiceTimes.Verification})
	}
	for _, st := range triples {
		if err := st.t.validate(st.name); err != nil {
			return err
		}
	}
	return nil
}
