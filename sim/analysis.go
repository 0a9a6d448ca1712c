// Derived views over a finished run: bottleneck detection, utilization
// estimation, and staffing recommendations. These are pure functions
// consumed by the presentation layer; no protocol or file format here.

package sim

import (
	"fmt"
	"math"
)

// Stage labels used by the bottleneck and utilization reports.
const (
	StageLabelRegistration = "registration"
	StageLabelSampling     = "sampling"
	StageLabelTestMachine  = "test-machine"
	StageLabelVerification = "verification"
)

// bottleneckOrder fixes the tie-break: the first stage with the maximal
// mean wait wins.
var bottleneckOrder = []string{
	StageLabelRegistration,
	StageLabelSampling,
	StageLabelTestMachine,
	StageLabelVerification,
}

// BottleneckReport names the stage with the highest mean wait and its share
// of the total wait across all four stages.
type BottleneckReport struct {
	Stage      string
	MeanWait   float64
	Severity   float64 // percent of the four-stage wait sum; 0 when the sum is 0
	StageWaits map[string]float64
}

// meanOrZero is SafeMean with 0 instead of NaN for empty series, so stages
// with no samples (e.g. verification disabled) still contribute a 0 term to
// the severity denominator.
func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return SafeMean(xs)
}

// AnalyzeBottleneck identifies the stage patients wait longest for.
// The severity denominator always sums all four stage means; a disabled
// verification stage contributes 0 rather than being dropped.
func AnalyzeBottleneck(log *EventLog) BottleneckReport {
	waits := map[string]float64{
		StageLabelRegistration: meanOrZero(log.Counted.WaitReg),
		StageLabelSampling:     meanOrZero(log.Counted.WaitSample),
		StageLabelTestMachine:  meanOrZero(log.Counted.WaitMachine),
		StageLabelVerification: meanOrZero(log.Counted.WaitVerify),
	}

	bottleneck := bottleneckOrder[0]
	total := 0.0
	for _, stage := range bottleneckOrder {
		total += waits[stage]
		if waits[stage] > waits[bottleneck] {
			bottleneck = stage
		}
	}

	severity := 0.0
	if total > 0 {
		severity = waits[bottleneck] / total * 100
	}

	return BottleneckReport{
		Stage:      bottleneck,
		MeanWait:   waits[bottleneck],
		Severity:   severity,
		StageWaits: waits,
	}
}

// Utilization holds the per-pool utilization estimates in percent.
type Utilization struct {
	Registration float64
	Sampling     float64
	FastMachines float64
	SlowMachines float64
	Verification float64
}

func capPercent(v float64) float64 {
	return math.Min(v, 100)
}

// EstimateUtilization computes the analytic utilization estimate per pool:
// (patients served by the pool x the stage's modal service time) /
// (capacity x horizon), capped at 100%. This is not a busy-time
// re-simulation; it is accurate only insofar as service durations cluster
// near the mode. Returns the zero value when no patient completed.
func EstimateUtilization(log *EventLog, cfg Config) Utilization {
	if len(log.Patients) == 0 {
		return Utilization{}
	}

	total := float64(len(log.Patients))
	fast := float64(log.Counts.Fast)
	slow := float64(log.Counts.Slow)
	horizon := cfg.Horizon
	st := cfg.ServiceTimes

	u := Utilization{
		Registration: capPercent(total * st.Registration.Mode / (float64(cfg.RegistrationCapacity) * horizon) * 100),
		Sampling:     capPercent(total * st.Sampling.Mode / (float64(cfg.SamplingCapacity) * horizon) * 100),
		FastMachines: capPercent(fast * st.TestFast.Mode / (float64(cfg.FastMachineCapacity) * horizon) * 100),
		SlowMachines: capPercent(slow * st.TestSlow.Mode / (float64(cfg.SlowMachineCapacity) * horizon) * 100),
	}
	if cfg.VerificationEnabled {
		u.Verification = capPercent(total * st.Verification.Mode / (float64(cfg.VerificationCapacity) * horizon) * 100)
	}
	return u
}

// Recommendation is one optimization suggestion for the configuration.
// Level is "critical", "warning", "info", or "success".
type Recommendation struct {
	Level  string
	Title  string
	Detail string
	Impact string
}

// utilizationEntries flattens a Utilization in fixed reporting order.
func utilizationEntries(u Utilization) []struct {
	Name  string
	Value float64
} {
	return []struct {
		Name  string
		Value float64
	}{
		{"registration", u.Registration},
		{"sampling", u.Sampling},
		{"fast machines", u.FastMachines},
		{"slow machines", u.SlowMachines},
		{"verification", u.Verification},
	}
}

// Recommend derives staffing suggestions from the bottleneck report and the
// utilization estimates. A bottleneck holding more than 40% of the total
// wait is critical; pools above 85% utilization are flagged as near
// overload; pools below 30% (but in use) as candidates for downsizing.
// When nothing triggers, a single success entry is returned.
func Recommend(b BottleneckReport, u Utilization, cfg Config) []Recommendation {
	recs := []Recommendation{}

	if b.Severity > 40 {
		switch b.Stage {
		case StageLabelRegistration:
			recs = append(recs, Recommendation{
				Level: "critical",
				Title: "Add registration staff",
				Detail: fmt.Sprintf("Registration is the main bottleneck (%.1f%% of total wait). Consider increasing staff from %d to %d.",
					b.Severity, cfg.RegistrationCapacity, cfg.RegistrationCapacity+1),
				Impact: "Estimated wait reduction: 30-50%",
			})
		case StageLabelSampling:
			recs = append(recs, Recommendation{
				Level: "critical",
				Title: "Add sampling staff",
				Detail: fmt.Sprintf("Sample collection is the main bottleneck (%.1f%% of total wait). Consider increasing staff from %d to %d.",
					b.Severity, cfg.SamplingCapacity, cfg.SamplingCapacity+1),
				Impact: "Estimated wait reduction: 25-45%",
			})
		case StageLabelTestMachine:
			recs = append(recs, Recommendation{
				Level: "critical",
				Title: "Add test machine capacity",
				Detail: fmt.Sprintf("The test machines are the main bottleneck (%.1f%% of total wait). Consider adding fast or slow machines.",
					b.Severity),
				Impact: "Estimated wait reduction: 35-55%",
			})
		}
	}

	for _, e := range utilizationEntries(u) {
		if e.Value > 85 {
			recs = append(recs, Recommendation{
				Level:  "warning",
				Title:  fmt.Sprintf("High utilization: %s", e.Name),
				Detail: fmt.Sprintf("Utilization of %s is %.1f%%; the pool is close to overload.", e.Name, e.Value),
				Impact: "Risk of long queues at peak demand",
			})
		}
	}

	for _, e := range utilizationEntries(u) {
		if e.Value > 0 && e.Value < 30 {
			recs = append(recs, Recommendation{
				Level:  "info",
				Title:  fmt.Sprintf("Low utilization: %s", e.Name),
				Detail: fmt.Sprintf("Utilization of %s is only %.1f%%; its capacity could be reduced.", e.Name, e.Value),
				Impact: "Potential operating cost savings",
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Level:  "success",
			Title:  "System balanced",
			Detail: "No significant bottleneck detected; the configuration is performing well.",
			Impact: "Keep the current configuration",
		})
	}

	return recs
}
