package sim

import (
	"container/heap"
	"math"
	"reflect"
	"testing"
)

// baseTestConfig is the default scenario with the warm-up disabled so every
// completed patient is counted.
func baseTestConfig() Config {
	cfg := DefaultConfig()
	cfg.WarmUp = 0
	return cfg
}

func TestRunSimulation_Determinism(t *testing.T) {
	// GIVEN one configuration and one seed
	cfg := baseTestConfig()

	// WHEN the simulation is run twice
	first, err := RunSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}
	second, err := RunSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	// THEN the two event logs are identical
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with the same config and seed produced different logs")
	}

	// AND a different seed produces a different log
	other, err := RunSimulation(cfg, 43)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}
	if reflect.DeepEqual(first, other) {
		t.Error("different seeds produced identical logs")
	}
}

func TestRunSimulation_SystemTimeIdentity(t *testing.T) {
	// GIVEN a completed run
	log, err := RunSimulation(baseTestConfig(), 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}
	if len(log.Patients) == 0 {
		t.Fatal("no completed patients")
	}

	for _, rec := range log.Patients {
		// THEN system time equals finish minus arrival
		if rec.SystemTime != rec.FinishTime-rec.ArrivalTime {
			t.Errorf("patient %d: SystemTime %v != FinishTime-ArrivalTime %v",
				rec.PID, rec.SystemTime, rec.FinishTime-rec.ArrivalTime)
		}
		// AND it decomposes exactly into waits plus service durations
		// (no idle time is modelled)
		waits := rec.WaitReg + rec.WaitSample + rec.WaitMachine + rec.WaitVerify
		services := rec.ServiceReg + rec.ServiceSample + rec.ServiceMachine + rec.ServiceVerify
		if diff := math.Abs(rec.SystemTime - (waits + services)); diff > 1e-9 {
			t.Errorf("patient %d: SystemTime %v != waits %v + services %v (diff %v)",
				rec.PID, rec.SystemTime, waits, services, diff)
		}
		if rec.SystemTime < waits {
			t.Errorf("patient %d: SystemTime %v below wait sum %v", rec.PID, rec.SystemTime, waits)
		}
		// AND per-stage waits are never negative
		if rec.WaitReg < 0 || rec.WaitSample < 0 || rec.WaitMachine < 0 || rec.WaitVerify < 0 {
			t.Errorf("patient %d: negative stage wait: %+v", rec.PID, rec)
		}
	}
}

func TestRunSimulation_FastOnlySingleServerScenario(t *testing.T) {
	// GIVEN a one-hour fast-only scenario with single-slot pools
	cfg := baseTestConfig()
	cfg.MeanInterarrival = 5
	cfg.PriorityProbability = 0
	cfg.FastProbability = 1
	cfg.RegistrationCapacity = 1
	cfg.SamplingCapacity = 1
	cfg.FastMachineCapacity = 1
	cfg.SlowMachineCapacity = 1
	cfg.VerificationEnabled = false
	cfg.Horizon = 60
	cfg.WarmUp = 0

	// WHEN the simulation runs
	log, err := RunSimulation(cfg, 1)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	// THEN the arrival count is in a plausible Poisson band around 12
	arrivals := log.Counts.Fast + log.Counts.Slow
	if arrivals < 4 || arrivals > 30 {
		t.Errorf("arrivals in 60 min at mean gap 5: got %d, want within [4, 30]", arrivals)
	}
	// AND every patient is fast-type and normal-class
	if log.Counts.Slow != 0 {
		t.Errorf("slow arrivals: got %d, want 0", log.Counts.Slow)
	}
	if log.Counts.Expedited != 0 {
		t.Errorf("expedited arrivals: got %d, want 0", log.Counts.Expedited)
	}
	for _, rec := range log.Patients {
		if rec.TestType != TestFast {
			t.Errorf("patient %d: test type got %v, want TestFast", rec.PID, rec.TestType)
		}
		// AND the disabled verification stage left no trace
		if rec.WaitVerify != 0 || rec.ServiceVerify != 0 {
			t.Errorf("patient %d: verification figures set with stage disabled: %+v", rec.PID, rec)
		}
	}
	// AND completions never exceed arrivals
	if len(log.Patients) > arrivals {
		t.Errorf("completed %d patients out of %d arrivals", len(log.Patients), arrivals)
	}
	if len(log.Patients) == 0 {
		t.Error("expected at least one completion within the hour")
	}
}

func TestRunSimulation_RegistrationWaitGrowsAsCapacityShrinks(t *testing.T) {
	// GIVEN an overload-prone registration stage (modal service 8 min
	// against a 5 min mean inter-arrival) and ample downstream capacity
	cfg := baseTestConfig()
	cfg.ServiceTimes.Registration = ServiceTriple{Min: 6, Mode: 8, Max: 10}
	cfg.SamplingCapacity = 50
	cfg.FastMachineCapacity = 50
	cfg.SlowMachineCapacity = 50
	cfg.VerificationCapacity = 50
	cfg.Horizon = 480
	cfg.WarmUp = 0

	// WHEN registration capacity is reduced across {3, 2, 1}
	meanWait := func(capacity int) float64 {
		c := cfg
		c.RegistrationCapacity = capacity
		log, err := RunSimulation(c, 7)
		if err != nil {
			t.Fatalf("RunSimulation capacity=%d: %v", capacity, err)
		}
		return SafeMean(log.Counted.WaitReg)
	}
	wait3 := meanWait(3)
	wait2 := meanWait(2)
	wait1 := meanWait(1)

	// THEN mean registration wait grows monotonically as capacity shrinks
	if !(wait1 >= wait2 && wait2 >= wait3) {
		t.Errorf("mean registration wait not monotone: cap1=%.2f cap2=%.2f cap3=%.2f", wait1, wait2, wait3)
	}
	// AND the single-desk case is visibly congested
	if wait1 <= wait3 {
		t.Errorf("expected congestion at capacity 1: cap1=%.2f cap3=%.2f", wait1, wait3)
	}
}

func TestRunSimulation_WarmUpExcludedFromCountedMetrics(t *testing.T) {
	// GIVEN a run with a 30 minute warm-up
	cfg := DefaultConfig()
	cfg.WarmUp = 30

	// WHEN the simulation runs
	log, err := RunSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	// THEN warm-up patients are archived in the full log
	warmUpCompleted := 0
	countedCompleted := 0
	for _, rec := range log.Patients {
		if rec.ArrivalTime < cfg.WarmUp {
			warmUpCompleted++
		} else {
			countedCompleted++
		}
	}
	if warmUpCompleted == 0 {
		t.Fatal("expected completed patients with arrival before the warm-up threshold")
	}
	// AND only post-warm-up patients feed the counted series
	if got := len(log.Counted.SystemTime); got != countedCompleted {
		t.Errorf("counted system times: got %d, want %d (post-warm-up completions)", got, countedCompleted)
	}
	if got := len(log.Counted.WaitReg); got != countedCompleted {
		t.Errorf("counted registration waits: got %d, want %d", got, countedCompleted)
	}
}

func TestRunSimulation_TruncatesAtHorizon(t *testing.T) {
	// GIVEN a completed run
	cfg := baseTestConfig()
	log, err := RunSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	// THEN every logged patient finished strictly inside the horizon
	for _, rec := range log.Patients {
		if rec.FinishTime >= cfg.Horizon {
			t.Errorf("patient %d: FinishTime %v at or past horizon %v", rec.PID, rec.FinishTime, cfg.Horizon)
		}
	}
	// AND patients still in flight at the horizon were dropped, not logged
	arrivals := log.Counts.Expedited + log.Counts.Normal
	if len(log.Patients) > arrivals {
		t.Errorf("completed %d patients out of %d arrivals", len(log.Patients), arrivals)
	}
}

func TestRunSimulation_RejectsInvalidConfig(t *testing.T) {
	// GIVEN a configuration with a non-positive mean inter-arrival
	cfg := baseTestConfig()
	cfg.MeanInterarrival = 0

	// WHEN the simulation is started
	log, err := RunSimulation(cfg, 42)

	// THEN it fails before running and returns no log
	if err == nil {
		t.Error("RunSimulation accepted a non-positive mean inter-arrival")
	}
	if log != nil {
		t.Error("RunSimulation returned a log for an invalid configuration")
	}
}

func TestRunSimulation_VerificationDisabled_NoCountedVerifyWaits(t *testing.T) {
	// GIVEN verification disabled
	cfg := baseTestConfig()
	cfg.VerificationEnabled = false

	// WHEN the simulation runs
	log, err := RunSimulation(cfg, 42)
	if err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}

	// THEN the counted verification series stays empty
	if len(log.Counted.WaitVerify) != 0 {
		t.Errorf("counted verification waits: got %d entries, want 0", len(log.Counted.WaitVerify))
	}
	if len(log.Patients) == 0 {
		t.Fatal("no completed patients")
	}
}

func TestSimulator_EventQueue_SameInstantFiresInScheduleOrder(t *testing.T) {
	// GIVEN three events: two at the same timestamp, one earlier
	s := NewSimulator(baseTestConfig(), 1)
	p1 := &Patient{PID: 1, Stage: StageInReg}
	p2 := &Patient{PID: 2, Stage: StageInReg}
	p3 := &Patient{PID: 3, Stage: StageInReg}
	s.Schedule(&ServiceDoneEvent{time: 10, Patient: p1})
	s.Schedule(&ServiceDoneEvent{time: 10, Patient: p2})
	s.Schedule(&ServiceDoneEvent{time: 5, Patient: p3})

	// WHEN the queue is drained
	first := heap.Pop(&s.EventQueue).(eventEntry).ev.(*ServiceDoneEvent)
	second := heap.Pop(&s.EventQueue).(eventEntry).ev.(*ServiceDoneEvent)
	third := heap.Pop(&s.EventQueue).(eventEntry).ev.(*ServiceDoneEvent)

	// THEN the earliest timestamp fires first, and equal timestamps fire in
	// scheduling order
	if first.Patient != p3 {
		t.Errorf("first event: got PID %d, want 3 (earliest timestamp)", first.Patient.PID)
	}
	if second.Patient != p1 || third.Patient != p2 {
		t.Errorf("same-instant order: got PIDs (%d, %d), want (1, 2)", second.Patient.PID, third.Patient.PID)
	}
}
