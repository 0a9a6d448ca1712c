// Defines the Patient struct that models an individual visitor in the simulation.
// Tracks arrival time, stage progress, per-stage waits and service durations.

package sim

import (
	"fmt"
)

// PriorityClass is the admission class of a patient. Lower values are served
// first at every resource pool. The class affects queue position only; it
// never preempts a patient already in service.
type PriorityClass int

const (
	Expedited PriorityClass = iota
	Normal
)

func (c PriorityClass) String() string {
	switch c {
	case Expedited:
		return "expedited"
	case Normal:
		return "normal"
	default:
		return fmt.Sprintf("PriorityClass(%d)", int(c))
	}
}

// TestType selects which machine pool a patient occupies during the test
// stage. The pools are disjoint: a fast-type patient never takes a slow
// machine slot and vice versa.
type TestType int

const (
	TestFast TestType = iota
	TestSlow
)

func (t TestType) String() string {
	switch t {
	case TestFast:
		return "fast"
	case TestSlow:
		return "slow"
	default:
		return fmt.Sprintf("TestType(%d)", int(t))
	}
}

// Stage is the lifecycle state of a patient. Stages advance strictly in
// declaration order; the verification pair is skipped when the verification
// stage is disabled in the configuration.
type Stage int

const (
	StageArrived Stage = iota
	StageQueuedReg
	StageInReg
	StageQueuedSample
	StageInSample
	StageQueuedTest
	StageInTest
	StageQueuedVerify
	StageInVerify
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageArrived:
		return "arrived"
	case StageQueuedReg:
		return "queued_reg"
	case StageInReg:
		return "in_reg"
	case StageQueuedSample:
		return "queued_sample"
	case StageInSample:
		return "in_sample"
	case StageQueuedTest:
		return "queued_test"
	case StageInTest:
		return "in_test"
	case StageQueuedVerify:
		return "queued_verify"
	case StageInVerify:
		return "in_verify"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Patient models a single patient's path through the laboratory.
// Identity fields (PID, Priority, TestType, ArrivalTime) are fixed at
// arrival; wait and service fields are set once as the corresponding stage
// completes and never change afterwards.
type Patient struct {
	PID         int64
	Priority    PriorityClass
	TestType    TestType
	ArrivalTime float64 // simulation minutes

	Stage    Stage
	queuedAt float64 // time the current stage's queue was entered

	WaitReg     float64
	WaitSample  float64
	WaitMachine float64
	WaitVerify  float64

	ServiceReg     float64
	ServiceSample  float64
	ServiceMachine float64
	ServiceVerify  float64

	FinishTime float64
	SystemTime float64 // FinishTime - ArrivalTime, set on completion
}

// This method returns a human-readable string representation of a Patient.
func (p Patient) String() string {
	return fmt.Sprintf("Patient: (PID: %d, Priority: %s, Test: %s, Stage: %s, ArrivalTime: %.2f)",
		p.PID, p.Priority, p.TestType, p.Stage, p.ArrivalTime)
}
