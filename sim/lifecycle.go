// Drives the patient state machine:
//
//	ARRIVED -> QUEUED_REG -> IN_REG -> QUEUED_SAMPLE -> IN_SAMPLE
//	        -> QUEUED_TEST -> IN_TEST [-> QUEUED_VERIFY -> IN_VERIFY] -> DONE
//
// Each stage acquires one resource slot, holds it for a sampled service
// duration, and releases it. The patient suspends only at two points: while
// waiting for a slot and while its service timeout runs; resumption is
// delivered by the event loop, so a patient is always either queued or in
// service, never idle.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// stageResource maps the patient's current stage to the pool it contends
// for. The test stage selects one of the two disjoint machine pools by the
// patient's test type.
func (sim *Simulator) stageResource(p *Patient) *PriorityResource {
	switch p.Stage {
	case StageQueuedReg, StageInReg:
		return sim.Registration
	case StageQueuedSample, StageInSample:
		return sim.SamplingStaff
	case StageQueuedTest, StageInTest:
		if p.TestType == TestFast {
			return sim.FastMachines
		}
		return sim.SlowMachines
	case StageQueuedVerify, StageInVerify:
		return sim.Verification
	default:
		panic(fmt.Sprintf("stageResource: patient %d in non-resource stage %s", p.PID, p.Stage))
	}
}

// beginPatient starts a newly arrived patient at the registration queue.
func (sim *Simulator) beginPatient(p *Patient, now float64) {
	sim.enterQueue(p, StageQueuedReg, now)
}

// enterQueue moves the patient into a queued stage and submits its resource
// request. When a slot is free the request is granted in the same instant
// (zero wait); otherwise the patient stays suspended until a release grants
// it.
func (sim *Simulator) enterQueue(p *Patient, stage Stage, now float64) {
	p.Stage = stage
	p.queuedAt = now
	res := sim.stageResource(p)
	if res.Request(p) {
		sim.startService(p, now)
	} else {
		logrus.Debugf("   patient %d waiting on %s (%d ahead)", p.PID, res.Name, res.QueueLen())
	}
}

// startService runs when the patient's slot is granted: it records the stage
// wait, samples the service duration, and schedules the completion event.
// Waits are (grant time - queue entry time), strictly >= 0.
func (sim *Simulator) startService(p *Patient, now float64) {
	wait := now - p.queuedAt

	var triple ServiceTriple
	switch p.Stage {
	case StageQueuedReg:
		p.WaitReg = wait
		p.Stage = StageInReg
		triple = sim.Config.ServiceTimes.Registration
	case StageQueuedSample:
		p.WaitSample = wait
		p.Stage = StageInSample
		triple = sim.Config.ServiceTimes.Sampling
	case StageQueuedTest:
		p.WaitMachine = wait
		p.Stage = StageInTest
		if p.TestType == TestFast {
			triple = sim.Config.ServiceTimes.TestFast
		} else {
			triple = sim.Config.ServiceTimes.TestSlow
		}
	case StageQueuedVerify:
		p.WaitVerify = wait
		p.Stage = StageInVerify
		triple = sim.Config.ServiceTimes.Verification
	default:
		panic(fmt.Sprintf("startService: patient %d not in a queued stage, got %s", p.PID, p.Stage))
	}

	dur := sim.Sampler.ServiceDuration(triple)
	switch p.Stage {
	case StageInReg:
		p.ServiceReg = dur
	case StageInSample:
		p.ServiceSample = dur
	case StageInTest:
		p.ServiceMachine = dur
	case StageInVerify:
		p.ServiceVerify = dur
	}

	logrus.Debugf("   patient %d starts %s at %.2f (waited %.2f, service %.2f)", p.PID, p.Stage, now, wait, dur)
	sim.Schedule(&ServiceDoneEvent{time: now + dur, Patient: p})
}

// completeService releases the stage's slot and advances the patient. The
// release grants the freed slot to the head waiter synchronously, in the
// same time instant, before the releasing patient moves to its next stage;
// a freed slot is never invisible to a waiting peer.
func (sim *Simulator) completeService(p *Patient, now float64) {
	res := sim.stageResource(p)
	if granted := res.Release(); granted != nil {
		sim.startService(granted, now)
	}

	switch p.Stage {
	case StageInReg:
		sim.enterQueue(p, StageQueuedSample, now)
	case StageInSample:
		sim.enterQueue(p, StageQueuedTest, now)
	case StageInTest:
		if sim.Verification != nil {
			sim.enterQueue(p, StageQueuedVerify, now)
		} else {
			sim.finishPatient(p, now)
		}
	case StageInVerify:
		sim.finishPatient(p, now)
	default:
		panic(fmt.Sprintf("completeService: patient %d not in service, got %s", p.PID, p.Stage))
	}
}

// finishPatient archives a completed patient. After this the patient is
// immutable: no further stage or resource acquisition happens.
func (sim *Simulator) finishPatient(p *Patient, now float64) {
	p.Stage = StageDone
	p.FinishTime = now
	p.SystemTime = now - p.ArrivalTime
	sim.Log.appendCompleted(p, sim.Config.WarmUp, sim.Verification != nil)
	logrus.Debugf("<< Done: patient %d at %.2f (system time %.2f)", p.PID, now, p.SystemTime)
}
