// Poisson arrival generation. Arrivals run for the logical lifetime of the
// run; termination is external, via the horizon check in Simulator.Run.

package sim

import "github.com/sirupsen/logrus"

// handleArrival admits a new patient and schedules the next arrival.
//
// Draw order at each arrival is fixed for determinism: priority class, test
// type, then the next inter-arrival gap. Composition counters are bumped
// here, at arrival time, so they include patients that are later truncated
// at the horizon.
func (sim *Simulator) handleArrival(now float64) {
	priority := sim.Sampler.PriorityClass(sim.Config.PriorityProbability)
	testType := sim.Sampler.TestType(sim.Config.FastProbability)

	switch priority {
	case Expedited:
		sim.Log.Counts.Expedited++
	case Normal:
		sim.Log.Counts.Normal++
	}
	switch testType {
	case TestFast:
		sim.Log.Counts.Fast++
	case TestSlow:
		sim.Log.Counts.Slow++
	}

	p := &Patient{
		PID:         sim.nextPID,
		Priority:    priority,
		TestType:    testType,
		ArrivalTime: now,
		Stage:       StageArrived,
	}
	sim.nextPID++

	logrus.Debugf("<< Arrival: patient %d [%s] test=%s at %.2f", p.PID, p.Priority, p.TestType, now)

	gap := sim.Sampler.InterarrivalGap(sim.Config.MeanInterarrival)
	sim.Schedule(&ArrivalEvent{time: now + gap})

	sim.beginPatient(p, now)
}
