package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulated minutes) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// ArrivalEvent represents the arrival of a new patient at the laboratory.
// It is self-rescheduling: executing one arrival schedules the next at the
// sampled inter-arrival gap, so arrivals continue until the horizon stops
// the clock.
type ArrivalEvent struct {
	time float64 // simulation time of arrival (in minutes)
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute admits the next patient and schedules the following arrival.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	sim.handleArrival(e.time)
}

// ServiceDoneEvent fires when a patient's sampled service duration at its
// current stage has elapsed. Executing it releases the stage's resource
// slot (granting it to the head waiter in the same instant) and moves the
// patient to its next stage.
type ServiceDoneEvent struct {
	time    float64
	Patient *Patient
}

// Timestamp returns the scheduled time of the ServiceDoneEvent.
func (e *ServiceDoneEvent) Timestamp() float64 {
	return e.time
}

// Execute the ServiceDoneEvent.
func (e *ServiceDoneEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< ServiceDone: patient %d leaves %s at %.2f", e.Patient.PID, e.Patient.Stage, e.time)
	sim.completeService(e.Patient, e.time)
}
