// Package sim provides the discrete-event simulation engine for a
// multi-stage clinical laboratory, modelled as a queueing network.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - patient.go: Patient lifecycle (arrived → queued/in-service per stage → done)
//   - event.go: Event types that drive the simulation (Arrival, ServiceDone)
//   - simulator.go: The event loop, clock, and resource network wiring
//
// # Architecture
//
// The engine is a single logical timeline: all patient processes are
// multiplexed onto one clock through explicit suspension points. A patient
// suspends only while waiting for a resource slot (resource.go) or while its
// service timeout runs; the event loop (simulator.go) delivers resumptions
// in (timestamp, scheduling order). Resource releases hand freed slots to
// waiters synchronously in the same instant. No locking is needed:
// mutation is serialized by construction.
//
// Output flows one way: sampling (rng.go) → lifecycle (lifecycle.go) →
// EventLog (eventlog.go) → Summarize/AnalyzeBottleneck/EstimateUtilization
// (stats.go, analysis.go) → the external presentation layer. RunSimulation
// is the only entry point; given the same Config and seed it produces a
// byte-identical EventLog.
package sim
