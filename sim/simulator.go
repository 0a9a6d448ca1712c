// sim/simulator.go
package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// eventEntry pairs an Event with the sequence number it was scheduled under.
// The sequence breaks timestamp ties, so same-instant events fire in the
// order they were scheduled.
type eventEntry struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by (timestamp,
// scheduling sequence).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []eventEntry

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, the resource
// pools, and the event loop. Time is logical: the clock jumps from one event
// timestamp to the next, never decreasing.
type Simulator struct {
	Clock   float64
	Horizon float64
	Config  Config

	// EventQueue holds all pending events: arrivals and service completions
	EventQueue EventQueue
	nextSeq    uint64

	Sampler *Sampler

	// The five resource pools. Registration and SamplingStaff are shared by
	// all patients; the two machine pools are disjoint by test type;
	// Verification is nil when the verification stage is disabled.
	Registration  *PriorityResource
	SamplingStaff *PriorityResource
	FastMachines  *PriorityResource
	SlowMachines  *PriorityResource
	Verification  *PriorityResource

	// Log accumulates completed patients. It is owned by the simulator and
	// passed by handle to the lifecycle code; no package-level state.
	Log *EventLog

	nextPID int64
}

// NewSimulator builds the resource network for cfg and seeds the sampler.
// cfg must already be validated; RunSimulation does this for callers.
func NewSimulator(cfg Config, seed int64) *Simulator {
	s := &Simulator{
		Clock:         0,
		Horizon:       cfg.Horizon,
		Config:        cfg,
		EventQueue:    make(EventQueue, 0),
		Sampler:       NewSampler(seed),
		Registration:  NewPriorityResource("registration", cfg.RegistrationCapacity),
		SamplingStaff: NewPriorityResource("sampling", cfg.SamplingCapacity),
		FastMachines:  NewPriorityResource("fast-machines", cfg.FastMachineCapacity),
		SlowMachines:  NewPriorityResource("slow-machines", cfg.SlowMachineCapacity),
		Log:           NewEventLog(),
	}
	if cfg.VerificationEnabled {
		s.Verification = NewPriorityResource("verification", cfg.VerificationCapacity)
	}
	return s
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, eventEntry{ev: ev, seq: sim.nextSeq})
	sim.nextSeq++
}

// Run drives the event loop until the horizon. Events timestamped at or past
// the horizon never execute: patients still mid-lifecycle at that point are
// abandoned and their partial state is not logged.
func (sim *Simulator) Run() {
	sim.Schedule(&ArrivalEvent{time: 0})

	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		entry := heap.Pop(&sim.EventQueue).(eventEntry)
		if entry.ev.Timestamp() >= sim.Horizon {
			break
		}
		// advance the clock
		sim.Clock = entry.ev.Timestamp()
		logrus.Debugf("[t %8.2f] Executing %T", sim.Clock, entry.ev)
		// process the event
		entry.ev.Execute(sim)
	}
	sim.Clock = sim.Horizon
	logrus.Debugf("[t %8.2f] Simulation ended", sim.Clock)
}

// RunSimulation validates cfg, runs a full simulation with the given seed,
// and returns the accumulated log. This is the single entry point exposed to
// consumers of the engine; identical (cfg, seed) pairs yield identical logs.
func RunSimulation(cfg Config, seed int64) (*EventLog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := NewSimulator(cfg, seed)
	s.Run()
	return s.Log, nil
}
