// Implements the PriorityResource, a capacity-bounded server pool with a
// priority-ordered admission queue. Patients wait here between stages.

package sim

import (
	"container/heap"
	"fmt"
)

// pendingRequest is one suspended acquisition attempt. seq is assigned from a
// pool-wide counter at submission, so (class, seq) is a total order: strict
// FIFO within a class, Expedited ahead of Normal across classes.
type pendingRequest struct {
	patient *Patient
	class   PriorityClass
	seq     uint64
}

// requestHeap implements heap.Interface ordered by (class asc, seq asc).
// See the EventQueue in simulator.go for the same container/heap pattern.
type requestHeap []*pendingRequest

func (h requestHeap) Len() int { return len(h) }
func (h requestHeap) Less(i, j int) bool {
	if h[i].class != h[j].class {
		return h[i].class < h[j].class
	}
	return h[i].seq < h[j].seq
}
func (h requestHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *requestHeap) Push(x any) {
	*h = append(*h, x.(*pendingRequest))
}

func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// PriorityResource models a pool of identical servers (staff or machines)
// with fixed capacity. A request either takes a free slot immediately or
// joins the wait queue; a release hands the freed slot to the head of the
// queue in the same time instant. Capacity never changes during a run, and
// in-progress service is never preempted.
type PriorityResource struct {
	Name     string
	Capacity int

	held    int
	nextSeq uint64
	waiting requestHeap
}

// NewPriorityResource creates a pool with the given capacity.
// Capacity must be positive; Config.Validate enforces this before a run.
func NewPriorityResource(name string, capacity int) *PriorityResource {
	if capacity <= 0 {
		panic(fmt.Sprintf("NewPriorityResource %s: capacity must be positive, got %d", name, capacity))
	}
	return &PriorityResource{
		Name:     name,
		Capacity: capacity,
		waiting:  make(requestHeap, 0),
	}
}

// Request attempts to acquire a slot for p. It returns true when a free slot
// was taken immediately; otherwise the patient is enqueued by
// (priority class, submission order) and false is returned. The caller is
// resumed later through Release.
func (r *PriorityResource) Request(p *Patient) bool {
	if r.held < r.Capacity {
		r.held++
		return true
	}
	req := &pendingRequest{patient: p, class: p.Priority, seq: r.nextSeq}
	r.nextSeq++
	heap.Push(&r.waiting, req)
	return false
}

// Release frees one held slot. If patients are waiting, the slot is handed to
// the highest-priority, earliest-queued one without ever becoming free: the
// granted patient is returned so the simulator can start its service in the
// same time instant, before the releasing patient moves on. Returns nil when
// the queue is empty.
func (r *PriorityResource) Release() *Patient {
	if r.held <= 0 {
		panic(fmt.Sprintf("Release on %s: no slot held", r.Name))
	}
	if len(r.waiting) > 0 {
		next := heap.Pop(&r.waiting).(*pendingRequest)
		return next.patient
	}
	r.held--
	return nil
}

// Held returns the number of currently occupied slots.
func (r *PriorityResource) Held() int {
	return r.held
}

// QueueLen returns the number of suspended requests.
func (r *PriorityResource) QueueLen() int {
	return len(r.waiting)
}
