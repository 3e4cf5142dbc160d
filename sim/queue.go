// Implements the ReadyQueue, which holds admitted processes waiting for the CPU.
// Processes are enqueued on admission and re-enqueued on preemption.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of processes eligible for dispatch.
// Order is admission order; selection policies may remove from any position.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: process must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprint(p.PID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Dequeue removes and returns the process at the front of the queue, or nil if empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue[0] = nil
	rq.queue = rq.queue[1:]
	return p
}

// RemoveAt removes and returns the process at index i, preserving the order of the rest.
func (rq *ReadyQueue) RemoveAt(i int) *Process {
	if i < 0 || i >= len(rq.queue) {
		panic(fmt.Sprintf("RemoveAt: index %d out of range [0,%d)", i, len(rq.queue)))
	}
	p := rq.queue[i]
	rq.queue = append(rq.queue[:i], rq.queue[i+1:]...)
	return p
}

// SelectMin removes and returns the first process p for which no other process q
// satisfies less(q, p). Ties keep admission order. Returns nil if the queue is empty.
func (rq *ReadyQueue) SelectMin(less func(a, b *Process) bool) *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(rq.queue); i++ {
		if less(rq.queue[i], rq.queue[best]) {
			best = i
		}
	}
	return rq.RemoveAt(best)
}
