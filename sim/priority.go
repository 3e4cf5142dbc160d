package sim

import (
	"fmt"
	"sort"
	"strings"
)

// PriorityQueues groups ready processes by priority value, FIFO within each group.
// Lower values are served first. Empty groups are pruned so selection cost is
// proportional to the number of active priorities.
type PriorityQueues struct {
	levels []int               // active priority values, ascending
	groups map[int]*ReadyQueue // priority value -> FIFO of processes at that priority
}

// NewPriorityQueues creates an empty set of priority groups.
func NewPriorityQueues() *PriorityQueues {
	return &PriorityQueues{groups: make(map[int]*ReadyQueue)}
}

// Enqueue appends p to the back of its priority group, creating the group if needed.
func (pq *PriorityQueues) Enqueue(p *Process) {
	q, ok := pq.groups[p.Priority]
	if !ok {
		q = &ReadyQueue{}
		pq.groups[p.Priority] = q
		i := sort.SearchInts(pq.levels, p.Priority)
		pq.levels = append(pq.levels, 0)
		copy(pq.levels[i+1:], pq.levels[i:])
		pq.levels[i] = p.Priority
	}
	q.Enqueue(p)
}

// Dequeue removes and returns the front process of the lowest-valued priority group.
// Returns nil if every group is empty.
func (pq *PriorityQueues) Dequeue() *Process {
	pq.prune()
	if len(pq.levels) == 0 {
		return nil
	}
	p := pq.groups[pq.levels[0]].Dequeue()
	pq.prune()
	return p
}

// Len returns the total number of queued processes across all groups.
func (pq *PriorityQueues) Len() int {
	n := 0
	for _, q := range pq.groups {
		n += q.Len()
	}
	return n
}

// prune drops groups that have become empty.
func (pq *PriorityQueues) prune() {
	kept := pq.levels[:0]
	for _, level := range pq.levels {
		if pq.groups[level].Len() == 0 {
			delete(pq.groups, level)
			continue
		}
		kept = append(kept, level)
	}
	pq.levels = kept
}

func (pq *PriorityQueues) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, level := range pq.levels {
		fmt.Fprintf(&sb, "%d:%s", level, pq.groups[level])
		if i < len(pq.levels)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("}")
	return sb.String()
}
