package engine

import "container/heap"

// PendingAction is a taker Action enqueued with its computed arrival
// latency, waiting in the Scheduler's priority queue for its fill_ts to be
// reached by the advancing book timestamp.
type PendingAction struct {
	Action         Action
	FillTs         int64
	SubmitSeq      int64
	OrderID        int64
	Crossing       bool
	TargetNotional float64

	index int // heap bookkeeping
}

// pendingHeap orders by FillTs ascending, tie-broken by SubmitSeq. It is
// never edited in place for cancellation — see terminalOrCancelled in scheduler.go:
// a drained heap entry for a terminal order is filtered lazily, not an error.
type pendingHeap []*PendingAction

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].FillTs != h[j].FillTs {
		return h[i].FillTs < h[j].FillTs
	}
	return h[i].SubmitSeq < h[j].SubmitSeq
}
func (h pendingHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *pendingHeap) Push(x interface{}) {
	pa := x.(*PendingAction)
	pa.index = len(*h)
	*h = append(*h, pa)
}
func (h *pendingHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*pendingHeap)(nil)

// AdverseSelectionSample is a deferred measurement: how far the mid moved
// against a maker fill by target_ts, back-annotated onto the fill row once
// resolved.
type AdverseSelectionSample struct {
	MidAtFill    float64
	Side         Side
	FillRowIndex int
	TargetTs     int64
}
