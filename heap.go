package desim

import (
	"container/heap"
	"sort"
)

// EventHeap is the global event list: a min-priority structure keyed by
// (receive_time ASC, receiver.priority_key ASC, receiver.identifier ASC,
// sequence_number ASC). priorityOf resolves a receiver name to its
// registered priority_key; the heap has no other knowledge of registered
// objects.
type EventHeap struct {
	inner *innerHeap
}

// NewEventHeap constructs an empty heap. priorityOf must return the
// priority_key of any receiver name that will ever be pushed.
func NewEventHeap(priorityOf func(receiver string) int) *EventHeap {
	ih := &innerHeap{priorityOf: priorityOf}
	heap.Init(ih)
	return &EventHeap{inner: ih}
}

// Push inserts e. Complexity O(log n).
func (h *EventHeap) Push(e Event) {
	heap.Push(h.inner, e)
}

// PeekTime returns the receive_time of the minimum event and true, or
// (0, false) if the heap is empty.
func (h *EventHeap) PeekTime() (float64, bool) {
	if h.IsEmpty() {
		return 0, false
	}
	return h.inner.items[0].ReceiveTime, true
}

// PopFrontier pops and returns every event sharing the minimum's
// receive_time AND receiver — the batching unit the Dispatcher consumes.
// Events for other receivers, even at the same receive_time, are left in
// the heap for a subsequent PopFrontier call. The returned slice is
// ordered by (sender priority_key, sender name, sequence_number).
func (h *EventHeap) PopFrontier() []Event {
	if h.IsEmpty() {
		return nil
	}
	first := heap.Pop(h.inner).(Event)
	frontier := []Event{first}
	for !h.IsEmpty() && h.inner.items[0].ReceiveTime == first.ReceiveTime && h.inner.items[0].Receiver == first.Receiver {
		frontier = append(frontier, heap.Pop(h.inner).(Event))
	}
	sort.SliceStable(frontier, func(i, j int) bool {
		a, b := frontier[i], frontier[j]
		pa, pb := h.inner.priorityOf(a.Sender), h.inner.priorityOf(b.Sender)
		if pa != pb {
			return pa < pb
		}
		if a.Sender != b.Sender {
			return a.Sender < b.Sender
		}
		return a.SequenceNumber < b.SequenceNumber
	})
	return frontier
}

// IsEmpty reports whether the heap holds no events.
func (h *EventHeap) IsEmpty() bool { return len(h.inner.items) == 0 }

// Len returns the number of pending events.
func (h *EventHeap) Len() int { return len(h.inner.items) }

// Snapshot returns a copy of the pending events in ordering-key order,
// for use by SnapshotHeap. The heap itself is left unchanged.
func (h *EventHeap) Snapshot() []Event {
	tmp := &innerHeap{items: make([]Event, len(h.inner.items)), priorityOf: h.inner.priorityOf}
	copy(tmp.items, h.inner.items)
	out := make([]Event, 0, len(tmp.items))
	for tmp.Len() > 0 {
		out = append(out, heap.Pop(tmp).(Event))
	}
	return out
}

// innerHeap implements container/heap.Interface over Event values using
// the shared ordering key. It is unexported: EventHeap is the public API.
type innerHeap struct {
	items      []Event
	priorityOf func(receiver string) int
}

func (h *innerHeap) Len() int { return len(h.items) }

func (h *innerHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.ReceiveTime != b.ReceiveTime {
		return a.ReceiveTime < b.ReceiveTime
	}
	pa, pb := h.priorityOf(a.Receiver), h.priorityOf(b.Receiver)
	if pa != pb {
		return pa < pb
	}
	if a.Receiver != b.Receiver {
		return a.Receiver < b.Receiver
	}
	return a.SequenceNumber < b.SequenceNumber
}

func (h *innerHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *innerHeap) Push(x any) { h.items = append(h.items, x.(Event)) }

func (h *innerHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}
