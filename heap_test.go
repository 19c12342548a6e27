package desim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func priorityTable(priorities map[string]int) func(string) int {
	return func(receiver string) int {
		return priorities[receiver]
	}
}

func TestEventHeapOrdersByReceiveTime(t *testing.T) {
	h := NewEventHeap(priorityTable(nil))
	h.Push(Event{ReceiveTime: 3, Receiver: "a", SequenceNumber: 0})
	h.Push(Event{ReceiveTime: 1, Receiver: "a", SequenceNumber: 1})
	h.Push(Event{ReceiveTime: 2, Receiver: "a", SequenceNumber: 2})

	t1, ok := h.PeekTime()
	require.True(t, ok)
	require.Equal(t, 1.0, t1)

	frontier := h.PopFrontier()
	require.Len(t, frontier, 1)
	require.Equal(t, uint64(1), frontier[0].SequenceNumber)
}

func TestEventHeapBreaksTimeTiesByReceiverPriority(t *testing.T) {
	priorities := map[string]int{"low": 0, "high": 5}
	h := NewEventHeap(priorityTable(priorities))
	h.Push(Event{ReceiveTime: 1, Receiver: "high", SequenceNumber: 0})
	h.Push(Event{ReceiveTime: 1, Receiver: "low", SequenceNumber: 1})

	frontier := h.PopFrontier()
	require.Len(t, frontier, 1)
	require.Equal(t, "low", frontier[0].Receiver)
}

func TestPopFrontierBatchesSameReceiverSameTime(t *testing.T) {
	h := NewEventHeap(priorityTable(nil))
	h.Push(Event{ReceiveTime: 5, Receiver: "a", SequenceNumber: 2})
	h.Push(Event{ReceiveTime: 5, Receiver: "a", SequenceNumber: 0})
	h.Push(Event{ReceiveTime: 5, Receiver: "a", SequenceNumber: 1})
	h.Push(Event{ReceiveTime: 5, Receiver: "b", SequenceNumber: 3})

	frontier := h.PopFrontier()
	require.Len(t, frontier, 3)
	require.Equal(t, uint64(0), frontier[0].SequenceNumber)
	require.Equal(t, uint64(1), frontier[1].SequenceNumber)
	require.Equal(t, uint64(2), frontier[2].SequenceNumber)
	require.Equal(t, 1, h.Len())

	remaining := h.PopFrontier()
	require.Len(t, remaining, 1)
	require.Equal(t, "b", remaining[0].Receiver)
}

func TestEventHeapEmpty(t *testing.T) {
	h := NewEventHeap(priorityTable(nil))
	require.True(t, h.IsEmpty())
	_, ok := h.PeekTime()
	require.False(t, ok)
	require.Nil(t, h.PopFrontier())
}

func TestEventHeapSnapshotDoesNotMutate(t *testing.T) {
	h := NewEventHeap(priorityTable(nil))
	h.Push(Event{ReceiveTime: 1, Receiver: "a"})
	h.Push(Event{ReceiveTime: 2, Receiver: "a"})

	snap := h.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, 2, h.Len())
}
