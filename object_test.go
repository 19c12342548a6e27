package desim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseAccessorsReflectOptions(t *testing.T) {
	called := false
	b := NewBase("obj",
		WithPriority(3),
		WithSentVariants("foo", "bar"),
		WithHandler("foo", func(ev Event) error { return nil }),
		WithPreRunInit(func() error { called = true; return nil }),
	)

	require.Equal(t, "obj", b.Name())
	require.Equal(t, 3, b.PriorityKey())
	require.True(t, b.SentVariants()["foo"])
	require.True(t, b.SentVariants()["bar"])
	require.Contains(t, b.Handlers(), "foo")

	require.NoError(t, b.PreRunInit())
	require.True(t, called)
	require.NoError(t, b.PostRunTeardown())
}

func TestBaseSendEventPanicsWhenUnbound(t *testing.T) {
	b := NewBase("obj")
	require.Panics(t, func() {
		_ = b.SendEvent(1, "other", fooMessage{})
	})
}

func TestBaseSendEventRejectsNegativeDelay(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	b := NewBase("obj", WithSentVariants("foo"))
	require.NoError(t, sim.AddObject(b))

	err := b.SendEvent(-1, "obj", fooMessage{})
	require.ErrorIs(t, err, ErrNegativeDelay)
}

func TestBaseSendEventAtRejectsPastTime(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	b := NewBase("obj", WithSentVariants("foo"))
	require.NoError(t, sim.AddObject(b))

	err := b.SendEventAt(-1, "obj", fooMessage{})
	require.ErrorIs(t, err, ErrPastScheduling)
}

func TestBaseSendEventRejectsUndeclaredVariant(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	b := NewBase("obj")
	require.NoError(t, sim.AddObject(b))

	err := b.SendEvent(1, "obj", fooMessage{})
	require.ErrorIs(t, err, ErrUndeclaredSentVariant)
}

func TestBaseSendEventRejectsUnknownReceiver(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	b := NewBase("obj", WithSentVariants("foo"))
	require.NoError(t, sim.AddObject(b))

	err := b.SendEvent(1, "nobody", fooMessage{})
	require.ErrorIs(t, err, ErrUnknownReceiver)
}
