package desim

// EventMessage is the typed payload carried by one Event. Concrete variants
// are plain structs declared by user code; Variant returns a discriminant
// used to route the message to a handler without any reflection over a
// class hierarchy.
//
// Messages are moved from sender to receiver, never copied by the engine.
// Payload fields should be treated as immutable once constructed.
type EventMessage interface {
	// Variant returns the discriminant used for handler-table lookup and
	// for validating a sender's declared send-list.
	Variant() string
}

// Event is the scheduling record produced by SendEvent/SendEventAt. It is
// opaque to user code: the only way to observe one is through the sender
// name, creation time, receive time, and message exposed to a handler at
// dispatch time.
type Event struct {
	CreationTime   float64
	ReceiveTime    float64
	Sender         string
	Receiver       string
	Message        EventMessage
	SequenceNumber uint64
}

// Variant is a convenience accessor equivalent to e.Message.Variant().
func (e Event) Variant() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Variant()
}
