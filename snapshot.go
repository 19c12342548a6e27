package desim

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrNoMessageFactory is returned by DecodeWith when called with a nil
// factory while the heap still holds undecoded rawMessage placeholders.
var ErrNoMessageFactory = errors.New("no message factory registered for variant")

// MessageFactory returns a zero-valued, addressable EventMessage for
// variant so DecodeWith can unmarshal a snapshot payload into it. It
// should return a pointer-typed EventMessage (e.g. &PingMessage{}).
type MessageFactory func(variant string) (EventMessage, error)

// EventRecord is the YAML-serializable projection of an Event used by
// SnapshotHeap/RestoreHeap. Payload holds the message re-encoded as
// YAML; Variant records which concrete type to decode it into.
type EventRecord struct {
	CreationTime   float64 `yaml:"creation_time"`
	ReceiveTime    float64 `yaml:"receive_time"`
	Sender         string  `yaml:"sender"`
	Receiver       string  `yaml:"receiver"`
	Variant        string  `yaml:"variant"`
	Payload        string  `yaml:"payload"`
	SequenceNumber uint64  `yaml:"sequence_number"`
}

func eventToRecord(e Event) EventRecord {
	payload, _ := yaml.Marshal(e.Message)
	return EventRecord{
		CreationTime:   e.CreationTime,
		ReceiveTime:    e.ReceiveTime,
		Sender:         e.Sender,
		Receiver:       e.Receiver,
		Variant:        e.Variant(),
		Payload:        string(payload),
		SequenceNumber: e.SequenceNumber,
	}
}

func recordToEvent(rec EventRecord) (Event, error) {
	return Event{
		CreationTime:   rec.CreationTime,
		ReceiveTime:    rec.ReceiveTime,
		Sender:         rec.Sender,
		Receiver:       rec.Receiver,
		Message:        &rawMessage{variant: rec.Variant, payload: rec.Payload},
		SequenceNumber: rec.SequenceNumber,
	}, nil
}

// rawMessage is the placeholder EventMessage RestoreHeap produces for
// every restored event; RestoreHeap takes no MessageFactory. DecodeWith
// upgrades it to its original concrete type once a factory is known.
type rawMessage struct {
	variant string
	payload string
}

func (r *rawMessage) Variant() string { return r.variant }

// DecodeWith decodes every rawMessage still sitting in the heap into its
// original concrete type using factory, in place. Call after
// RestoreHeap if records were restored without one.
func (s *Simulator) DecodeWith(factory MessageFactory) error {
	restored := s.heap.Snapshot()
	s.heap = NewEventHeap(s.priorityOf)
	for _, e := range restored {
		raw, ok := e.Message.(*rawMessage)
		if ok {
			if factory == nil {
				return fmt.Errorf("desim: variant %q: %w", raw.variant, ErrNoMessageFactory)
			}
			msg, err := factory(raw.variant)
			if err != nil {
				return fmt.Errorf("desim: decoding variant %q: %w", raw.variant, err)
			}
			if err := yaml.Unmarshal([]byte(raw.payload), msg); err != nil {
				return fmt.Errorf("desim: unmarshaling variant %q: %w", raw.variant, err)
			}
			e.Message = msg
		}
		s.heap.Push(e)
	}
	return nil
}
