package desim

// dispatch delivers frontier — every event tied at one receive_time for a
// single receiver — to obj:
//
//  1. If obj declares a batch handler, it is invoked once with the whole
//     frontier (already ordered by sender priority, sender name, and
//     sequence number).
//  2. Otherwise each event is delivered to its per-variant handler in
//     frontier order. A missing handler is a fatal dispatch error.
//
// Any error returned from user code is wrapped in UserHandlerError; a
// missing handler is returned as-is so the run loop can classify it as a
// dispatch error rather than a user error.
func dispatch(obj Object, frontier []Event) error {
	if bh := obj.BatchHandler(); bh != nil {
		if err := bh(frontier); err != nil {
			return UserHandlerError(err)
		}
		return nil
	}

	handlers := obj.Handlers()
	for _, ev := range frontier {
		h, ok := handlers[ev.Variant()]
		if !ok {
			return NoHandlerForVariant(obj.Name(), ev.Variant())
		}
		if err := h(ev); err != nil {
			return UserHandlerError(err)
		}
	}
	return nil
}
