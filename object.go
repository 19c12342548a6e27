package desim

// HandlerFunc handles a single event addressed to an object. It may read
// the object's own state, mutate it, and schedule further events via the
// object's SendEvent/SendEventAt methods. It must never reach into another
// object's state directly.
type HandlerFunc func(ev Event) error

// BatchHandlerFunc handles every event tied at one receiver for one
// receive_time in a single call. evs is ordered by the remaining ordering
// key fields (sender priority, sender name, sequence number), stable.
type BatchHandlerFunc func(evs []Event) error

// PreRunInitFunc is called exactly once, before the first event fires.
type PreRunInitFunc func() error

// PostRunTeardownFunc is called exactly once, after the run loop halts.
type PostRunTeardownFunc func() error

// Object is the contract every simulation object satisfies. Concrete types
// embed *Base (or Base) rather than implementing Object directly: bind is
// unexported, so only embedders of Base can satisfy the interface —
// composition in place of class-hierarchy reflection.
type Object interface {
	Name() string
	PriorityKey() int
	Handlers() map[string]HandlerFunc
	BatchHandler() BatchHandlerFunc
	SentVariants() map[string]bool
	PreRunInit() error
	PostRunTeardown() error

	bind(s *Simulator)
}

// Base implements the bookkeeping every Object needs: its registered
// handler table, declared send-list, and a bound reference to the owning
// Simulator so SendEvent/SendEventAt can stage events into the heap.
// Embed it in a user type and attach handlers with BaseOptions.
type Base struct {
	name         string
	priorityKey  int
	handlers     map[string]HandlerFunc
	batchHandler BatchHandlerFunc
	sentVariants map[string]bool
	preRunInit   PreRunInitFunc
	postRun      PostRunTeardownFunc

	sim *Simulator
}

// BaseOption configures a Base at construction time.
type BaseOption func(*Base)

// NewBase constructs the embeddable base contract for a simulation object.
func NewBase(name string, opts ...BaseOption) *Base {
	b := &Base{
		name:         name,
		handlers:     make(map[string]HandlerFunc),
		sentVariants: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithPriority sets the object's priority_key used to break ties between
// simultaneous events addressed to different receivers (lower sorts first).
func WithPriority(p int) BaseOption {
	return func(b *Base) { b.priorityKey = p }
}

// WithHandler registers the handler invoked for variant when no batch
// handler is installed.
func WithHandler(variant string, h HandlerFunc) BaseOption {
	return func(b *Base) { b.handlers[variant] = h }
}

// WithBatchHandler installs a handler that replaces per-variant dispatch
// for every frontier delivered to this object.
func WithBatchHandler(h BatchHandlerFunc) BaseOption {
	return func(b *Base) { b.batchHandler = h }
}

// WithSentVariants declares the closed set of message variants this object
// is allowed to send. SendEvent/SendEventAt reject anything outside it.
func WithSentVariants(variants ...string) BaseOption {
	return func(b *Base) {
		for _, v := range variants {
			b.sentVariants[v] = true
		}
	}
}

// WithPreRunInit overrides the no-op default pre-run callback.
func WithPreRunInit(f PreRunInitFunc) BaseOption {
	return func(b *Base) { b.preRunInit = f }
}

// WithPostRunTeardown overrides the no-op default post-run callback.
func WithPostRunTeardown(f PostRunTeardownFunc) BaseOption {
	return func(b *Base) { b.postRun = f }
}

func (b *Base) Name() string { return b.name }
func (b *Base) PriorityKey() int { return b.priorityKey }
func (b *Base) Handlers() map[string]HandlerFunc { return b.handlers }
func (b *Base) BatchHandler() BatchHandlerFunc { return b.batchHandler }
func (b *Base) SentVariants() map[string]bool { return b.sentVariants }

func (b *Base) PreRunInit() error {
	if b.preRunInit == nil {
		return nil
	}
	return b.preRunInit()
}

func (b *Base) PostRunTeardown() error {
	if b.postRun == nil {
		return nil
	}
	return b.postRun()
}

func (b *Base) bind(s *Simulator) { b.sim = s }

// Time returns the simulator's current simulation time. Valid from within
// a handler or after initialize(); panics if the object has not yet been
// added to a Simulator.
func (b *Base) Time() float64 {
	b.mustBeBound()
	return b.sim.CurrentTime()
}

// SendEvent schedules message for delivery to receiver at current_time +
// delay. delay must be >= 0; delay == 0 is a simultaneous event.
func (b *Base) SendEvent(delay float64, receiver string, message EventMessage) error {
	b.mustBeBound()
	if delay < 0 {
		return NegativeDelay(delay)
	}
	return b.sim.scheduleFrom(b.name, b.sim.CurrentTime()+delay, receiver, message, b.sentVariants)
}

// SendEventAt schedules message for delivery to receiver at the absolute
// simulation time absoluteTime, which must be >= current_time.
func (b *Base) SendEventAt(absoluteTime float64, receiver string, message EventMessage) error {
	b.mustBeBound()
	now := b.sim.CurrentTime()
	if absoluteTime < now {
		return PastScheduling(now, absoluteTime)
	}
	return b.sim.scheduleFrom(b.name, absoluteTime, receiver, message, b.sentVariants)
}

func (b *Base) mustBeBound() {
	if b.sim == nil {
		panic("desim: object " + b.name + " is not registered with a Simulator")
	}
}
