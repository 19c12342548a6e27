package desim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

const tickVariant = "tick"

type tickMsg struct{}

func (tickMsg) Variant() string { return tickVariant }

type simulatorBDDContext struct {
	sim      *Simulator
	counter  *Base
	ticks    int
	sender   *Base
	receiver *Base
	observed []float64
	schedErr error
}

func (c *simulatorBDDContext) reset() {
	*c = simulatorBDDContext{}
}

func (c *simulatorBDDContext) aSimulatorWithOneRegisteredCounterObject() error {
	c.reset()
	c.sim = NewSimulator(WithLogger(NewNoopLogger()))
	c.counter = NewBase("counter", WithSentVariants(tickVariant))
	c.counter.handlers[tickVariant] = func(ev Event) error {
		c.ticks++
		return c.counter.SendEvent(1, c.counter.Name(), tickMsg{})
	}
	return c.sim.AddObject(c.counter)
}

func (c *simulatorBDDContext) theObjectHasScheduledOneEventToItselfAtTime1() error {
	return c.counter.SendEvent(1, c.counter.Name(), tickMsg{})
}

func (c *simulatorBDDContext) aSimulatorWithASenderObjectAndAReceiverObject() error {
	c.reset()
	c.sim = NewSimulator(WithLogger(NewNoopLogger()))
	c.sender = NewBase("sender", WithSentVariants(tickVariant))
	c.receiver = NewBase("receiver")
	c.receiver.handlers[tickVariant] = func(ev Event) error {
		c.observed = append(c.observed, ev.ReceiveTime)
		return nil
	}
	if err := c.sim.AddObject(c.sender); err != nil {
		return err
	}
	return c.sim.AddObject(c.receiver)
}

func (c *simulatorBDDContext) theSenderHasScheduledThreeEventsToTheReceiverAtTimes123() error {
	for _, t := range []float64{1, 2, 3} {
		if err := c.sender.SendEventAt(t, c.receiver.Name(), tickMsg{}); err != nil {
			return err
		}
	}
	return nil
}

func (c *simulatorBDDContext) aStopConditionThatTriggersAfterNTicks(n int) error {
	c.sim.SetStopCondition(func() bool { return c.ticks >= n })
	return nil
}

func (c *simulatorBDDContext) theSimulatorRunsWithAMaxTimeOf(maxTime float64) error {
	if err := c.sim.Initialize(); err != nil {
		return err
	}
	_, err := c.sim.Run(maxTime)
	return err
}

func (c *simulatorBDDContext) theObjectAttemptsToScheduleAnEventAtATimeBeforeTheCurrentTime() error {
	if err := c.sim.Initialize(); err != nil {
		return err
	}
	c.schedErr = c.counter.SendEventAt(-1, c.counter.Name(), tickMsg{})
	return nil
}

func (c *simulatorBDDContext) theRunShouldTerminateBecauseMaxTimeWasReached() error {
	summary, _ := c.sim.LatestSummary()
	if summary.TerminationReason != TerminationMaxTimeReached {
		return fmt.Errorf("expected max_time_reached, got %s", summary.TerminationReason)
	}
	return nil
}

func (c *simulatorBDDContext) theRunShouldTerminateBecauseOfTheStopCondition() error {
	summary, _ := c.sim.LatestSummary()
	if summary.TerminationReason != TerminationStopCondition {
		return fmt.Errorf("expected stop_condition, got %s", summary.TerminationReason)
	}
	return nil
}

func (c *simulatorBDDContext) theObjectShouldHaveObservedNEvents(n int) error {
	if c.ticks != n {
		return fmt.Errorf("expected %d ticks, got %d", n, c.ticks)
	}
	return nil
}

func (c *simulatorBDDContext) theReceiverShouldHaveObservedTheEventsInTimeOrder() error {
	if len(c.observed) != 3 {
		return fmt.Errorf("expected 3 observed events, got %d", len(c.observed))
	}
	for i := 1; i < len(c.observed); i++ {
		if c.observed[i] < c.observed[i-1] {
			return fmt.Errorf("observed out of order: %v", c.observed)
		}
	}
	return nil
}

func (c *simulatorBDDContext) schedulingShouldFailWithAPastSchedulingError() error {
	if c.schedErr == nil {
		return fmt.Errorf("expected a past scheduling error, got nil")
	}
	if !errors.Is(c.schedErr, ErrPastScheduling) {
		return fmt.Errorf("expected a past scheduling error, got %v", c.schedErr)
	}
	return nil
}

func initializeSimulatorScenario(sc *godog.ScenarioContext) {
	c := &simulatorBDDContext{}

	sc.Given(`^a simulator with one registered counter object$`, c.aSimulatorWithOneRegisteredCounterObject)
	sc.Given(`^the object has scheduled one event to itself at time 1$`, c.theObjectHasScheduledOneEventToItselfAtTime1)
	sc.Given(`^a simulator with a sender object and a receiver object$`, c.aSimulatorWithASenderObjectAndAReceiverObject)
	sc.Given(`^the sender has scheduled three events to the receiver at times 1, 2, and 3$`, c.theSenderHasScheduledThreeEventsToTheReceiverAtTimes123)
	sc.Given(`^a stop condition that triggers after (\d+) ticks$`, c.aStopConditionThatTriggersAfterNTicks)

	sc.When(`^the simulator runs with a max time of (\d+)$`, c.theSimulatorRunsWithAMaxTimeOf)
	sc.When(`^the object attempts to schedule an event at a time before the current time$`, c.theObjectAttemptsToScheduleAnEventAtATimeBeforeTheCurrentTime)

	sc.Then(`^the run should terminate because max time was reached$`, c.theRunShouldTerminateBecauseMaxTimeWasReached)
	sc.Then(`^the run should terminate because of the stop condition$`, c.theRunShouldTerminateBecauseOfTheStopCondition)
	sc.Then(`^the object should have observed (\d+) events$`, c.theObjectShouldHaveObservedNEvents)
	sc.Then(`^the receiver should have observed the events in time order$`, c.theReceiverShouldHaveObservedTheEventsInTimeOrder)
	sc.Then(`^scheduling should fail with a past scheduling error$`, c.schedulingShouldFailWithAPastSchedulingError)
}

func TestSimulatorFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeSimulatorScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/simulator.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
